package gamification

import (
	"errors"
	"fmt"
)

// ErrConfiguration 规则表配置非法，应在进程启动时失败，而不是等到请求时
var ErrConfiguration = errors.New("invalid gamification configuration")

// LevelBand 等级区间的升级成本：UpToLevel 为 0 表示开放区间（无上限）
type LevelBand struct {
	UpToLevel  int
	GpPerLevel int
}

// TitleBand 等级区间对应的称号：UpToLevel 为 0 表示开放区间
type TitleBand struct {
	UpToLevel int
	Title     string
}

// DomainKeywords 植物领域的关键词表，按优先级排序，先匹配的领域胜出
type DomainKeywords struct {
	Domain   string
	Keywords []string
}

// Rules 奖励引擎的全部可调参数。等级曲线、称号、关键词表都来自配置文件，
// 历史上存在过两套不兼容的等级表，这里统一由调用方注入
type Rules struct {
	LevelBands []LevelBand
	TitleBands []TitleBand

	StreakBonusPerDay  float64 // 每连续一天增加的 GP 倍率
	StreakBonusCap     float64 // 倍率加成上限
	FirstAttemptBonus  int     // 一次通过的固定奖励
	DailyActivityBonus int     // 当天首次活跃的固定奖励

	CompletionBonusRate float64 // 项目完成奖励占项目累计 GP 的比例
	CompletionBonusMin  int
	CompletionBonusMax  int

	GpPerSeed int // 每多少 GP 折算一枚种子

	FlowerMaxMinutes int // 小于该时长的项目种花
	BushMaxMinutes   int // 不超过该时长的项目种灌木，再往上是树

	DefaultDomain string
	Domains       []DomainKeywords
}

// DefaultRules 返回正式环境的规则表，与 configs/config.yaml 保持一致
func DefaultRules() Rules {
	return Rules{
		LevelBands: []LevelBand{
			{UpToLevel: 5, GpPerLevel: 100},
			{UpToLevel: 10, GpPerLevel: 200},
			{UpToLevel: 20, GpPerLevel: 350},
			{UpToLevel: 35, GpPerLevel: 500},
			{UpToLevel: 50, GpPerLevel: 650},
			{UpToLevel: 75, GpPerLevel: 800},
			{UpToLevel: 0, GpPerLevel: 1000},
		},
		TitleBands: []TitleBand{
			{UpToLevel: 5, Title: "Seedling"},
			{UpToLevel: 10, Title: "Sprout"},
			{UpToLevel: 20, Title: "Sapling"},
			{UpToLevel: 35, Title: "Grower"},
			{UpToLevel: 50, Title: "Cultivator"},
			{UpToLevel: 75, Title: "Gardener"},
			{UpToLevel: 100, Title: "Steward"},
			{UpToLevel: 0, Title: "Keeper"},
		},
		StreakBonusPerDay:   0.005,
		StreakBonusCap:      0.4,
		FirstAttemptBonus:   20,
		DailyActivityBonus:  10,
		CompletionBonusRate: 0.2,
		CompletionBonusMin:  100,
		CompletionBonusMax:  300,
		GpPerSeed:           5,
		FlowerMaxMinutes:    60,
		BushMaxMinutes:      180,
		DefaultDomain:       "general",
		Domains: []DomainKeywords{
			{Domain: "coding", Keywords: []string{
				"code", "coding", "program", "develop", "software", "web", "app",
				"script", "python", "javascript", "react", "html", "css",
			}},
			{Domain: "design", Keywords: []string{
				"design", "graphic", "illustrat", "colour", "color", "typography",
				"layout", "poster", "brand", "logo", "visual", "art", "draw",
				"paint", "sketch", "canvas", "svg",
			}},
			{Domain: "writing", Keywords: []string{
				"writ", "essay", "story", "blog", "journal", "report", "content",
				"copy", "edit", "author", "novel", "poem", "fiction", "prose",
			}},
			{Domain: "science", Keywords: []string{
				"science", "biology", "chemistry", "physics", "math", "statistic",
				"data", "research", "history", "geography", "nature", "plant",
				"animal", "ecology", "astro",
			}},
		},
	}
}

// Validate 校验规则表。任何一项不合法都视为 ErrConfiguration
func (r Rules) Validate() error {
	if len(r.LevelBands) == 0 {
		return fmt.Errorf("%w: level bands are empty", ErrConfiguration)
	}
	prev := 0
	for i, b := range r.LevelBands {
		if b.GpPerLevel <= 0 {
			return fmt.Errorf("%w: level band %d has non-positive gp cost", ErrConfiguration, i)
		}
		open := b.UpToLevel == 0
		if open && i != len(r.LevelBands)-1 {
			return fmt.Errorf("%w: only the last level band may be open-ended", ErrConfiguration)
		}
		if !open && b.UpToLevel <= prev {
			return fmt.Errorf("%w: level band %d boundary %d is not ascending", ErrConfiguration, i, b.UpToLevel)
		}
		if !open {
			prev = b.UpToLevel
		}
	}
	if r.LevelBands[len(r.LevelBands)-1].UpToLevel != 0 {
		return fmt.Errorf("%w: last level band must be open-ended", ErrConfiguration)
	}

	if len(r.TitleBands) == 0 {
		return fmt.Errorf("%w: title bands are empty", ErrConfiguration)
	}
	prev = 0
	for i, b := range r.TitleBands {
		if b.Title == "" {
			return fmt.Errorf("%w: title band %d has empty title", ErrConfiguration, i)
		}
		open := b.UpToLevel == 0
		if open && i != len(r.TitleBands)-1 {
			return fmt.Errorf("%w: only the last title band may be open-ended", ErrConfiguration)
		}
		if !open && b.UpToLevel <= prev {
			return fmt.Errorf("%w: title band %d boundary %d is not ascending", ErrConfiguration, i, b.UpToLevel)
		}
		if !open {
			prev = b.UpToLevel
		}
	}

	if r.StreakBonusPerDay < 0 || r.StreakBonusCap < 0 {
		return fmt.Errorf("%w: streak bonus must not be negative", ErrConfiguration)
	}
	if r.FirstAttemptBonus < 0 || r.DailyActivityBonus < 0 {
		return fmt.Errorf("%w: flat bonuses must not be negative", ErrConfiguration)
	}
	if r.CompletionBonusRate < 0 || r.CompletionBonusRate > 1 {
		return fmt.Errorf("%w: completion bonus rate %v out of range [0,1]", ErrConfiguration, r.CompletionBonusRate)
	}
	if r.CompletionBonusMin < 0 || r.CompletionBonusMax < r.CompletionBonusMin {
		return fmt.Errorf("%w: completion bonus clamp [%d,%d] is invalid", ErrConfiguration, r.CompletionBonusMin, r.CompletionBonusMax)
	}
	if r.GpPerSeed <= 0 {
		return fmt.Errorf("%w: gp per seed must be positive", ErrConfiguration)
	}
	if r.FlowerMaxMinutes <= 0 || r.BushMaxMinutes < r.FlowerMaxMinutes {
		return fmt.Errorf("%w: plant duration thresholds [%d,%d] are invalid", ErrConfiguration, r.FlowerMaxMinutes, r.BushMaxMinutes)
	}
	if r.DefaultDomain == "" {
		return fmt.Errorf("%w: default domain is empty", ErrConfiguration)
	}
	for _, d := range r.Domains {
		if d.Domain == "" {
			return fmt.Errorf("%w: domain with empty name", ErrConfiguration)
		}
		if len(d.Keywords) == 0 {
			return fmt.Errorf("%w: domain %q has no keywords", ErrConfiguration, d.Domain)
		}
	}
	return nil
}
