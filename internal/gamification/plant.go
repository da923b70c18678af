package gamification

import (
	"strings"
	"unicode"
)

// PlantType 花园植物的外形，由项目预估时长决定
type PlantType string

const (
	PlantFlower PlantType = "flower"
	PlantBush   PlantType = "bush"
	PlantTree   PlantType = "tree"
)

// GrowthStage 植物生长阶段，只会向前推进，不会回退
type GrowthStage string

const (
	StagePlanted  GrowthStage = "planted"
	StageGrowing  GrowthStage = "growing"
	StageBlooming GrowthStage = "blooming"
)

// stageRank 用于保证阶段单调推进
func stageRank(s GrowthStage) int {
	switch s {
	case StageGrowing:
		return 1
	case StageBlooming:
		return 2
	default:
		return 0
	}
}

// Classifier 把项目属性映射到植物类型和领域标签。
// 关键词表是内容配置，不要把领域判断写成散落的条件分支
type Classifier struct {
	flowerMaxMinutes int
	bushMaxMinutes   int
	defaultDomain    string
	domains          []DomainKeywords
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{
		flowerMaxMinutes: rules.FlowerMaxMinutes,
		bushMaxMinutes:   rules.BushMaxMinutes,
		defaultDomain:    rules.DefaultDomain,
		domains:          rules.Domains,
	}
}

// PlantType 项目时长决定植物外形：短项目是花，中等是灌木，长项目是树
func (c *Classifier) PlantType(estimatedMinutes int) PlantType {
	if estimatedMinutes < c.flowerMaxMinutes {
		return PlantFlower
	}
	if estimatedMinutes <= c.bushMaxMinutes {
		return PlantBush
	}
	return PlantTree
}

// PlantDomain 在学习意图文本里做大小写无关的关键词匹配，
// 按领域表的优先级顺序取第一个命中的领域，全部未命中时落到默认领域。
// 关键词按前缀匹配单词，例如 "writ" 可以命中 "writing"
func (c *Classifier) PlantDomain(learningIntent string) string {
	tokens := tokenize(learningIntent)
	for _, d := range c.domains {
		for _, kw := range d.Keywords {
			for _, tok := range tokens {
				if strings.HasPrefix(tok, kw) {
					return d.Domain
				}
			}
		}
	}
	return c.defaultDomain
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
