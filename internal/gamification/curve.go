package gamification

// LevelProgress 当前等级内的进度，用于前端进度条
type LevelProgress struct {
	Current    int     `json:"current"`
	Needed     int     `json:"needed"`
	Percentage float64 `json:"percentage"`
}

// Curve GP 与等级之间的换算。阈值按区间闭式计算，
// 等级没有上限，查询成本只与区间数量有关
type Curve struct {
	levelBands []LevelBand
	titleBands []TitleBand
}

// NewCurve 根据已校验的规则表构建曲线
func NewCurve(levelBands []LevelBand, titleBands []TitleBand) *Curve {
	return &Curve{levelBands: levelBands, titleBands: titleBands}
}

// GpToCompleteLevel 返回打满 level 级所需的累计 GP（即升到 level+1 的门槛）
func (c *Curve) GpToCompleteLevel(level int) int {
	if level <= 0 {
		return 0
	}
	total := 0
	prevUp := 0
	for _, b := range c.levelBands {
		if b.UpToLevel == 0 || level <= b.UpToLevel {
			total += (level - prevUp) * b.GpPerLevel
			return total
		}
		total += (b.UpToLevel - prevUp) * b.GpPerLevel
		prevUp = b.UpToLevel
	}
	return total
}

// LevelFromTotalGp 阈值表的反函数：累计 GP 能打满的最高等级再加一，最低为 1
func (c *Curve) LevelFromTotalGp(totalGp int) int {
	if totalGp < 0 {
		totalGp = 0
	}
	completed := 0
	remaining := totalGp
	prevUp := 0
	for _, b := range c.levelBands {
		if b.UpToLevel == 0 {
			completed += remaining / b.GpPerLevel
			break
		}
		span := b.UpToLevel - prevUp
		bandTotal := span * b.GpPerLevel
		if remaining < bandTotal {
			completed += remaining / b.GpPerLevel
			break
		}
		remaining -= bandTotal
		completed += span
		prevUp = b.UpToLevel
	}
	return completed + 1
}

// ProgressInLevel 返回当前等级内已获得/所需的 GP，百分比收敛到 [0,100]
func (c *Curve) ProgressInLevel(totalGp, level int) LevelProgress {
	if level < 1 {
		level = 1
	}
	prevThreshold := c.GpToCompleteLevel(level - 1)
	nextThreshold := c.GpToCompleteLevel(level)

	current := totalGp - prevThreshold
	if current < 0 {
		current = 0
	}
	needed := nextThreshold - prevThreshold

	pct := 0.0
	if needed > 0 {
		pct = float64(current) / float64(needed) * 100
	}
	if pct > 100 {
		pct = 100
	}
	if current > needed {
		current = needed
	}

	return LevelProgress{Current: current, Needed: needed, Percentage: pct}
}

// LevelTitle 等级称号。超出表范围时退化为最高称号，绝不报错
func (c *Curve) LevelTitle(level int) string {
	if level < 1 {
		level = 1
	}
	for _, b := range c.titleBands {
		if b.UpToLevel == 0 || level <= b.UpToLevel {
			return b.Title
		}
	}
	return c.titleBands[len(c.titleBands)-1].Title
}
