package gamification

import "math"

// GpBreakdown 单次奖励的构成，随事件下发给前端展示
type GpBreakdown struct {
	Base              int     `json:"base"`
	StreakMultiplier  float64 `json:"streakMultiplier"`
	FirstAttemptBonus int     `json:"firstAttemptBonus"`
	Total             int     `json:"total"`
}

// StreakMultiplier 连续天数对应的 GP 倍率，有上限
func (e *Engine) StreakMultiplier(streakDays int) float64 {
	if streakDays < 0 {
		streakDays = 0
	}
	bonus := float64(streakDays) * e.rules.StreakBonusPerDay
	if bonus > e.rules.StreakBonusCap {
		bonus = e.rules.StreakBonusCap
	}
	return 1.0 + bonus
}

// StepGp 计算完成一个步骤的 GP：基础值乘以连续天数倍率，一次通过再加固定奖励。
// 当天首次活跃的奖励不在这里算，它取决于连续天数的更新结果，由编排层追加
func (e *Engine) StepGp(baseGpValue, streakDays int, isFirstAttempt bool) (int, GpBreakdown) {
	multiplier := e.StreakMultiplier(streakDays)
	base := int(math.Round(float64(baseGpValue) * multiplier))

	firstAttemptBonus := 0
	if isFirstAttempt {
		firstAttemptBonus = e.rules.FirstAttemptBonus
	}

	total := base + firstAttemptBonus
	return total, GpBreakdown{
		Base:              baseGpValue,
		StreakMultiplier:  multiplier,
		FirstAttemptBonus: firstAttemptBonus,
		Total:             total,
	}
}

// ProjectCompletionBonus 项目完成奖励：按项目累计 GP 的比例取整，再收敛到上下限之间
func (e *Engine) ProjectCompletionBonus(totalStepGp int) int {
	bonus := int(math.Round(float64(totalStepGp) * e.rules.CompletionBonusRate))
	if bonus < e.rules.CompletionBonusMin {
		bonus = e.rules.CompletionBonusMin
	}
	if bonus > e.rules.CompletionBonusMax {
		bonus = e.rules.CompletionBonusMax
	}
	return bonus
}

// SeedsFromGp GP 折算种子数量
func (e *Engine) SeedsFromGp(gp int) int {
	if gp <= 0 {
		return 0
	}
	return gp / e.rules.GpPerSeed
}
