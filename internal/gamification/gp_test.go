package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultRules())
	require.NoError(t, err)
	return engine
}

func TestStreakMultiplier(t *testing.T) {
	e := newTestEngine(t)

	assert.InDelta(t, 1.0, e.StreakMultiplier(0), 1e-9)
	assert.InDelta(t, 1.005, e.StreakMultiplier(1), 1e-9)
	assert.InDelta(t, 1.05, e.StreakMultiplier(10), 1e-9)
	// 封顶
	assert.InDelta(t, 1.4, e.StreakMultiplier(80), 1e-9)
	assert.InDelta(t, 1.4, e.StreakMultiplier(10000), 1e-9)
	// 负数视为 0
	assert.InDelta(t, 1.0, e.StreakMultiplier(-3), 1e-9)
}

func TestStepGp(t *testing.T) {
	e := newTestEngine(t)

	total, breakdown := e.StepGp(50, 0, false)
	assert.Equal(t, 50, total)
	assert.Equal(t, 50, breakdown.Base)
	assert.InDelta(t, 1.0, breakdown.StreakMultiplier, 1e-9)
	assert.Equal(t, 0, breakdown.FirstAttemptBonus)
	assert.Equal(t, total, breakdown.Total)

	// 倍率先乘后取整，一次通过奖励在取整之后追加
	total, breakdown = e.StepGp(50, 10, true)
	assert.Equal(t, 73, total)
	assert.Equal(t, 50, breakdown.Base)
	assert.InDelta(t, 1.05, breakdown.StreakMultiplier, 1e-9)
	assert.Equal(t, 20, breakdown.FirstAttemptBonus)
	assert.Equal(t, 73, breakdown.Total)

	// 倍率封顶
	total, _ = e.StepGp(100, 365, false)
	assert.Equal(t, 140, total)
}

func TestProjectCompletionBonus(t *testing.T) {
	e := newTestEngine(t)

	// 比例低于下限时补到下限
	assert.Equal(t, 100, e.ProjectCompletionBonus(100))
	assert.Equal(t, 100, e.ProjectCompletionBonus(499))
	assert.Equal(t, 100, e.ProjectCompletionBonus(500))
	assert.Equal(t, 101, e.ProjectCompletionBonus(505))
	assert.Equal(t, 200, e.ProjectCompletionBonus(1000))
	// 上限
	assert.Equal(t, 300, e.ProjectCompletionBonus(1500))
	assert.Equal(t, 300, e.ProjectCompletionBonus(100000))
}

func TestSeedsFromGp(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, 0, e.SeedsFromGp(0))
	assert.Equal(t, 0, e.SeedsFromGp(4))
	assert.Equal(t, 1, e.SeedsFromGp(5))
	assert.Equal(t, 16, e.SeedsFromGp(80))
	assert.Equal(t, 0, e.SeedsFromGp(-10))
}
