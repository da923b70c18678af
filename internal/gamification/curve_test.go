package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCurve(t *testing.T) *Curve {
	t.Helper()
	rules := DefaultRules()
	require.NoError(t, rules.Validate())
	return NewCurve(rules.LevelBands, rules.TitleBands)
}

func TestGpToCompleteLevel(t *testing.T) {
	curve := newTestCurve(t)

	tests := []struct {
		level int
		want  int
	}{
		{0, 0},
		{1, 100},
		{5, 500},
		{6, 700},
		{10, 1500},
		{20, 5000},
		{35, 12500},
		{50, 22250},
		{75, 42250},
		{76, 43250},
		{80, 47250},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, curve.GpToCompleteLevel(tt.level), "level %d", tt.level)
	}
}

func TestLevelFromTotalGp(t *testing.T) {
	curve := newTestCurve(t)

	tests := []struct {
		totalGp int
		want    int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{499, 5},
		{500, 6},
		{1499, 10},
		{1500, 11},
		{5000, 21},
		{42250, 76},
		{43249, 76},
		{43250, 77},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, curve.LevelFromTotalGp(tt.totalGp), "totalGp %d", tt.totalGp)
	}
}

// 阈值函数与其反函数必须互相一致：打满 n 级的累计 GP 正好落在 n+1 级
func TestCurveRoundTrip(t *testing.T) {
	curve := newTestCurve(t)

	for level := 1; level <= 120; level++ {
		threshold := curve.GpToCompleteLevel(level)
		assert.Equal(t, level+1, curve.LevelFromTotalGp(threshold), "at threshold of level %d", level)
		assert.Equal(t, level, curve.LevelFromTotalGp(threshold-1), "just below threshold of level %d", level)
	}
}

func TestLevelTitle(t *testing.T) {
	curve := newTestCurve(t)

	assert.Equal(t, "Seedling", curve.LevelTitle(1))
	assert.Equal(t, "Seedling", curve.LevelTitle(5))
	assert.Equal(t, "Sprout", curve.LevelTitle(6))
	assert.Equal(t, "Gardener", curve.LevelTitle(75))
	assert.Equal(t, "Steward", curve.LevelTitle(100))
	assert.Equal(t, "Keeper", curve.LevelTitle(101))
	assert.Equal(t, "Keeper", curve.LevelTitle(9999))
	// 非法输入回落到最低等级
	assert.Equal(t, "Seedling", curve.LevelTitle(0))
}

func TestProgressInLevel(t *testing.T) {
	curve := newTestCurve(t)

	p := curve.ProgressInLevel(250, 3)
	assert.Equal(t, 50, p.Current)
	assert.Equal(t, 100, p.Needed)
	assert.InDelta(t, 50.0, p.Percentage, 0.001)

	// 刚升级时进度归零
	p = curve.ProgressInLevel(500, 6)
	assert.Equal(t, 0, p.Current)
	assert.Equal(t, 200, p.Needed)
	assert.InDelta(t, 0.0, p.Percentage, 0.001)

	// 进度收敛，不会超过 100%
	p = curve.ProgressInLevel(10000, 2)
	assert.Equal(t, p.Needed, p.Current)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
}
