package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateStreakFirstActivity(t *testing.T) {
	got := UpdateStreak("", 0, 0, "2026-09-01")
	assert.Equal(t, 1, got.NewStreak)
	assert.Equal(t, 1, got.NewLongest)
	assert.True(t, got.IsNewDay)
}

func TestUpdateStreakSameDay(t *testing.T) {
	got := UpdateStreak("2026-09-01", 4, 7, "2026-09-01")
	assert.Equal(t, 4, got.NewStreak)
	assert.Equal(t, 7, got.NewLongest)
	assert.False(t, got.IsNewDay)
}

func TestUpdateStreakConsecutiveDay(t *testing.T) {
	got := UpdateStreak("2026-08-31", 4, 7, "2026-09-01")
	assert.Equal(t, 5, got.NewStreak)
	assert.Equal(t, 7, got.NewLongest)
	assert.True(t, got.IsNewDay)
}

// 新的连续天数超过历史纪录时同步刷新纪录
func TestUpdateStreakNewRecord(t *testing.T) {
	got := UpdateStreak("2026-08-31", 7, 7, "2026-09-01")
	assert.Equal(t, 8, got.NewStreak)
	assert.Equal(t, 8, got.NewLongest)
}

func TestUpdateStreakBroken(t *testing.T) {
	got := UpdateStreak("2026-08-29", 12, 12, "2026-09-01")
	assert.Equal(t, 1, got.NewStreak)
	// 断档后最长纪录保留
	assert.Equal(t, 12, got.NewLongest)
	assert.True(t, got.IsNewDay)
}

// 跨月和跨年的相邻两天也算连续
func TestUpdateStreakCalendarBoundaries(t *testing.T) {
	got := UpdateStreak("2026-08-31", 2, 2, "2026-09-01")
	assert.Equal(t, 3, got.NewStreak)

	got = UpdateStreak("2025-12-31", 2, 2, "2026-01-01")
	assert.Equal(t, 3, got.NewStreak)

	got = UpdateStreak("2024-02-28", 2, 2, "2024-02-29")
	assert.Equal(t, 3, got.NewStreak)
}
