package gamification

import "time"

// DateFormat 引擎内部的日历日期格式。连续天数按自然日计算而不是按小时差，
// 避免时区边界抖动，所以这里只接受日期字符串
const DateFormat = "2006-01-02"

// StreakUpdate 连续活跃天数的更新结果
type StreakUpdate struct {
	NewStreak  int  `json:"newStreak"`
	NewLongest int  `json:"newLongest"`
	IsNewDay   bool `json:"isNewDay"`
}

// UpdateStreak 根据上次活跃日期推进连续天数。规则按顺序判定：
// 没有记录则从 1 开始；同一天不重复计数；正好隔一天递增；断档两天及以上归 1。
// lastActiveDate 为空串表示没有历史记录
func UpdateStreak(lastActiveDate string, currentStreak, longestStreak int, today string) StreakUpdate {
	if lastActiveDate == "" {
		longest := longestStreak
		if longest < 1 {
			longest = 1
		}
		return StreakUpdate{NewStreak: 1, NewLongest: longest, IsNewDay: true}
	}

	if lastActiveDate == today {
		return StreakUpdate{NewStreak: currentStreak, NewLongest: longestStreak, IsNewDay: false}
	}

	if daysBetween(lastActiveDate, today) == 1 {
		streak := currentStreak + 1
		longest := longestStreak
		if streak > longest {
			longest = streak
		}
		return StreakUpdate{NewStreak: streak, NewLongest: longest, IsNewDay: true}
	}

	// 断档，重新从 1 开始，最长纪录保留
	return StreakUpdate{NewStreak: 1, NewLongest: longestStreak, IsNewDay: true}
}

// Today 返回当前的日历日期
func Today() string {
	return time.Now().Format(DateFormat)
}

func daysBetween(from, to string) int {
	a, errA := time.ParseInLocation(DateFormat, from, time.UTC)
	b, errB := time.ParseInLocation(DateFormat, to, time.UTC)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
