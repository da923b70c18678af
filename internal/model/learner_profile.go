package model

import "time"

// LearnerProfile 学习者的游戏化档案，每个用户一条，首次访问时惰性创建。
// TotalGp 单调不减，LongestStreak 始终不小于 CurrentStreak
// swagger:model LearnerProfile
type LearnerProfile struct {
	BaseModel
	UserID                uint       `gorm:"index;type:bigint unsigned;not null;unique" json:"userId"`
	DisplayName           string     `gorm:"size:100" json:"displayName"`
	AvatarPreset          string     `gorm:"size:50;default:'grower-1'" json:"avatarPreset"`
	TotalGp               int        `gorm:"default:0" json:"totalGp"`
	Level                 int        `gorm:"default:1" json:"level"`
	TotalSeeds            int        `gorm:"default:0" json:"totalSeeds"`
	CurrentStreak         int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak         int        `gorm:"default:0" json:"longestStreak"`
	LastActiveDate        *time.Time `gorm:"type:date" json:"lastActiveDate"`
	CompletedProjectCount int        `gorm:"default:0" json:"completedProjectCount"`
}

func (LearnerProfile) TableName() string {
	return "learner_profiles"
}
