package model

import (
	"time"

	"seedforge_backend/internal/gamification"
)

// Project 一个学习项目。状态为 completed 当且仅当所有步骤都已完成，
// CompletedAt 只会被设置一次
// swagger:model Project
type Project struct {
	UUIDBase
	UserID              uint                       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title               string                     `gorm:"size:255;not null" json:"title"`
	DrivingQuestion     string                     `gorm:"type:text" json:"drivingQuestion"`
	ArtifactDescription string                     `gorm:"type:text" json:"artifactDescription"`
	ArtifactType        string                     `gorm:"size:50;default:'guide'" json:"artifactType"`
	LearningIntent      string                     `gorm:"type:text;not null" json:"learningIntent"`
	EstimatedMinutes    int                        `gorm:"default:45" json:"estimatedMinutes"`
	Status              gamification.ProjectStatus `gorm:"size:20;default:'draft'" json:"status"`
	DocumentID          string                     `gorm:"size:36" json:"documentId,omitempty"`
	GpEarned            int                        `gorm:"default:0" json:"gpEarned"`
	CompletedAt         *time.Time                 `json:"completedAt,omitempty"`

	Steps []Step `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
