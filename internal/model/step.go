package model

import (
	"time"

	"seedforge_backend/internal/gamification"
)

// Step 项目内的有序工作单元。OrderIndex 从 0 开始且在项目内连续唯一，
// 任一项目里首个可用的步骤永远是 OrderIndex 为 0 的那一个
// swagger:model Step
type Step struct {
	UUIDBase
	ProjectID         string                  `gorm:"index;size:36;not null" json:"projectId"`
	OrderIndex        int                     `gorm:"not null" json:"orderIndex"`
	Title             string                  `gorm:"size:255;not null" json:"title"`
	TeachingObjective string                  `gorm:"type:text" json:"teachingObjective"`
	MakingObjective   string                  `gorm:"type:text" json:"makingObjective"`
	Instructions      string                  `gorm:"type:text" json:"instructions"`
	Checkpoint        string                  `gorm:"type:text" json:"checkpoint"`
	CheckpointType    string                  `gorm:"size:30;default:'content_review'" json:"checkpointType"`
	EstimatedMinutes  int                     `gorm:"default:10" json:"estimatedMinutes"`
	Status            gamification.StepStatus `gorm:"size:20;default:'locked'" json:"status"`
	GpValue           int                     `gorm:"default:50" json:"gpValue"`
	CompletedAt       *time.Time              `json:"completedAt,omitempty"`
}

func (Step) TableName() string {
	return "steps"
}
