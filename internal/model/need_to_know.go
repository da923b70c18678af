package model

// NeedToKnow 项目生成时记录的待解惑问题，可以挂在某个步骤上，
// 教练解答后标记为已解决
// swagger:model NeedToKnow
type NeedToKnow struct {
	UUIDBase
	ProjectID   string `gorm:"index;size:36;not null" json:"projectId"`
	StepID      string `gorm:"size:36" json:"stepId,omitempty"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:50;default:'knowledge'" json:"category"`
	IsAddressed bool   `gorm:"default:false" json:"isAddressed"`
}

func (NeedToKnow) TableName() string {
	return "need_to_knows"
}
