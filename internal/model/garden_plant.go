package model

import "seedforge_backend/internal/gamification"

// GardenPlant 项目对应的花园植物，项目完成第一个步骤后出现，之后永不销毁。
// GrowthStage 只会向前推进
// swagger:model GardenPlant
type GardenPlant struct {
	UUIDBase
	UserID      uint                     `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ProjectID   string                   `gorm:"index;size:36;not null;unique" json:"projectId"`
	PlantType   gamification.PlantType   `gorm:"size:50;default:'flower'" json:"plantType"`
	Domain      string                   `gorm:"size:50;default:'general'" json:"domain"`
	GrowthStage gamification.GrowthStage `gorm:"size:20;default:'planted'" json:"growthStage"`
	PositionX   int                      `gorm:"default:0" json:"positionX"`
	PositionY   int                      `gorm:"default:0" json:"positionY"`
}

func (GardenPlant) TableName() string {
	return "garden_plants"
}
