package repository

import (
	"gorm.io/gorm"

	"seedforge_backend/internal/model"
)

type GardenPlantRepository struct {
	DB *gorm.DB
}

func NewGardenPlantRepository(db *gorm.DB) *GardenPlantRepository {
	return &GardenPlantRepository{DB: db}
}

func (r *GardenPlantRepository) Create(plant *model.GardenPlant) error {
	return r.DB.Create(plant).Error
}

func (r *GardenPlantRepository) FindByProjectID(projectID string) (*model.GardenPlant, error) {
	var plant model.GardenPlant
	err := r.DB.Where("project_id = ?", projectID).First(&plant).Error
	if err != nil {
		return nil, err
	}
	return &plant, nil
}

func (r *GardenPlantRepository) FindByUserID(userID uint) ([]model.GardenPlant, error) {
	var plants []model.GardenPlant
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&plants).Error
	if err != nil {
		return nil, err
	}
	return plants, nil
}

func (r *GardenPlantRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GardenPlant{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GardenPlantRepository) Update(plant *model.GardenPlant) error {
	return r.DB.Save(plant).Error
}
