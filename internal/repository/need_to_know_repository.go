package repository

import (
	"gorm.io/gorm"

	"seedforge_backend/internal/model"
)

type NeedToKnowRepository struct {
	DB *gorm.DB
}

func NewNeedToKnowRepository(db *gorm.DB) *NeedToKnowRepository {
	return &NeedToKnowRepository{DB: db}
}

func (r *NeedToKnowRepository) Create(ntk *model.NeedToKnow) error {
	return r.DB.Create(ntk).Error
}

func (r *NeedToKnowRepository) FindByID(id string) (*model.NeedToKnow, error) {
	var ntk model.NeedToKnow
	err := r.DB.Where("id = ?", id).First(&ntk).Error
	if err != nil {
		return nil, err
	}
	return &ntk, nil
}

func (r *NeedToKnowRepository) FindByProjectID(projectID string) ([]model.NeedToKnow, error) {
	var items []model.NeedToKnow
	err := r.DB.Where("project_id = ?", projectID).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NeedToKnowRepository) Update(ntk *model.NeedToKnow) error {
	return r.DB.Save(ntk).Error
}
