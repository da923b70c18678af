package repository

import (
	"gorm.io/gorm"

	"seedforge_backend/internal/model"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	return r.DB.Create(project).Error
}

func (r *ProjectRepository) FindByID(id string) (*model.Project, error) {
	var project model.Project
	err := r.DB.Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) FindByIDWithSteps(id string) (*model.Project, error) {
	var project model.Project
	err := r.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) FindByUserID(userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) FindActiveByUserID(userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.DB.Where("user_id = ? AND status IN ?", userID, []string{"draft", "active"}).
		Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(project *model.Project) error {
	return r.DB.Save(project).Error
}
