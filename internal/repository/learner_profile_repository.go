package repository

import (
	"errors"

	"gorm.io/gorm"

	"seedforge_backend/internal/model"
)

type LearnerProfileRepository struct {
	DB *gorm.DB
}

func NewLearnerProfileRepository(db *gorm.DB) *LearnerProfileRepository {
	return &LearnerProfileRepository{DB: db}
}

func (r *LearnerProfileRepository) Create(profile *model.LearnerProfile) error {
	return r.DB.Create(profile).Error
}

func (r *LearnerProfileRepository) FindByUserID(userID uint) (*model.LearnerProfile, error) {
	var profile model.LearnerProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindOrCreateByUserID 档案首次访问时惰性创建
func (r *LearnerProfileRepository) FindOrCreateByUserID(userID uint) (*model.LearnerProfile, error) {
	profile, err := r.FindByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &model.LearnerProfile{UserID: userID, Level: 1}
	if err := r.DB.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *LearnerProfileRepository) Update(profile *model.LearnerProfile) error {
	return r.DB.Save(profile).Error
}

// FindTopByGp 排行榜，按累计 GP 取前 limit 名
func (r *LearnerProfileRepository) FindTopByGp(limit int) ([]model.LearnerProfile, error) {
	var profiles []model.LearnerProfile
	err := r.DB.Order("total_gp DESC").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
