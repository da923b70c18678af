package service

import (
	"errors"

	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/util"
)

// GardenView 花园视图，带各生长阶段的统计
type GardenView struct {
	Plants   []model.GardenPlant `json:"plants"`
	Total    int                 `json:"total"`
	Blooming int                 `json:"blooming"`
	Growing  int                 `json:"growing"`
	Planted  int                 `json:"planted"`
}

type GardenService struct {
	PlantRepo *repository.GardenPlantRepository
}

func NewGardenService(plantRepo *repository.GardenPlantRepository) *GardenService {
	return &GardenService{PlantRepo: plantRepo}
}

// GetGarden 返回用户的全部植物。植物只增不减，放弃的项目植物也保留
func (s *GardenService) GetGarden(userID uint) (*GardenView, error) {
	plants, err := s.PlantRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	view := &GardenView{Plants: plants, Total: len(plants)}
	for _, p := range plants {
		switch p.GrowthStage {
		case gamification.StageBlooming:
			view.Blooming++
		case gamification.StageGrowing:
			view.Growing++
		default:
			view.Planted++
		}
	}
	return view, nil
}

// MovePlant 调整植物在花园网格里的位置
func (s *GardenService) MovePlant(userID uint, plantProjectID string, x, y int) (*model.GardenPlant, error) {
	plant, err := s.PlantRepo.FindByProjectID(plantProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProjectNotFound
		}
		return nil, err
	}
	if plant.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	plant.PositionX = x
	plant.PositionY = y
	if err := s.PlantRepo.Update(plant); err != nil {
		return nil, err
	}
	return plant, nil
}
