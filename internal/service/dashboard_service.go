package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
)

const (
	leaderboardCacheKey = "seedforge:leaderboard"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardSize     = 20
)

// ActiveProjectSummary 进行中项目的摘要
type ActiveProjectSummary struct {
	Project        model.Project `json:"project"`
	TotalSteps     int           `json:"totalSteps"`
	CompletedSteps int           `json:"completedSteps"`
	CurrentStepID  string        `json:"currentStepId,omitempty"`
}

// Dashboard 首页聚合视图
type Dashboard struct {
	Profile        *model.LearnerProfile      `json:"profile"`
	LevelTitle     string                     `json:"levelTitle"`
	LevelProgress  gamification.LevelProgress `json:"levelProgress"`
	ActiveProjects []ActiveProjectSummary     `json:"activeProjects"`
	Garden         *GardenView                `json:"garden"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"displayName"`
	Level       int    `json:"level"`
	LevelTitle  string `json:"levelTitle"`
	TotalGp     int    `json:"totalGp"`
}

type DashboardService struct {
	ProfileRepo *repository.LearnerProfileRepository
	ProjectRepo *repository.ProjectRepository
	StepRepo    *repository.StepRepository
	Garden      *GardenService
	Engines     *EngineHolder
	Redis       *redis.Client
}

func NewDashboardService(profileRepo *repository.LearnerProfileRepository, projectRepo *repository.ProjectRepository, stepRepo *repository.StepRepository, garden *GardenService, engines *EngineHolder, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		ProfileRepo: profileRepo,
		ProjectRepo: projectRepo,
		StepRepo:    stepRepo,
		Garden:      garden,
		Engines:     engines,
		Redis:       rdb,
	}
}

// GetDashboard 聚合档案、进行中项目和花园预览
func (s *DashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	profile, err := s.ProfileRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	curve := s.Engines.Engine().Curve()
	dashboard := &Dashboard{
		Profile:       profile,
		LevelTitle:    curve.LevelTitle(profile.Level),
		LevelProgress: curve.ProgressInLevel(profile.TotalGp, profile.Level),
	}

	projects, err := s.ProjectRepo.FindActiveByUserID(userID)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		steps, err := s.StepRepo.FindByProjectID(p.ID)
		if err != nil {
			return nil, err
		}
		summary := ActiveProjectSummary{Project: p, TotalSteps: len(steps)}
		for _, st := range steps {
			switch st.Status {
			case gamification.StepCompleted:
				summary.CompletedSteps++
			case gamification.StepAvailable, gamification.StepInProgress:
				if summary.CurrentStepID == "" {
					summary.CurrentStepID = st.ID
				}
			}
		}
		dashboard.ActiveProjects = append(dashboard.ActiveProjects, summary)
	}

	garden, err := s.Garden.GetGarden(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Garden = garden

	return dashboard, nil
}

// GetLeaderboard 按累计 GP 的排行榜，结果在 Redis 里缓存一分钟
func (s *DashboardService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		}
	}

	profiles, err := s.ProfileRepo.FindTopByGp(leaderboardSize)
	if err != nil {
		return nil, err
	}

	curve := s.Engines.Engine().Curve()
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			DisplayName: p.DisplayName,
			Level:       p.Level,
			LevelTitle:  curve.LevelTitle(p.Level),
			TotalGp:     p.TotalGp,
		})
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL)
		}
	}

	return entries, nil
}
