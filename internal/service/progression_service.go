package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/util"
	"seedforge_backend/pkg/logger"
	"seedforge_backend/pkg/monitoring"
)

// AdvanceRequest 完成步骤的请求参数
type AdvanceRequest struct {
	IsFirstAttempt bool   `json:"isFirstAttempt"`
	Feedback       string `json:"feedback"`
}

// AdvanceResult 推进结果，直接作为接口响应返回
type AdvanceResult struct {
	Profile           *model.LearnerProfile     `json:"profile"`
	Project           *model.Project            `json:"project"`
	Plant             *model.GardenPlant        `json:"plant,omitempty"`
	NextStepID        string                    `json:"nextStepId,omitempty"`
	IsProjectComplete bool                      `json:"isProjectComplete"`
	GpAwarded         int                       `json:"gpAwarded"`
	Breakdown         gamification.GpBreakdown  `json:"breakdown"`
	CompletionBonus   int                       `json:"completionBonus,omitempty"`
	SeedsEarned       int                       `json:"seedsEarned"`
	Streak            gamification.StreakUpdate `json:"streak"`
	LeveledUp         bool                      `json:"leveledUp"`
	LevelTitle        string                    `json:"levelTitle"`
	Events            []gamification.Event      `json:"events"`
}

// ProgressionService 把推进引擎的纯计算、读写事务和事件投递串起来。
// 引擎算出的下一个一致状态在同一个事务里落库，
// 步骤本身用乐观条件更新兜底，并发重复提交只有一个会成功
type ProgressionService struct {
	DB          *gorm.DB
	ProfileRepo *repository.LearnerProfileRepository
	ProjectRepo *repository.ProjectRepository
	StepRepo    *repository.StepRepository
	PlantRepo   *repository.GardenPlantRepository
	Engines     *EngineHolder
	Redis       *redis.Client
}

func NewProgressionService(db *gorm.DB, profileRepo *repository.LearnerProfileRepository, projectRepo *repository.ProjectRepository, stepRepo *repository.StepRepository, plantRepo *repository.GardenPlantRepository, engines *EngineHolder, rdb *redis.Client) *ProgressionService {
	return &ProgressionService{
		DB:          db,
		ProfileRepo: profileRepo,
		ProjectRepo: projectRepo,
		StepRepo:    stepRepo,
		PlantRepo:   plantRepo,
		Engines:     engines,
		Redis:       rdb,
	}
}

// AdvanceStep 完成一个步骤并结算全部奖励
func (s *ProgressionService) AdvanceStep(ctx context.Context, userID uint, projectID, stepID string, req AdvanceRequest) (*AdvanceResult, error) {
	engine := s.Engines.Engine()

	project, err := s.ProjectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProjectNotFound
		}
		return nil, err
	}
	if project.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if project.Status != gamification.ProjectDraft && project.Status != gamification.ProjectActive {
		return nil, util.ErrProjectNotActive
	}

	profile, err := s.ProfileRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	steps, err := s.StepRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	snap := gamification.Snapshot{
		Profile: profileSnapshot(profile),
		Project: gamification.ProjectSnapshot{
			ID:               project.ID,
			Status:           project.Status,
			GpEarned:         project.GpEarned,
			EstimatedMinutes: project.EstimatedMinutes,
			LearningIntent:   project.LearningIntent,
		},
		Steps: stepSnapshots(steps),
	}

	var plant *model.GardenPlant
	if p, err := s.PlantRepo.FindByProjectID(projectID); err == nil {
		plant = p
		snap.Plant = gamification.PlantSnapshot{
			Exists:      true,
			PlantType:   p.PlantType,
			Domain:      p.Domain,
			GrowthStage: p.GrowthStage,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	outcome, err := engine.AdvanceStep(snap, gamification.AdvanceInput{
		CompletedStepID: stepID,
		IsFirstAttempt:  req.IsFirstAttempt,
		Feedback:        req.Feedback,
		Today:           gamification.Today(),
	})
	if err != nil {
		return nil, err
	}

	// 引擎输出作为一个原子单元落库
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		completed := &model.Step{Status: gamification.StepCompleted, CompletedAt: &now}
		ok, err := s.StepRepo.MarkCompleted(tx, stepID, completed)
		if err != nil {
			return err
		}
		if !ok {
			// 另一个请求已经完成了这个步骤
			return gamification.ErrStepNotCompletable
		}

		if outcome.NextStepID != "" {
			if err := s.StepRepo.UpdateStatus(tx, outcome.NextStepID, gamification.StepAvailable); err != nil {
				return err
			}
		}

		lastActive, err := time.ParseInLocation(gamification.DateFormat, outcome.Profile.LastActiveDate, time.UTC)
		if err != nil {
			return err
		}
		profileUpdates := map[string]interface{}{
			"total_gp":                outcome.Profile.TotalGp,
			"level":                   outcome.Profile.Level,
			"total_seeds":             outcome.Profile.TotalSeeds,
			"current_streak":          outcome.Profile.CurrentStreak,
			"longest_streak":          outcome.Profile.LongestStreak,
			"last_active_date":        lastActive,
			"completed_project_count": outcome.Profile.CompletedProjectCount,
		}
		if err := tx.Model(&model.LearnerProfile{}).Where("user_id = ?", userID).Updates(profileUpdates).Error; err != nil {
			return err
		}

		projectUpdates := map[string]interface{}{
			"status":    string(outcome.Project.Status),
			"gp_earned": outcome.Project.GpEarned,
		}
		if outcome.IsProjectComplete {
			projectUpdates["completed_at"] = now
		}
		if err := tx.Model(&model.Project{}).Where("id = ?", projectID).Updates(projectUpdates).Error; err != nil {
			return err
		}

		if outcome.PlantCreated {
			count, err := s.PlantRepo.CountByUserID(userID)
			if err != nil {
				return err
			}
			x, y := gardenPosition(int(count))
			plant = &model.GardenPlant{
				UserID:      userID,
				ProjectID:   projectID,
				PlantType:   outcome.Plant.PlantType,
				Domain:      outcome.Plant.Domain,
				GrowthStage: outcome.Plant.GrowthStage,
				PositionX:   x,
				PositionY:   y,
			}
			if err := tx.Create(plant).Error; err != nil {
				return err
			}
		} else if plant != nil && plant.GrowthStage != outcome.Plant.GrowthStage {
			plant.GrowthStage = outcome.Plant.GrowthStage
			if err := tx.Save(plant).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordMetrics(outcome)
	s.publishEvents(ctx, userID, outcome.Events)

	applyProfileSnapshot(profile, outcome.Profile)
	project.Status = outcome.Project.Status
	project.GpEarned = outcome.Project.GpEarned
	if outcome.IsProjectComplete && project.CompletedAt == nil {
		now := time.Now()
		project.CompletedAt = &now
	}

	return &AdvanceResult{
		Profile:           profile,
		Project:           project,
		Plant:             plant,
		NextStepID:        outcome.NextStepID,
		IsProjectComplete: outcome.IsProjectComplete,
		GpAwarded:         outcome.GpAwarded,
		Breakdown:         outcome.Breakdown,
		CompletionBonus:   outcome.CompletionBonus,
		SeedsEarned:       outcome.SeedsEarned,
		Streak:            outcome.Streak,
		LeveledUp:         outcome.LeveledUp,
		LevelTitle:        engine.Curve().LevelTitle(outcome.Profile.Level),
		Events:            outcome.Events,
	}, nil
}

func (s *ProgressionService) recordMetrics(outcome *gamification.Outcome) {
	monitoring.GpAwardedCounter.WithLabelValues("step").Add(float64(outcome.Breakdown.Total))
	if daily := outcome.GpAwarded - outcome.Breakdown.Total; daily > 0 {
		monitoring.GpAwardedCounter.WithLabelValues("daily").Add(float64(daily))
	}
	if outcome.CompletionBonus > 0 {
		monitoring.GpAwardedCounter.WithLabelValues("completion").Add(float64(outcome.CompletionBonus))
	}
	if outcome.LeveledUp {
		monitoring.LevelUpCounter.Inc()
	}
	if outcome.IsProjectComplete {
		monitoring.ProjectCompletedCounter.Inc()
	}
	if outcome.Plant.GrowthStage == gamification.StageBlooming {
		monitoring.PlantBloomedCounter.Inc()
	}
}

// publishEvents 把通知事件按顺序投递到用户的 Redis 频道。
// 投递失败只记日志，不影响已经落库的结算结果
func (s *ProgressionService) publishEvents(ctx context.Context, userID uint, events []gamification.Event) {
	if s.Redis == nil {
		return
	}
	channel := notifyChannel(userID)
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Log.Error("Failed to marshal notification event", zap.Error(err))
			continue
		}
		if err := s.Redis.Publish(ctx, channel, payload).Err(); err != nil {
			logger.Log.Warn("Failed to publish notification event",
				zap.String("channel", channel),
				zap.String("type", string(event.Type)),
				zap.Error(err))
		}
	}
}

func notifyChannel(userID uint) string {
	return "notify:" + strconv.FormatUint(uint64(userID), 10)
}

func gardenPosition(index int) (int, int) {
	const columns = 6
	return index % columns, index / columns
}

func profileSnapshot(p *model.LearnerProfile) gamification.ProfileSnapshot {
	lastActive := ""
	if p.LastActiveDate != nil {
		lastActive = p.LastActiveDate.Format(gamification.DateFormat)
	}
	return gamification.ProfileSnapshot{
		TotalGp:               p.TotalGp,
		Level:                 p.Level,
		CurrentStreak:         p.CurrentStreak,
		LongestStreak:         p.LongestStreak,
		LastActiveDate:        lastActive,
		TotalSeeds:            p.TotalSeeds,
		CompletedProjectCount: p.CompletedProjectCount,
	}
}

func applyProfileSnapshot(p *model.LearnerProfile, snap gamification.ProfileSnapshot) {
	p.TotalGp = snap.TotalGp
	p.Level = snap.Level
	p.CurrentStreak = snap.CurrentStreak
	p.LongestStreak = snap.LongestStreak
	p.TotalSeeds = snap.TotalSeeds
	p.CompletedProjectCount = snap.CompletedProjectCount
	if t, err := time.ParseInLocation(gamification.DateFormat, snap.LastActiveDate, time.UTC); err == nil {
		p.LastActiveDate = &t
	}
}

func stepSnapshots(steps []model.Step) []gamification.StepSnapshot {
	out := make([]gamification.StepSnapshot, 0, len(steps))
	for _, s := range steps {
		out = append(out, gamification.StepSnapshot{
			ID:         s.ID,
			OrderIndex: s.OrderIndex,
			Title:      s.Title,
			Status:     s.Status,
			GpValue:    s.GpValue,
		})
	}
	return out
}
