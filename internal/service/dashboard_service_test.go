package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
)

func newTestDashboard(t *testing.T, db *gorm.DB) *DashboardService {
	t.Helper()
	engine, err := gamification.NewEngine(gamification.DefaultRules())
	require.NoError(t, err)

	return NewDashboardService(
		repository.NewLearnerProfileRepository(db),
		repository.NewProjectRepository(db),
		repository.NewStepRepository(db),
		NewGardenService(repository.NewGardenPlantRepository(db)),
		NewEngineHolder(engine),
		nil,
	)
}

func TestGetDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := newTestDashboard(t, db)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID, 3)

	require.NoError(t, db.Model(&model.Step{}).Where("id = ?", project.Steps[0].ID).
		Update("status", string(gamification.StepCompleted)).Error)
	require.NoError(t, db.Model(&model.Step{}).Where("id = ?", project.Steps[1].ID).
		Update("status", string(gamification.StepAvailable)).Error)
	require.NoError(t, db.Create(&model.GardenPlant{
		UserID: user.ID, ProjectID: project.ID,
		PlantType: gamification.PlantFlower, Domain: "coding", GrowthStage: gamification.StageGrowing,
	}).Error)

	dashboard, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)

	// 档案惰性创建
	assert.Equal(t, 1, dashboard.Profile.Level)
	assert.Equal(t, "Seedling", dashboard.LevelTitle)
	assert.Equal(t, 100, dashboard.LevelProgress.Needed)

	require.Len(t, dashboard.ActiveProjects, 1)
	summary := dashboard.ActiveProjects[0]
	assert.Equal(t, 3, summary.TotalSteps)
	assert.Equal(t, 1, summary.CompletedSteps)
	assert.Equal(t, project.Steps[1].ID, summary.CurrentStepID)

	require.NotNil(t, dashboard.Garden)
	assert.Equal(t, 1, dashboard.Garden.Total)
	assert.Equal(t, 1, dashboard.Garden.Growing)
}

func TestGetLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newTestDashboard(t, db)

	profiles := []model.LearnerProfile{
		{UserID: 1, DisplayName: "Ada", TotalGp: 700, Level: 7},
		{UserID: 2, DisplayName: "Grace", TotalGp: 1500, Level: 11},
		{UserID: 3, DisplayName: "Edsger", TotalGp: 100, Level: 2},
	}
	for i := range profiles {
		require.NoError(t, db.Create(&profiles[i]).Error)
	}

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, []string{"Grace", "Ada", "Edsger"},
		[]string{entries[0].DisplayName, entries[1].DisplayName, entries[2].DisplayName})
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Sprout", entries[1].LevelTitle)
}
