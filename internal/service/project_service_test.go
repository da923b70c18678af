package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/util"
)

func newTestProjectService(t *testing.T, db *gorm.DB) *ProjectService {
	t.Helper()
	return NewProjectService(
		db,
		repository.NewProjectRepository(db),
		repository.NewStepRepository(db),
		repository.NewGardenPlantRepository(db),
		repository.NewNeedToKnowRepository(db),
		nil,
	)
}

func TestCreateProjectStepOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProjectService(t, db)
	user := seedUser(t, db)

	stepIdx := 1
	project, err := svc.CreateProject(user.ID, ProjectCreateInput{
		Title:          "Field guide to local birds",
		LearningIntent: "research local nature",
		Steps: []StepInput{
			{Title: "Pick a park"},
			{Title: "Observe and sketch"},
			{Title: "Assemble the guide"},
		},
		NeedToKnows: []NeedToKnowInput{
			{Title: "How do I identify a sparrow?", StepIndex: &stepIdx},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, gamification.ProjectDraft, project.Status)
	require.Len(t, project.Steps, 3)
	// 首个步骤立即可用，其余锁定
	assert.Equal(t, gamification.StepAvailable, project.Steps[0].Status)
	assert.Equal(t, gamification.StepLocked, project.Steps[1].Status)
	assert.Equal(t, gamification.StepLocked, project.Steps[2].Status)
	for i, step := range project.Steps {
		assert.Equal(t, i, step.OrderIndex)
		assert.Equal(t, 50, step.GpValue)
	}

	var ntks []model.NeedToKnow
	require.NoError(t, db.Where("project_id = ?", project.ID).Find(&ntks).Error)
	require.Len(t, ntks, 1)
	assert.Equal(t, project.Steps[1].ID, ntks[0].StepID)
	assert.False(t, ntks[0].IsAddressed)
}

func TestStartStep(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProjectService(t, db)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID, 2)

	step, err := svc.StartStep(user.ID, project.ID, project.Steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, gamification.StepInProgress, step.Status)

	// 项目首次开工从 draft 转为 active
	var stored model.Project
	require.NoError(t, db.Where("id = ?", project.ID).First(&stored).Error)
	assert.Equal(t, gamification.ProjectActive, stored.Status)

	// 锁定的步骤不可开始
	_, err = svc.StartStep(user.ID, project.ID, project.Steps[1].ID)
	assert.ErrorIs(t, err, util.ErrStepNotStartable)

	// 已经进行中的步骤不可重复开始
	_, err = svc.StartStep(user.ID, project.ID, project.Steps[0].ID)
	assert.ErrorIs(t, err, util.ErrStepNotStartable)
}

func TestAbandonProject(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProjectService(t, db)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID, 2)

	abandoned, err := svc.AbandonProject(user.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, gamification.ProjectAbandoned, abandoned.Status)

	// 已完成的项目不能放弃
	require.NoError(t, db.Model(&model.Project{}).Where("id = ?", project.ID).
		Update("status", string(gamification.ProjectCompleted)).Error)
	_, err = svc.AbandonProject(user.ID, project.ID)
	assert.ErrorIs(t, err, util.ErrProjectNotActive)

	// 别人的项目不可见
	_, err = svc.AbandonProject(user.ID+1, project.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestAddressNeedToKnow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestProjectService(t, db)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID, 1)

	ntk, err := svc.AddNeedToKnow(user.ID, project.ID, NeedToKnowInput{Title: "What is composting?"})
	require.NoError(t, err)
	assert.Equal(t, "knowledge", ntk.Category)

	addressed, err := svc.AddressNeedToKnow(user.ID, project.ID, ntk.ID)
	require.NoError(t, err)
	assert.True(t, addressed.IsAddressed)

	_, err = svc.AddressNeedToKnow(user.ID, project.ID, "missing")
	assert.ErrorIs(t, err, util.ErrNeedToKnowNotFound)
}
