package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToday = "2026-09-01"

func freshSnapshot() Snapshot {
	return Snapshot{
		Profile: ProfileSnapshot{Level: 1},
		Project: ProjectSnapshot{
			ID:               "p1",
			Status:           ProjectDraft,
			EstimatedMinutes: 45,
			LearningIntent:   "Learn Python programming",
		},
		Steps: threeSteps(),
	}
}

func TestAdvanceFirstStep(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.AdvanceStep(freshSnapshot(), AdvanceInput{
		CompletedStepID: "s1",
		IsFirstAttempt:  true,
		Today:           testToday,
	})
	require.NoError(t, err)

	// 50 基础 + 20 一次通过 + 10 当日首次活跃
	assert.Equal(t, 80, out.GpAwarded)
	assert.Equal(t, 50, out.Breakdown.Base)
	assert.InDelta(t, 1.0, out.Breakdown.StreakMultiplier, 1e-9)
	assert.Equal(t, 20, out.Breakdown.FirstAttemptBonus)
	assert.Equal(t, 70, out.Breakdown.Total)

	assert.Equal(t, 80, out.Profile.TotalGp)
	assert.Equal(t, 1, out.Profile.Level)
	assert.False(t, out.LeveledUp)
	assert.Equal(t, 16, out.SeedsEarned)
	assert.Equal(t, 16, out.Profile.TotalSeeds)
	assert.Equal(t, testToday, out.Profile.LastActiveDate)
	assert.Equal(t, StreakUpdate{NewStreak: 1, NewLongest: 1, IsNewDay: true}, out.Streak)

	// 首步完成：播种，项目开工
	assert.True(t, out.PlantCreated)
	assert.Equal(t, PlantFlower, out.Plant.PlantType)
	assert.Equal(t, "coding", out.Plant.Domain)
	assert.Equal(t, StagePlanted, out.Plant.GrowthStage)
	assert.Equal(t, ProjectActive, out.Project.Status)
	assert.Equal(t, 80, out.Project.GpEarned)

	assert.Equal(t, "s2", out.NextStepID)
	assert.False(t, out.IsProjectComplete)
	assert.Equal(t, 0, out.CompletionBonus)

	require.Len(t, out.Events, 2)
	assert.Equal(t, EventStepAdvanced, out.Events[0].Type)
	assert.Equal(t, EventGpAwarded, out.Events[1].Type)
}

func TestAdvanceMidProjectSameDay(t *testing.T) {
	e := newTestEngine(t)

	snap := freshSnapshot()
	snap.Profile = ProfileSnapshot{
		TotalGp: 80, Level: 1, CurrentStreak: 1, LongestStreak: 1,
		LastActiveDate: testToday, TotalSeeds: 16,
	}
	snap.Project.Status = ProjectActive
	snap.Project.GpEarned = 80
	snap.Steps[0].Status = StepCompleted
	snap.Steps[1].Status = StepAvailable
	snap.Plant = PlantSnapshot{Exists: true, PlantType: PlantFlower, Domain: "coding", GrowthStage: StagePlanted}

	out, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "s2", Today: testToday})
	require.NoError(t, err)

	// 同一天第二次完成步骤：无当日奖励，倍率 1.005 取整后仍是 50
	assert.Equal(t, 50, out.GpAwarded)
	assert.Equal(t, StreakUpdate{NewStreak: 1, NewLongest: 1, IsNewDay: false}, out.Streak)
	assert.Equal(t, 130, out.Profile.TotalGp)

	// 过半：planted 推进到 growing
	assert.False(t, out.PlantCreated)
	assert.Equal(t, StageGrowing, out.Plant.GrowthStage)
	assert.Equal(t, "s3", out.NextStepID)
	assert.False(t, out.IsProjectComplete)
}

func TestAdvanceFinalStepCompletesProject(t *testing.T) {
	e := newTestEngine(t)

	snap := freshSnapshot()
	snap.Profile = ProfileSnapshot{
		TotalGp: 130, Level: 2, CurrentStreak: 1, LongestStreak: 1,
		LastActiveDate: testToday, TotalSeeds: 26,
	}
	snap.Project.Status = ProjectActive
	snap.Project.GpEarned = 130
	snap.Steps[0].Status = StepCompleted
	snap.Steps[1].Status = StepCompleted
	snap.Steps[2].Status = StepAvailable
	snap.Plant = PlantSnapshot{Exists: true, PlantType: PlantFlower, Domain: "coding", GrowthStage: StageGrowing}

	out, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "s3", Today: testToday})
	require.NoError(t, err)

	assert.True(t, out.IsProjectComplete)
	assert.Empty(t, out.NextStepID)

	// 步骤 GP 50，完成奖励 round(0.2*180)=36 补到下限 100
	assert.Equal(t, 50, out.GpAwarded)
	assert.Equal(t, 100, out.CompletionBonus)
	assert.Equal(t, 280, out.Profile.TotalGp)
	assert.Equal(t, 280, out.Project.GpEarned)
	assert.Equal(t, 3, out.Profile.Level)
	assert.True(t, out.LeveledUp)

	// 步骤 GP 和完成奖励分别折算种子
	assert.Equal(t, 30, out.SeedsEarned)
	assert.Equal(t, 56, out.Profile.TotalSeeds)

	assert.Equal(t, ProjectCompleted, out.Project.Status)
	assert.Equal(t, 1, out.Profile.CompletedProjectCount)
	assert.Equal(t, StageBlooming, out.Plant.GrowthStage)

	// 事件顺序固定：步骤推进、项目完成、GP 入账
	require.Len(t, out.Events, 3)
	assert.Equal(t, EventStepAdvanced, out.Events[0].Type)
	assert.Equal(t, EventProjectComplete, out.Events[1].Type)
	assert.Equal(t, EventGpAwarded, out.Events[2].Type)

	complete := out.Events[1].Data.(ProjectCompleteData)
	assert.Equal(t, 280, complete.TotalGpEarned)
	assert.Equal(t, 100, complete.CompletionBonus)
	assert.Equal(t, PlantFlower, complete.PlantType)

	awarded := out.Events[2].Data.(GpAwardedData)
	assert.Equal(t, 50, awarded.Amount)
	assert.Equal(t, "Completed: Ship", awarded.Reason)
	assert.Equal(t, 280, awarded.NewTotal)
	assert.Equal(t, 3, awarded.NewLevel)
	assert.True(t, awarded.LeveledUp)
}

// 单步项目没有播种机会，完成时直接以开花状态补种
func TestAdvanceSingleStepProject(t *testing.T) {
	e := newTestEngine(t)

	snap := Snapshot{
		Profile: ProfileSnapshot{Level: 1},
		Project: ProjectSnapshot{
			ID:               "p2",
			Status:           ProjectDraft,
			EstimatedMinutes: 200,
			LearningIntent:   "design a poster for the school fair",
		},
		Steps: []StepSnapshot{{ID: "only", OrderIndex: 0, Title: "Do it", Status: StepAvailable, GpValue: 50}},
	}

	out, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "only", IsFirstAttempt: true, Today: testToday})
	require.NoError(t, err)

	assert.True(t, out.IsProjectComplete)
	assert.True(t, out.PlantCreated)
	assert.Equal(t, PlantTree, out.Plant.PlantType)
	assert.Equal(t, "design", out.Plant.Domain)
	assert.Equal(t, StageBlooming, out.Plant.GrowthStage)

	// 70 步骤 GP + 10 当日奖励，完成奖励补到下限
	assert.Equal(t, 80, out.GpAwarded)
	assert.Equal(t, 100, out.CompletionBonus)
	assert.Equal(t, 180, out.Profile.TotalGp)
	assert.Equal(t, 2, out.Profile.Level)
	assert.True(t, out.LeveledUp)
	require.Len(t, out.Events, 3)
}

// 倍率用更新前的连续天数，连续天数本身在同一次推进里 +1
func TestAdvanceStreakIncrementAndLevelUp(t *testing.T) {
	e := newTestEngine(t)

	snap := freshSnapshot()
	snap.Profile = ProfileSnapshot{
		TotalGp: 90, Level: 1, CurrentStreak: 3, LongestStreak: 3,
		LastActiveDate: "2026-08-31",
	}

	out, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "s1", Today: testToday})
	require.NoError(t, err)

	// round(50*1.015)=51，+10 当日奖励
	assert.InDelta(t, 1.015, out.Breakdown.StreakMultiplier, 1e-9)
	assert.Equal(t, 61, out.GpAwarded)
	assert.Equal(t, StreakUpdate{NewStreak: 4, NewLongest: 4, IsNewDay: true}, out.Streak)
	assert.Equal(t, 151, out.Profile.TotalGp)
	assert.Equal(t, 2, out.Profile.Level)
	assert.True(t, out.LeveledUp)
}

// 已开花的植物不会退回前面的阶段
func TestAdvancePlantStageNeverRegresses(t *testing.T) {
	e := newTestEngine(t)

	snap := freshSnapshot()
	snap.Project.Status = ProjectActive
	snap.Steps[0].Status = StepCompleted
	snap.Steps[1].Status = StepAvailable
	snap.Plant = PlantSnapshot{Exists: true, PlantType: PlantFlower, Domain: "coding", GrowthStage: StageBlooming}

	out, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "s2", Today: testToday})
	require.NoError(t, err)
	assert.Equal(t, StageBlooming, out.Plant.GrowthStage)
	assert.False(t, out.PlantCreated)
}

func TestAdvanceRejectsInvalidStep(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.AdvanceStep(freshSnapshot(), AdvanceInput{CompletedStepID: "s2", Today: testToday})
	assert.ErrorIs(t, err, ErrStepNotCompletable)

	_, err = e.AdvanceStep(freshSnapshot(), AdvanceInput{CompletedStepID: "nope", Today: testToday})
	assert.ErrorIs(t, err, ErrStepNotFound)
}

// 输入快照不被修改，推进失败时没有任何副作用
func TestAdvanceDoesNotMutateSnapshot(t *testing.T) {
	e := newTestEngine(t)

	snap := freshSnapshot()
	_, err := e.AdvanceStep(snap, AdvanceInput{CompletedStepID: "s1", Today: testToday})
	require.NoError(t, err)

	assert.Equal(t, StepAvailable, snap.Steps[0].Status)
	assert.Equal(t, 0, snap.Profile.TotalGp)
	assert.Equal(t, ProjectDraft, snap.Project.Status)
	assert.False(t, snap.Plant.Exists)
}
