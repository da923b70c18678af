package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSteps() []StepSnapshot {
	return []StepSnapshot{
		{ID: "s1", OrderIndex: 0, Title: "Plan", Status: StepAvailable, GpValue: 50},
		{ID: "s2", OrderIndex: 1, Title: "Build", Status: StepLocked, GpValue: 50},
		{ID: "s3", OrderIndex: 2, Title: "Ship", Status: StepLocked, GpValue: 50},
	}
}

func TestCompleteStepUnlocksNext(t *testing.T) {
	result, err := CompleteStep(threeSteps(), "s1")
	require.NoError(t, err)

	assert.Equal(t, StepCompleted, result.Steps[0].Status)
	assert.Equal(t, StepAvailable, result.Steps[1].Status)
	assert.Equal(t, StepLocked, result.Steps[2].Status)
	assert.Equal(t, "s2", result.NextStepID)
	assert.False(t, result.IsProjectComplete)
}

func TestCompleteStepInProgress(t *testing.T) {
	steps := threeSteps()
	steps[0].Status = StepInProgress

	result, err := CompleteStep(steps, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepCompleted, result.Steps[0].Status)
}

func TestCompleteLastStepFinishesProject(t *testing.T) {
	steps := threeSteps()
	steps[0].Status = StepCompleted
	steps[1].Status = StepCompleted
	steps[2].Status = StepAvailable

	result, err := CompleteStep(steps, "s3")
	require.NoError(t, err)
	assert.Empty(t, result.NextStepID)
	assert.True(t, result.IsProjectComplete)
}

func TestCompleteStepErrors(t *testing.T) {
	_, err := CompleteStep(threeSteps(), "missing")
	assert.ErrorIs(t, err, ErrStepNotFound)

	// 锁定的步骤不可完成
	_, err = CompleteStep(threeSteps(), "s2")
	assert.ErrorIs(t, err, ErrStepNotCompletable)

	// 已完成的步骤不可重复完成
	steps := threeSteps()
	steps[0].Status = StepCompleted
	_, err = CompleteStep(steps, "s1")
	assert.ErrorIs(t, err, ErrStepNotCompletable)
}

// 输入切片必须保持不变，引擎只在副本上计算
func TestCompleteStepDoesNotMutateInput(t *testing.T) {
	steps := threeSteps()
	_, err := CompleteStep(steps, "s1")
	require.NoError(t, err)

	assert.Equal(t, StepAvailable, steps[0].Status)
	assert.Equal(t, StepLocked, steps[1].Status)
}

func TestSingleStepProject(t *testing.T) {
	steps := []StepSnapshot{{ID: "only", OrderIndex: 0, Status: StepAvailable, GpValue: 50}}

	result, err := CompleteStep(steps, "only")
	require.NoError(t, err)
	assert.True(t, result.IsProjectComplete)
	assert.Empty(t, result.NextStepID)
}
