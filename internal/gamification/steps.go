package gamification

import "fmt"

// StepStatus 步骤状态机：locked → available → in_progress → completed，
// 只向前推进，不跳级也不回退
type StepStatus string

const (
	StepLocked     StepStatus = "locked"
	StepAvailable  StepStatus = "available"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectAbandoned ProjectStatus = "abandoned"
)

// StepSnapshot 步骤的不可变快照，引擎只在副本上计算
type StepSnapshot struct {
	ID         string
	OrderIndex int
	Title      string
	Status     StepStatus
	GpValue    int
}

// StepResult 完成一个步骤后的推进结果
type StepResult struct {
	Steps             []StepSnapshot
	NextStepID        string // 为空表示没有下一步
	IsProjectComplete bool
}

// CompleteStep 把指定步骤标记为已完成，并解锁 orderIndex+1 的下一步。
// 找不到下一步时项目即告完成。已完成或锁定的步骤不可再次完成
func CompleteStep(steps []StepSnapshot, completedStepID string) (StepResult, error) {
	completedIdx := -1
	for i, s := range steps {
		if s.ID == completedStepID {
			completedIdx = i
			break
		}
	}
	if completedIdx == -1 {
		return StepResult{}, fmt.Errorf("%w: %s", ErrStepNotFound, completedStepID)
	}

	current := steps[completedIdx]
	if current.Status != StepAvailable && current.Status != StepInProgress {
		return StepResult{}, fmt.Errorf("%w: step %s is %s", ErrStepNotCompletable, completedStepID, current.Status)
	}

	updated := make([]StepSnapshot, len(steps))
	copy(updated, steps)
	updated[completedIdx].Status = StepCompleted

	nextStepID := ""
	for i, s := range updated {
		if s.OrderIndex == current.OrderIndex+1 {
			updated[i].Status = StepAvailable
			nextStepID = s.ID
			break
		}
	}

	return StepResult{
		Steps:             updated,
		NextStepID:        nextStepID,
		IsProjectComplete: nextStepID == "",
	}, nil
}

// completedCount 统计已完成的步骤数
func completedCount(steps []StepSnapshot) int {
	n := 0
	for _, s := range steps {
		if s.Status == StepCompleted {
			n++
		}
	}
	return n
}
