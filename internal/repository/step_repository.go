package repository

import (
	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
)

type StepRepository struct {
	DB *gorm.DB
}

func NewStepRepository(db *gorm.DB) *StepRepository {
	return &StepRepository{DB: db}
}

func (r *StepRepository) FindByID(id string) (*model.Step, error) {
	var step model.Step
	err := r.DB.Where("id = ?", id).First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *StepRepository) FindByProjectID(projectID string) ([]model.Step, error) {
	var steps []model.Step
	err := r.DB.Where("project_id = ?", projectID).Order("order_index ASC").Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *StepRepository) Update(step *model.Step) error {
	return r.DB.Save(step).Error
}

// MarkCompleted 乐观地把步骤标记为完成：只有当前仍可完成的步骤才会被更新。
// 返回 false 表示别的调用已经抢先完成了它，不能重复发奖
func (r *StepRepository) MarkCompleted(tx *gorm.DB, stepID string, step *model.Step) (bool, error) {
	res := tx.Model(&model.Step{}).
		Where("id = ? AND status IN ?", stepID,
			[]string{string(gamification.StepAvailable), string(gamification.StepInProgress)}).
		Updates(map[string]interface{}{
			"status":       step.Status,
			"completed_at": step.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkStarted 把可用步骤推进到进行中，同样带乐观检查
func (r *StepRepository) MarkStarted(stepID string) (bool, error) {
	res := r.DB.Model(&model.Step{}).
		Where("id = ? AND status = ?", stepID, string(gamification.StepAvailable)).
		Update("status", string(gamification.StepInProgress))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *StepRepository) UpdateStatus(tx *gorm.DB, stepID string, status gamification.StepStatus) error {
	return tx.Model(&model.Step{}).
		Where("id = ?", stepID).
		Update("status", string(status)).Error
}
