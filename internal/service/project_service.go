package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/model"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/util"
)

// StepInput 创建项目时的步骤定义，顺序即步骤顺序
type StepInput struct {
	Title             string `json:"title" binding:"required"`
	TeachingObjective string `json:"teachingObjective"`
	MakingObjective   string `json:"makingObjective"`
	Instructions      string `json:"instructions"`
	Checkpoint        string `json:"checkpoint"`
	CheckpointType    string `json:"checkpointType"`
	EstimatedMinutes  int    `json:"estimatedMinutes"`
	GpValue           int    `json:"gpValue"`
}

type NeedToKnowInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StepIndex   *int   `json:"stepIndex"`
}

type ProjectCreateInput struct {
	Title               string            `json:"title" binding:"required"`
	DrivingQuestion     string            `json:"drivingQuestion"`
	ArtifactDescription string            `json:"artifactDescription"`
	ArtifactType        string            `json:"artifactType"`
	LearningIntent      string            `json:"learningIntent" binding:"required"`
	EstimatedMinutes    int               `json:"estimatedMinutes"`
	DocumentID          string            `json:"documentId"`
	Steps               []StepInput       `json:"steps" binding:"required,min=1"`
	NeedToKnows         []NeedToKnowInput `json:"needToKnows"`
}

// ProjectDetail 项目详情，聚合步骤、植物和待解惑问题
type ProjectDetail struct {
	Project     *model.Project     `json:"project"`
	Plant       *model.GardenPlant `json:"plant,omitempty"`
	NeedToKnows []model.NeedToKnow `json:"needToKnows"`
}

// ProjectListItem 列表项，带完成进度
type ProjectListItem struct {
	Project        model.Project `json:"project"`
	TotalSteps     int           `json:"totalSteps"`
	CompletedSteps int           `json:"completedSteps"`
}

type ProjectService struct {
	DB          *gorm.DB
	ProjectRepo *repository.ProjectRepository
	StepRepo    *repository.StepRepository
	PlantRepo   *repository.GardenPlantRepository
	NtkRepo     *repository.NeedToKnowRepository
	Storage     *StorageService
}

func NewProjectService(db *gorm.DB, projectRepo *repository.ProjectRepository, stepRepo *repository.StepRepository, plantRepo *repository.GardenPlantRepository, ntkRepo *repository.NeedToKnowRepository, storage *StorageService) *ProjectService {
	return &ProjectService{
		DB:          db,
		ProjectRepo: projectRepo,
		StepRepo:    stepRepo,
		PlantRepo:   plantRepo,
		NtkRepo:     ntkRepo,
		Storage:     storage,
	}
}

// CreateProject 创建项目和全部步骤。首个步骤立即可用，其余锁定，
// 项目、步骤和待解惑问题在同一个事务里落库
func (s *ProjectService) CreateProject(userID uint, input ProjectCreateInput) (*model.Project, error) {
	project := &model.Project{
		UserID:              userID,
		Title:               input.Title,
		DrivingQuestion:     input.DrivingQuestion,
		ArtifactDescription: input.ArtifactDescription,
		ArtifactType:        input.ArtifactType,
		LearningIntent:      input.LearningIntent,
		EstimatedMinutes:    input.EstimatedMinutes,
		DocumentID:          input.DocumentID,
		Status:              gamification.ProjectDraft,
	}
	if project.ArtifactType == "" {
		project.ArtifactType = "guide"
	}
	if project.EstimatedMinutes <= 0 {
		project.EstimatedMinutes = 45
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		steps := make([]model.Step, 0, len(input.Steps))
		for i, in := range input.Steps {
			status := gamification.StepLocked
			if i == 0 {
				status = gamification.StepAvailable
			}
			step := model.Step{
				ProjectID:         project.ID,
				OrderIndex:        i,
				Title:             in.Title,
				TeachingObjective: in.TeachingObjective,
				MakingObjective:   in.MakingObjective,
				Instructions:      in.Instructions,
				Checkpoint:        in.Checkpoint,
				CheckpointType:    in.CheckpointType,
				EstimatedMinutes:  in.EstimatedMinutes,
				Status:            status,
				GpValue:           in.GpValue,
			}
			if step.CheckpointType == "" {
				step.CheckpointType = "content_review"
			}
			if step.EstimatedMinutes <= 0 {
				step.EstimatedMinutes = 10
			}
			if step.GpValue <= 0 {
				step.GpValue = 50
			}
			steps = append(steps, step)
		}
		if err := tx.Create(&steps).Error; err != nil {
			return err
		}

		for _, in := range input.NeedToKnows {
			ntk := model.NeedToKnow{
				ProjectID:   project.ID,
				Title:       in.Title,
				Description: in.Description,
				Category:    in.Category,
			}
			if ntk.Category == "" {
				ntk.Category = "knowledge"
			}
			if in.StepIndex != nil && *in.StepIndex >= 0 && *in.StepIndex < len(steps) {
				ntk.StepID = steps[*in.StepIndex].ID
			}
			if err := tx.Create(&ntk).Error; err != nil {
				return err
			}
		}

		project.Steps = steps
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListProjects(userID uint) ([]ProjectListItem, error) {
	projects, err := s.ProjectRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]ProjectListItem, 0, len(projects))
	for _, p := range projects {
		steps, err := s.StepRepo.FindByProjectID(p.ID)
		if err != nil {
			return nil, err
		}
		completed := 0
		for _, st := range steps {
			if st.Status == gamification.StepCompleted {
				completed++
			}
		}
		items = append(items, ProjectListItem{Project: p, TotalSteps: len(steps), CompletedSteps: completed})
	}
	return items, nil
}

func (s *ProjectService) GetProject(userID uint, projectID string) (*ProjectDetail, error) {
	project, err := s.ProjectRepo.FindByIDWithSteps(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProjectNotFound
		}
		return nil, err
	}
	if project.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	detail := &ProjectDetail{Project: project}

	if plant, err := s.PlantRepo.FindByProjectID(projectID); err == nil {
		detail.Plant = plant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ntks, err := s.NtkRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	detail.NeedToKnows = ntks

	return detail, nil
}

// AbandonProject 放弃项目。已完成的项目不能放弃，植物保留
func (s *ProjectService) AbandonProject(userID uint, projectID string) (*model.Project, error) {
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
	if project.Status == gamification.ProjectCompleted {
		return nil, util.ErrProjectNotActive
	}

	project.Status = gamification.ProjectAbandoned
	if err := s.ProjectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// StartStep 把可用步骤推进到进行中，项目首次开工时从 draft 转为 active
func (s *ProjectService) StartStep(userID uint, projectID, stepID string) (*model.Step, error) {
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

	step, err := s.StepRepo.FindByID(stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}
	if step.ProjectID != projectID {
		return nil, util.ErrStepNotFound
	}

	ok, err := s.StepRepo.MarkStarted(stepID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrStepNotStartable
	}
	step.Status = gamification.StepInProgress

	if project.Status == gamification.ProjectDraft {
		project.Status = gamification.ProjectActive
		if err := s.ProjectRepo.Update(project); err != nil {
			return nil, err
		}
	}

	return step, nil
}

// AddNeedToKnow 给进行中的项目追加待解惑问题
func (s *ProjectService) AddNeedToKnow(userID uint, projectID string, input NeedToKnowInput) (*model.NeedToKnow, error) {
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

	ntk := &model.NeedToKnow{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
	}
	if ntk.Category == "" {
		ntk.Category = "knowledge"
	}
	if err := s.NtkRepo.Create(ntk); err != nil {
		return nil, err
	}
	return ntk, nil
}

// AddressNeedToKnow 标记问题已解决
func (s *ProjectService) AddressNeedToKnow(userID uint, projectID, ntkID string) (*model.NeedToKnow, error) {
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

	ntk, err := s.NtkRepo.FindByID(ntkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNeedToKnowNotFound
		}
		return nil, err
	}
	if ntk.ProjectID != projectID {
		return nil, util.ErrNeedToKnowNotFound
	}

	ntk.IsAddressed = true
	if err := s.NtkRepo.Update(ntk); err != nil {
		return nil, err
	}
	return ntk, nil
}

// ExportArtifact 把项目产出物导出为 Markdown 文档并上传到存储，返回下载地址
func (s *ProjectService) ExportArtifact(ctx context.Context, userID uint, projectID string) (string, error) {
	project, err := s.ProjectRepo.FindByIDWithSteps(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrProjectNotFound
		}
		return "", err
	}
	if project.UserID != userID {
		return "", util.ErrPermissionDenied
	}

	doc := renderArtifactMarkdown(project)
	filename := fmt.Sprintf("artifacts/%d/%s.md", userID, project.ID)
	return s.Storage.Upload(ctx, filename, strings.NewReader(doc), int64(len(doc)), util.MimeMarkdown)
}

func renderArtifactMarkdown(project *model.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", project.Title)
	if project.DrivingQuestion != "" {
		fmt.Fprintf(&b, "> %s\n\n", project.DrivingQuestion)
	}
	if project.ArtifactDescription != "" {
		fmt.Fprintf(&b, "%s\n\n", project.ArtifactDescription)
	}

	fmt.Fprintf(&b, "## Steps\n\n")
	for _, step := range project.Steps {
		mark := " "
		if step.Status == gamification.StepCompleted {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", mark, step.Title)
		if step.CompletedAt != nil {
			fmt.Fprintf(&b, " (%s)", step.CompletedAt.Format(util.DateFormat))
		}
		b.WriteString("\n")
		if step.MakingObjective != "" {
			fmt.Fprintf(&b, "  - %s\n", step.MakingObjective)
		}
	}

	fmt.Fprintf(&b, "\n---\nExported %s\n", time.Now().Format(util.TimeFormat))
	return b.String()
}
