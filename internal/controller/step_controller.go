package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/service"
	"seedforge_backend/internal/util"
)

type StepController struct {
	ProjectService     *service.ProjectService
	ProgressionService *service.ProgressionService
}

func NewStepController(projectService *service.ProjectService, progressionService *service.ProgressionService) *StepController {
	return &StepController{
		ProjectService:     projectService,
		ProgressionService: progressionService,
	}
}

// StartStep godoc
// @Summary 开始步骤
// @Description 把可用步骤推进到进行中，项目首次开工时转为 active
// @Tags 步骤
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Param   stepId path string true "步骤ID"
// @Success 200 {object} util.Response{data=model.Step} "成功"
// @Failure 404 {object} util.Response "步骤不存在"
// @Failure 409 {object} util.Response "步骤不可开始"
// @Router /api/projects/{id}/steps/{stepId}/start [post]
func (c *StepController) StartStep(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	step, err := c.ProjectService.StartStep(claims.UserID, ctx.Param("id"), ctx.Param("stepId"))
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, step)
}

// CompleteStep godoc
// @Summary 完成步骤
// @Description 完成一个步骤并结算 GP、连续天数、等级、植物生长和通知事件。
// @Description 并发重复提交同一步骤只有一个请求会成功
// @Tags 步骤
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Param   stepId path string true "步骤ID"
// @Param   body body service.AdvanceRequest true "完成信息"
// @Success 200 {object} util.Response{data=service.AdvanceResult} "成功"
// @Failure 404 {object} util.Response "步骤不存在"
// @Failure 409 {object} util.Response "步骤不可完成"
// @Router /api/projects/{id}/steps/{stepId}/complete [post]
func (c *StepController) CompleteStep(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AdvanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressionService.AdvanceStep(ctx.Request.Context(), claims.UserID, ctx.Param("id"), ctx.Param("stepId"), req)
	if err != nil {
		switch {
		case errors.Is(err, gamification.ErrStepNotFound):
			util.NotFound(ctx)
		case errors.Is(err, gamification.ErrStepNotCompletable):
			util.Conflict(ctx, "步骤当前状态不允许完成")
		default:
			projectError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}
