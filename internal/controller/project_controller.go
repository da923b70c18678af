package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"seedforge_backend/internal/service"
	"seedforge_backend/internal/util"
)

type ProjectController struct {
	ProjectService *service.ProjectService
}

func NewProjectController(projectService *service.ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

func projectError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrProjectNotFound),
		errors.Is(err, util.ErrStepNotFound),
		errors.Is(err, util.ErrNeedToKnowNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrProjectNotActive):
		util.Conflict(ctx, "项目当前状态不允许该操作")
	case errors.Is(err, util.ErrStepNotStartable):
		util.Conflict(ctx, "步骤当前状态不允许开始")
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateProject godoc
// @Summary 创建学习项目
// @Description 创建项目及其全部步骤，首个步骤立即可用，其余锁定
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProjectCreateInput true "项目定义"
// @Success 201 {object} util.Response{data=model.Project} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ProjectCreateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	project, err := c.ProjectService.CreateProject(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, project)
}

// ListProjects godoc
// @Summary 项目列表
// @Description 返回当前用户的全部项目，带步骤完成进度
// @Tags 项目
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.ProjectListItem} "成功"
// @Router /api/projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.ProjectService.ListProjects(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// GetProject godoc
// @Summary 项目详情
// @Description 返回项目、有序步骤、花园植物和待解惑问题
// @Tags 项目
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=service.ProjectDetail} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.ProjectService.GetProject(claims.UserID, ctx.Param("id"))
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// AbandonProject godoc
// @Summary 放弃项目
// @Description 已完成的项目不能放弃，花园植物保留
// @Tags 项目
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=model.Project} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Failure 409 {object} util.Response "项目已完成"
// @Router /api/projects/{id}/abandon [post]
func (c *ProjectController) AbandonProject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	project, err := c.ProjectService.AbandonProject(claims.UserID, ctx.Param("id"))
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, project)
}

// ExportArtifact godoc
// @Summary 导出项目产出物
// @Description 把项目产出物渲染为 Markdown 并上传到存储，返回下载地址
// @Tags 项目
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/projects/{id}/export [post]
func (c *ProjectController) ExportArtifact(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.ProjectService.ExportArtifact(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// AddNeedToKnow godoc
// @Summary 追加待解惑问题
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Param   body body service.NeedToKnowInput true "问题内容"
// @Success 201 {object} util.Response{data=model.NeedToKnow} "创建成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/projects/{id}/need-to-knows [post]
func (c *ProjectController) AddNeedToKnow(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.NeedToKnowInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ntk, err := c.ProjectService.AddNeedToKnow(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Created(ctx, ntk)
}

// AddressNeedToKnow godoc
// @Summary 标记问题已解决
// @Tags 项目
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "项目ID"
// @Param   ntkId path string true "问题ID"
// @Success 200 {object} util.Response{data=model.NeedToKnow} "成功"
// @Failure 404 {object} util.Response "问题不存在"
// @Router /api/projects/{id}/need-to-knows/{ntkId}/address [post]
func (c *ProjectController) AddressNeedToKnow(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	ntk, err := c.ProjectService.AddressNeedToKnow(claims.UserID, ctx.Param("id"), ctx.Param("ntkId"))
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, ntk)
}
