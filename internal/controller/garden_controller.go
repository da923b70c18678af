package controller

import (
	"github.com/gin-gonic/gin"

	"seedforge_backend/internal/service"
	"seedforge_backend/internal/util"
)

type GardenController struct {
	GardenService *service.GardenService
}

func NewGardenController(gardenService *service.GardenService) *GardenController {
	return &GardenController{GardenService: gardenService}
}

// GetGarden godoc
// @Summary 花园视图
// @Description 返回用户的全部植物和各生长阶段的统计
// @Tags 花园
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.GardenView} "成功"
// @Router /api/garden [get]
func (c *GardenController) GetGarden(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.GardenService.GetGarden(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// MovePlantRequest 植物移动请求
type MovePlantRequest struct {
	PositionX int `json:"positionX"`
	PositionY int `json:"positionY"`
}

// MovePlant godoc
// @Summary 移动植物
// @Description 调整植物在花园网格里的位置
// @Tags 花园
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   projectId path string true "植物所属项目ID"
// @Param   body body MovePlantRequest true "目标位置"
// @Success 200 {object} util.Response{data=model.GardenPlant} "成功"
// @Failure 404 {object} util.Response "植物不存在"
// @Router /api/garden/plants/{projectId}/position [put]
func (c *GardenController) MovePlant(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MovePlantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plant, err := c.GardenService.MovePlant(claims.UserID, ctx.Param("projectId"), req.PositionX, req.PositionY)
	if err != nil {
		projectError(ctx, err)
		return
	}
	util.Success(ctx, plant)
}
