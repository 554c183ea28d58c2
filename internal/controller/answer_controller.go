package controller

import (
	"devoverflow_backend/internal/service"
	"devoverflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	AnswerService *service.AnswerService
}

func NewAnswerController(answerSvc *service.AnswerService) *AnswerController {
	return &AnswerController{AnswerService: answerSvc}
}

// @Summary 回答问题
// @Tags 回答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题 ID"
// @Param body body service.AnswerRequest true "回答内容"
// @Success 201 {object} util.Response
// @Router /api/questions/{id}/answers [post]
func (c *AnswerController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AnswerService.Create(user.UserID, ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, answer)
}

// @Summary 获取问题下的回答列表
// @Tags 回答
// @Produce json
// @Param id path string true "问题 ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param sortBy query string false "排序 (highest_upvotes/lowest_upvotes/recent/old)"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/answers [get]
func (c *AnswerController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	sortBy := ctx.Query("sortBy")

	answers, isNext, err := c.AnswerService.GetAnswers(ctx.Param("id"), page, limit, sortBy)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: answers, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 删除回答
// @Tags 回答
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答 ID"
// @Success 200 {object} util.Response
// @Router /api/answers/{id} [delete]
func (c *AnswerController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AnswerService.Delete(user.UserID, ctx.Param("id")); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
