package controller

import (
	"devoverflow_backend/internal/service"
	"devoverflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService       *service.QuestionService
	InteractionService    *service.InteractionService
	RecommendationService *service.RecommendationService
}

func NewQuestionController(questionSvc *service.QuestionService, interactionSvc *service.InteractionService, recommendationSvc *service.RecommendationService) *QuestionController {
	return &QuestionController{
		QuestionService:       questionSvc,
		InteractionService:    interactionSvc,
		RecommendationService: recommendationSvc,
	}
}

// @Summary 提问
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "问题信息"
// @Success 201 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(user.UserID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// @Summary 获取问题列表
// @Tags 问题
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param filter query string false "排序 (newest/frequent/unanswered/most_voted/most_answered)"
// @Param search query string false "标题关键词"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	filter := ctx.Query("filter")
	search := ctx.Query("search")

	questions, isNext, err := c.QuestionService.GetQuestions(page, limit, filter, search)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: questions, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取问题详情
// @Tags 问题
// @Produce json
// @Param id path string true "问题 ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	question, err := c.QuestionService.GetByID(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 记录问题浏览
// @Tags 问题
// @Produce json
// @Param id path string true "问题 ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/view [post]
func (c *QuestionController) RecordView(ctx *gin.Context) {
	var userID uint
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID
	}

	if err := c.InteractionService.RecordView(ctx.Param("id"), userID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 编辑问题
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题 ID"
// @Param body body service.QuestionRequest true "问题信息"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Edit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Edit(user.UserID, ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// @Summary 删除问题
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题 ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuestionService.Delete(user.UserID, ctx.Param("id")); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取热门问题
// @Tags 问题
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/questions/hot [get]
func (c *QuestionController) Hot(ctx *gin.Context) {
	questions, err := c.QuestionService.GetHotQuestions(5)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 获取个性化推荐问题
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/questions/recommended [get]
func (c *QuestionController) Recommended(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	_, limit := pagination(ctx)
	questions, err := c.RecommendationService.GetRecommendedQuestions(user.UserID, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}
