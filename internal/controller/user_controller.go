package controller

import (
	"devoverflow_backend/internal/service"
	"devoverflow_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	TagService  *service.TagService
}

func NewUserController(userSvc *service.UserService, tagSvc *service.TagService) *UserController {
	return &UserController{
		UserService: userSvc,
		TagService:  tagSvc,
	}
}

// @Summary 接收身份提供方的账号事件
// @Tags 用户
// @Accept json
// @Produce json
// @Param body body service.IdentityEvent true "账号事件"
// @Success 200 {object} util.Response
// @Router /api/webhooks/identity [post]
func (c *UserController) HandleIdentityEvent(ctx *gin.Context) {
	var event service.IdentityEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.HandleIdentityEvent(event); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取社区用户列表
// @Tags 用户
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param filter query string false "排序 (reputation/join_date)"
// @Param search query string false "姓名或用户名关键词"
// @Success 200 {object} util.Response
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	filter := ctx.Query("filter")
	search := ctx.Query("search")

	users, isNext, err := c.UserService.GetUsers(page, limit, filter, search)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取用户成就统计和徽章
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/stats [get]
func (c *UserController) Stats(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	stats, err := c.UserService.GetUserStats(uint(userID))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 获取用户提出的问题
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/users/{id}/questions [get]
func (c *UserController) Questions(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	page, limit := pagination(ctx)
	questions, isNext, err := c.UserService.GetUserQuestions(uint(userID), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: questions, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取用户写的回答
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/users/{id}/answers [get]
func (c *UserController) Answers(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	page, limit := pagination(ctx)
	answers, isNext, err := c.UserService.GetUserAnswers(uint(userID), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: answers, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取用户高频交互的标签
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/top-tags [get]
func (c *UserController) TopTags(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	tags, err := c.TagService.TopInteractedTags(uint(userID), 3)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, tags)
}

// @Summary 收藏或取消收藏问题
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题 ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/save [post]
func (c *UserController) ToggleSave(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	saved, err := c.UserService.ToggleSave(user.UserID, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"saved": saved})
}

// @Summary 获取当前用户的问题收藏夹
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param search query string false "标题关键词"
// @Success 200 {object} util.Response
// @Router /api/users/me/saved [get]
func (c *UserController) SavedQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	search := ctx.Query("search")

	questions, isNext, err := c.UserService.GetSavedQuestions(user.UserID, page, limit, search)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: questions, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取当前用户资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetUserByClerkID(user.ClerkID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
