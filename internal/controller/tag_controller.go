package controller

import (
	"devoverflow_backend/internal/service"
	"devoverflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TagController struct {
	TagService *service.TagService
}

func NewTagController(tagSvc *service.TagService) *TagController {
	return &TagController{TagService: tagSvc}
}

// @Summary 获取标签列表
// @Tags 标签
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param filter query string false "排序 (popular/recent/old/name)"
// @Param search query string false "名称关键词"
// @Success 200 {object} util.Response
// @Router /api/tags [get]
func (c *TagController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	filter := ctx.Query("filter")
	search := ctx.Query("search")

	tags, isNext, err := c.TagService.GetTags(page, limit, filter, search)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: tags, IsNext: isNext, Page: page, Limit: limit})
}

// @Summary 获取热门标签
// @Tags 标签
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/tags/popular [get]
func (c *TagController) Popular(ctx *gin.Context) {
	tags, err := c.TagService.PopularTags(5)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, tags)
}

// @Summary 获取标签下的问题列表
// @Tags 标签
// @Produce json
// @Param id path string true "标签 ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param search query string false "标题关键词"
// @Success 200 {object} util.Response
// @Router /api/tags/{id}/questions [get]
func (c *TagController) Questions(ctx *gin.Context) {
	page, limit := pagination(ctx)
	search := ctx.Query("search")

	tagName, questions, isNext, err := c.TagService.GetQuestionsByTag(ctx.Param("id"), page, limit, search)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"tagName": tagName,
		"questions": util.PageResponse{
			List:   questions,
			IsNext: isNext,
			Page:   page,
			Limit:  limit,
		},
	})
}
