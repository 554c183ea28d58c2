package controller

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/service"
	"devoverflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VoteController struct {
	VoteService *service.VoteService
}

func NewVoteController(voteSvc *service.VoteService) *VoteController {
	return &VoteController{VoteService: voteSvc}
}

type VoteRequest struct {
	Direction service.VoteDirection `json:"direction" binding:"required,oneof=up down"`
}

// @Summary 对问题投票
// @Tags 投票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题 ID"
// @Param body body VoteRequest true "投票方向"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/vote [post]
func (c *VoteController) VoteQuestion(ctx *gin.Context) {
	c.vote(ctx, model.VoteItemQuestion)
}

// @Summary 对回答投票
// @Tags 投票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "回答 ID"
// @Param body body VoteRequest true "投票方向"
// @Success 200 {object} util.Response
// @Router /api/answers/{id}/vote [post]
func (c *VoteController) VoteAnswer(ctx *gin.Context) {
	c.vote(ctx, model.VoteItemAnswer)
}

func (c *VoteController) vote(ctx *gin.Context, itemType model.VoteItemType) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.VoteService.ApplyVote(itemType, ctx.Param("id"), user.UserID, req.Direction)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, state)
}
