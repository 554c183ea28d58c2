package repository

import (
	"devoverflow_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	return r.DB.Create(interaction).Error
}

func (r *InteractionRepository) HasViewed(userID uint, questionID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Interaction{}).
		Where("user_id = ? AND action = ? AND question_id = ?", userID, model.ActionView, questionID).
		Count(&count).Error
	return count > 0, err
}

// TopTagIDsByUser 用户历史交互最多的标签，推荐信号之一
func (r *InteractionRepository) TopTagIDsByUser(userID uint, limit int) ([]string, error) {
	var ids []string
	err := r.DB.Table("interaction_tags").
		Select("interaction_tags.tag_id").
		Joins("JOIN interactions ON interactions.id = interaction_tags.interaction_id").
		Where("interactions.user_id = ? AND interactions.deleted_at IS NULL", userID).
		Group("interaction_tags.tag_id").
		Order("COUNT(*) DESC").
		Limit(limit).
		Pluck("interaction_tags.tag_id", &ids).Error
	return ids, err
}

// TrendingTagIDs 近期交互频率最高的标签
func (r *InteractionRepository) TrendingTagIDs(since time.Time, limit int) ([]string, error) {
	var ids []string
	err := r.DB.Table("interaction_tags").
		Select("interaction_tags.tag_id").
		Joins("JOIN interactions ON interactions.id = interaction_tags.interaction_id").
		Where("interactions.created_at >= ? AND interactions.deleted_at IS NULL", since).
		Group("interaction_tags.tag_id").
		Order("COUNT(*) DESC").
		Limit(limit).
		Pluck("interaction_tags.tag_id", &ids).Error
	return ids, err
}

// ViewedQuestionIDs 用户看过的问题，推荐时要排除
func (r *InteractionRepository) ViewedQuestionIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Interaction{}).
		Where("user_id = ? AND action = ? AND question_id IS NOT NULL", userID, model.ActionView).
		Pluck("question_id", &ids).Error
	return ids, err
}
