package repository

import (
	"devoverflow_backend/internal/model"

	"gorm.io/gorm"
)

type VoteRepository struct {
	DB *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{DB: db}
}

func (r *VoteRepository) Find(userID uint, itemType model.VoteItemType, itemID string) (*model.Vote, error) {
	var vote model.Vote
	err := r.DB.Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// HasUpvoted 用于推荐排除集合和前端投票状态回显
func (r *VoteRepository) HasUpvoted(userID uint, itemType model.VoteItemType, itemID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Vote{}).
		Where("user_id = ? AND item_type = ? AND item_id = ? AND value = ?", userID, itemType, itemID, model.VoteValueUp).
		Count(&count).Error
	return count > 0, err
}

func (r *VoteRepository) UpvotedQuestionIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Vote{}).
		Where("user_id = ? AND item_type = ? AND value = ?", userID, model.VoteItemQuestion, model.VoteValueUp).
		Pluck("item_id", &ids).Error
	return ids, err
}
