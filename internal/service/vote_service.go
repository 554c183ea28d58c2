package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"devoverflow_backend/pkg/monitoring"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// VoteState 一次投票操作后该用户在该内容上的最终状态
type VoteState struct {
	HasUpvoted    bool `json:"hasUpvoted"`
	HasDownvoted  bool `json:"hasDownvoted"`
	UpvoteCount   int  `json:"upvotes"`
	DownvoteCount int  `json:"downvotes"`
}

// VoteService 投票台账：同方向重复点击撤票，反方向点击换票，
// 票、计数和声望增量在同一事务内落库
type VoteService struct {
	DB *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{DB: db}
}

func (s *VoteService) ApplyVote(itemType model.VoteItemType, itemID string, userID uint, direction VoteDirection) (*VoteState, error) {
	var value int
	switch direction {
	case VoteUp:
		value = model.VoteValueUp
	case VoteDown:
		value = model.VoteValueDown
	default:
		return nil, util.ErrInvalidVote
	}

	var state VoteState

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		authorID, err := itemAuthor(tx, itemType, itemID)
		if err != nil {
			return err
		}

		var existing model.Vote
		findErr := tx.Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
			First(&existing).Error

		voterDelta, authorDelta := voteDeltas(itemType, value)

		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			// 无票 -> 施加新票。唯一索引吃掉并发重复插入，
			// 没插进去说明另一次提交已经落账，这里按幂等空操作处理
			vote := model.Vote{UserID: userID, ItemType: itemType, ItemID: itemID, Value: value}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				break
			}
			if err := adjustVoteCount(tx, itemType, itemID, value, 1); err != nil {
				return err
			}
			if err := adjustReputation(tx, userID, voterDelta); err != nil {
				return err
			}
			if err := adjustReputation(tx, authorID, authorDelta); err != nil {
				return err
			}
			monitoring.VoteCounter.WithLabelValues(string(itemType), "apply").Inc()

		case findErr != nil:
			return findErr

		case existing.Value == value:
			// 同方向重复点击 -> 撤票，并撤销当初发出的声望奖励
			res := tx.Where("user_id = ? AND item_type = ? AND item_id = ? AND value = ?", userID, itemType, itemID, value).
				Delete(&model.Vote{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				break
			}
			if err := adjustVoteCount(tx, itemType, itemID, value, -1); err != nil {
				return err
			}
			if err := adjustReputation(tx, userID, -voterDelta); err != nil {
				return err
			}
			if err := adjustReputation(tx, authorID, -authorDelta); err != nil {
				return err
			}
			monitoring.VoteCounter.WithLabelValues(string(itemType), "retract").Inc()

		default:
			// 反方向 -> 原地换票。条件更新只在旧值仍在时生效，
			// 同一用户的并发双击不会把两侧都写上
			res := tx.Model(&model.Vote{}).
				Where("user_id = ? AND item_type = ? AND item_id = ? AND value = ?", userID, itemType, itemID, existing.Value).
				Update("value", value)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				break
			}
			if err := adjustVoteCount(tx, itemType, itemID, existing.Value, -1); err != nil {
				return err
			}
			if err := adjustVoteCount(tx, itemType, itemID, value, 1); err != nil {
				return err
			}
			oldVoter, oldAuthor := voteDeltas(itemType, existing.Value)
			if err := adjustReputation(tx, userID, voterDelta-oldVoter); err != nil {
				return err
			}
			if err := adjustReputation(tx, authorID, authorDelta-oldAuthor); err != nil {
				return err
			}
			monitoring.VoteCounter.WithLabelValues(string(itemType), "swap").Inc()
		}

		return loadVoteState(tx, itemType, itemID, userID, &state)
	})
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func itemAuthor(tx *gorm.DB, itemType model.VoteItemType, itemID string) (uint, error) {
	switch itemType {
	case model.VoteItemQuestion:
		var question model.Question
		if err := tx.Select("id", "author_id").First(&question, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, util.ErrQuestionNotFound
			}
			return 0, err
		}
		return question.AuthorID, nil
	case model.VoteItemAnswer:
		var answer model.Answer
		if err := tx.Select("id", "author_id").First(&answer, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, util.ErrAnswerNotFound
			}
			return 0, err
		}
		return answer.AuthorID, nil
	}
	return 0, util.ErrInvalidVote
}

func adjustVoteCount(tx *gorm.DB, itemType model.VoteItemType, itemID string, value, delta int) error {
	column := "upvote_count"
	if value == model.VoteValueDown {
		column = "downvote_count"
	}

	var target interface{} = &model.Question{}
	if itemType == model.VoteItemAnswer {
		target = &model.Answer{}
	}

	return tx.Model(target).
		Where("id = ?", itemID).
		Update(column, gorm.Expr(column+" + ?", delta)).
		Error
}

func adjustReputation(tx *gorm.DB, userID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("reputation", gorm.Expr("reputation + ?", delta)).
		Error
}

func loadVoteState(tx *gorm.DB, itemType model.VoteItemType, itemID string, userID uint, state *VoteState) error {
	var up, down int
	switch itemType {
	case model.VoteItemQuestion:
		var question model.Question
		if err := tx.Select("upvote_count", "downvote_count").First(&question, "id = ?", itemID).Error; err != nil {
			return err
		}
		up, down = question.UpvoteCount, question.DownvoteCount
	case model.VoteItemAnswer:
		var answer model.Answer
		if err := tx.Select("upvote_count", "downvote_count").First(&answer, "id = ?", itemID).Error; err != nil {
			return err
		}
		up, down = answer.UpvoteCount, answer.DownvoteCount
	}

	var vote model.Vote
	err := tx.Where("user_id = ? AND item_type = ? AND item_id = ?", userID, itemType, itemID).
		First(&vote).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	state.UpvoteCount = up
	state.DownvoteCount = down
	state.HasUpvoted = err == nil && vote.Value == model.VoteValueUp
	state.HasDownvoted = err == nil && vote.Value == model.VoteValueDown
	return nil
}
