package service

import (
	"context"
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"devoverflow_backend/pkg/logger"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const hotQuestionsCacheKey = "questions:hot"
const hotQuestionsCacheTTL = 5 * time.Minute

type QuestionService struct {
	DB           *gorm.DB
	QuestionRepo *repository.QuestionRepository
	Redis        *redis.Client
}

func NewQuestionService(db *gorm.DB, questionRepo *repository.QuestionRepository, rdb *redis.Client) *QuestionService {
	return &QuestionService{
		DB:           db,
		QuestionRepo: questionRepo,
		Redis:        rdb,
	}
}

type QuestionRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5"`
}

// Create 提问：问题、标签档案、交互日志和 +5 声望在同一事务内落库
func (s *QuestionService) Create(userID uint, req QuestionRequest) (*model.Question, error) {
	question := model.Question{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: userID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		tags, err := ensureTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := attachQuestionToTags(tx, &question, tags); err != nil {
			return err
		}

		if err := recordAuthorAction(tx, userID, model.ActionAskQuestion, question.ID, nil, tags); err != nil {
			return err
		}

		return adjustReputation(tx, userID, RepAskQuestion)
	})
	if err != nil {
		return nil, err
	}

	return s.QuestionRepo.FindByID(question.ID)
}

// Edit 只有作者本人可编辑，标签集合走对称差调和
func (s *QuestionService) Edit(userID uint, questionID string, req QuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	if question.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":   req.Title,
			"content": req.Content,
		}
		if err := tx.Model(&model.Question{}).Where("id = ?", questionID).Updates(updates).Error; err != nil {
			return err
		}

		return reconcileTags(tx, questionID, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.QuestionRepo.FindByID(questionID)
}

func (s *QuestionService) GetByID(id string) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) GetQuestions(page, pageSize int, filter, search string) ([]model.Question, bool, error) {
	offset := (page - 1) * pageSize

	questions, total, err := s.QuestionRepo.FindWithPagination(offset, pageSize, filter, search)
	if err != nil {
		return nil, false, err
	}

	// 计数在切片之前、且与切片同过滤条件，isNext 不会虚报
	isNext := total > int64(offset+len(questions))
	return questions, isNext, nil
}

func (s *QuestionService) GetHotQuestions(limit int) ([]model.Question, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), hotQuestionsCacheKey).Result(); err == nil {
			var questions []model.Question
			if err := json.Unmarshal([]byte(cached), &questions); err == nil && len(questions) >= limit {
				return questions[:limit], nil
			}
		}
	}

	questions, err := s.QuestionRepo.FindHot(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(questions); err == nil {
			if err := s.Redis.Set(context.Background(), hotQuestionsCacheKey, payload, hotQuestionsCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache hot questions", zap.Error(err))
			}
		}
	}

	return questions, nil
}

// Delete 问题的级联删除。依赖行的 id 必须在删除它们的定义行之前收集，
// 任何一步失败整个事务回滚
func (s *QuestionService) Delete(userID uint, questionID string) error {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	if userID != 0 && question.AuthorID != userID {
		return util.ErrPermissionDenied
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteQuestionCascade(tx, questionID)
	})
}

func deleteQuestionCascade(tx *gorm.DB, questionID string) error {
	// 先收集回答 id，后面交互和票据的清理还要用
	var answerIDs []string
	if err := tx.Model(&model.Answer{}).Where("question_id = ?", questionID).Pluck("id", &answerIDs).Error; err != nil {
		return err
	}

	// 1. 删除问题本身
	if err := tx.Delete(&model.Question{}, "id = ?", questionID).Error; err != nil {
		return err
	}

	// 2. 批量删除所有回答
	if err := tx.Where("question_id = ?", questionID).Delete(&model.Answer{}).Error; err != nil {
		return err
	}

	// 3. 批量删除引用问题或其回答的交互，无论属于哪个用户
	if err := tx.Where("question_id = ?", questionID).Delete(&model.Interaction{}).Error; err != nil {
		return err
	}
	if len(answerIDs) > 0 {
		if err := tx.Where("answer_id IN ?", answerIDs).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
	}

	// 4. 从每个标签的反向引用集合里摘掉问题（标签留档）
	if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", questionID).Error; err != nil {
		return err
	}

	// 5. 修复收藏列表和票据，不留悬挂引用
	if err := tx.Exec("DELETE FROM saved_questions WHERE question_id = ?", questionID).Error; err != nil {
		return err
	}
	if err := tx.Where("item_type = ? AND item_id = ?", model.VoteItemQuestion, questionID).Delete(&model.Vote{}).Error; err != nil {
		return err
	}
	if len(answerIDs) > 0 {
		if err := tx.Where("item_type = ? AND item_id IN ?", model.VoteItemAnswer, answerIDs).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
	}

	return nil
}
