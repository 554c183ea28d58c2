package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type AnswerService struct {
	DB           *gorm.DB
	AnswerRepo   *repository.AnswerRepository
	QuestionRepo *repository.QuestionRepository
}

func NewAnswerService(db *gorm.DB, answerRepo *repository.AnswerRepository, questionRepo *repository.QuestionRepository) *AnswerService {
	return &AnswerService{
		DB:           db,
		AnswerRepo:   answerRepo,
		QuestionRepo: questionRepo,
	}
}

type AnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create 回答问题：回答、交互日志和 +10 声望在同一事务内落库
func (s *AnswerService) Create(userID uint, questionID string, req AnswerRequest) (*model.Answer, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	answer := model.Answer{
		QuestionID: question.ID,
		AuthorID:   userID,
		Content:    req.Content,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}

		if err := recordAuthorAction(tx, userID, model.ActionAnswer, question.ID, &answer.ID, question.Tags); err != nil {
			return err
		}

		return adjustReputation(tx, userID, RepWriteAnswer)
	})
	if err != nil {
		return nil, err
	}

	return s.AnswerRepo.FindByID(answer.ID)
}

func (s *AnswerService) GetAnswers(questionID string, page, pageSize int, sortBy string) ([]model.Answer, bool, error) {
	offset := (page - 1) * pageSize

	answers, total, err := s.AnswerRepo.FindByQuestionWithPagination(questionID, offset, pageSize, sortBy)
	if err != nil {
		return nil, false, err
	}

	isNext := total > int64(offset+len(answers))
	return answers, isNext, nil
}

// Delete 回答的级联删除。写回答得到的 +10 声望是对劳动的奖励，删除时不收回
func (s *AnswerService) Delete(userID uint, answerID string) error {
	answer, err := s.AnswerRepo.FindByID(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAnswerNotFound
		}
		return err
	}

	if userID != 0 && answer.AuthorID != userID {
		return util.ErrPermissionDenied
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Answer{}, "id = ?", answerID).Error; err != nil {
			return err
		}
		if err := tx.Where("answer_id = ?", answerID).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		return tx.Where("item_type = ? AND item_id = ?", model.VoteItemAnswer, answerID).Delete(&model.Vote{}).Error
	})
}
