package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// InteractionService 只追加的交互日志：浏览计数去重和推荐信号都从这里来
type InteractionService struct {
	DB              *gorm.DB
	InteractionRepo *repository.InteractionRepository
	QuestionRepo    *repository.QuestionRepository
}

func NewInteractionService(
	db *gorm.DB,
	interactionRepo *repository.InteractionRepository,
	questionRepo *repository.QuestionRepository,
) *InteractionService {
	return &InteractionService{
		DB:              db,
		InteractionRepo: interactionRepo,
		QuestionRepo:    questionRepo,
	}
}

// RecordView 浏览计数每次调用都自增，日志按 (用户, 问题) 去重：
// 同一用户的重复访问不再追加日志行。匿名访问只计数不记日志
func (s *InteractionService) RecordView(questionID string, userID uint) error {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	if err := s.QuestionRepo.IncrementViews(questionID); err != nil {
		return err
	}

	if userID == 0 {
		return nil
	}

	viewed, err := s.InteractionRepo.HasViewed(userID, questionID)
	if err != nil {
		return err
	}
	if viewed {
		return nil
	}

	// 标签冗余一份进日志，之后聚合兴趣标签不必回表
	interaction := model.Interaction{
		UserID:     userID,
		Action:     model.ActionView,
		QuestionID: &questionID,
		Tags:       question.Tags,
	}
	return s.InteractionRepo.Create(&interaction)
}

// RecordAuthorAction 提问/回答动作的普通追加，不去重
func (s *InteractionService) RecordAuthorAction(userID uint, action model.InteractionAction, questionID string, tags []model.Tag) error {
	return recordAuthorAction(s.DB, userID, action, questionID, nil, tags)
}

func recordAuthorAction(tx *gorm.DB, userID uint, action model.InteractionAction, questionID string, answerID *string, tags []model.Tag) error {
	interaction := model.Interaction{
		UserID:     userID,
		Action:     action,
		QuestionID: &questionID,
		AnswerID:   answerID,
		Tags:       tags,
	}
	return tx.Create(&interaction).Error
}
