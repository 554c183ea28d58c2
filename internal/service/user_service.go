package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
}

func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository) *UserService {
	return &UserService{
		DB:           db,
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
	}
}

const (
	IdentityEventUserCreated = "user.created"
	IdentityEventUserUpdated = "user.updated"
	IdentityEventUserDeleted = "user.deleted"
)

// IdentityEvent 身份提供方同步过来的账号生命周期事件
type IdentityEvent struct {
	Type     string `json:"type" binding:"required"`
	ClerkID  string `json:"clerkId" binding:"required"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture"`
}

// HandleIdentityEvent 处理账号事件。事件可能重放，处理必须幂等：
// 已存在的账号重复 created 按 updated 处理，deleted 找不到账号视为成功
func (s *UserService) HandleIdentityEvent(event IdentityEvent) error {
	switch event.Type {
	case IdentityEventUserCreated:
		_, err := s.UserRepo.FindByClerkID(event.ClerkID)
		if err == nil {
			// created 事件重放，等同于一次资料更新
			return s.applyProfileUpdate(event)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user := model.User{
			ClerkID:  event.ClerkID,
			Name:     event.Name,
			Username: event.Username,
			Email:    event.Email,
			Picture:  event.Picture,
		}
		return s.UserRepo.Create(&user)
	case IdentityEventUserUpdated:
		return s.applyProfileUpdate(event)
	case IdentityEventUserDeleted:
		user, err := s.UserRepo.FindByClerkID(event.ClerkID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return s.DeleteUser(user.ID)
	default:
		return util.ErrInvalidEvent
	}
}

func (s *UserService) applyProfileUpdate(event IdentityEvent) error {
	updates := map[string]interface{}{
		"name":     event.Name,
		"username": event.Username,
		"email":    event.Email,
		"picture":  event.Picture,
	}
	return s.UserRepo.UpdateByClerkID(event.ClerkID, updates)
}

func (s *UserService) GetUserByClerkID(clerkID string) (*model.User, error) {
	user, err := s.UserRepo.FindByClerkID(clerkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUsers(page, pageSize int, filter, search string) ([]model.User, bool, error) {
	offset := (page - 1) * pageSize

	users, total, err := s.UserRepo.FindWithPagination(offset, pageSize, filter, search)
	if err != nil {
		return nil, false, err
	}

	isNext := total > int64(offset+len(users))
	return users, isNext, nil
}

// ToggleSave 收藏开关。已收藏则取消，未收藏则加入，返回操作后的状态
func (s *UserService) ToggleSave(userID uint, questionID string) (bool, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrUserNotFound
		}
		return false, err
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrQuestionNotFound
		}
		return false, err
	}

	saved, err := s.UserRepo.IsQuestionSaved(userID, questionID)
	if err != nil {
		return false, err
	}

	if saved {
		if err := s.UserRepo.UnsaveQuestion(user, question); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.UserRepo.SaveQuestion(user, question); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) GetSavedQuestions(userID uint, page, pageSize int, search string) ([]model.Question, bool, error) {
	offset := (page - 1) * pageSize
	return s.UserRepo.FindSavedQuestions(userID, offset, pageSize, search)
}

// UserStats 用户主页的成就汇总
type UserStats struct {
	QuestionCount int64       `json:"questionCount"`
	AnswerCount   int64       `json:"answerCount"`
	TotalViews    int64       `json:"totalViews"`
	Badges        BadgeCounts `json:"badges"`
}

func (s *UserService) GetUserStats(userID uint) (*UserStats, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	questionCount, err := s.QuestionRepo.CountByAuthor(userID)
	if err != nil {
		return nil, err
	}
	answerCount, err := s.AnswerRepo.CountByAuthor(userID)
	if err != nil {
		return nil, err
	}
	totalViews, err := s.QuestionRepo.SumViewsByAuthor(userID)
	if err != nil {
		return nil, err
	}
	questionUpvotes, err := s.QuestionRepo.SumUpvotesByAuthor(userID)
	if err != nil {
		return nil, err
	}
	answerUpvotes, err := s.AnswerRepo.SumUpvotesByAuthor(userID)
	if err != nil {
		return nil, err
	}

	badges := assignBadges(map[string]int64{
		criteriaQuestionCount:   questionCount,
		criteriaAnswerCount:     answerCount,
		criteriaQuestionUpvotes: questionUpvotes,
		criteriaAnswerUpvotes:   answerUpvotes,
		criteriaTotalViews:      totalViews,
	})

	return &UserStats{
		QuestionCount: questionCount,
		AnswerCount:   answerCount,
		TotalViews:    totalViews,
		Badges:        badges,
	}, nil
}

func (s *UserService) GetUserQuestions(userID uint, page, pageSize int) ([]model.Question, bool, error) {
	offset := (page - 1) * pageSize

	questions, total, err := s.QuestionRepo.FindByAuthorWithPagination(userID, offset, pageSize)
	if err != nil {
		return nil, false, err
	}

	isNext := total > int64(offset+len(questions))
	return questions, isNext, nil
}

func (s *UserService) GetUserAnswers(userID uint, page, pageSize int) ([]model.Answer, bool, error) {
	offset := (page - 1) * pageSize

	answers, total, err := s.AnswerRepo.FindByAuthorWithPagination(userID, offset, pageSize)
	if err != nil {
		return nil, false, err
	}

	isNext := total > int64(offset+len(answers))
	return answers, isNext, nil
}

// DeleteUser 账号的级联删除。先删内容（各自带动引用清理），再撤掉该用户
// 投在他人内容上的票，最后删账号行。整个过程一个事务
func (s *UserService) DeleteUser(userID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 该用户提出的问题，逐个走问题级联（连带其下所有人的回答）
		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("author_id = ?", userID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		for _, questionID := range questionIDs {
			if err := deleteQuestionCascade(tx, questionID); err != nil {
				return err
			}
		}

		// 2. 该用户写在他人问题下的回答
		var answerIDs []string
		if err := tx.Model(&model.Answer{}).Where("author_id = ?", userID).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("id IN ?", answerIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&model.Interaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("item_type = ? AND item_id IN ?", model.VoteItemAnswer, answerIDs).Delete(&model.Vote{}).Error; err != nil {
				return err
			}
		}

		// 3. 该用户投在仍存活内容上的票：先回退计数器再删票。
		//    作者声望不回退，与回答删除的规则一致
		if err := revertVoteCounters(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Vote{}).Error; err != nil {
			return err
		}

		// 4. 剩余交互（浏览记录等）和收藏列表
		if err := tx.Where("user_id = ?", userID).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM saved_questions WHERE user_id = ?", userID).Error; err != nil {
			return err
		}

		// 5. 账号行
		return tx.Delete(&model.User{}, "id = ?", userID).Error
	})
}

// revertVoteCounters 对用户尚存的每张票做集合式回退，四类组合各一条 UPDATE
func revertVoteCounters(tx *gorm.DB, userID uint) error {
	type target struct {
		table    string
		itemType model.VoteItemType
		value    int
		column   string
	}
	targets := []target{
		{"questions", model.VoteItemQuestion, model.VoteValueUp, "upvote_count"},
		{"questions", model.VoteItemQuestion, model.VoteValueDown, "downvote_count"},
		{"answers", model.VoteItemAnswer, model.VoteValueUp, "upvote_count"},
		{"answers", model.VoteItemAnswer, model.VoteValueDown, "downvote_count"},
	}
	for _, t := range targets {
		err := tx.Exec(
			"UPDATE "+t.table+" SET "+t.column+" = "+t.column+" - 1 WHERE id IN (SELECT item_id FROM votes WHERE user_id = ? AND item_type = ? AND value = ?)",
			userID, t.itemType, t.value,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
