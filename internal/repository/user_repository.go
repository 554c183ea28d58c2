package repository

import (
	"devoverflow_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByClerkID(clerkID string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "clerk_id = ?", clerkID).Error
	return &user, err
}

func (r *UserRepository) UpdateByClerkID(clerkID string, updates map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("clerk_id = ?", clerkID).Updates(updates).Error
}

func (r *UserRepository) IncrementReputation(userID uint, delta int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("reputation", gorm.Expr("reputation + ?", delta)).
		Error
}

func (r *UserRepository) FindWithPagination(offset, limit int, filter, search string) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})

	if search != "" {
		query = query.Where("name LIKE ? OR username LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter {
	case "reputation":
		query = query.Order("reputation DESC")
	case "join_date":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	err := query.Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) IsQuestionSaved(userID uint, questionID string) (bool, error) {
	var count int64
	err := r.DB.Table("saved_questions").
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) SaveQuestion(user *model.User, question *model.Question) error {
	return r.DB.Model(user).Association("Saved").Append(question)
}

func (r *UserRepository) UnsaveQuestion(user *model.User, question *model.Question) error {
	return r.DB.Model(user).Association("Saved").Delete(question)
}

// FindSavedQuestions 收藏列表按人分页，精确计数开销大，这里多取一条判断下一页
func (r *UserRepository) FindSavedQuestions(userID uint, offset, limit int, search string) ([]model.Question, bool, error) {
	var questions []model.Question

	query := r.DB.Model(&model.Question{}).
		Joins("JOIN saved_questions ON saved_questions.question_id = questions.id").
		Where("saved_questions.user_id = ?", userID)

	if search != "" {
		query = query.Where("questions.title LIKE ?", "%"+search+"%")
	}

	err := query.Order("questions.created_at DESC").
		Offset(offset).Limit(limit + 1).
		Preload("Tags").
		Preload("Author").
		Find(&questions).Error
	if err != nil {
		return nil, false, err
	}

	isNext := len(questions) > limit
	if isNext {
		questions = questions[:limit]
	}

	return questions, isNext, nil
}
