package repository

import (
	"devoverflow_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Save(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Tags").
		Preload("Author").
		First(&question, "id = ?", id).Error
	return &question, err
}

// hasNoAnswers 过滤条件而不是排序：没有任何未删除回答的问题
const hasNoAnswers = "(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id AND answers.deleted_at IS NULL) = 0"

func (r *QuestionRepository) FindWithPagination(offset, limit int, filter, search string) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.Model(&model.Question{})

	if search != "" {
		query = query.Where("title LIKE ? OR content LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	switch filter {
	case "newest":
		query = query.Order("created_at DESC")
	case "frequent", "most_viewed":
		query = query.Order("views DESC")
	case "unanswered":
		query = query.Where(hasNoAnswers).Order("created_at DESC")
	case "most_voted":
		query = query.Order("upvote_count DESC")
	case "most_answered":
		query = query.Order("(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id AND answers.deleted_at IS NULL) DESC")
	default:
		query = query.Order("created_at DESC")
	}

	// 先在同一过滤条件下计数，再取当前页，isNext 由调用方比较 total 得出
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(offset).Limit(limit).
		Preload("Tags").
		Preload("Author").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *QuestionRepository) IncrementViews(id string) error {
	return r.DB.Model(&model.Question{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).
		Error
}

func (r *QuestionRepository) FindHot(limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Order("views DESC, upvote_count DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindIDsByAuthor(authorID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Question{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *QuestionRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *QuestionRepository) FindByAuthorWithPagination(authorID uint, offset, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.Model(&model.Question{}).Where("author_id = ?", authorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("views DESC, upvote_count DESC").
		Offset(offset).Limit(limit).
		Preload("Tags").
		Preload("Author").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// FindByTagWithPagination 标签维度按引用集合分页，多取一条代替精确计数
func (r *QuestionRepository) FindByTagWithPagination(tagID string, offset, limit int, search string) ([]model.Question, bool, error) {
	var questions []model.Question

	query := r.DB.Model(&model.Question{}).
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Where("question_tags.tag_id = ?", tagID)

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

func (r *QuestionRepository) SumViewsByAuthor(authorID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Question{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, err
}

func (r *QuestionRepository) SumUpvotesByAuthor(authorID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Question{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(upvote_count), 0)").
		Scan(&total).Error
	return total, err
}

// FindRecommended 按兴趣标签取候选问题，剔除已浏览、已点赞和本人发布的
func (r *QuestionRepository) FindRecommended(tagIDs, excludeIDs []string, excludeAuthor uint, limit int) ([]model.Question, error) {
	var questions []model.Question

	query := r.DB.Model(&model.Question{}).
		Distinct("questions.*").
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Where("question_tags.tag_id IN ?", tagIDs).
		Where("questions.author_id <> ?", excludeAuthor)
	if len(excludeIDs) > 0 {
		query = query.Where("questions.id NOT IN ?", excludeIDs)
	}

	err := query.
		Preload("Tags").
		Preload("Author").
		Order("questions.upvote_count DESC, questions.views DESC, questions.created_at DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}
