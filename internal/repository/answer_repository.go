package repository

import (
	"devoverflow_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *AnswerRepository) FindByID(id string) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Preload("Author").First(&answer, "id = ?", id).Error
	return &answer, err
}

func (r *AnswerRepository) FindByQuestionWithPagination(questionID string, offset, limit int, sortBy string) ([]model.Answer, int64, error) {
	var answers []model.Answer
	var total int64

	query := r.DB.Model(&model.Answer{}).Where("question_id = ?", questionID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case "highest_upvotes":
		query = query.Order("upvote_count DESC")
	case "lowest_upvotes":
		query = query.Order("upvote_count ASC")
	case "recent":
		query = query.Order("created_at DESC")
	case "old":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("upvote_count DESC")
	}

	err := query.Offset(offset).Limit(limit).
		Preload("Author").
		Find(&answers).Error
	if err != nil {
		return nil, 0, err
	}

	return answers, total, nil
}

func (r *AnswerRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *AnswerRepository) FindByAuthorWithPagination(authorID uint, offset, limit int) ([]model.Answer, int64, error) {
	var answers []model.Answer
	var total int64

	query := r.DB.Model(&model.Answer{}).Where("author_id = ?", authorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("upvote_count DESC").
		Offset(offset).Limit(limit).
		Preload("Author").
		Find(&answers).Error
	if err != nil {
		return nil, 0, err
	}

	return answers, total, nil
}

func (r *AnswerRepository) SumUpvotesByAuthor(authorID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.Answer{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(upvote_count), 0)").
		Scan(&total).Error
	return total, err
}
