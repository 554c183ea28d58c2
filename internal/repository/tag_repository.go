package repository

import (
	"devoverflow_backend/internal/model"

	"gorm.io/gorm"
)

type TagRepository struct {
	DB *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

func (r *TagRepository) FindByID(id string) (*model.Tag, error) {
	var tag model.Tag
	err := r.DB.First(&tag, "id = ?", id).Error
	return &tag, err
}

func (r *TagRepository) FindBySlug(slug string) (*model.Tag, error) {
	var tag model.Tag
	err := r.DB.First(&tag, "slug = ?", slug).Error
	return &tag, err
}

const tagQuestionCount = "(SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id)"

// FindWithPagination 只列出仍被引用的标签，成为孤儿的标签保留但不展示
func (r *TagRepository) FindWithPagination(offset, limit int, filter, search string) ([]model.Tag, int64, error) {
	var tags []model.Tag
	var total int64

	query := r.DB.Model(&model.Tag{}).Where(tagQuestionCount + " > 0")

	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter {
	case "popular":
		query = query.Order(tagQuestionCount + " DESC")
	case "recent":
		query = query.Order("created_at DESC")
	case "old":
		query = query.Order("created_at ASC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order(tagQuestionCount + " DESC")
	}

	err := query.Offset(offset).Limit(limit).Find(&tags).Error
	if err != nil {
		return nil, 0, err
	}

	return tags, total, nil
}

// PopularTags 按反向引用集合大小取前 N
func (r *TagRepository) PopularTags(limit int) ([]model.TagCount, error) {
	var counts []model.TagCount
	err := r.DB.Table("tags").
		Select("tags.id AS id, tags.name AS name, COUNT(question_tags.question_id) AS question_count").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name").
		Order("question_count DESC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *TagRepository) FindByIDs(ids []string) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}
