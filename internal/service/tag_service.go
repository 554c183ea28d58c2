package service

import (
	"context"
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/util"
	"devoverflow_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const popularTagsCacheTTL = 5 * time.Minute

// TagService 标签注册表：首次使用时惰性建档，维护 Question<->Tag 双向引用
type TagService struct {
	DB              *gorm.DB
	TagRepo         *repository.TagRepository
	QuestionRepo    *repository.QuestionRepository
	InteractionRepo *repository.InteractionRepository
	Redis           *redis.Client
}

func NewTagService(
	db *gorm.DB,
	tagRepo *repository.TagRepository,
	questionRepo *repository.QuestionRepository,
	interactionRepo *repository.InteractionRepository,
	rdb *redis.Client,
) *TagService {
	return &TagService{
		DB:              db,
		TagRepo:         tagRepo,
		QuestionRepo:    questionRepo,
		InteractionRepo: interactionRepo,
		Redis:           rdb,
	}
}

// ensureTags 大小写不敏感地查找或创建标签。靠 slug 唯一索引做 upsert，
// 并发创建 "rust" 和 "Rust" 时只会落下一个文档，展示大小写归首次创建者
func ensureTags(tx *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		slug := model.TagSlug(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag := model.Tag{Name: strings.TrimSpace(name), Slug: slug}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return nil, err
		}

		// 冲突时拿回已有文档
		var existing model.Tag
		if err := tx.First(&existing, "slug = ?", slug).Error; err != nil {
			return nil, err
		}
		tags = append(tags, existing)
	}

	return tags, nil
}

func attachQuestionToTags(tx *gorm.DB, question *model.Question, tags []model.Tag) error {
	for i := range tags {
		if err := tx.Model(question).Association("Tags").Append(&tags[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileTags 编辑问题时对新旧标签集合做对称差：
// 被移除的标签只收缩反向引用（标签本身留档，哪怕已经为空），
// 新增的标签走 upsert，最后问题自己的标签集等于新集合
func (s *TagService) ReconcileTags(questionID string, newNames []string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return reconcileTags(tx, questionID, newNames)
	})
}

func reconcileTags(tx *gorm.DB, questionID string, newNames []string) error {
	var question model.Question
	if err := tx.Preload("Tags").First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	wanted := make(map[string]bool, len(newNames))
	for _, name := range newNames {
		if slug := model.TagSlug(name); slug != "" {
			wanted[slug] = true
		}
	}

	current := make(map[string]bool, len(question.Tags))
	for i := range question.Tags {
		tag := question.Tags[i]
		current[tag.Slug] = true
		if !wanted[tag.Slug] {
			if err := tx.Model(&question).Association("Tags").Delete(&tag); err != nil {
				return err
			}
		}
	}

	var toAdd []string
	for _, name := range newNames {
		if slug := model.TagSlug(name); slug != "" && !current[slug] {
			toAdd = append(toAdd, name)
		}
	}

	added, err := ensureTags(tx, toAdd)
	if err != nil {
		return err
	}

	return attachQuestionToTags(tx, &question, added)
}

func (s *TagService) GetTags(page, pageSize int, filter, search string) ([]model.Tag, bool, error) {
	offset := (page - 1) * pageSize

	tags, total, err := s.TagRepo.FindWithPagination(offset, pageSize, filter, search)
	if err != nil {
		return nil, false, err
	}

	isNext := total > int64(offset+len(tags))
	return tags, isNext, nil
}

// PopularTags 按反向引用数取前 N，读多写少，结果在 Redis 里缓存几分钟
func (s *TagService) PopularTags(limit int) ([]model.TagCount, error) {
	cacheKey := fmt.Sprintf("tags:popular:%d", limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var counts []model.TagCount
			if err := json.Unmarshal([]byte(cached), &counts); err == nil {
				return counts, nil
			}
		}
	}

	counts, err := s.TagRepo.PopularTags(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(counts); err == nil {
			if err := s.Redis.Set(context.Background(), cacheKey, payload, popularTagsCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache popular tags", zap.Error(err))
			}
		}
	}

	return counts, nil
}

func (s *TagService) GetQuestionsByTag(tagID string, page, pageSize int, search string) (string, []model.Question, bool, error) {
	tag, err := s.TagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, false, util.ErrTagNotFound
		}
		return "", nil, false, err
	}

	offset := (page - 1) * pageSize
	questions, isNext, err := s.QuestionRepo.FindByTagWithPagination(tagID, offset, pageSize, search)
	if err != nil {
		return "", nil, false, err
	}

	return tag.Name, questions, isNext, nil
}

// TopInteractedTags 用户历史交互最频繁的标签，个人主页和推荐都会用
func (s *TagService) TopInteractedTags(userID uint, limit int) ([]model.Tag, error) {
	ids, err := s.InteractionRepo.TopTagIDsByUser(userID, limit)
	if err != nil {
		return nil, err
	}
	return s.TagRepo.FindByIDs(ids)
}
