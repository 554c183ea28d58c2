package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"time"
)

const (
	recommendUserTagLimit  = 10
	recommendTrendingLimit = 5
	trendingWindow         = 30 * 24 * time.Hour
)

type RecommendationService struct {
	QuestionRepo    *repository.QuestionRepository
	InteractionRepo *repository.InteractionRepository
	VoteRepo        *repository.VoteRepository
}

func NewRecommendationService(questionRepo *repository.QuestionRepository, interactionRepo *repository.InteractionRepository, voteRepo *repository.VoteRepository) *RecommendationService {
	return &RecommendationService{
		QuestionRepo:    questionRepo,
		InteractionRepo: interactionRepo,
		VoteRepo:        voteRepo,
	}
}

// GetRecommendedQuestions 个性化推荐。候选来自用户高频交互标签并用近期
// 热门标签兜底，再剔除已浏览、已点赞和本人发布的问题
func (s *RecommendationService) GetRecommendedQuestions(userID uint, limit int) ([]model.Question, error) {
	userTagIDs, err := s.InteractionRepo.TopTagIDsByUser(userID, recommendUserTagLimit)
	if err != nil {
		return nil, err
	}
	trendingTagIDs, err := s.InteractionRepo.TrendingTagIDs(time.Now().Add(-trendingWindow), recommendTrendingLimit)
	if err != nil {
		return nil, err
	}

	tagIDs := unionIDs(userTagIDs, trendingTagIDs)
	if len(tagIDs) == 0 {
		// 站内没有任何兴趣信号，没有可推荐的候选
		return []model.Question{}, nil
	}

	viewedIDs, err := s.InteractionRepo.ViewedQuestionIDs(userID)
	if err != nil {
		return nil, err
	}
	upvotedIDs, err := s.VoteRepo.UpvotedQuestionIDs(userID)
	if err != nil {
		return nil, err
	}
	excludeIDs := unionIDs(viewedIDs, upvotedIDs)

	questions, err := s.QuestionRepo.FindRecommended(tagIDs, excludeIDs, userID, limit)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	result := questions[:0]
	for _, q := range questions {
		if _, seen := excluded[q.ID]; seen {
			continue
		}
		if q.AuthorID == userID {
			continue
		}
		result = append(result, q)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	for _, id := range b {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	return union
}
