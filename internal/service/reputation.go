package service

import "devoverflow_backend/internal/model"

// 声望点数表。换票按「先撤销旧票、再施加新票」合并成一次调整，
// 声望没有下限，可以为负。
const (
	RepAskQuestion = 5  // 提问者发布问题
	RepWriteAnswer = 10 // 回答者发布回答
)

// voteDeltas 施加一票时投票者和被投内容作者各自的声望变化，
// 撤销一票时取相反数
func voteDeltas(itemType model.VoteItemType, value int) (voter, author int) {
	switch itemType {
	case model.VoteItemQuestion:
		if value == model.VoteValueUp {
			return 1, 10
		}
		return -1, -2
	case model.VoteItemAnswer:
		if value == model.VoteValueUp {
			return 2, 10
		}
		return -2, -2
	}
	return 0, 0
}

// BadgeCounts 个人主页展示的徽章等级数量
type BadgeCounts struct {
	Gold   int `json:"goldBadges"`
	Silver int `json:"silverBadges"`
	Bronze int `json:"bronzeBadges"`
}

type badgeLevels struct {
	Bronze int64
	Silver int64
	Gold   int64
}

const (
	criteriaQuestionCount   = "question_count"
	criteriaAnswerCount     = "answer_count"
	criteriaQuestionUpvotes = "question_upvotes"
	criteriaAnswerUpvotes   = "answer_upvotes"
	criteriaTotalViews      = "total_views"
)

var badgeCriteria = map[string]badgeLevels{
	criteriaQuestionCount:   {Bronze: 10, Silver: 50, Gold: 100},
	criteriaAnswerCount:     {Bronze: 10, Silver: 50, Gold: 100},
	criteriaQuestionUpvotes: {Bronze: 10, Silver: 50, Gold: 100},
	criteriaAnswerUpvotes:   {Bronze: 10, Silver: 50, Gold: 100},
	criteriaTotalViews:      {Bronze: 1000, Silver: 10000, Gold: 100000},
}

func assignBadges(counts map[string]int64) BadgeCounts {
	var badges BadgeCounts
	for criterion, levels := range badgeCriteria {
		count, ok := counts[criterion]
		if !ok {
			continue
		}
		if count >= levels.Bronze {
			badges.Bronze++
		}
		if count >= levels.Silver {
			badges.Silver++
		}
		if count >= levels.Gold {
			badges.Gold++
		}
	}
	return badges
}
