package service

import (
	"devoverflow_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationExcludesSeenAndOwn(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author")
	reader := env.seedUser(t, "reader")

	viewed := env.seedQuestion(t, author.ID, "Already viewed", "go")
	upvoted := env.seedQuestion(t, author.ID, "Already upvoted", "go")
	fresh := env.seedQuestion(t, author.ID, "Fresh candidate", "go")
	own := env.seedQuestion(t, reader.ID, "Readers own question", "go")

	require.NoError(t, env.Interactions.RecordView(viewed.ID, reader.ID))
	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, upvoted.ID, reader.ID, VoteUp)
	require.NoError(t, err)

	questions, err := env.Recommendation.GetRecommendedQuestions(reader.ID, 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, fresh.ID)
	assert.NotContains(t, ids, viewed.ID)
	assert.NotContains(t, ids, upvoted.ID)
	assert.NotContains(t, ids, own.ID)
}

func TestRecommendationOrdering(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author")
	voter := env.seedUser(t, "voter")
	reader := env.seedUser(t, "reader")

	plain := env.seedQuestion(t, author.ID, "Plain candidate", "go")
	popular := env.seedQuestion(t, author.ID, "Popular candidate", "go")
	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, popular.ID, voter.ID, VoteUp)
	require.NoError(t, err)

	// reader 与 go 标签发生过交互，形成兴趣信号
	seen := env.seedQuestion(t, author.ID, "Seed interest", "go")
	require.NoError(t, env.Interactions.RecordView(seen.ID, reader.ID))

	questions, err := env.Recommendation.GetRecommendedQuestions(reader.ID, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(questions), 2)
	assert.Equal(t, popular.ID, questions[0].ID)
	assert.Equal(t, plain.ID, questions[1].ID)
}

func TestRecommendationNoSignalsReturnsEmpty(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author")
	reader := env.seedUser(t, "reader")

	env.seedQuestion(t, author.ID, "Only question", "go")

	// seedQuestion 会产生一条 ask_question 交互并进入近期热门标签的聚合，
	// 这里清掉以模拟站内毫无兴趣信号的状态
	require.NoError(t, env.DB.Exec("DELETE FROM interaction_tags").Error)
	require.NoError(t, env.DB.Unscoped().Where("1 = 1").Delete(&model.Interaction{}).Error)

	questions, err := env.Recommendation.GetRecommendedQuestions(reader.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestRecommendationLimit(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author")
	reader := env.seedUser(t, "reader")

	for i := 0; i < 8; i++ {
		env.seedQuestion(t, author.ID, uniqueTitle("Candidate", i), "go")
	}
	seen := env.seedQuestion(t, author.ID, "Interest seed", "go")
	require.NoError(t, env.Interactions.RecordView(seen.ID, reader.ID))

	questions, err := env.Recommendation.GetRecommendedQuestions(reader.ID, 3)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}
