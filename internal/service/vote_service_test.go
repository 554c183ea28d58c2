package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVoteQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	voter := env.seedUser(t, "voter")

	question := env.seedQuestion(t, author.ID, "How to read a file in Go")
	require.Equal(t, 5, env.reputation(t, author.ID))

	// 施加赞成票
	state, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, voter.ID, VoteUp)
	require.NoError(t, err)
	assert.True(t, state.HasUpvoted)
	assert.False(t, state.HasDownvoted)
	assert.Equal(t, 1, state.UpvoteCount)
	assert.Equal(t, 0, state.DownvoteCount)
	assert.Equal(t, 1, env.reputation(t, voter.ID))
	assert.Equal(t, 15, env.reputation(t, author.ID))

	// 反方向点击换票，一行记录原地翻转，两侧计数各动一格
	state, err = env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, voter.ID, VoteDown)
	require.NoError(t, err)
	assert.False(t, state.HasUpvoted)
	assert.True(t, state.HasDownvoted)
	assert.Equal(t, 0, state.UpvoteCount)
	assert.Equal(t, 1, state.DownvoteCount)
	assert.Equal(t, -1, env.reputation(t, voter.ID))
	assert.Equal(t, 3, env.reputation(t, author.ID))

	// 同方向重复点击撤票，声望回到换票前的基线
	state, err = env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, voter.ID, VoteDown)
	require.NoError(t, err)
	assert.False(t, state.HasUpvoted)
	assert.False(t, state.HasDownvoted)
	assert.Equal(t, 0, state.UpvoteCount)
	assert.Equal(t, 0, state.DownvoteCount)
	assert.Equal(t, 0, env.reputation(t, voter.ID))
	assert.Equal(t, 5, env.reputation(t, author.ID))

	assert.EqualValues(t, 0, env.count(t, &model.Vote{}, "user_id = ?", voter.ID))
}

func TestApplyVoteAnswerDeltas(t *testing.T) {
	env := newTestEnv(t)
	asker := env.seedUser(t, "asker")
	answerer := env.seedUser(t, "answerer")
	voter := env.seedUser(t, "voter")

	question := env.seedQuestion(t, asker.ID, "What is a goroutine")
	answer := env.seedAnswer(t, answerer.ID, question.ID, "a lightweight thread")
	require.Equal(t, 10, env.reputation(t, answerer.ID))

	state, err := env.Votes.ApplyVote(model.VoteItemAnswer, answer.ID, voter.ID, VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, state.UpvoteCount)
	assert.Equal(t, 2, env.reputation(t, voter.ID))
	assert.Equal(t, 20, env.reputation(t, answerer.ID))

	// 撤票
	_, err = env.Votes.ApplyVote(model.VoteItemAnswer, answer.ID, voter.ID, VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 0, env.reputation(t, voter.ID))
	assert.Equal(t, 10, env.reputation(t, answerer.ID))

	// 反对票
	state, err = env.Votes.ApplyVote(model.VoteItemAnswer, answer.ID, voter.ID, VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 1, state.DownvoteCount)
	assert.Equal(t, -2, env.reputation(t, voter.ID))
	assert.Equal(t, 8, env.reputation(t, answerer.ID))
}

func TestVoteDisjointAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	question := env.seedQuestion(t, author.ID, "Disjoint votes")

	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, alice.ID, VoteUp)
	require.NoError(t, err)
	state, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, bob.ID, VoteDown)
	require.NoError(t, err)

	assert.Equal(t, 1, state.UpvoteCount)
	assert.Equal(t, 1, state.DownvoteCount)
	assert.False(t, state.HasUpvoted)
	assert.True(t, state.HasDownvoted)

	// 每个 (用户, 内容) 至多一行
	assert.EqualValues(t, 2, env.count(t, &model.Vote{}, "item_id = ?", question.ID))
}

func TestVoteSelfVoteAllowed(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	question := env.seedQuestion(t, author.ID, "Self vote")

	// 给自己投票时两份增量都落在同一账户上
	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, author.ID, VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 5+1+10, env.reputation(t, author.ID))
}

func TestVoteUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	voter := env.seedUser(t, "voter")

	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, "missing", voter.ID, VoteUp)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	_, err = env.Votes.ApplyVote(model.VoteItemAnswer, "missing", voter.ID, VoteDown)
	assert.ErrorIs(t, err, util.ErrAnswerNotFound)
}

func TestVoteInvalidDirection(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	question := env.seedQuestion(t, author.ID, "Bad direction")

	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, author.ID, VoteDirection("sideways"))
	assert.ErrorIs(t, err, util.ErrInvalidVote)
}
