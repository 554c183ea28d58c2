package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityEventLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := IdentityEvent{
		Type:     IdentityEventUserCreated,
		ClerkID:  "clerk_jane",
		Name:     "Jane",
		Username: "jane",
		Email:    "jane@example.com",
	}
	require.NoError(t, env.Users.HandleIdentityEvent(created))

	user, err := env.Users.GetUserByClerkID("clerk_jane")
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)

	// created 事件重放不会再建一个账号
	require.NoError(t, env.Users.HandleIdentityEvent(created))
	assert.EqualValues(t, 1, env.count(t, &model.User{}, "clerk_id = ?", "clerk_jane"))

	updated := created
	updated.Type = IdentityEventUserUpdated
	updated.Name = "Jane Doe"
	require.NoError(t, env.Users.HandleIdentityEvent(updated))

	user, err = env.Users.GetUserByClerkID("clerk_jane")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)

	deleted := IdentityEvent{Type: IdentityEventUserDeleted, ClerkID: "clerk_jane"}
	require.NoError(t, env.Users.HandleIdentityEvent(deleted))

	_, err = env.Users.GetUserByClerkID("clerk_jane")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	// deleted 事件重放按成功处理
	require.NoError(t, env.Users.HandleIdentityEvent(deleted))
}

func TestIdentityEventUnknownType(t *testing.T) {
	env := newTestEnv(t)

	err := env.Users.HandleIdentityEvent(IdentityEvent{Type: "user.suspended", ClerkID: "x"})
	assert.ErrorIs(t, err, util.ErrInvalidEvent)
}

func TestToggleSave(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	reader := env.seedUser(t, "reader")

	question := env.seedQuestion(t, author.ID, "Bookmark me")

	saved, err := env.Users.ToggleSave(reader.ID, question.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = env.Users.ToggleSave(reader.ID, question.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	assert.EqualValues(t, 0, env.rawCount(t,
		"SELECT COUNT(*) FROM saved_questions WHERE user_id = ?", reader.ID))

	_, err = env.Users.ToggleSave(reader.ID, "missing")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestGetSavedQuestionsPagination(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	reader := env.seedUser(t, "reader")

	for i := 0; i < 7; i++ {
		question := env.seedQuestion(t, author.ID, uniqueTitle("Saved question", i))
		_, err := env.Users.ToggleSave(reader.ID, question.ID)
		require.NoError(t, err)
	}

	page1, isNext, err := env.Users.GetSavedQuestions(reader.ID, 1, 5, "")
	require.NoError(t, err)
	assert.Len(t, page1, 5)
	assert.True(t, isNext)

	page2, isNext, err := env.Users.GetSavedQuestions(reader.ID, 2, 5, "")
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.False(t, isNext)
}

func TestGetUsersPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 12; i++ {
		env.seedUser(t, uniqueTitle("member", i))
	}

	users, isNext, err := env.Users.GetUsers(1, 10, "join_date", "")
	require.NoError(t, err)
	assert.Len(t, users, 10)
	assert.True(t, isNext)

	users, isNext, err = env.Users.GetUsers(2, 10, "join_date", "")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.False(t, isNext)
}

func TestGetUserStatsBadges(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "veteran")

	for i := 0; i < 10; i++ {
		env.seedQuestion(t, author.ID, uniqueTitle("Veteran question", i))
	}

	// 浏览量直接写到问题上，凑出 bronze 档
	require.NoError(t, env.DB.Model(&model.Question{}).
		Where("author_id = ?", author.ID).
		Update("views", 100).Error)

	stats, err := env.Users.GetUserStats(author.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 10, stats.QuestionCount)
	assert.EqualValues(t, 0, stats.AnswerCount)
	assert.EqualValues(t, 1000, stats.TotalViews)

	// question_count 和 total_views 各达到 bronze 门槛
	assert.Equal(t, 2, stats.Badges.Bronze)
	assert.Equal(t, 0, stats.Badges.Silver)
	assert.Equal(t, 0, stats.Badges.Gold)

	_, err = env.Users.GetUserStats(9999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestDeleteUserCascade(t *testing.T) {
	env := newTestEnv(t)
	doomed := env.seedUser(t, "doomed")
	survivor := env.seedUser(t, "survivor")

	// doomed 的问题下有 survivor 的回答，删除时连带消失
	doomedQuestion := env.seedQuestion(t, doomed.ID, "Doomed user question", "go")
	survivorAnswer := env.seedAnswer(t, survivor.ID, doomedQuestion.ID, "on doomed question")

	// doomed 给 survivor 的内容投过票，删除时计数要回退
	survivorQuestion := env.seedQuestion(t, survivor.ID, "Survivor question", "go")
	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, survivorQuestion.ID, doomed.ID, VoteUp)
	require.NoError(t, err)

	require.NoError(t, env.Users.DeleteUser(doomed.ID))

	_, err = env.Users.GetUserByClerkID(doomed.ClerkID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.EqualValues(t, 0, env.count(t, &model.Question{}, "author_id = ?", doomed.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Answer{}, "id = ?", survivorAnswer.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Vote{}, "user_id = ?", doomed.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Interaction{}, "user_id = ?", doomed.ID))

	// survivor 的问题还在，票撤走后计数归零
	refreshed, err := env.Questions.GetByID(survivorQuestion.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.UpvoteCount)
}

func TestGetUserQuestionsAndAnswers(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author")
	other := env.seedUser(t, "other")

	question := env.seedQuestion(t, author.ID, "Mine")
	env.seedQuestion(t, other.ID, "Not mine")
	env.seedAnswer(t, author.ID, question.ID, "self answer")

	questions, _, err := env.Users.GetUserQuestions(author.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, question.ID, questions[0].ID)

	answers, _, err := env.Users.GetUserAnswers(author.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}
