package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestion(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	question, err := env.Questions.Create(author.ID, QuestionRequest{
		Title:   "How does defer work",
		Content: "details",
		Tags:    []string{"Go", "internals"},
	})
	require.NoError(t, err)

	assert.Equal(t, author.ID, question.AuthorID)
	require.Len(t, question.Tags, 2)
	assert.Equal(t, 5, env.reputation(t, author.ID))

	// 提问行为写入交互日志，标签冗余进日志行
	assert.EqualValues(t, 1, env.count(t, &model.Interaction{},
		"user_id = ? AND action = ? AND question_id = ?", author.ID, model.ActionAskQuestion, question.ID))
}

func TestEditQuestionReconcilesTags(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	question := env.seedQuestion(t, author.ID, "Tag churn", "go", "http")

	updated, err := env.Questions.Edit(author.ID, question.ID, QuestionRequest{
		Title:   "Tag churn v2",
		Content: "revised",
		Tags:    []string{"go", "grpc"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Tag churn v2", updated.Title)
	slugs := make([]string, 0, len(updated.Tags))
	for _, tag := range updated.Tags {
		slugs = append(slugs, tag.Slug)
	}
	assert.ElementsMatch(t, []string{"go", "grpc"}, slugs)

	// 被摘除的标签档案保留，只断开双向引用
	assert.EqualValues(t, 1, env.count(t, &model.Tag{}, "slug = ?", "http"))
	assert.EqualValues(t, 0, env.rawCount(t,
		"SELECT COUNT(*) FROM question_tags WHERE question_id = ? AND tag_id IN (SELECT id FROM tags WHERE slug = ?)",
		question.ID, "http"))
}

func TestEditQuestionPermission(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	stranger := env.seedUser(t, "stranger")
	question := env.seedQuestion(t, author.ID, "Not yours")

	_, err := env.Questions.Edit(stranger.ID, question.ID, QuestionRequest{
		Title:   "hijack",
		Content: "hijack",
		Tags:    []string{"go"},
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.Questions.Edit(author.ID, "missing", QuestionRequest{
		Title:   "t",
		Content: "c",
		Tags:    []string{"go"},
	})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestDeleteQuestionCascade(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	answerer := env.seedUser(t, "answerer")
	viewer := env.seedUser(t, "viewer")

	question := env.seedQuestion(t, author.ID, "Doomed question", "go", "gc")
	answer := env.seedAnswer(t, answerer.ID, question.ID, "an answer")
	keeper := env.seedQuestion(t, author.ID, "Surviving question", "go")

	// 挂上浏览、票和收藏，各种引用都要被级联清掉
	require.NoError(t, env.Interactions.RecordView(question.ID, viewer.ID))
	_, err := env.Votes.ApplyVote(model.VoteItemQuestion, question.ID, viewer.ID, VoteUp)
	require.NoError(t, err)
	_, err = env.Votes.ApplyVote(model.VoteItemAnswer, answer.ID, viewer.ID, VoteUp)
	require.NoError(t, err)
	_, err = env.Users.ToggleSave(viewer.ID, question.ID)
	require.NoError(t, err)

	require.NoError(t, env.Questions.Delete(author.ID, question.ID))

	_, err = env.Questions.GetByID(question.ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
	assert.EqualValues(t, 0, env.count(t, &model.Answer{}, "question_id = ?", question.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Interaction{}, "question_id = ?", question.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Interaction{}, "answer_id = ?", answer.ID))
	assert.EqualValues(t, 0, env.count(t, &model.Vote{}, "item_id IN ?", []string{question.ID, answer.ID}))
	assert.EqualValues(t, 0, env.rawCount(t, "SELECT COUNT(*) FROM question_tags WHERE question_id = ?", question.ID))
	assert.EqualValues(t, 0, env.rawCount(t, "SELECT COUNT(*) FROM saved_questions WHERE question_id = ?", question.ID))

	// 标签档案和无关问题不受影响
	assert.EqualValues(t, 1, env.count(t, &model.Tag{}, "slug = ?", "gc"))
	_, err = env.Questions.GetByID(keeper.ID)
	assert.NoError(t, err)
}

func TestDeleteQuestionPermission(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	stranger := env.seedUser(t, "stranger")
	question := env.seedQuestion(t, author.ID, "Protected")

	err := env.Questions.Delete(stranger.ID, question.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestGetQuestionsPagination(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	for i := 0; i < 25; i++ {
		env.seedQuestion(t, author.ID, uniqueTitle("Paged question", i))
	}

	page2, isNext, err := env.Questions.GetQuestions(2, 10, "newest", "")
	require.NoError(t, err)
	assert.Len(t, page2, 10)
	assert.True(t, isNext)

	page3, isNext, err := env.Questions.GetQuestions(3, 10, "newest", "")
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.False(t, isNext)

	// 末页之后返回空页
	page4, isNext, err := env.Questions.GetQuestions(4, 10, "newest", "")
	require.NoError(t, err)
	assert.Empty(t, page4)
	assert.False(t, isNext)
}

func TestGetQuestionsUnansweredFilter(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	answerer := env.seedUser(t, "answerer")

	answered := env.seedQuestion(t, author.ID, "Answered one")
	open := env.seedQuestion(t, author.ID, "Open one")
	env.seedAnswer(t, answerer.ID, answered.ID, "solved")

	questions, _, err := env.Questions.GetQuestions(1, 10, "unanswered", "")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, open.ID, questions[0].ID)
}

func TestGetQuestionsSearch(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	env.seedQuestion(t, author.ID, "Generics in Go")
	env.seedQuestion(t, author.ID, "Channels and select")

	questions, isNext, err := env.Questions.GetQuestions(1, 10, "newest", "generics")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Generics in Go", questions[0].Title)
	assert.False(t, isNext)
}

func TestGetHotQuestions(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	cold := env.seedQuestion(t, author.ID, "Cold question")
	hot := env.seedQuestion(t, author.ID, "Hot question")
	require.NoError(t, env.DB.Model(&model.Question{}).Where("id = ?", hot.ID).
		Update("views", 100).Error)

	questions, err := env.Questions.GetHotQuestions(5)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, hot.ID, questions[0].ID)
	assert.Equal(t, cold.ID, questions[1].ID)
}
