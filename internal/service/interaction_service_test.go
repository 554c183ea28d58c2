package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordViewDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	viewer := env.seedUser(t, "viewer")

	question := env.seedQuestion(t, author.ID, "Viewed question")

	require.NoError(t, env.Interactions.RecordView(question.ID, viewer.ID))
	require.NoError(t, env.Interactions.RecordView(question.ID, viewer.ID))
	require.NoError(t, env.Interactions.RecordView(question.ID, viewer.ID))

	// 浏览计数每次递增，日志按 (用户, 问题) 只留一行
	refreshed, err := env.Questions.GetByID(question.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, refreshed.Views)
	assert.EqualValues(t, 1, env.count(t, &model.Interaction{},
		"user_id = ? AND action = ? AND question_id = ?", viewer.ID, model.ActionView, question.ID))
}

func TestRecordViewAnonymous(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	question := env.seedQuestion(t, author.ID, "Anonymous view")

	require.NoError(t, env.Interactions.RecordView(question.ID, 0))

	refreshed, err := env.Questions.GetByID(question.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, refreshed.Views)

	// 匿名访问不产生日志行
	assert.EqualValues(t, 0, env.count(t, &model.Interaction{},
		"action = ? AND question_id = ?", model.ActionView, question.ID))
}

func TestRecordViewUnknownQuestion(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer")

	err := env.Interactions.RecordView("missing", viewer.ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
