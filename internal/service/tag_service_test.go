package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagUpsertCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	env.seedQuestion(t, author.ID, "First rust question", "Rust")
	env.seedQuestion(t, author.ID, "Second rust question", "rust")
	env.seedQuestion(t, author.ID, "Third rust question", " RUST ")

	// 大小写和首尾空白折叠到同一个档案，展示名保留首次大小写
	assert.EqualValues(t, 1, env.count(t, &model.Tag{}, "slug = ?", "rust"))

	var tag model.Tag
	require.NoError(t, env.DB.First(&tag, "slug = ?", "rust").Error)
	assert.Equal(t, "Rust", tag.Name)

	assert.EqualValues(t, 3, env.rawCount(t,
		"SELECT COUNT(*) FROM question_tags WHERE tag_id = ?", tag.ID))
}

func TestGetTagsOnlyReferenced(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	question := env.seedQuestion(t, author.ID, "Tagged", "used", "dropped")
	_, err := env.Questions.Edit(author.ID, question.ID, QuestionRequest{
		Title:   "Tagged",
		Content: "body",
		Tags:    []string{"used"},
	})
	require.NoError(t, err)

	tags, isNext, err := env.Tags.GetTags(1, 10, "popular", "")
	require.NoError(t, err)
	assert.False(t, isNext)

	// 摘除后引用数归零的标签不出现在列表里，档案本身保留
	require.Len(t, tags, 1)
	assert.Equal(t, "used", tags[0].Slug)
	assert.EqualValues(t, 1, env.count(t, &model.Tag{}, "slug = ?", "dropped"))
}

func TestPopularTags(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	env.seedQuestion(t, author.ID, "Q1", "go", "web")
	env.seedQuestion(t, author.ID, "Q2", "go")
	env.seedQuestion(t, author.ID, "Q3", "go", "db")

	tags, err := env.Tags.PopularTags(2)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.EqualValues(t, 3, tags[0].QuestionCount)
}

func TestGetQuestionsByTag(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")

	for i := 0; i < 7; i++ {
		env.seedQuestion(t, author.ID, uniqueTitle("Tagged question", i), "batch")
	}
	env.seedQuestion(t, author.ID, "Other tag", "other")

	var tag model.Tag
	require.NoError(t, env.DB.First(&tag, "slug = ?", "batch").Error)

	tagName, questions, isNext, err := env.Tags.GetQuestionsByTag(tag.ID, 1, 5, "")
	require.NoError(t, err)
	assert.Equal(t, "batch", tagName)
	assert.Len(t, questions, 5)
	assert.True(t, isNext)

	_, questions, isNext, err = env.Tags.GetQuestionsByTag(tag.ID, 2, 5, "")
	require.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.False(t, isNext)

	_, _, _, err = env.Tags.GetQuestionsByTag("missing", 1, 5, "")
	assert.ErrorIs(t, err, util.ErrTagNotFound)
}

func TestTopInteractedTags(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "asker")
	viewer := env.seedUser(t, "viewer")

	goQuestion := env.seedQuestion(t, author.ID, "Go question", "go")
	env.seedQuestion(t, author.ID, "Rust question", "rust")

	// viewer 只浏览过 go 问题
	require.NoError(t, env.Interactions.RecordView(goQuestion.ID, viewer.ID))

	tags, err := env.Tags.TopInteractedTags(viewer.ID, 3)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Slug)
}
