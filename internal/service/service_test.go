package service

import (
	"devoverflow_backend/internal/model"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/pkg/logger"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	DB             *gorm.DB
	Users          *UserService
	Questions      *QuestionService
	Answers        *AnswerService
	Tags           *TagService
	Interactions   *InteractionService
	Votes          *VoteService
	Recommendation *RecommendationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接各自一份，连接池收紧到单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Answer{},
		&model.Tag{},
		&model.Interaction{},
		&model.Vote{},
	))

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	tagRepo := repository.NewTagRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	return &testEnv{
		DB:             db,
		Users:          NewUserService(db, userRepo, questionRepo, answerRepo),
		Questions:      NewQuestionService(db, questionRepo, nil),
		Answers:        NewAnswerService(db, answerRepo, questionRepo),
		Tags:           NewTagService(db, tagRepo, questionRepo, interactionRepo, nil),
		Interactions:   NewInteractionService(db, interactionRepo, questionRepo),
		Votes:          NewVoteService(db),
		Recommendation: NewRecommendationService(questionRepo, interactionRepo, voteRepo),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string) *model.User {
	t.Helper()

	user := model.User{
		ClerkID:  "clerk_" + username,
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, e.DB.Create(&user).Error)
	return &user
}

func (e *testEnv) seedQuestion(t *testing.T, authorID uint, title string, tags ...string) *model.Question {
	t.Helper()

	if len(tags) == 0 {
		tags = []string{"go"}
	}
	question, err := e.Questions.Create(authorID, QuestionRequest{
		Title:   title,
		Content: "content of " + title,
		Tags:    tags,
	})
	require.NoError(t, err)
	return question
}

func (e *testEnv) seedAnswer(t *testing.T, authorID uint, questionID, content string) *model.Answer {
	t.Helper()

	answer, err := e.Answers.Create(authorID, questionID, AnswerRequest{Content: content})
	require.NoError(t, err)
	return answer
}

func (e *testEnv) reputation(t *testing.T, userID uint) int {
	t.Helper()

	var user model.User
	require.NoError(t, e.DB.First(&user, userID).Error)
	return user.Reputation
}

func (e *testEnv) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	tx := e.DB.Model(m)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&n).Error)
	return n
}

func (e *testEnv) rawCount(t *testing.T, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.DB.Raw(query, args...).Scan(&n).Error)
	return n
}

func uniqueTitle(prefix string, n int) string {
	return fmt.Sprintf("%s %02d", prefix, n)
}
