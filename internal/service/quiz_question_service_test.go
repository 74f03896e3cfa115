package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/darsah-app/classroom-api/internal/dto"
)

func TestQuizQuestionMutationsInvalidateAnswerKey(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cache := NewAnswerKeyCache(redisClient, time.Minute, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())

	repo := &fakeQuestionRepo{}
	svc := NewQuizQuestionService(repo, validate, cache, testLogger())

	created, err := svc.Create(context.Background(), dto.QuestionCreateRequest{
		QuizID:        10,
		Question:      "Capital of France?",
		Options:       []string{"Paris", "Lyon"},
		CorrectOption: "Paris",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Paris", "Lyon"}, created.Options)

	// Prime the cache the way the grading engine would.
	cache.Set(context.Background(), 10, []answerKeyEntry{{QuestionID: created.ID, Correct: "Paris"}})
	_, ok := cache.Get(context.Background(), 10)
	require.True(t, ok)

	newCorrect := "Lyon"
	_, err = svc.Update(context.Background(), created.ID, dto.QuestionUpdateRequest{CorrectOption: &newCorrect})
	require.NoError(t, err)

	_, ok = cache.Get(context.Background(), 10)
	require.False(t, ok, "updating a question must drop the cached key")

	cache.Set(context.Background(), 10, []answerKeyEntry{{QuestionID: created.ID, Correct: "Lyon"}})
	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, ok = cache.Get(context.Background(), 10)
	require.False(t, ok, "deleting a question must drop the cached key")
}

func TestQuizQuestionUpdateUnknownID(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewQuizQuestionService(&fakeQuestionRepo{}, validate, nil, testLogger())

	question := "anything"
	_, err := svc.Update(context.Background(), 99, dto.QuestionUpdateRequest{Question: &question})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuizQuestionCreateValidatesOptions(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewQuizQuestionService(&fakeQuestionRepo{}, validate, nil, testLogger())

	_, err := svc.Create(context.Background(), dto.QuestionCreateRequest{
		QuizID:        10,
		Question:      "Capital of France?",
		Options:       []string{"Paris"},
		CorrectOption: "Paris",
	})
	require.Error(t, err)
	require.True(t, isValidation(err))
}
