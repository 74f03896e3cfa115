package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/darsah-app/classroom-api/internal/dto"
	"github.com/darsah-app/classroom-api/internal/models"
	"github.com/darsah-app/classroom-api/internal/repository"
)

type fakeQuestionRepo struct {
	questions []models.QuizQuestion
	listCalls int
}

func (f *fakeQuestionRepo) List(ctx context.Context) ([]models.QuizQuestion, error) {
	return f.questions, nil
}

func (f *fakeQuestionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	f.listCalls++
	var result []models.QuizQuestion
	for _, question := range f.questions {
		if question.QuizID == quizID {
			result = append(result, question)
		}
	}
	return result, nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id uint) (models.QuizQuestion, error) {
	for _, question := range f.questions {
		if question.ID == id {
			return question, nil
		}
	}
	return models.QuizQuestion{}, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) Create(ctx context.Context, question *models.QuizQuestion) error {
	question.ID = uint(len(f.questions) + 1)
	f.questions = append(f.questions, *question)
	return nil
}

func (f *fakeQuestionRepo) Update(ctx context.Context, question *models.QuizQuestion) error {
	for i := range f.questions {
		if f.questions[i].ID == question.ID {
			f.questions[i] = *question
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryQuizSubmissionRepo struct {
	submissions []models.QuizSubmission
}

func (m *memoryQuizSubmissionRepo) List(ctx context.Context, filter repository.QuizSubmissionFilter) ([]models.QuizSubmission, error) {
	var result []models.QuizSubmission
	for _, submission := range m.submissions {
		if filter.QuizID != nil && submission.QuizID != *filter.QuizID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		result = append(result, submission)
	}
	return result, nil
}

func (m *memoryQuizSubmissionRepo) GetByID(ctx context.Context, id uint) (models.QuizSubmission, error) {
	for _, submission := range m.submissions {
		if submission.ID == id {
			return submission, nil
		}
	}
	return models.QuizSubmission{}, gorm.ErrRecordNotFound
}

func (m *memoryQuizSubmissionRepo) Create(ctx context.Context, submission *models.QuizSubmission) error {
	submission.ID = uint(len(m.submissions) + 1)
	m.submissions = append(m.submissions, *submission)
	return nil
}

func capitalsQuizQuestions() []models.QuizQuestion {
	q1 := models.QuizQuestion{ID: 1, QuizID: 10, Question: "Capital of France?", CorrectOption: "Paris"}
	q1.SetOptions([]string{"Paris", "Lyon"})
	q2 := models.QuizQuestion{ID: 2, QuizID: 10, Question: "Capital of Japan?", CorrectOption: "Tokyo"}
	q2.SetOptions([]string{"Osaka", "Tokyo"})
	return []models.QuizQuestion{q1, q2}
}

func newQuizGradingServiceForTest(questions repository.QuizQuestionRepository, submissions repository.QuizSubmissionRepository, cache *AnswerKeyCache) QuizGradingService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewQuizGradingService(questions, submissions, validate, cache, testLogger())
}

func TestQuizGradingMatchingIgnoresCaseAndWhitespace(t *testing.T) {
	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	for _, selected := range []string{"Paris", " paris ", "PARIS"} {
		result, err := svc.Submit(context.Background(), 5, dto.QuizSubmissionRequest{
			QuizID: 10,
			Name:   "dina",
			Answers: []dto.QuizAnswerRequest{
				{QuestionID: 1, Selected: selected},
				{QuestionID: 2, Selected: "Tokyo"},
			},
		})
		require.NoError(t, err)
		require.Equal(t, 2, result.Score, "selected %q must match", selected)
		require.Equal(t, 2, result.TotalQuestions)
		require.InDelta(t, 100.0, result.Percentage, 1e-9)
	}
}

func TestQuizGradingTotalIsKeySizeNotAnswerCount(t *testing.T) {
	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	result, err := svc.Submit(context.Background(), 5, dto.QuizSubmissionRequest{
		QuizID: 10,
		Name:   "dina",
		Answers: []dto.QuizAnswerRequest{
			{QuestionID: 1, Selected: "paris"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.TotalQuestions, "unanswered questions still count toward the total")
	require.InDelta(t, 50.0, result.Percentage, 1e-9)
}

func TestQuizGradingIgnoresUnknownQuestionIDs(t *testing.T) {
	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	result, err := svc.Submit(context.Background(), 5, dto.QuizSubmissionRequest{
		QuizID: 10,
		Name:   "dina",
		Answers: []dto.QuizAnswerRequest{
			{QuestionID: 1, Selected: "Paris"},
			{QuestionID: 999, Selected: "Paris"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.TotalQuestions)
}

func TestQuizGradingWrongAnswersScoreZeroForThose(t *testing.T) {
	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	result, err := svc.Submit(context.Background(), 5, dto.QuizSubmissionRequest{
		QuizID: 10,
		Name:   "dina",
		Answers: []dto.QuizAnswerRequest{
			{QuestionID: 1, Selected: "paris"},
			{QuestionID: 2, Selected: "Osaka"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.InDelta(t, 50.0, result.Percentage, 1e-9)

	require.Len(t, store.submissions, 1)
	persisted := store.submissions[0]
	require.Equal(t, models.QuizSubmissionStatusSubmitted, persisted.Status)
	require.Equal(t, 1, persisted.Score)
	require.Len(t, persisted.AnswerList(), 2)
}

func TestQuizGradingUnknownQuizReturnsNotFound(t *testing.T) {
	repo := &fakeQuestionRepo{}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	_, err := svc.Submit(context.Background(), 5, dto.QuizSubmissionRequest{
		QuizID:  77,
		Name:    "dina",
		Answers: []dto.QuizAnswerRequest{{QuestionID: 1, Selected: "a"}},
	})
	require.ErrorIs(t, err, ErrQuizNotFound)
	require.Empty(t, store.submissions)
}

func TestQuizGradingUsesAnswerKeyCache(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cache := NewAnswerKeyCache(redisClient, time.Minute, testLogger())

	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, cache)

	payload := dto.QuizSubmissionRequest{
		QuizID: 10,
		Name:   "dina",
		Answers: []dto.QuizAnswerRequest{
			{QuestionID: 1, Selected: "Paris"},
			{QuestionID: 2, Selected: "Tokyo"},
		},
	}

	first, err := svc.Submit(context.Background(), 5, payload)
	require.NoError(t, err)
	require.Equal(t, 2, first.Score)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.Submit(context.Background(), 6, payload)
	require.NoError(t, err)
	require.Equal(t, 2, second.Score)
	require.Equal(t, 1, repo.listCalls, "second grade must be served from the cache")

	cache.Invalidate(context.Background(), 10)

	_, err = svc.Submit(context.Background(), 7, payload)
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls, "invalidation must force a database read")
}

func TestQuizGradingListFilters(t *testing.T) {
	repo := &fakeQuestionRepo{questions: capitalsQuizQuestions()}
	store := &memoryQuizSubmissionRepo{}
	svc := newQuizGradingServiceForTest(repo, store, nil)

	for _, studentID := range []uint{1, 2} {
		_, err := svc.Submit(context.Background(), studentID, dto.QuizSubmissionRequest{
			QuizID:  10,
			Name:    "student",
			Answers: []dto.QuizAnswerRequest{{QuestionID: 1, Selected: "Paris"}},
		})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), dto.QuizSubmissionFilter{QuizID: ptrUint(10)})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.List(context.Background(), dto.QuizSubmissionFilter{StudentID: ptrUint(2)})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, uint(2), mine[0].StudentID)
}

func TestScoreAnswersEmptyKeyYieldsZero(t *testing.T) {
	score := scoreAnswers(nil, []models.QuizAnswer{{QuestionID: 1, Selected: "a"}})
	require.Zero(t, score)
}
