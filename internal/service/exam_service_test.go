package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/model"
)

type fakeExamAPI struct {
	mu        sync.Mutex
	courses   []model.Course
	submitted []model.ExamSubmission
	submitErr error
	block     chan struct{}
}

func (f *fakeExamAPI) Courses(context.Context) ([]model.Course, error) {
	return f.courses, nil
}

func (f *fakeExamAPI) Course(_ context.Context, id int) (*model.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeExamAPI) SubmitExam(_ context.Context, req model.ExamSubmission) (*model.MessageResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return &model.MessageResponse{Message: "Examen guardado"}, nil
}

func questions(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectAnswer: 1}
	}
	return out
}

func TestGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		qs      []model.Question
		answers []int
		want    model.ExamResult
		err     error
	}{
		{"all correct", questions(3), []int{1, 1, 1}, model.ExamResult{Correct: 3, Total: 3, Score: 100, Passed: true}, nil},
		{"two of three rounds to one decimal", questions(3), []int{1, 0, 1}, model.ExamResult{Correct: 2, Total: 3, Score: 66.7, Passed: true}, nil},
		{"one of three fails", questions(3), []int{1, 0, 2}, model.ExamResult{Correct: 1, Total: 3, Score: 33.3}, nil},
		{"exactly sixty passes", questions(5), []int{1, 1, 1, 0, 0}, model.ExamResult{Correct: 3, Total: 5, Score: 60, Passed: true}, nil},
		{"unanswered question", questions(2), []int{1, -1}, model.ExamResult{}, model.ErrUnanswered},
		{"out of range answer", questions(2), []int{1, 3}, model.ExamResult{}, model.ErrUnanswered},
		{"missing answers", questions(2), []int{1}, model.ExamResult{}, model.ErrUnanswered},
		{"no questions", nil, nil, model.ExamResult{}, model.ErrNoQuestions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Grade(tt.qs, tt.answers)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreClass(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "score-high", ScoreClass(80))
	assert.Equal(t, "score-medium", ScoreClass(79.9))
	assert.Equal(t, "score-medium", ScoreClass(60))
	assert.Equal(t, "score-low", ScoreClass(59.9))
}

func TestCoursesWithExam(t *testing.T) {
	t.Parallel()

	api := &fakeExamAPI{courses: []model.Course{
		{ID: 1, Questions: questions(2)},
		{ID: 2},
	}}
	svc := NewExamService(api)

	courses, err := svc.CoursesWithExam(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, courses[0].ID)

	_, err = svc.ExamCourse(context.Background(), 2)
	assert.ErrorIs(t, err, model.ErrNoQuestions)
}

func TestAttemptIsSavedOnce(t *testing.T) {
	t.Parallel()

	api := &fakeExamAPI{}
	svc := NewExamService(api)
	ctx := context.Background()

	attempt := svc.Start(7, 1)

	_, err := svc.Save(ctx, attempt.ID, 7)
	require.ErrorIs(t, err, model.ErrAttemptUngraded)

	result, err := svc.Record(attempt.ID, 7, questions(2), []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Score)

	_, err = svc.Save(ctx, attempt.ID, 8)
	require.ErrorIs(t, err, model.ErrAttemptNotFound)

	_, err = svc.Save(ctx, attempt.ID, 7)
	require.NoError(t, err)
	_, err = svc.Save(ctx, attempt.ID, 7)
	require.ErrorIs(t, err, model.ErrAttemptSaved)

	_, err = svc.Record(attempt.ID, 7, questions(2), []int{1, 1})
	require.ErrorIs(t, err, model.ErrAttemptSaved)

	require.Equal(t, []model.ExamSubmission{{CourseID: 1, Score: 50}}, api.submitted)

	saved, err := svc.Attempt(attempt.ID, 7)
	require.NoError(t, err)
	assert.True(t, saved.Saved)
}

func TestFailedSaveCanBeRetried(t *testing.T) {
	t.Parallel()

	api := &fakeExamAPI{submitErr: errors.New("api down")}
	svc := NewExamService(api)

	attempt := svc.Start(7, 1)
	_, err := svc.Record(attempt.ID, 7, questions(1), []int{1})
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), attempt.ID, 7)
	require.Error(t, err)

	api.submitErr = nil
	_, err = svc.Save(context.Background(), attempt.ID, 7)
	require.NoError(t, err)
	assert.Len(t, api.submitted, 1)
}

func TestConcurrentSaveSubmitsOnce(t *testing.T) {
	t.Parallel()

	api := &fakeExamAPI{block: make(chan struct{})}
	svc := NewExamService(api)
	attempt := svc.Start(7, 1)
	_, err := svc.Record(attempt.ID, 7, questions(1), []int{1})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Save(context.Background(), attempt.ID, 7)
		done <- err
	}()

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return svc.attempts[attempt.ID].saving
	}, time.Second, 5*time.Millisecond)

	_, err = svc.Save(context.Background(), attempt.ID, 7)
	assert.ErrorIs(t, err, model.ErrAttemptSaved)

	close(api.block)
	require.NoError(t, <-done)
	assert.Len(t, api.submitted, 1)
}

func TestAttemptsExpire(t *testing.T) {
	t.Parallel()

	svc := NewExamService(&fakeExamAPI{})
	now := time.Now()
	svc.now = func() time.Time { return now }

	old := svc.Start(7, 1)
	now = now.Add(attemptMaxAge + time.Minute)

	_, err := svc.Attempt(old.ID, 7)
	require.ErrorIs(t, err, model.ErrAttemptNotFound)

	svc.Start(7, 1)
	assert.Len(t, svc.attempts, 1)
}
