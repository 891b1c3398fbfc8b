package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"course-portal/internal/model"
)

const (
	PassingScore  = 60.0
	highScore     = 80.0
	attemptMaxAge = 2 * time.Hour
)

type ExamAPI interface {
	Courses(ctx context.Context) ([]model.Course, error)
	Course(ctx context.Context, id int) (*model.Course, error)
	SubmitExam(ctx context.Context, req model.ExamSubmission) (*model.MessageResponse, error)
}

// Attempt is one run through a course exam by a user. A graded attempt
// can be saved to the API once.
type Attempt struct {
	ID        string
	UserID    int
	CourseID  int
	Result    *model.ExamResult
	Saved     bool
	StartedAt time.Time

	saving bool
}

type ExamService struct {
	api      ExamAPI
	mu       sync.Mutex
	attempts map[string]*Attempt
	now      func() time.Time
}

func NewExamService(api ExamAPI) *ExamService {
	return &ExamService{
		api:      api,
		attempts: map[string]*Attempt{},
		now:      time.Now,
	}
}

// CoursesWithExam lists the courses that carry at least one question.
func (s *ExamService) CoursesWithExam(ctx context.Context) ([]model.Course, error) {
	courses, err := s.api.Courses(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if course.HasExam() {
			out = append(out, course)
		}
	}
	return out, nil
}

// ExamCourse loads a course and fails with ErrNoQuestions when it has no exam.
func (s *ExamService) ExamCourse(ctx context.Context, courseID int) (*model.Course, error) {
	course, err := s.api.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasExam() {
		return nil, fmt.Errorf("course %d: %w", courseID, model.ErrNoQuestions)
	}
	return course, nil
}

// Grade scores answers against questions. answers[i] is the chosen option
// index for question i, or a negative value when unanswered.
func Grade(questions []model.Question, answers []int) (model.ExamResult, error) {
	if len(questions) == 0 {
		return model.ExamResult{}, model.ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return model.ExamResult{}, model.ErrUnanswered
	}

	correct := 0
	for i, question := range questions {
		if answers[i] < 0 || answers[i] >= len(question.Options) {
			return model.ExamResult{}, model.ErrUnanswered
		}
		if answers[i] == question.CorrectAnswer {
			correct++
		}
	}

	score := math.Round(float64(correct)/float64(len(questions))*100*10) / 10
	return model.ExamResult{
		Correct: correct,
		Total:   len(questions),
		Score:   score,
		Passed:  score >= PassingScore,
	}, nil
}

// ScoreClass buckets a score for display.
func ScoreClass(score float64) string {
	switch {
	case score >= highScore:
		return "score-high"
	case score >= PassingScore:
		return "score-medium"
	default:
		return "score-low"
	}
}

func (s *ExamService) Start(userID int, courseID int) Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	attempt := &Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: s.now(),
	}
	s.attempts[attempt.ID] = attempt
	return *attempt
}

// Record grades the answers of an open attempt. Grading again replaces an
// unsaved result.
func (s *ExamService) Record(attemptID string, userID int, questions []model.Question, answers []int) (model.ExamResult, error) {
	result, err := Grade(questions, answers)
	if err != nil {
		return model.ExamResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.lookupLocked(attemptID, userID)
	if err != nil {
		return model.ExamResult{}, err
	}
	if attempt.Saved {
		return model.ExamResult{}, model.ErrAttemptSaved
	}

	attempt.Result = &result
	return result, nil
}

func (s *ExamService) Attempt(attemptID string, userID int) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, err := s.lookupLocked(attemptID, userID)
	if err != nil {
		return Attempt{}, err
	}
	return *attempt, nil
}

// Save submits the graded result. A second save of the same attempt, or a
// save racing one in flight, fails with ErrAttemptSaved. A failed submit
// leaves the attempt open so the user can try again.
func (s *ExamService) Save(ctx context.Context, attemptID string, userID int) (*model.MessageResponse, error) {
	s.mu.Lock()
	attempt, err := s.lookupLocked(attemptID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if attempt.Saved || attempt.saving {
		s.mu.Unlock()
		return nil, model.ErrAttemptSaved
	}
	if attempt.Result == nil {
		s.mu.Unlock()
		return nil, model.ErrAttemptUngraded
	}
	attempt.saving = true
	submission := model.ExamSubmission{CourseID: attempt.CourseID, Score: attempt.Result.Score}
	s.mu.Unlock()

	resp, err := s.api.SubmitExam(ctx, submission)

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.saving = false
	if err != nil {
		return nil, err
	}
	attempt.Saved = true
	return resp, nil
}

func (s *ExamService) lookupLocked(attemptID string, userID int) (*Attempt, error) {
	attempt, ok := s.attempts[attemptID]
	if !ok || attempt.UserID != userID || s.now().Sub(attempt.StartedAt) > attemptMaxAge {
		return nil, model.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *ExamService) pruneLocked() {
	cutoff := s.now().Add(-attemptMaxAge)
	for id, attempt := range s.attempts {
		if attempt.StartedAt.Before(cutoff) {
			delete(s.attempts, id)
		}
	}
}
