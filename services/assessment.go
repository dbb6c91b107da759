package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

const DefaultPassThreshold = 0.7

// AssessmentService owns quiz questions, scoring and attempt records. A
// passing attempt triggers certificate issuance before Submit returns.
type AssessmentService struct {
	questions AssessmentRepository
	attempts  AttemptRepository
	catalog   *CatalogService
	issuer    *CertificationService
	threshold float64
	locks     *keyLock
	now       func() time.Time
	log       *logger.Logger
}

func NewAssessmentService(questions AssessmentRepository, attempts AttemptRepository, catalog *CatalogService,
	issuer *CertificationService, threshold float64, log *logger.Logger) (*AssessmentService, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("pass threshold must be in (0, 1], got %v", threshold)
	}
	return &AssessmentService{
		questions: questions,
		attempts:  attempts,
		catalog:   catalog,
		issuer:    issuer,
		threshold: threshold,
		locks:     newKeyLock(),
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.With("service", "AssessmentService"),
	}, nil
}

func (s *AssessmentService) Threshold() float64 {
	return s.threshold
}

// ListForCourse returns every question of a course, correct answers
// included.
func (s *AssessmentService) ListForCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	list, err := s.questions.ListAssessmentsByCourse(ctx, courseID)
	if err != nil {
		return nil, NewInternalError("failed to fetch assessments", err)
	}
	return list, nil
}

func (s *AssessmentService) CreateQuestion(ctx context.Context, in models.AssessmentCreate) (*models.Assessment, error) {
	in.Question = strings.TrimSpace(in.Question)
	if err := validateStruct("invalid assessment data", in); err != nil {
		return nil, err
	}
	if in.CorrectAnswer >= len(in.Options) {
		return nil, NewValidationError("invalid assessment data", FieldError{
			Field: "correctAnswer",
			Error: fmt.Sprintf("correctAnswer must be an index below %d", len(in.Options)),
		})
	}
	if err := s.catalog.exists(ctx, in.CourseID); err != nil {
		return nil, err
	}

	a := models.NewAssessment(in)
	if err := s.questions.CreateAssessment(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, NewConflictError("assessment already exists")
		}
		return nil, NewInternalError("failed to create assessment", err)
	}
	return a, nil
}

// Score counts the answers that match their question's correct index.
// Callers must have checked that answers and questions line up.
func Score(questions []models.Assessment, answers []int) int {
	score := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Passed reports whether score/total reaches threshold.
func Passed(score, total int, threshold float64) bool {
	if total == 0 {
		return false
	}
	return float64(score)/float64(total) >= threshold
}

// Submit scores a set of answers, records the attempt and, on a pass,
// issues the certificate for it.
func (s *AssessmentService) Submit(ctx context.Context, userID, courseID string, answers []int) (*models.SubmissionResult, error) {
	if err := s.catalog.exists(ctx, courseID); err != nil {
		return nil, err
	}

	questions, err := s.questions.ListAssessmentsByCourse(ctx, courseID)
	if err != nil {
		return nil, NewInternalError("failed to submit assessment", err)
	}
	if len(questions) == 0 {
		return nil, NewValidationError("no questions found for this course")
	}
	if len(answers) != len(questions) {
		return nil, NewValidationError(fmt.Sprintf("answer count %d doesn't match question count %d", len(answers), len(questions)),
			FieldError{Field: "answers", Error: "answer count doesn't match question count"})
	}
	var fields []FieldError
	for i, a := range answers {
		if a < 0 || a >= len(questions[i].Options) {
			fields = append(fields, FieldError{
				Field: fmt.Sprintf("answers[%d]", i),
				Error: fmt.Sprintf("answer must be between 0 and %d", len(questions[i].Options)-1),
			})
		}
	}
	if len(fields) > 0 {
		return nil, NewValidationError("answer index out of range", fields...)
	}

	score := Score(questions, answers)
	passed := Passed(score, len(questions), s.threshold)

	unlock := s.locks.Lock(pairKey(userID, courseID))
	defer unlock()

	prior, err := s.attempts.CountUserAssessments(ctx, userID, courseID)
	if err != nil {
		return nil, NewInternalError("failed to submit assessment", err)
	}
	attempt := models.NewUserAssessment(userID, courseID, score, len(questions), prior+1, passed, s.now())
	if err := s.attempts.CreateUserAssessment(ctx, attempt); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, NewConflictError("concurrent submission for this course, retry")
		}
		return nil, NewInternalError("failed to submit assessment", err)
	}
	s.log.Info("assessment submitted", "user_id", userID, "course_id", courseID,
		"attempt", attempt.AttemptNumber, "score", score, "total", len(questions), "passed", passed)

	result := &models.SubmissionResult{UserAssessment: attempt}
	if passed {
		cert, err := s.issuer.Issue(ctx, userID, courseID, attempt.ID)
		if err != nil {
			// The attempt is stored; Issue with its id repairs it later.
			s.log.Error("certificate not issued for passed attempt", "user_id", userID, "course_id", courseID,
				"user_assessment_id", attempt.ID, "err", err)
			return nil, err
		}
		result.Certificate = cert
	}
	return result, nil
}

func (s *AssessmentService) ListAttempts(ctx context.Context, userID, courseID string) ([]models.UserAssessment, error) {
	list, err := s.attempts.ListUserAssessments(ctx, userID, courseID)
	if err != nil {
		return nil, NewInternalError("failed to fetch attempts", err)
	}
	return list, nil
}
