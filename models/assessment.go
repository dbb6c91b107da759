package models

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Assessment struct {
	ID            string     `json:"id" db:"id"`
	CourseID      string     `json:"courseId" db:"course_id"`
	Question      string     `json:"question" db:"question"`
	Options       []string   `json:"options" db:"options"`              // Stored as JSON array
	CorrectAnswer int        `json:"correctAnswer" db:"correct_answer"` // Index into Options
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
}

type AssessmentCreate struct {
	ID            string     `json:"-"`
	CourseID      string     `json:"-"`
	Question      string     `json:"question" validate:"required"`
	Options       []string   `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int        `json:"correctAnswer" validate:"min=0"`
	Difficulty    Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

func NewAssessment(a AssessmentCreate) *Assessment {
	id := a.ID
	if id == "" {
		id = "ASM-" + uuid.New().String()
	}
	difficulty := a.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	options := make([]string, len(a.Options))
	copy(options, a.Options)
	return &Assessment{
		ID:            id,
		CourseID:      a.CourseID,
		Question:      a.Question,
		Options:       options,
		CorrectAnswer: a.CorrectAnswer,
		Difficulty:    difficulty,
	}
}

// UserAssessment is one scored attempt. It is never modified after creation.
type UserAssessment struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	CourseID       string    `json:"courseId" db:"course_id"`
	Score          int       `json:"score" db:"score"`
	TotalQuestions int       `json:"totalQuestions" db:"total_questions"`
	Passed         bool      `json:"passed" db:"passed"`
	AttemptNumber  int       `json:"attemptNumber" db:"attempt_number"`
	CompletedAt    time.Time `json:"completedAt" db:"completed_at"`
}

func NewUserAssessment(userID, courseID string, score, total, attempt int, passed bool, now time.Time) *UserAssessment {
	return &UserAssessment{
		ID:             "UAS-" + uuid.New().String(),
		UserID:         userID,
		CourseID:       courseID,
		Score:          score,
		TotalQuestions: total,
		Passed:         passed,
		AttemptNumber:  attempt,
		CompletedAt:    now,
	}
}

type AssessmentSubmission struct {
	Answers []int `json:"answers"` // Selected option index per question, in question order; a missing list fails the count check
}

// SubmissionResult is returned for a scored attempt. Certificate is set only
// when the attempt passed.
type SubmissionResult struct {
	*UserAssessment
	Certificate *Certificate `json:"certificate,omitempty"`
}
