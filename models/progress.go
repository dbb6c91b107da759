package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinProgress = 0
	MaxProgress = 100
	FirstStep   = 1
	LastStep    = 3
)

type UserProgress struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	CourseID     string    `json:"courseId" db:"course_id"`
	Progress     int       `json:"progress" db:"progress"`
	CurrentStep  int       `json:"currentStep" db:"current_step"`
	TimeSpent    int       `json:"timeSpent" db:"time_spent"` // Seconds
	Completed    bool      `json:"completed" db:"completed"`
	LastAccessed time.Time `json:"lastAccessed" db:"last_accessed"`
}

// ProgressPatch carries the client-writable progress fields. A nil field
// leaves the stored value untouched.
type ProgressPatch struct {
	Progress    *int  `json:"progress" validate:"omitnil,min=0,max=100"`
	CurrentStep *int  `json:"currentStep" validate:"omitnil,min=1,max=3"`
	TimeSpent   *int  `json:"timeSpent" validate:"omitnil,min=0"`
	Completed   *bool `json:"completed"`
}

// NewUserProgress returns a record holding the defaults for a course that
// has not been started yet.
func NewUserProgress(userID, courseID string, now time.Time) *UserProgress {
	return &UserProgress{
		ID:           "PRG-" + uuid.New().String(),
		UserID:       userID,
		CourseID:     courseID,
		Progress:     MinProgress,
		CurrentStep:  FirstStep,
		TimeSpent:    0,
		Completed:    false,
		LastAccessed: now,
	}
}

// Apply overlays the patch onto p. Completion is sticky: once a course is
// completed a patch cannot clear it.
func (p *UserProgress) Apply(patch ProgressPatch) {
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if patch.CurrentStep != nil {
		p.CurrentStep = *patch.CurrentStep
	}
	if patch.TimeSpent != nil {
		p.TimeSpent = *patch.TimeSpent
	}
	if patch.Completed != nil {
		p.Completed = p.Completed || *patch.Completed
	}
}
