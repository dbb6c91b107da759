package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

// ProgressPolicy holds the optional rules applied on top of the range checks.
type ProgressPolicy struct {
	// ForwardOnlySteps rejects a currentStep lower than the stored one.
	ForwardOnlySteps bool
}

// ProgressService is the only writer of progress records.
type ProgressService struct {
	progress ProgressRepository
	catalog  *CatalogService
	policy   ProgressPolicy
	locks    *keyLock
	now      func() time.Time
	log      *logger.Logger
}

func NewProgressService(progress ProgressRepository, catalog *CatalogService, policy ProgressPolicy, log *logger.Logger) *ProgressService {
	return &ProgressService{
		progress: progress,
		catalog:  catalog,
		policy:   policy,
		locks:    newKeyLock(),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("service", "ProgressService"),
	}
}

func (s *ProgressService) Get(ctx context.Context, userID, courseID string) (*models.UserProgress, error) {
	p, err := s.progress.GetProgress(ctx, userID, courseID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("progress not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to fetch progress", err)
	}
	return p, nil
}

func (s *ProgressService) ListForUser(ctx context.Context, userID string) ([]models.UserProgress, error) {
	list, err := s.progress.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to fetch user progress", err)
	}
	return list, nil
}

// Upsert creates the record on first write and merges the patch on every
// later one. Out-of-range fields are rejected, never clamped.
func (s *ProgressService) Upsert(ctx context.Context, userID, courseID string, patch models.ProgressPatch) (*models.UserProgress, error) {
	if err := validateStruct("invalid progress data", patch); err != nil {
		return nil, err
	}
	if err := s.catalog.exists(ctx, courseID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(pairKey(userID, courseID))
	defer unlock()

	now := s.now()
	existing, err := s.progress.GetProgress(ctx, userID, courseID)
	if errors.Is(err, ErrRecordNotFound) {
		p := models.NewUserProgress(userID, courseID, now)
		p.Apply(patch)
		err = s.progress.CreateProgress(ctx, p)
		if err == nil {
			s.log.Debug("progress created", "user_id", userID, "course_id", courseID, "progress", p.Progress)
			return p, nil
		}
		if !errors.Is(err, ErrDuplicate) {
			return nil, NewInternalError("failed to update progress", err)
		}
		// Another process created the record first; merge into it.
		existing, err = s.progress.GetProgress(ctx, userID, courseID)
	}
	if err != nil {
		return nil, NewInternalError("failed to update progress", err)
	}

	if s.policy.ForwardOnlySteps && patch.CurrentStep != nil && *patch.CurrentStep < existing.CurrentStep {
		return nil, NewValidationError("invalid progress data", FieldError{
			Field: "currentStep",
			Error: fmt.Sprintf("currentStep cannot move back from %d to %d", existing.CurrentStep, *patch.CurrentStep),
		})
	}

	updated := *existing
	updated.Apply(patch)
	updated.LastAccessed = now
	if err := s.progress.UpdateProgress(ctx, &updated); err != nil {
		return nil, NewInternalError("failed to update progress", err)
	}
	s.log.Debug("progress updated", "user_id", userID, "course_id", courseID, "progress", updated.Progress)
	return &updated, nil
}
