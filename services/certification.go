package services

import (
	"context"
	"errors"
	"time"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

// CertificationService issues at most one certificate per passing attempt.
type CertificationService struct {
	certs    CertificateRepository
	attempts AttemptRepository
	baseURL  string
	locks    *keyLock
	now      func() time.Time
	log      *logger.Logger
}

func NewCertificationService(certs CertificateRepository, attempts AttemptRepository, baseURL string, log *logger.Logger) *CertificationService {
	return &CertificationService{
		certs:    certs,
		attempts: attempts,
		baseURL:  baseURL,
		locks:    newKeyLock(),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("service", "CertificationService"),
	}
}

// Issue creates the certificate for a passed attempt. Calling it again for
// the same attempt returns the certificate already issued. It is also the
// repair path for a passed attempt whose certificate was never written.
func (s *CertificationService) Issue(ctx context.Context, userID, courseID, userAssessmentID string) (*models.Certificate, error) {
	unlock := s.locks.Lock(userAssessmentID)
	defer unlock()

	attempt, err := s.attempts.GetUserAssessment(ctx, userAssessmentID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("assessment attempt not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to issue certificate", err)
	}
	if attempt.UserID != userID || attempt.CourseID != courseID {
		return nil, NewValidationError("assessment attempt does not belong to this user and course")
	}
	if !attempt.Passed {
		return nil, NewValidationError("certificates are only issued for passed attempts")
	}

	if cert, err := s.certs.GetCertificateByUserAssessment(ctx, userAssessmentID); err == nil {
		return cert, nil
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, NewInternalError("failed to issue certificate", err)
	}

	cert := models.NewCertificate(userID, courseID, userAssessmentID, s.baseURL, s.now())
	if err := s.certs.CreateCertificate(ctx, cert); err != nil {
		if errors.Is(err, ErrDuplicate) {
			existing, gerr := s.certs.GetCertificateByUserAssessment(ctx, userAssessmentID)
			if gerr != nil {
				return nil, NewInternalError("failed to issue certificate", gerr)
			}
			return existing, nil
		}
		return nil, NewInternalError("failed to issue certificate", err)
	}
	s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "certificate_id", cert.ID)
	return cert, nil
}

func (s *CertificationService) ListForUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	list, err := s.certs.ListCertificatesByUser(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to fetch certificates", err)
	}
	return list, nil
}
