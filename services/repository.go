package services

import (
	"context"

	"SafeEduBackend/models"
)

// Repository interfaces are the store contract the components are written
// against. Implementations live in database (SQL) and database/memstore.
// Lookups of a missing record return ErrRecordNotFound; inserts that break
// a uniqueness rule return ErrDuplicate.

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUserByEmail matches on the normalized email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	// ListCourses returns every course in insertion order.
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type ProgressRepository interface {
	GetProgress(ctx context.Context, userID, courseID string) (*models.UserProgress, error)
	ListProgressByUser(ctx context.Context, userID string) ([]models.UserProgress, error)
	// CreateProgress fails with ErrDuplicate if (userID, courseID) exists.
	CreateProgress(ctx context.Context, p *models.UserProgress) error
	UpdateProgress(ctx context.Context, p *models.UserProgress) error
}

type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
	// ListAssessmentsByCourse returns questions in a stable order, which
	// is the order answers are matched against.
	ListAssessmentsByCourse(ctx context.Context, courseID string) ([]models.Assessment, error)
}

type AttemptRepository interface {
	// CreateUserAssessment fails with ErrDuplicate if the attempt number
	// is already taken for (userID, courseID).
	CreateUserAssessment(ctx context.Context, ua *models.UserAssessment) error
	GetUserAssessment(ctx context.Context, id string) (*models.UserAssessment, error)
	CountUserAssessments(ctx context.Context, userID, courseID string) (int, error)
	ListUserAssessments(ctx context.Context, userID, courseID string) ([]models.UserAssessment, error)
}

type CertificateRepository interface {
	// CreateCertificate fails with ErrDuplicate if a certificate already
	// exists for the same user assessment.
	CreateCertificate(ctx context.Context, c *models.Certificate) error
	GetCertificateByUserAssessment(ctx context.Context, userAssessmentID string) (*models.Certificate, error)
	ListCertificatesByUser(ctx context.Context, userID string) ([]models.Certificate, error)
}

type NoticeRepository interface {
	CreateNotice(ctx context.Context, n *models.Notice) error
	GetNotice(ctx context.Context, id string) (*models.Notice, error)
	// ListNotices returns notices newest first, latest created first on
	// equal timestamps.
	ListNotices(ctx context.Context) ([]models.Notice, error)
	// UpdateNotice writes title, content and updatedAt; viewCount is only
	// changed through IncrementNoticeViews.
	UpdateNotice(ctx context.Context, n *models.Notice) error
	DeleteNotice(ctx context.Context, id string) error
	// IncrementNoticeViews atomically adds one view and returns the
	// updated notice.
	IncrementNoticeViews(ctx context.Context, id string) (*models.Notice, error)
}

// Store bundles every repository; both store implementations satisfy it.
type Store interface {
	UserRepository
	CourseRepository
	ProgressRepository
	AssessmentRepository
	AttemptRepository
	CertificateRepository
	NoticeRepository
}
