package services

import (
	"context"
	"errors"
	"strings"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

type CatalogService struct {
	courses CourseRepository
	log     *logger.Logger
}

func NewCatalogService(courses CourseRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{courses: courses, log: log.With("service", "CatalogService")}
}

// ListActive returns the active courses in insertion order.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.Course, error) {
	all, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, NewInternalError("failed to fetch courses", err)
	}
	active := make([]models.Course, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.GetCourse(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("course not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to fetch course", err)
	}
	return course, nil
}

func (s *CatalogService) Create(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct("invalid course data", in); err != nil {
		return nil, err
	}

	course := models.NewCourse(in)
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, NewConflictError("course already exists")
		}
		return nil, NewInternalError("failed to create course", err)
	}
	s.log.Info("course created", "course_id", course.ID, "type", course.Type)
	return course, nil
}

// exists reports NotFound for unknown course ids; other components use it
// before writing records that reference a course.
func (s *CatalogService) exists(ctx context.Context, id string) error {
	_, err := s.Get(ctx, id)
	return err
}
