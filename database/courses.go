package database

import (
	"context"
	"fmt"

	"SafeEduBackend/models"
)

const courseColumns = `id, title, description, type, duration, video_url, document_url, color, icon, is_active`

func scanCourse(row scanner) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Type, &c.Duration,
		&c.VideoURL, &c.DocumentURL, &c.Color, &c.Icon, &c.IsActive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCourse appends the course after every existing one; position keeps
// listings in insertion order.
func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO courses (id, position, title, description, type, duration, video_url, document_url, color, icon, is_active)
		 VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM courses), $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Title, c.Description, c.Type, c.Duration, c.VideoURL, c.DocumentURL, c.Color, c.Icon, c.IsActive,
	)
	if err != nil {
		return fmt.Errorf("CreateCourse failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	c, err := scanCourse(s.DB.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err)
	}
	return c, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("ListCourses query failed: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course data: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}
