package database

import (
	"context"
	"fmt"

	"SafeEduBackend/models"
)

const progressColumns = `id, user_id, course_id, progress, current_step, time_spent, completed, last_accessed`

func scanProgress(row scanner) (*models.UserProgress, error) {
	var p models.UserProgress
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Progress, &p.CurrentStep, &p.TimeSpent, &p.Completed, &p.LastAccessed)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProgress(ctx context.Context, userID, courseID string) (*models.UserProgress, error) {
	p, err := scanProgress(s.DB.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	))
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}

func (s *Store) ListProgressByUser(ctx context.Context, userID string) ([]models.UserProgress, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 ORDER BY course_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListProgressByUser query failed: %w", err)
	}
	defer rows.Close()

	list := []models.UserProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning progress data: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (s *Store) CreateProgress(ctx context.Context, p *models.UserProgress) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_progress (`+progressColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.CourseID, p.Progress, p.CurrentStep, p.TimeSpent, p.Completed, p.LastAccessed,
	)
	if err != nil {
		return fmt.Errorf("CreateProgress failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) UpdateProgress(ctx context.Context, p *models.UserProgress) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE user_progress
		 SET progress = $1, current_step = $2, time_spent = $3, completed = $4, last_accessed = $5
		 WHERE user_id = $6 AND course_id = $7`,
		p.Progress, p.CurrentStep, p.TimeSpent, p.Completed, p.LastAccessed, p.UserID, p.CourseID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProgress failed: %w", err)
	}
	return requireAffected(res)
}
