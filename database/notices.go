package database

import (
	"context"
	"fmt"

	"SafeEduBackend/models"
)

const noticeColumns = `id, author_id, title, content, created_at, updated_at, view_count`

func scanNotice(row scanner) (*models.Notice, error) {
	var n models.Notice
	if err := row.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &n.ViewCount); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotice gives the notice the next position, which orders notices
// created within the same timestamp.
func (s *Store) CreateNotice(ctx context.Context, n *models.Notice) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO notices (position, `+noticeColumns+`)
		 VALUES ((SELECT COALESCE(MAX(position), 0) + 1 FROM notices), $1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.AuthorID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt, n.ViewCount,
	)
	if err != nil {
		return fmt.Errorf("CreateNotice failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) GetNotice(ctx context.Context, id string) (*models.Notice, error) {
	n, err := scanNotice(s.DB.QueryRowContext(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err)
	}
	return n, nil
}

func (s *Store) ListNotices(ctx context.Context) ([]models.Notice, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+noticeColumns+` FROM notices ORDER BY created_at DESC, position DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListNotices query failed: %w", err)
	}
	defer rows.Close()

	notices := []models.Notice{}
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning notice data: %w", err)
		}
		notices = append(notices, *n)
	}
	return notices, rows.Err()
}

func (s *Store) UpdateNotice(ctx context.Context, n *models.Notice) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE notices SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		n.Title, n.Content, n.UpdatedAt, n.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateNotice failed: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteNotice(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteNotice failed: %w", err)
	}
	return requireAffected(res)
}

// IncrementNoticeViews bumps the counter in a single statement so concurrent
// readers never lose a view.
func (s *Store) IncrementNoticeViews(ctx context.Context, id string) (*models.Notice, error) {
	n, err := scanNotice(s.DB.QueryRowContext(ctx,
		`UPDATE notices SET view_count = view_count + 1 WHERE id = $1 RETURNING `+noticeColumns,
		id,
	))
	if err != nil {
		return nil, translateErr(err)
	}
	return n, nil
}
