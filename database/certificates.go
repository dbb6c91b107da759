package database

import (
	"context"
	"fmt"

	"SafeEduBackend/models"
)

const certificateColumns = `id, user_id, course_id, user_assessment_id, certificate_url, issued_at`

func scanCertificate(row scanner) (*models.Certificate, error) {
	var c models.Certificate
	if err := row.Scan(&c.ID, &c.UserID, &c.CourseID, &c.UserAssessmentID, &c.CertificateURL, &c.IssuedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCertificate relies on the UNIQUE(user_assessment_id) constraint to
// reject a second certificate for the same attempt.
func (s *Store) CreateCertificate(ctx context.Context, c *models.Certificate) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO certificates (`+certificateColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.CourseID, c.UserAssessmentID, c.CertificateURL, c.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateCertificate failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) GetCertificateByUserAssessment(ctx context.Context, userAssessmentID string) (*models.Certificate, error) {
	c, err := scanCertificate(s.DB.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_assessment_id = $1`,
		userAssessmentID,
	))
	if err != nil {
		return nil, translateErr(err)
	}
	return c, nil
}

func (s *Store) ListCertificatesByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_id = $1 ORDER BY issued_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListCertificatesByUser query failed: %w", err)
	}
	defer rows.Close()

	certs := []models.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning certificate data: %w", err)
		}
		certs = append(certs, *c)
	}
	return certs, rows.Err()
}
