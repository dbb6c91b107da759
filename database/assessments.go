package database

import (
	"context"
	"encoding/json"
	"fmt"

	"SafeEduBackend/models"
)

// CreateAssessment stores the options as a JSON array and appends the
// question after the course's existing ones.
func (s *Store) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	optionsJSON, err := json.Marshal(a.Options)
	if err != nil {
		return fmt.Errorf("error processing options: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO assessments (id, course_id, position, question, options, correct_answer, difficulty)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM assessments WHERE course_id = $2), $3, $4, $5, $6)`,
		a.ID, a.CourseID, a.Question, string(optionsJSON), a.CorrectAnswer, a.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("CreateAssessment failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) ListAssessmentsByCourse(ctx context.Context, courseID string) ([]models.Assessment, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, course_id, question, options, correct_answer, difficulty
		 FROM assessments WHERE course_id = $1 ORDER BY position`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAssessmentsByCourse query failed: %w", err)
	}
	defer rows.Close()

	questions := []models.Assessment{}
	for rows.Next() {
		var q models.Assessment
		var optionsStr string
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Question, &optionsStr, &q.CorrectAnswer, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("error scanning question data: %w", err)
		}
		if err := json.Unmarshal([]byte(optionsStr), &q.Options); err != nil {
			return nil, fmt.Errorf("invalid options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

const attemptColumns = `id, user_id, course_id, score, total_questions, passed, attempt_number, completed_at`

func scanAttempt(row scanner) (*models.UserAssessment, error) {
	var ua models.UserAssessment
	err := row.Scan(&ua.ID, &ua.UserID, &ua.CourseID, &ua.Score, &ua.TotalQuestions, &ua.Passed, &ua.AttemptNumber, &ua.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &ua, nil
}

func (s *Store) CreateUserAssessment(ctx context.Context, ua *models.UserAssessment) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_assessments (`+attemptColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ua.ID, ua.UserID, ua.CourseID, ua.Score, ua.TotalQuestions, ua.Passed, ua.AttemptNumber, ua.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateUserAssessment failed: %w", translateErr(err))
	}
	return nil
}

func (s *Store) GetUserAssessment(ctx context.Context, id string) (*models.UserAssessment, error) {
	ua, err := scanAttempt(s.DB.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM user_assessments WHERE id = $1`, id))
	if err != nil {
		return nil, translateErr(err)
	}
	return ua, nil
}

func (s *Store) CountUserAssessments(ctx context.Context, userID, courseID string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_assessments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountUserAssessments query failed: %w", err)
	}
	return n, nil
}

func (s *Store) ListUserAssessments(ctx context.Context, userID, courseID string) ([]models.UserAssessment, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM user_assessments
		 WHERE user_id = $1 AND course_id = $2 ORDER BY attempt_number`,
		userID, courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUserAssessments query failed: %w", err)
	}
	defer rows.Close()

	list := []models.UserAssessment{}
	for rows.Next() {
		ua, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning attempt data: %w", err)
		}
		list = append(list, *ua)
	}
	return list, rows.Err()
}
