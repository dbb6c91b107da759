package database

import (
	"context"
	"fmt"
)

// migrations only use types and syntax that PostgreSQL and SQLite share.
// Identifiers are generated by the application.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		department VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id VARCHAR(64) PRIMARY KEY,
		position INTEGER NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		type VARCHAR(50) NOT NULL,
		duration INTEGER NOT NULL,
		video_url TEXT,
		document_url TEXT,
		color VARCHAR(50) NOT NULL DEFAULT 'blue',
		icon VARCHAR(50) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		course_id VARCHAR(64) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
		current_step INTEGER NOT NULL DEFAULT 1 CHECK (current_step BETWEEN 1 AND 3),
		time_spent INTEGER NOT NULL DEFAULT 0 CHECK (time_spent >= 0),
		completed BOOLEAN NOT NULL DEFAULT false,
		last_accessed TIMESTAMP NOT NULL,
		UNIQUE(user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id VARCHAR(64) PRIMARY KEY,
		course_id VARCHAR(64) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer INTEGER NOT NULL CHECK (correct_answer >= 0),
		difficulty VARCHAR(20) NOT NULL DEFAULT 'medium'
	)`,
	`CREATE TABLE IF NOT EXISTS user_assessments (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		course_id VARCHAR(64) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		passed BOOLEAN NOT NULL,
		attempt_number INTEGER NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		UNIQUE(user_id, course_id, attempt_number)
	)`,
	`CREATE TABLE IF NOT EXISTS certificates (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		course_id VARCHAR(64) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		user_assessment_id VARCHAR(64) NOT NULL UNIQUE REFERENCES user_assessments(id),
		certificate_url TEXT NOT NULL,
		issued_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id VARCHAR(64) PRIMARY KEY,
		position INTEGER NOT NULL,
		author_id VARCHAR(64) NOT NULL,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_position ON courses(position)`,
	`CREATE INDEX IF NOT EXISTS idx_user_progress_user ON user_progress(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_course ON assessments(course_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_user_assessments_user_course ON user_assessments(user_id, course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_certificates_user ON certificates(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notices_created ON notices(created_at, position)`,
}

func (s *Store) runMigrations(ctx context.Context) error {
	for _, migration := range migrations {
		if _, err := s.DB.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}
	return nil
}
