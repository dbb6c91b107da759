package models

import (
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	ID        string    `json:"id" db:"id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	ViewCount int       `json:"viewCount" db:"view_count"`
}

type NoticeCreate struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type NoticeUpdate struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

func NewNotice(authorID string, n NoticeCreate, now time.Time) *Notice {
	return &Notice{
		ID:        "NTC-" + uuid.New().String(),
		AuthorID:  authorID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: now,
		UpdatedAt: now,
		ViewCount: 0,
	}
}
