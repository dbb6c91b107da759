package models

import (
	"github.com/google/uuid"
)

type CourseType string

const (
	CourseWorkplaceSafety  CourseType = "workplace-safety"
	CourseHazardPrevention CourseType = "hazard-prevention"
	CourseTBM              CourseType = "tbm"
)

type Course struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Type        CourseType `json:"type" db:"type"`
	Duration    int        `json:"duration" db:"duration"` // Duration in minutes
	VideoURL    *string    `json:"videoUrl" db:"video_url"`
	DocumentURL *string    `json:"documentUrl" db:"document_url"`
	Color       string     `json:"color" db:"color"`
	Icon        string     `json:"icon" db:"icon"`
	IsActive    bool       `json:"isActive" db:"is_active"`
}

type CourseCreate struct {
	ID          string     `json:"-"`
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"required"`
	Type        CourseType `json:"type" validate:"required,oneof=workplace-safety hazard-prevention tbm"`
	Duration    int        `json:"duration" validate:"required,gt=0"`
	VideoURL    *string    `json:"videoUrl"`
	DocumentURL *string    `json:"documentUrl"`
	Color       string     `json:"color"`
	Icon        string     `json:"icon"`
	IsActive    *bool      `json:"isActive"`
}

// NewCourse applies the catalog defaults to a validated create payload.
// A preset ID is kept so seeded courses have stable identifiers.
func NewCourse(c CourseCreate) *Course {
	id := c.ID
	if id == "" {
		id = "CRS-" + uuid.New().String()
	}
	color := c.Color
	if color == "" {
		color = "blue"
	}
	icon := c.Icon
	if icon == "" {
		icon = "book"
	}
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}
	return &Course{
		ID:          id,
		Title:       c.Title,
		Description: c.Description,
		Type:        c.Type,
		Duration:    c.Duration,
		VideoURL:    c.VideoURL,
		DocumentURL: c.DocumentURL,
		Color:       color,
		Icon:        icon,
		IsActive:    active,
	}
}
