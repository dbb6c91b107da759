package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"userId" db:"user_id"`
	CourseID         string    `json:"courseId" db:"course_id"`
	UserAssessmentID string    `json:"userAssessmentId" db:"user_assessment_id"`
	CertificateURL   string    `json:"certificateUrl" db:"certificate_url"`
	IssuedAt         time.Time `json:"issuedAt" db:"issued_at"`
}

// CertificateURL is derived only from the attempt identifier so that a
// reissue for the same attempt always points at the same document.
func CertificateURL(baseURL, userAssessmentID string) string {
	return baseURL + "/certificates/" + userAssessmentID + ".pdf"
}

func NewCertificate(userID, courseID, userAssessmentID, baseURL string, now time.Time) *Certificate {
	return &Certificate{
		ID:               "CRT-" + uuid.New().String(),
		UserID:           userID,
		CourseID:         courseID,
		UserAssessmentID: userAssessmentID,
		CertificateURL:   CertificateURL(baseURL, userAssessmentID),
		IssuedAt:         now,
	}
}
