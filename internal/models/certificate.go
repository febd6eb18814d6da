package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is issued at most once per (user, course); the composite
// unique index is the authority, not application-level checks. Learner and
// course metadata are snapshotted at issuance so the certificate survives
// later course edits or deletion.
type Certificate struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_user_course_cert;not null"`
	CourseID    uint      `json:"course_id" gorm:"uniqueIndex:idx_user_course_cert;not null"`
	Number      string    `json:"number" gorm:"unique;not null"`
	VerifyToken uuid.UUID `json:"verify_token" gorm:"type:uuid;unique"`
	IssuedAt    time.Time `json:"issued_at" gorm:"not null"`

	// Snapshot taken at issuance time.
	LearnerName    string `json:"learner_name"`
	CourseTitle    string `json:"course_title"`
	InstructorName string `json:"instructor_name"`
	LessonCount    int    `json:"lesson_count"`
}
