package models

import (
	"time"
)

// LessonCompletion is the append-only fact that a user finished a lesson.
// The composite unique index makes replayed completions a no-op at the
// storage layer.
type LessonCompletion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID  uint      `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

// QuizAttempt is immutable once created. Answers holds the submitted option
// indices as a JSON array.
type QuizAttempt struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        uint      `json:"user_id" gorm:"index:idx_user_quiz;not null"`
	QuizID        uint      `json:"quiz_id" gorm:"index:idx_user_quiz;not null"`
	ModuleID      uint      `json:"module_id" gorm:"index;not null"`
	CourseID      uint      `json:"course_id" gorm:"index;not null"`
	Answers       string    `json:"answers" gorm:"type:text"`
	Score         int       `json:"score" gorm:"not null"`
	Passed        bool      `json:"passed" gorm:"not null"`
	AttemptNumber int       `json:"attempt_number" gorm:"not null"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
