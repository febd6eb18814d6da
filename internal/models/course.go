package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"`
	InstructorName string         `json:"instructor_name"`
	// Minimum score (0-100) a final-quiz attempt needs to pass.
	PassingScore int            `json:"passing_score" gorm:"default:70"`
	Modules      []CourseModule `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

type CourseModule struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Position  int            `json:"position" gorm:"not null"`
	Lessons   []Lesson       `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
	// At most one final quiz per module.
	FinalQuiz *Quiz `json:"final_quiz,omitempty" gorm:"foreignKey:ModuleID"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	ModuleID  uint           `json:"module_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Position  int            `json:"position" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text"`
}

type Quiz struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	ModuleID  uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	Title     string         `json:"title"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuizID    uint           `json:"quiz_id" gorm:"index;not null"`
	Text      string         `json:"text" gorm:"not null"`
	Points    int            `json:"points" gorm:"default:1"`
	Position  int            `json:"position"`
	Options   []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type Option struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuestionID uint           `json:"question_id" gorm:"index;not null"`
	Text       string         `json:"text" gorm:"not null"`
	IsCorrect  bool           `json:"-" gorm:"default:false"`
}
