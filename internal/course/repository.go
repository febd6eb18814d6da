package course

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"learnhub/internal/models"
)

var ErrCourseNotFound = errors.New("course not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetWithStructure loads a course with its modules, lessons and final
// quizzes, everything in position order.
func (r *Repository) GetWithStructure(ctx context.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Modules.FinalQuiz").
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ModuleCourseID resolves which course a module belongs to.
func (r *Repository) ModuleCourseID(ctx context.Context, moduleID uint) (uint, error) {
	var module models.CourseModule
	err := r.db.WithContext(ctx).Select("id", "course_id").First(&module, moduleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCourseNotFound
		}
		return 0, err
	}
	return module.CourseID, nil
}
