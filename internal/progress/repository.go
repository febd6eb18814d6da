package progress

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordLessonCompletion inserts the completion fact. The unique
// (user, lesson) index plus DoNothing turns a replay into created=false
// instead of an error, which is what every downstream idempotence guarantee
// hangs off.
func (r *Repository) RecordLessonCompletion(ctx context.Context, userID, lessonID, courseID uint) (bool, error) {
	lc := models.LessonCompletion{
		UserID:   userID,
		LessonID: lessonID,
		CourseID: courseID,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&lc)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) CountCompletedLessons(ctx context.Context, userID, courseID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) CompletedLessonIDs(ctx context.Context, userID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at asc").
		Pluck("lesson_id", &ids).Error
	return ids, err
}
