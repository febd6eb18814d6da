package quiz

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"learnhub/internal/models"
)

var ErrQuizNotFound = errors.New("quiz not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByModule loads a module's final quiz with its questions and options,
// questions in position order.
func (r *Repository) GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("module_id = ?", moduleID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// CreateAttempt persists an attempt, numbering it after the user's prior
// attempts for the same quiz. Attempts are immutable once created.
func (r *Repository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior int64
		if err := tx.Model(&models.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", attempt.UserID, attempt.QuizID).
			Count(&prior).Error; err != nil {
			return err
		}
		attempt.AttemptNumber = int(prior) + 1
		return tx.Create(attempt).Error
	})
}

func (r *Repository) HasPassingAttempt(ctx context.Context, userID, quizID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

// PassedQuizIDs returns which of the given quizzes the user has at least one
// passing attempt for.
func (r *Repository) PassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) (map[uint]bool, error) {
	passed := make(map[uint]bool)
	if len(quizIDs) == 0 {
		return passed, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Distinct("quiz_id").
		Where("user_id = ? AND quiz_id IN ? AND passed = ?", userID, quizIDs, true).
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		passed[id] = true
	}
	return passed, nil
}

func (r *Repository) BestAttempt(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("score desc, created_at asc").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *Repository) LatestPassingAttempt(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Order("created_at desc").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}
