package certificate

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"learnhub/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByUserCourse returns nil, nil when no certificate exists.
func (r *Repository) FindByUserCourse(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

// Create relies on the (user, course) unique index; a duplicate-key error
// from a concurrent issuance surfaces to the service, which resolves it by
// refetching the winner's row.
func (r *Repository) Create(ctx context.Context, cert *models.Certificate) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at desc").
		Find(&certs).Error
	return certs, err
}

func (r *Repository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
