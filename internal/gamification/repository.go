package gamification

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/internal/models"
)

type Repository struct {
	db       *gorm.DB
	maxLevel int
}

func NewRepository(db *gorm.DB, maxLevel int) *Repository {
	return &Repository{db: db, maxLevel: maxLevel}
}

func (r *Repository) GetOrCreateStats(ctx context.Context, userID uint) (*models.GamificationStats, error) {
	var stats models.GamificationStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = models.GamificationStats{UserID: userID, CurrentLevel: 1}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&stats).Error
	if err != nil {
		return nil, err
	}
	// A concurrent creator may have won the insert; read back.
	err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	return &stats, err
}

// AddXP applies a relative increment at the storage layer so concurrent
// grants for the same user never lose updates, then recomputes the cached
// level from the new total.
func (r *Repository) AddXP(ctx context.Context, userID uint, delta int) (*models.GamificationStats, error) {
	var stats models.GamificationStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GamificationStats{}).
			Where("user_id = ?", userID).
			Update("total_xp", gorm.Expr("total_xp + ?", delta)).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
			return err
		}
		level := CappedLevel(stats.TotalXP, r.maxLevel)
		if level != stats.CurrentLevel {
			if err := tx.Model(&stats).Update("current_level", level).Error; err != nil {
				return err
			}
			stats.CurrentLevel = level
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) CreateEvent(ctx context.Context, event *models.XPEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// HasEvent answers whether a one-shot XP grant already fired.
func (r *Repository) HasEvent(ctx context.Context, userID uint, eventType, referenceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.XPEvent{}).
		Where("user_id = ? AND event_type = ? AND reference_id = ?", userID, eventType, referenceID).
		Count(&count).Error
	return count > 0, err
}

// SumEvents re-derives total XP from the ledger. The event log is the
// source of truth when the stats row is suspected to have drifted.
func (r *Repository) SumEvents(ctx context.Context, userID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.XPEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *Repository) SetTotalXP(ctx context.Context, userID uint, totalXP int) (*models.GamificationStats, error) {
	var stats models.GamificationStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"total_xp":      totalXP,
			"current_level": CappedLevel(totalXP, r.maxLevel),
		}
		if err := tx.Model(&models.GamificationStats{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&stats).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) SaveStreak(ctx context.Context, stats *models.GamificationStats) error {
	return r.db.WithContext(ctx).Model(&models.GamificationStats{}).
		Where("user_id = ?", stats.UserID).
		Updates(map[string]interface{}{
			"current_streak":     stats.CurrentStreak,
			"longest_streak":     stats.LongestStreak,
			"last_activity_date": stats.LastActivityDate,
		}).Error
}

func (r *Repository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.WithContext(ctx).Order("threshold asc").Find(&badges).Error
	return badges, err
}

// AwardBadge inserts the (user, badge) fact; the unique index plus
// DoNothing makes a replay report created=false instead of erroring.
func (r *Repository) AwardBadge(ctx context.Context, userID, badgeID uint) (bool, error) {
	ub := models.UserBadge{UserID: userID, BadgeID: badgeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var out []models.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

func (r *Repository) CountLessonCompletions(ctx context.Context, userID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LessonCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) CountCertificates(ctx context.Context, userID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

// SeedBadges inserts the default badge rules, skipping codes that exist.
func (r *Repository) SeedBadges(ctx context.Context, badges []models.Badge) error {
	for i := range badges {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
			Create(&badges[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}
