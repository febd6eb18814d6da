package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/models"
	"learnhub/pkg/cache"
	"learnhub/pkg/logger"
)

var ErrReasonRequired = errors.New("adjustment reason is required")

// repository is what the engine needs from storage. *Repository satisfies it.
type repository interface {
	GetOrCreateStats(ctx context.Context, userID uint) (*models.GamificationStats, error)
	AddXP(ctx context.Context, userID uint, delta int) (*models.GamificationStats, error)
	SetTotalXP(ctx context.Context, userID uint, totalXP int) (*models.GamificationStats, error)
	CreateEvent(ctx context.Context, event *models.XPEvent) error
	HasEvent(ctx context.Context, userID uint, eventType, referenceID string) (bool, error)
	SumEvents(ctx context.Context, userID uint) (int, error)
	SaveStreak(ctx context.Context, stats *models.GamificationStats) error
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	AwardBadge(ctx context.Context, userID, badgeID uint) (bool, error)
	UserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	CountLessonCompletions(ctx context.Context, userID uint) (int, error)
	CountCertificates(ctx context.Context, userID uint) (int, error)
}

type Service struct {
	repo      repository
	cache     *cache.RedisCache
	rules     config.XPRules
	defaultTZ string
	log       *logger.Logger
}

func NewService(repo repository, cache *cache.RedisCache, rules config.XPRules, defaultTZ string, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		rules:     rules,
		defaultTZ: defaultTZ,
		log:       log,
	}
}

func (s *Service) Rules() config.XPRules {
	return s.rules
}

// GrantXP writes one XPEvent and bumps the stats total by the same amount.
// One-shot event types (course completion) are deduplicated by
// (user, type, reference); repeatable types rely on the uniqueness of the
// upstream fact, per the caller's contract.
func (s *Service) GrantXP(ctx context.Context, userID uint, eventType, referenceID string, amount int, description string) (*models.GamificationStats, bool, error) {
	stats, err := s.repo.GetOrCreateStats(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if amount == 0 {
		return stats, false, nil
	}

	if eventType == models.XPEventCourseCompleted {
		exists, err := s.repo.HasEvent(ctx, userID, eventType, referenceID)
		if err != nil {
			return nil, false, err
		}
		if exists {
			return stats, false, nil
		}
	}

	event := &models.XPEvent{
		UserID:      userID,
		EventType:   eventType,
		ReferenceID: referenceID,
		Amount:      amount,
		Description: description,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, false, err
	}

	stats, err = s.repo.AddXP(ctx, userID, amount)
	if err != nil {
		return nil, false, err
	}

	s.bumpLeaderboard(ctx, userID, amount)
	return stats, true, nil
}

// TouchActivity moves the streak forward against "today" in the user's
// effective timezone. Same-day activity is a no-op; a consecutive day
// extends the streak and earns the streak bonus once per day; a gap resets
// to 1.
func (s *Service) TouchActivity(ctx context.Context, userID uint, now time.Time) (*models.GamificationStats, int, error) {
	stats, err := s.repo.GetOrCreateStats(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	loc, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	today := dateIn(now, loc)

	if stats.LastActivityDate != nil {
		last := dateIn(*stats.LastActivityDate, loc)
		switch {
		case last.Equal(today):
			return stats, 0, nil
		case last.AddDate(0, 0, 1).Equal(today):
			stats.CurrentStreak++
		default:
			stats.CurrentStreak = 1
		}
	} else {
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	activityAt := now.UTC()
	stats.LastActivityDate = &activityAt
	if err := s.repo.SaveStreak(ctx, stats); err != nil {
		return nil, 0, err
	}

	bonus := 0
	if stats.CurrentStreak > 1 && s.rules.StreakBonus > 0 {
		ref := today.Format("2006-01-02")
		granted, err := s.grantOncePerDay(ctx, userID, models.XPEventStreakBonus, ref, s.rules.StreakBonus,
			fmt.Sprintf("streak day %d", stats.CurrentStreak))
		if err != nil {
			return nil, 0, err
		}
		if granted {
			bonus = s.rules.StreakBonus
		}
	}
	return stats, bonus, nil
}

// GrantDailyLogin grants login XP at most once per calendar day in the
// user's effective timezone.
func (s *Service) GrantDailyLogin(ctx context.Context, userID uint, now time.Time) (bool, error) {
	loc, err := s.userLocation(ctx, userID)
	if err != nil {
		return false, err
	}
	ref := dateIn(now, loc).Format("2006-01-02")
	return s.grantOncePerDay(ctx, userID, models.XPEventDailyLogin, ref, s.rules.DailyLogin, "daily login")
}

func (s *Service) grantOncePerDay(ctx context.Context, userID uint, eventType, ref string, amount int, description string) (bool, error) {
	exists, err := s.repo.HasEvent(ctx, userID, eventType, ref)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	_, granted, err := s.GrantXP(ctx, userID, eventType, ref, amount, description)
	return granted, err
}

// AwardEligibleBadges checks every badge rule against the user's current
// metrics, creates the UserBadge fact for newly satisfied rules, and grants
// the reward XP through the normal grant path so it ledgers like any other
// grant. Already-earned badges are filtered at the storage layer.
func (s *Service) AwardEligibleBadges(ctx context.Context, userID uint) ([]models.AwardedBadge, error) {
	badges, err := s.repo.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	if len(badges) == 0 {
		return nil, nil
	}

	stats, err := s.repo.GetOrCreateStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	lessonCount := -1
	courseCount := -1

	var awarded []models.AwardedBadge
	for _, badge := range badges {
		var metric int
		switch badge.TriggerType {
		case models.BadgeTriggerLessonsCompleted:
			if lessonCount < 0 {
				if lessonCount, err = s.repo.CountLessonCompletions(ctx, userID); err != nil {
					return nil, err
				}
			}
			metric = lessonCount
		case models.BadgeTriggerCoursesCompleted:
			if courseCount < 0 {
				if courseCount, err = s.repo.CountCertificates(ctx, userID); err != nil {
					return nil, err
				}
			}
			metric = courseCount
		case models.BadgeTriggerStreak:
			metric = stats.CurrentStreak
		default:
			s.log.Warn("unknown badge trigger type", "badge", badge.Code, "trigger", badge.TriggerType)
			continue
		}

		if metric < badge.Threshold {
			continue
		}

		created, err := s.repo.AwardBadge(ctx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}

		if badge.RewardXP > 0 {
			if _, _, err := s.GrantXP(ctx, userID, models.XPEventBadgeReward, badge.Code, badge.RewardXP,
				fmt.Sprintf("badge: %s", badge.Name)); err != nil {
				return nil, err
			}
		}
		awarded = append(awarded, models.AwardedBadge{
			Code:     badge.Code,
			Name:     badge.Name,
			RewardXP: badge.RewardXP,
		})
	}
	return awarded, nil
}

// AdjustXP is the administrative override: always ledgered with the admin
// and a free-text reason, never touches streaks or badges.
func (s *Service) AdjustXP(ctx context.Context, adminID, targetUserID uint, amount int, reason string) (*models.GamificationStats, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if _, err := s.repo.GetOrCreateStats(ctx, targetUserID); err != nil {
		return nil, err
	}

	event := &models.XPEvent{
		UserID:      targetUserID,
		EventType:   models.XPEventAdminAdjust,
		ReferenceID: fmt.Sprintf("admin:%d", adminID),
		Amount:      amount,
		Description: reason,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	stats, err := s.repo.AddXP(ctx, targetUserID, amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin xp adjustment",
		"admin_id", adminID, "user_id", targetUserID, "amount", amount, "reason", reason)

	s.syncLeaderboard(ctx, targetUserID, stats.TotalXP)
	return stats, nil
}

// ReconcileStats re-derives the stats total from the XP event ledger. The
// ledger wins whenever the two disagree.
func (s *Service) ReconcileStats(ctx context.Context, userID uint) (*models.GamificationStats, error) {
	total, err := s.repo.SumEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.SetTotalXP(ctx, userID, total)
	if err != nil {
		return nil, err
	}
	s.syncLeaderboard(ctx, userID, total)
	return stats, nil
}

// CurrentStats reads the stats row without any side effects beyond lazily
// creating it.
func (s *Service) CurrentStats(ctx context.Context, userID uint) (*models.GamificationStats, error) {
	return s.repo.GetOrCreateStats(ctx, userID)
}

func (s *Service) Stats(ctx context.Context, userID uint) (*models.GamificationStats, []models.UserBadge, error) {
	stats, err := s.repo.GetOrCreateStats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	badges, err := s.repo.UserBadges(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return stats, badges, nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int64) ([]cache.LeaderboardEntry, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetLeaderboard(ctx, limit)
}

func (s *Service) userLocation(ctx context.Context, userID uint) (*time.Location, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := user.Timezone
	if name == "" {
		name = s.defaultTZ
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to UTC", "user_id", userID, "timezone", name)
		return time.UTC, nil
	}
	return loc, nil
}

// The leaderboard is advisory; cache failures never fail a grant.
func (s *Service) bumpLeaderboard(ctx context.Context, userID uint, delta int) {
	if s.cache == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return
	}
	if err := s.cache.IncrLeaderboard(ctx, user.Username, delta); err != nil {
		s.log.Warn("failed to update leaderboard", "user_id", userID, "error", err)
	}
}

func (s *Service) syncLeaderboard(ctx context.Context, userID uint, totalXP int) {
	if s.cache == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return
	}
	if err := s.cache.SetLeaderboardScore(ctx, user.Username, totalXP); err != nil {
		s.log.Warn("failed to sync leaderboard", "user_id", userID, "error", err)
	}
}

// dateIn truncates an instant to its calendar date in the given location.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
