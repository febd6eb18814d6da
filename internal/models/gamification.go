package models

import (
	"time"
)

// XP event types. One-shot types are deduplicated by
// (user, event type, reference id); repeatable types rely on the uniqueness
// of the upstream fact (e.g. the lesson_completions row).
const (
	XPEventLessonCompleted = "lesson_completed"
	XPEventCourseCompleted = "course_completed"
	XPEventQuizPassed      = "quiz_passed"
	XPEventPerfectScore    = "perfect_score"
	XPEventStreakBonus     = "streak_bonus"
	XPEventDailyLogin      = "daily_login"
	XPEventBadgeReward     = "badge_reward"
	XPEventAdminAdjust     = "admin_adjustment"
)

// Badge trigger types.
const (
	BadgeTriggerLessonsCompleted = "lessons_completed"
	BadgeTriggerCoursesCompleted = "courses_completed"
	BadgeTriggerStreak           = "streak"
)

// GamificationStats is the per-user counters row. TotalXP and the streak
// fields are mutated in place; CurrentLevel is a cache recomputed from
// TotalXP on every write, never independent truth.
type GamificationStats struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	UserID           uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	TotalXP          int        `json:"total_xp" gorm:"default:0"`
	CurrentLevel     int        `json:"current_level" gorm:"default:1"`
	CurrentStreak    int        `json:"current_streak" gorm:"default:0"`
	LongestStreak    int        `json:"longest_streak" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

func (GamificationStats) TableName() string {
	return "gamification_stats"
}

// XPEvent is the append-only XP ledger. It is the source of truth for
// TotalXP; the stats row is reconciled from it, not the other way around.
type XPEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `json:"user_id" gorm:"index:idx_xp_user_type_ref;not null"`
	EventType   string    `json:"event_type" gorm:"index:idx_xp_user_type_ref;not null"`
	ReferenceID string    `json:"reference_id" gorm:"index:idx_xp_user_type_ref"`
	Amount      int       `json:"amount" gorm:"not null"`
	Description string    `json:"description"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}

// Badge is a rule template; UserBadge is the at-most-once fact that a user
// satisfied it.
type Badge struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	Code        string    `json:"code" gorm:"unique;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	TriggerType string    `json:"trigger_type" gorm:"not null"`
	Threshold   int       `json:"threshold" gorm:"not null"`
	RewardXP    int       `json:"reward_xp" gorm:"default:0"`
}

type UserBadge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint      `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
