package gamification

import "learnhub/internal/models"

// DefaultBadges are seeded at startup when missing. Thresholds follow the
// trigger metric: completed-lesson count, issued-certificate count, or
// current streak length.
func DefaultBadges() []models.Badge {
	return []models.Badge{
		{Code: "first_lesson", Name: "First Steps", Description: "Complete your first lesson", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 1, RewardXP: 10},
		{Code: "lessons_10", Name: "Getting Serious", Description: "Complete 10 lessons", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 10, RewardXP: 25},
		{Code: "lessons_50", Name: "Scholar", Description: "Complete 50 lessons", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 50, RewardXP: 50},
		{Code: "lessons_100", Name: "Centurion", Description: "Complete 100 lessons", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 100, RewardXP: 100},
		{Code: "first_course", Name: "Graduate", Description: "Complete your first course", TriggerType: models.BadgeTriggerCoursesCompleted, Threshold: 1, RewardXP: 50},
		{Code: "courses_5", Name: "Collector", Description: "Complete 5 courses", TriggerType: models.BadgeTriggerCoursesCompleted, Threshold: 5, RewardXP: 100},
		{Code: "streak_7", Name: "Week Warrior", Description: "7-day learning streak", TriggerType: models.BadgeTriggerStreak, Threshold: 7, RewardXP: 25},
		{Code: "streak_30", Name: "Monthly Master", Description: "30-day learning streak", TriggerType: models.BadgeTriggerStreak, Threshold: 30, RewardXP: 100},
	}
}
