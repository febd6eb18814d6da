package gamification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/config"
	"learnhub/internal/models"
	"learnhub/pkg/logger"
)

type fakeRepo struct {
	mu          sync.Mutex
	stats       map[uint]*models.GamificationStats
	events      []models.XPEvent
	users       map[uint]*models.User
	badges      []models.Badge
	userBadges  map[string]bool
	lessonCount map[uint]int
	certCount   map[uint]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stats:       make(map[uint]*models.GamificationStats),
		users:       map[uint]*models.User{1: {ID: 1, Username: "asha"}},
		userBadges:  make(map[string]bool),
		lessonCount: make(map[uint]int),
		certCount:   make(map[uint]int),
	}
}

func (f *fakeRepo) GetOrCreateStats(_ context.Context, userID uint) (*models.GamificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stats[userID]; ok {
		cp := *s
		return &cp, nil
	}
	f.stats[userID] = &models.GamificationStats{UserID: userID, CurrentLevel: 1}
	cp := *f.stats[userID]
	return &cp, nil
}

func (f *fakeRepo) AddXP(_ context.Context, userID uint, delta int) (*models.GamificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.stats[userID]
	s.TotalXP += delta
	s.CurrentLevel = Level(s.TotalXP)
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) SetTotalXP(_ context.Context, userID uint, totalXP int) (*models.GamificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.stats[userID]
	s.TotalXP = totalXP
	s.CurrentLevel = Level(totalXP)
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) CreateEvent(_ context.Context, event *models.XPEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeRepo) HasEvent(_ context.Context, userID uint, eventType, referenceID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.UserID == userID && e.EventType == eventType && e.ReferenceID == referenceID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SumEvents(_ context.Context, userID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, e := range f.events {
		if e.UserID == userID {
			total += e.Amount
		}
	}
	return total, nil
}

func (f *fakeRepo) SaveStreak(_ context.Context, stats *models.GamificationStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.stats[stats.UserID]
	s.CurrentStreak = stats.CurrentStreak
	s.LongestStreak = stats.LongestStreak
	s.LastActivityDate = stats.LastActivityDate
	return nil
}

func (f *fakeRepo) GetUser(_ context.Context, userID uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) ListBadges(_ context.Context) ([]models.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.badges, nil
}

func (f *fakeRepo) AwardBadge(_ context.Context, userID, badgeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d:%d", userID, badgeID)
	if f.userBadges[key] {
		return false, nil
	}
	f.userBadges[key] = true
	return true, nil
}

func (f *fakeRepo) UserBadges(_ context.Context, userID uint) ([]models.UserBadge, error) {
	return nil, nil
}

func (f *fakeRepo) CountLessonCompletions(_ context.Context, userID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lessonCount[userID], nil
}

func (f *fakeRepo) CountCertificates(_ context.Context, userID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.certCount[userID], nil
}

func (f *fakeRepo) eventsOfType(eventType string) []models.XPEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.XPEvent
	for _, e := range f.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testRules() config.XPRules {
	return config.XPRules{
		LessonCompleted: 10,
		CourseCompleted: 50,
		QuizPassed:      20,
		PerfectScore:    10,
		StreakBonus:     5,
		DailyLogin:      5,
	}
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, nil, testRules(), "UTC", logger.NewNop())
}

func TestGrantXPCourseCompletedIsOneShot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	stats, granted, err := svc.GrantXP(ctx, 1, models.XPEventCourseCompleted, "course:7", 50, "course completed")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, 50, stats.TotalXP)

	stats, granted, err = svc.GrantXP(ctx, 1, models.XPEventCourseCompleted, "course:7", 50, "course completed")
	require.NoError(t, err)
	assert.False(t, granted, "second grant for the same course must not fire")
	assert.Equal(t, 50, stats.TotalXP)

	assert.Len(t, repo.eventsOfType(models.XPEventCourseCompleted), 1)
}

func TestGrantXPRepeatableEventsAreNotDeduped(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, granted, err := svc.GrantXP(ctx, 1, models.XPEventLessonCompleted, "lesson:9", 10, "lesson completed")
		require.NoError(t, err)
		assert.True(t, granted)
	}
	assert.Len(t, repo.eventsOfType(models.XPEventLessonCompleted), 3)
}

func TestTouchActivityStreakProgression(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stats, bonus, err := svc.TouchActivity(ctx, 1, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Zero(t, bonus, "first day carries no streak bonus")

	// Same day again: no-op.
	stats, bonus, err = svc.TouchActivity(ctx, 1, day1.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Zero(t, bonus)

	// Next day extends the streak and earns the bonus once.
	day2 := day1.AddDate(0, 0, 1)
	stats, bonus, err = svc.TouchActivity(ctx, 1, day2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 5, bonus)

	stats, bonus, err = svc.TouchActivity(ctx, 1, day2.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Zero(t, bonus, "bonus must not re-fire within the same day")

	// A gap resets to 1, longest streak is retained.
	day5 := day1.AddDate(0, 0, 4)
	stats, _, err = svc.TouchActivity(ctx, 1, day5)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

func TestTouchActivityUsesUserTimezone(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1].Timezone = "Asia/Tokyo"
	svc := newTestService(repo)
	ctx := context.Background()

	// Both instants fall on March 1 UTC, but on consecutive days in Tokyo.
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) // Mar 1, 19:00 JST
	t2 := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC) // Mar 2, 05:00 JST

	stats, _, err := svc.TouchActivity(ctx, 1, t1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)

	stats, _, err = svc.TouchActivity(ctx, 1, t2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak, "Tokyo day boundary should split these instants")
}

func TestGrantDailyLoginOncePerDay(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	granted, err := svc.GrantDailyLogin(ctx, 1, now)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = svc.GrantDailyLogin(ctx, 1, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = svc.GrantDailyLogin(ctx, 1, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, granted)

	assert.Len(t, repo.eventsOfType(models.XPEventDailyLogin), 2)
}

func TestAwardEligibleBadgesIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.badges = []models.Badge{
		{ID: 1, Code: "first_lesson", Name: "First Steps", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 1, RewardXP: 10},
		{ID: 2, Code: "lessons_10", Name: "Getting Serious", TriggerType: models.BadgeTriggerLessonsCompleted, Threshold: 10, RewardXP: 25},
	}
	repo.lessonCount[1] = 10
	svc := newTestService(repo)
	ctx := context.Background()

	awarded, err := svc.AwardEligibleBadges(ctx, 1)
	require.NoError(t, err)
	require.Len(t, awarded, 2)

	stats, err := svc.CurrentStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 35, stats.TotalXP, "both badge rewards granted exactly once")

	// The same satisfied rules do not award or grant again.
	awarded, err = svc.AwardEligibleBadges(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	stats, err = svc.CurrentStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 35, stats.TotalXP)
	assert.Len(t, repo.eventsOfType(models.XPEventBadgeReward), 2)
}

func TestAdjustXP(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.AdjustXP(ctx, 99, 1, 100, "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	stats, err := svc.AdjustXP(ctx, 99, 1, 150, "migration correction")
	require.NoError(t, err)
	assert.Equal(t, 150, stats.TotalXP)
	assert.Equal(t, 2, stats.CurrentLevel)
	assert.Zero(t, stats.CurrentStreak, "adjustment bypasses streak logic")

	events := repo.eventsOfType(models.XPEventAdminAdjust)
	require.Len(t, events, 1)
	assert.Equal(t, "migration correction", events[0].Description)
	assert.Equal(t, "admin:99", events[0].ReferenceID)
}

func TestReconcileStats(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.GrantXP(ctx, 1, models.XPEventLessonCompleted, "lesson:1", 10, "")
	require.NoError(t, err)
	_, _, err = svc.GrantXP(ctx, 1, models.XPEventQuizPassed, "attempt:1", 20, "")
	require.NoError(t, err)

	// Simulate drift in the stats row; the ledger wins.
	repo.mu.Lock()
	repo.stats[1].TotalXP = 999
	repo.mu.Unlock()

	stats, err := svc.ReconcileStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.TotalXP)
	assert.Equal(t, 1, stats.CurrentLevel)
}
