package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/models"
	"learnhub/internal/quiz"
	"learnhub/pkg/logger"
)

var ErrLessonNotInCourse = errors.New("lesson does not belong to course")

type courseSource interface {
	Structure(ctx context.Context, courseID uint) (*models.CourseStructure, error)
	ModuleCourseID(ctx context.Context, moduleID uint) (uint, error)
}

type completionStore interface {
	RecordLessonCompletion(ctx context.Context, userID, lessonID, courseID uint) (bool, error)
	CountCompletedLessons(ctx context.Context, userID, courseID uint) (int, error)
}

type attemptStore interface {
	GetByModule(ctx context.Context, moduleID uint) (*models.Quiz, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	PassedQuizIDs(ctx context.Context, userID uint, quizIDs []uint) (map[uint]bool, error)
	BestAttempt(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error)
	LatestPassingAttempt(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error)
}

type rewardEngine interface {
	GrantXP(ctx context.Context, userID uint, eventType, referenceID string, amount int, description string) (*models.GamificationStats, bool, error)
	TouchActivity(ctx context.Context, userID uint, now time.Time) (*models.GamificationStats, int, error)
	GrantDailyLogin(ctx context.Context, userID uint, now time.Time) (bool, error)
	AwardEligibleBadges(ctx context.Context, userID uint) ([]models.AwardedBadge, error)
	CurrentStats(ctx context.Context, userID uint) (*models.GamificationStats, error)
	Rules() config.XPRules
}

type certificateIssuer interface {
	Issue(ctx context.Context, userID, courseID uint) (*models.Certificate, bool, error)
	Find(ctx context.Context, userID, courseID uint) (*models.Certificate, error)
}

// Service is the progress facade: the single entry point callers invoke
// after any qualifying learning event. Every step is idempotent, so a
// caller that timed out can safely retry the whole call.
type Service struct {
	structures  courseSource
	completions completionStore
	attempts    attemptStore
	rewards     rewardEngine
	certs       certificateIssuer
	evaluator   *Evaluator

	defaultPassingScore int
	log                 *logger.Logger
	now                 func() time.Time
}

func NewService(
	structures courseSource,
	completions completionStore,
	attempts attemptStore,
	rewards rewardEngine,
	certs certificateIssuer,
	defaultPassingScore int,
	log *logger.Logger,
) *Service {
	return &Service{
		structures:          structures,
		completions:         completions,
		attempts:            attempts,
		rewards:             rewards,
		certs:               certs,
		evaluator:           NewEvaluator(structures, completions, attempts),
		defaultPassingScore: defaultPassingScore,
		log:                 log,
		now:                 time.Now,
	}
}

// Evaluator exposes the completion detector for wiring into collaborators
// (the certificate issuer re-verifies through it).
func (s *Service) Evaluator() *Evaluator {
	return s.evaluator
}

// RecordLessonCompleted records the fact, grants rewards for a genuinely
// new completion, and re-derives course state. A replayed completion
// short-circuits with no new reward but still reports a completed course's
// certificate, so retries are indistinguishable from the first success.
func (s *Service) RecordLessonCompleted(ctx context.Context, userID, lessonID, courseID uint) (*models.ProgressResult, error) {
	cs, err := s.structures.Structure(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !cs.ContainsLesson(lessonID) {
		return nil, ErrLessonNotInCourse
	}

	created, err := s.completions.RecordLessonCompletion(ctx, userID, lessonID, courseID)
	if err != nil {
		return nil, err
	}

	result := &models.ProgressResult{
		Status:        models.StatusLessonRecorded,
		AwardedBadges: []models.AwardedBadge{},
	}

	if created {
		_, bonus, err := s.rewards.TouchActivity(ctx, userID, s.now())
		if err != nil {
			return nil, err
		}
		result.XPGained += bonus

		rules := s.rewards.Rules()
		_, granted, err := s.rewards.GrantXP(ctx, userID, models.XPEventLessonCompleted,
			fmt.Sprintf("lesson:%d", lessonID), rules.LessonCompleted, "lesson completed")
		if err != nil {
			return nil, err
		}
		if granted {
			result.XPGained += rules.LessonCompleted
		}

		awarded, err := s.rewards.AwardEligibleBadges(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.collectBadges(result, awarded)
	}

	if err := s.resolveCompletion(ctx, userID, courseID, created, result); err != nil {
		return nil, err
	}
	return s.finalize(ctx, userID, result)
}

// SubmitQuizAttempt evaluates and persists one attempt, grants quiz XP on a
// pass, then re-derives course state. Prior attempts are never mutated.
func (s *Service) SubmitQuizAttempt(ctx context.Context, userID, moduleID uint, answers []int) (*models.QuizResult, error) {
	courseID, err := s.structures.ModuleCourseID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	cs, err := s.structures.Structure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	finalQuiz, err := s.attempts.GetByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	verdict, err := quiz.Evaluate(finalQuiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	threshold := cs.PassingScore
	if threshold <= 0 {
		threshold = s.defaultPassingScore
	}
	passed := verdict.Score >= threshold

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	attempt := &models.QuizAttempt{
		UserID:   userID,
		QuizID:   finalQuiz.ID,
		ModuleID: moduleID,
		CourseID: courseID,
		Answers:  string(answersJSON),
		Score:    verdict.Score,
		Passed:   passed,
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	progressResult := &models.ProgressResult{
		Status:        models.StatusCourseInProgress,
		AwardedBadges: []models.AwardedBadge{},
	}

	_, bonus, err := s.rewards.TouchActivity(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	progressResult.XPGained += bonus

	if passed {
		rules := s.rewards.Rules()
		_, granted, err := s.rewards.GrantXP(ctx, userID, models.XPEventQuizPassed,
			fmt.Sprintf("attempt:%d", attempt.ID), rules.QuizPassed,
			fmt.Sprintf("quiz passed with score %d", verdict.Score))
		if err != nil {
			return nil, err
		}
		if granted {
			progressResult.XPGained += rules.QuizPassed
		}

		if verdict.Perfect {
			_, granted, err := s.rewards.GrantXP(ctx, userID, models.XPEventPerfectScore,
				fmt.Sprintf("attempt:%d", attempt.ID), rules.PerfectScore, "perfect quiz score")
			if err != nil {
				return nil, err
			}
			if granted {
				progressResult.XPGained += rules.PerfectScore
			}
		}

		awarded, err := s.rewards.AwardEligibleBadges(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.collectBadges(progressResult, awarded)
	}

	if err := s.resolveCompletion(ctx, userID, courseID, false, progressResult); err != nil {
		return nil, err
	}
	if _, err := s.finalize(ctx, userID, progressResult); err != nil {
		return nil, err
	}

	return &models.QuizResult{
		Score:         verdict.Score,
		Passed:        passed,
		AttemptNumber: attempt.AttemptNumber,
		Progress:      progressResult,
	}, nil
}

// RecordDailyLogin grants login XP at most once per day and moves the
// streak forward. Safe to call on every authentication.
func (s *Service) RecordDailyLogin(ctx context.Context, userID uint) (int, error) {
	gained := 0
	granted, err := s.rewards.GrantDailyLogin(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}
	if granted {
		gained += s.rewards.Rules().DailyLogin
	}

	_, bonus, err := s.rewards.TouchActivity(ctx, userID, s.now())
	if err != nil {
		return gained, err
	}
	gained += bonus

	if granted {
		if awarded, err := s.rewards.AwardEligibleBadges(ctx, userID); err == nil {
			for _, b := range awarded {
				gained += b.RewardXP
			}
		}
	}
	return gained, nil
}

// CourseProgress is the read-only view: re-derives state from persisted
// facts, no side effects, no grants, no issuance.
func (s *Service) CourseProgress(ctx context.Context, userID, courseID uint) (*models.ProgressResult, error) {
	state, _, err := s.evaluator.Evaluate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	result := &models.ProgressResult{
		Percentage:    state.Percentage,
		AwardedBadges: []models.AwardedBadge{},
	}
	switch {
	case state.Completed:
		result.Status = models.StatusCourseCompleted
		cert, err := s.certs.Find(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if cert != nil {
			result.Certificate = &models.CertificateInfo{Number: cert.Number, IssuedAt: cert.IssuedAt}
		}
	case state.PendingModuleID != 0:
		result.Status = models.StatusNeedsFinalQuiz
		result.PendingQuiz = state.PendingModuleID
	default:
		result.Status = models.StatusCourseInProgress
	}

	return s.finalize(ctx, userID, result)
}

// BestAndLatestAttempts serves the attempt-history read for a module's quiz.
func (s *Service) BestAndLatestAttempts(ctx context.Context, userID, moduleID uint) (*models.QuizAttempt, *models.QuizAttempt, error) {
	finalQuiz, err := s.attempts.GetByModule(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}
	best, err := s.attempts.BestAttempt(ctx, userID, finalQuiz.ID)
	if err != nil {
		return nil, nil, err
	}
	latest, err := s.attempts.LatestPassingAttempt(ctx, userID, finalQuiz.ID)
	if err != nil {
		return nil, nil, err
	}
	return best, latest, nil
}

// resolveCompletion re-runs the detector and, on completion, drives
// certificate issuance. Course-completion XP fires only when this call is
// the one that issued the certificate; re-derived Completed states after
// that are fully side-effect-free.
func (s *Service) resolveCompletion(ctx context.Context, userID, courseID uint, eventRecorded bool, result *models.ProgressResult) error {
	state, _, err := s.evaluator.Evaluate(ctx, userID, courseID)
	if err != nil {
		return err
	}
	result.Percentage = state.Percentage

	switch {
	case state.Completed:
		cert, issued, err := s.certs.Issue(ctx, userID, courseID)
		if err != nil {
			return err
		}
		result.Status = models.StatusCourseCompleted
		result.Certificate = &models.CertificateInfo{Number: cert.Number, IssuedAt: cert.IssuedAt}

		if issued {
			rules := s.rewards.Rules()
			_, granted, err := s.rewards.GrantXP(ctx, userID, models.XPEventCourseCompleted,
				fmt.Sprintf("course:%d", courseID), rules.CourseCompleted, "course completed")
			if err != nil {
				return err
			}
			if granted {
				result.XPGained += rules.CourseCompleted
			}

			awarded, err := s.rewards.AwardEligibleBadges(ctx, userID)
			if err != nil {
				return err
			}
			s.collectBadges(result, awarded)
		}
	case state.PendingModuleID != 0:
		result.Status = models.StatusNeedsFinalQuiz
		result.PendingQuiz = state.PendingModuleID
	case eventRecorded:
		result.Status = models.StatusCourseInProgress
	}
	return nil
}

func (s *Service) collectBadges(result *models.ProgressResult, awarded []models.AwardedBadge) {
	for _, b := range awarded {
		result.AwardedBadges = append(result.AwardedBadges, b)
		result.XPGained += b.RewardXP
	}
}

// finalize stamps the result with the user's current totals.
func (s *Service) finalize(ctx context.Context, userID uint, result *models.ProgressResult) (*models.ProgressResult, error) {
	stats, err := s.rewards.CurrentStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.NewTotalXP = stats.TotalXP
	result.NewLevel = stats.CurrentLevel
	return result, nil
}
