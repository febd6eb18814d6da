package certificate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"learnhub/internal/models"
	"learnhub/pkg/logger"
)

var (
	ErrCourseNotCompleted = errors.New("course is not completed")
	ErrInvalidNumber      = errors.New("malformed certificate number")
	ErrNotFound           = errors.New("certificate not found")
)

// CompletionChecker re-derives completion from persisted facts. Issuance
// never trusts the caller's claim that a course is done.
type CompletionChecker interface {
	IsCompleted(ctx context.Context, userID, courseID uint) (bool, error)
}

type structureProvider interface {
	Structure(ctx context.Context, courseID uint) (*models.CourseStructure, error)
}

type repository interface {
	FindByUserCourse(ctx context.Context, userID, courseID uint) (*models.Certificate, error)
	FindByNumber(ctx context.Context, number string) (*models.Certificate, error)
	Create(ctx context.Context, cert *models.Certificate) error
	ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
}

type Service struct {
	repo       repository
	checker    CompletionChecker
	structures structureProvider
	log        *logger.Logger
	now        func() time.Time
}

func NewService(repo repository, checker CompletionChecker, structures structureProvider, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		checker:    checker,
		structures: structures,
		log:        log,
		now:        time.Now,
	}
}

// Issue guarantees exactly one certificate per (user, course). Replays and
// concurrent races both resolve to the already-issued row; created reports
// whether this call was the one that issued it.
func (s *Service) Issue(ctx context.Context, userID, courseID uint) (*models.Certificate, bool, error) {
	existing, err := s.repo.FindByUserCourse(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	done, err := s.checker.IsCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if !done {
		return nil, false, ErrCourseNotCompleted
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	cs, err := s.structures.Structure(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	issuedAt := s.now()
	number, err := GenerateNumber(issuedAt.Year())
	if err != nil {
		return nil, false, err
	}

	learnerName := user.DisplayName
	if learnerName == "" {
		learnerName = user.Username
	}

	cert := &models.Certificate{
		UserID:         userID,
		CourseID:       courseID,
		Number:         number,
		VerifyToken:    uuid.New(),
		IssuedAt:       issuedAt,
		LearnerName:    learnerName,
		CourseTitle:    cs.Title,
		InstructorName: cs.InstructorName,
		LessonCount:    cs.TotalLessons,
	}

	if err := s.repo.Create(ctx, cert); err != nil {
		// A concurrent issuance may have won the unique-index race. Fetch
		// and return the winner's row; both callers get the same number.
		winner, findErr := s.repo.FindByUserCourse(ctx, userID, courseID)
		if findErr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, err
	}

	s.log.Info("certificate issued",
		"user_id", userID, "course_id", courseID, "number", cert.Number)
	return cert, true, nil
}

// Find returns the certificate for (user, course), or nil if none was
// issued yet.
func (s *Service) Find(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	cert, err := s.repo.FindByUserCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		// Integrity anomaly: a certificate whose underlying completion
		// facts are gone is logged, never revoked.
		if done, checkErr := s.checker.IsCompleted(ctx, userID, courseID); checkErr == nil && !done {
			s.log.Warn("certificate exists but completion facts are missing",
				"user_id", userID, "course_id", courseID, "number", cert.Number)
		}
	}
	return cert, nil
}

// Verify resolves a public certificate number. Malformed numbers are
// rejected by the checksum before storage is touched.
func (s *Service) Verify(ctx context.Context, number string) (*models.Certificate, error) {
	if !VerifyNumber(number) {
		return nil, ErrInvalidNumber
	}
	cert, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNotFound
	}
	return cert, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Certificate, error) {
	return s.repo.ListByUser(ctx, userID)
}
