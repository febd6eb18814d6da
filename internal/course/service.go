package course

import (
	"context"

	"learnhub/internal/models"
	"learnhub/pkg/cache"
	"learnhub/pkg/logger"
)

// Service serves course structure snapshots, cache-aside through redis.
// Structure is treated as a fixed snapshot for completion purposes;
// authoring happens elsewhere.
type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	log   *logger.Logger
}

func NewService(repo *Repository, cache *cache.RedisCache, log *logger.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *Service) Structure(ctx context.Context, courseID uint) (*models.CourseStructure, error) {
	if s.cache != nil {
		if cs, err := s.cache.GetCourseStructure(ctx, courseID); err == nil {
			return cs, nil
		}
	}

	course, err := s.repo.GetWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}
	cs := models.StructureFromCourse(course)

	if s.cache != nil {
		if err := s.cache.SetCourseStructure(ctx, cs); err != nil {
			s.log.Warn("failed to cache course structure", "course_id", courseID, "error", err)
		}
	}
	return cs, nil
}

func (s *Service) ModuleCourseID(ctx context.Context, moduleID uint) (uint, error) {
	return s.repo.ModuleCourseID(ctx, moduleID)
}
