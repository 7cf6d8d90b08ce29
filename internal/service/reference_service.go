package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

const usersCacheKey = "refs:users"

type userDirectory interface {
	List(ctx context.Context, page models.PageRequest) ([]models.User, error)
}

type schoolDirectory interface {
	List(ctx context.Context, page models.PageRequest) ([]models.School, error)
}

type referenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// ReferenceService loads the option lists of relation pickers. Only the user
// directory is cached; school options change through this frontend.
type ReferenceService struct {
	users   userDirectory
	schools schoolDirectory
	cache   referenceCache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewReferenceService constructs the service. cache may be nil.
func NewReferenceService(users userDirectory, schools schoolDirectory, cache referenceCache, ttl time.Duration, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{users: users, schools: schools, cache: cache, ttl: ttl, logger: logger}
}

// Users returns every user for the classroom users picker.
func (s *ReferenceService) Users(ctx context.Context) ([]models.User, error) {
	if s.cache != nil {
		var cached []models.User
		if hit, err := s.cache.Get(ctx, usersCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	users, err := s.users.List(ctx, models.PageRequest{})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, usersCacheKey, users, s.ttl); err != nil {
			s.logger.Debug("user directory not cached", zap.Error(err))
		}
	}
	return users, nil
}

// RefreshUsers drops the cached user directory.
func (s *ReferenceService) RefreshUsers(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, usersCacheKey)
}

// Schools returns every school for the classroom school picker.
func (s *ReferenceService) Schools(ctx context.Context) ([]models.School, error) {
	return s.schools.List(ctx, models.PageRequest{})
}
