package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/user/model"
	"bookreview-backend/pkg/cache"
)

// cachedRepository wraps a UserRepository with a cache-aside layer on GetByID.
// The cached copy never carries the password hash (json:"-").
type cachedRepository struct {
	UserRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(next UserRepository, c cache.Cache, ttl time.Duration) UserRepository {
	return &cachedRepository{UserRepository: next, cache: c, ttl: ttl}
}

func userCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("user:%s", id.Hex())
}

// GetByID implements "Cache-Aside Pattern": cache -> DB -> populate cache.
// Cache errors are logged and never fail the lookup.
func (r *cachedRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	key := userCacheKey(id)

	// STEP 1: CHECK CACHE FIRST
	var u model.User
	found, err := r.cache.Get(ctx, key, &u)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] user lookup failed, falling back to database")
	} else if found {
		return &u, nil
	}

	// STEP 2: CACHE MISS - QUERY DATABASE
	dbUser, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// STEP 3: POPULATE CACHE
	if err := r.cache.Set(ctx, key, dbUser, r.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] failed to store user")
	}
	return dbUser, nil
}
