package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProgressStore owns serialization of hunt progress. The redis document is
// the authoritative copy during a session; every save also queues the
// snapshot for the progress worker, which mirrors it into postgres with a
// monotonic guard. Store failures are absorbed: they are logged and retried
// on the next mutation, never surfaced into the session's state transition.
type ProgressStore struct {
	rdb  *redis.Client
	repo *repository.ProgressRepository
	log  zerolog.Logger
}

// NewProgressStore creates a new ProgressStore.
func NewProgressStore(rdb *redis.Client, repo *repository.ProgressRepository, log zerolog.Logger) *ProgressStore {
	return &ProgressStore{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "progress_store").Logger(),
	}
}

// Load retrieves a user's progress for a hunt: redis fast path, postgres
// fallback with cache self-heal. Returns (nil, nil) when no attempt exists.
func (s *ProgressStore) Load(ctx context.Context, userID string, huntID uuid.UUID) (*model.Progress, error) {
	key := config.CacheKey.UserProgressKey(userID, huntID.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		p := &model.Progress{}
		if err := json.Unmarshal([]byte(raw), p); err == nil {
			return p, nil
		}
		s.log.Warn().Str("user_id", userID).Str("hunt_id", huntID.String()).Msg("Corrupt progress cache, falling back to db")
	} else if !errors.Is(err, redis.Nil) {
		// Redis down: the postgres mirror is the best copy we have.
		s.log.Error().Err(err).Msg("Redis error loading progress")
	}

	p, dbErr := s.repo.Get(ctx, userID, huntID)
	if dbErr != nil {
		if errors.Is(dbErr, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load progress: %w", dbErr)
	}

	// Self-heal the cache so the next load is fast.
	if raw, err := json.Marshal(p); err == nil {
		_ = s.rdb.Set(ctx, key, raw, 0).Err()
	}
	return p, nil
}

// Save writes the in-memory progress to redis and queues it for the durable
// mirror. The in-memory copy stays authoritative: a failed save is logged
// and the snapshot still goes to the persistence queue so the worker retries
// it.
func (s *ProgressStore) Save(ctx context.Context, p *model.Progress) {
	raw, err := json.Marshal(p)
	if err != nil {
		s.log.Error().Err(err).Msg("Encode progress failed")
		return
	}

	key := config.CacheKey.UserProgressKey(p.UserID, p.HuntID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		s.log.Error().Err(err).Str("user_id", p.UserID).Msg("Redis save failed, queue will retry")
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("user_id", p.UserID).Msg("Queue progress snapshot failed")
	}
}

// Clear removes every trace of a user's attempt at a hunt: the redis
// document, the postgres row, and the per-clue found marks, so the next
// attempt starts from a blank slate. Used on restart.
func (s *ProgressStore) Clear(ctx context.Context, userID string, h *model.Hunt) error {
	huntID := h.ID.String()

	keys := make([]string, 0, len(h.Clues)+1)
	keys = append(keys, config.CacheKey.UserProgressKey(userID, huntID))
	for i := range h.Clues {
		keys = append(keys, config.CacheKey.LocationFoundKey(userID, huntID, h.Clues[i].ID.String()))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Error().Err(err).Msg("Redis clear failed")
	}

	if err := s.repo.Delete(ctx, userID, h.ID); err != nil {
		return fmt.Errorf("delete progress row: %w", err)
	}
	return nil
}

// Retire puts an expiry on the redis document of a finished attempt instead
// of deleting it. The postgres mirror lands asynchronously via the worker
// queue, so dropping the redis copy right away would let a load in that
// window fall back to an older postgres row and self-heal the stale state
// back into the cache.
func (s *ProgressStore) Retire(ctx context.Context, userID string, huntID uuid.UUID) {
	key := config.CacheKey.UserProgressKey(userID, huntID.String())
	if err := s.rdb.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Retire progress doc failed")
	}
}
