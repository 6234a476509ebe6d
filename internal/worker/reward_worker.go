package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RewardBatchSize    = 50
	RewardBatchTimeout = 2 * time.Second
	RewardPollTimeout  = 1 * time.Second
)

// RewardWorker consumes persist_rewards_queue and writes granted rewards in
// batches. The insert is idempotent per (user, hunt, kind, name), so a
// requeued batch never double-grants.
type RewardWorker struct {
	repo *repository.RewardRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewRewardWorker creates a new RewardWorker.
func NewRewardWorker(repo *repository.RewardRepository, rdb *redis.Client, log zerolog.Logger) *RewardWorker {
	return &RewardWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "reward_worker").Logger(),
	}
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *RewardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RewardWorker started")

	batch := make([]model.GrantedReward, 0, RewardBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= RewardBatchSize || time.Since(lastFlush) >= RewardBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RewardPollTimeout, config.WorkerKey.PersistRewardsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			// Each queue item is the full grant set of one completion.
			var grants []model.GrantedReward
			if err := json.Unmarshal([]byte(item[1]), &grants); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, grants...)
		}
	}
}

func (w *RewardWorker) flushSafe(ctx context.Context, batch []model.GrantedReward) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Batch insert failed — requeueing")
		raw, _ := json.Marshal(batch)
		w.rdb.RPush(ctx, config.WorkerKey.PersistRewardsQueue, raw)
	}
}
