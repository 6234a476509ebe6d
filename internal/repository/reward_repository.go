package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// RewardRepository handles persisted reward grants.
type RewardRepository struct {
	pool *pgxpool.Pool
}

// NewRewardRepository creates a new RewardRepository.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// InsertBatch persists a set of reward grants. Grants for the same
// (user, hunt, kind, name) are idempotent — re-running a queued payload
// after a retry does not duplicate rewards.
func (r *RewardRepository) InsertBatch(ctx context.Context, grants []model.GrantedReward) error {
	for i := range grants {
		g := &grants[i]
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		_, err := r.pool.Exec(ctx,
			`INSERT INTO rewards (id, user_id, hunt_id, kind, name, points, awarded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (user_id, hunt_id, kind, name) DO NOTHING`,
			g.ID, g.UserID, g.HuntID, g.Kind, g.Name, g.Points, g.AwardedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListByUser retrieves all rewards granted to a user, newest first.
func (r *RewardRepository) ListByUser(ctx context.Context, userID string) ([]model.GrantedReward, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, hunt_id, kind, name, points, awarded_at
		 FROM rewards
		 WHERE user_id = $1
		 ORDER BY awarded_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []model.GrantedReward
	for rows.Next() {
		var g model.GrantedReward
		if err := rows.Scan(&g.ID, &g.UserID, &g.HuntID, &g.Kind, &g.Name, &g.Points, &g.AwardedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
