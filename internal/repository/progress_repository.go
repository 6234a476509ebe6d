package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// ProgressRepository handles the durable postgres mirror of hunt progress.
// The redis copy is authoritative during a session; rows here are written
// asynchronously by the progress worker.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// statusRank orders statuses so a terminal save is never overwritten by an
// in-progress save racing at the same clue index.
func statusRank(s model.ProgressStatus) int {
	switch s {
	case model.ProgressStatusInProgress:
		return 0
	case model.ProgressStatusAbandoned:
		return 1
	case model.ProgressStatusCompleted:
		return 2
	}
	return 0
}

// Get retrieves a user's progress for a hunt. Returns pgx.ErrNoRows when
// none exists.
func (r *ProgressRepository) Get(ctx context.Context, userID string, huntID uuid.UUID) (*model.Progress, error) {
	p := &model.Progress{}
	var completed, skipped, hints, evidence []byte
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, hunt_id, current_clue_index, total_points, started_at, finished_at,
		        completed_clue_ids, skipped_clue_ids, hints_used_clue_ids, evidence, status
		 FROM hunt_progress
		 WHERE user_id = $1 AND hunt_id = $2`, userID, huntID,
	).Scan(&p.UserID, &p.HuntID, &p.CurrentClueIndex, &p.TotalPoints, &p.StartedAt, &p.FinishedAt,
		&completed, &skipped, &hints, &evidence, &p.Status)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(completed, &p.CompletedClueIDs); err != nil {
		return nil, fmt.Errorf("decode completed clue ids: %w", err)
	}
	if err := json.Unmarshal(skipped, &p.SkippedClueIDs); err != nil {
		return nil, fmt.Errorf("decode skipped clue ids: %w", err)
	}
	if err := json.Unmarshal(hints, &p.HintsUsedClueIDs); err != nil {
		return nil, fmt.Errorf("decode hints used clue ids: %w", err)
	}
	if err := json.Unmarshal(evidence, &p.Evidence); err != nil {
		return nil, fmt.Errorf("decode evidence: %w", err)
	}

	p.StartedAt = p.StartedAt.UTC().Truncate(time.Second)
	if p.FinishedAt != nil {
		t := p.FinishedAt.UTC().Truncate(time.Second)
		p.FinishedAt = &t
	}
	return p, nil
}

// UpsertMonotonic writes a progress snapshot, refusing to regress: a stale
// in-flight save for an earlier clue index (or a lower status rank at the
// same index) never overwrites a later one.
func (r *ProgressRepository) UpsertMonotonic(ctx context.Context, p *model.Progress) error {
	completed, err := json.Marshal(p.CompletedClueIDs)
	if err != nil {
		return err
	}
	skipped, err := json.Marshal(p.SkippedClueIDs)
	if err != nil {
		return err
	}
	hints, err := json.Marshal(p.HintsUsedClueIDs)
	if err != nil {
		return err
	}
	evidence, err := json.Marshal(p.Evidence)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO hunt_progress
		   (user_id, hunt_id, current_clue_index, total_points, started_at, finished_at,
		    completed_clue_ids, skipped_clue_ids, hints_used_clue_ids, evidence, status, status_rank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id, hunt_id) DO UPDATE
		 SET current_clue_index = EXCLUDED.current_clue_index,
		     total_points = EXCLUDED.total_points,
		     started_at = EXCLUDED.started_at,
		     finished_at = EXCLUDED.finished_at,
		     completed_clue_ids = EXCLUDED.completed_clue_ids,
		     skipped_clue_ids = EXCLUDED.skipped_clue_ids,
		     hints_used_clue_ids = EXCLUDED.hints_used_clue_ids,
		     evidence = EXCLUDED.evidence,
		     status = EXCLUDED.status,
		     status_rank = EXCLUDED.status_rank,
		     updated_at = NOW()
		 WHERE hunt_progress.current_clue_index < EXCLUDED.current_clue_index
		    OR (hunt_progress.current_clue_index = EXCLUDED.current_clue_index
		        AND hunt_progress.status_rank <= EXCLUDED.status_rank)`,
		p.UserID, p.HuntID, p.CurrentClueIndex, p.TotalPoints, p.StartedAt, p.FinishedAt,
		completed, skipped, hints, evidence, p.Status, statusRank(p.Status),
	)
	return err
}

// Delete removes a user's progress row for a hunt.
func (r *ProgressRepository) Delete(ctx context.Context, userID string, huntID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM hunt_progress WHERE user_id = $1 AND hunt_id = $2`, userID, huntID)
	return err
}

// HuntResult is one user's attempt summary for the operator results view.
type HuntResult struct {
	UserID         string               `json:"user_id"`
	TotalPoints    int                  `json:"total_points"`
	CompletedClues int                  `json:"completed_clues"`
	HintsUsed      int                  `json:"hints_used"`
	Status         model.ProgressStatus `json:"status"`
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     *time.Time           `json:"finished_at,omitempty"`
}

// ListByHunt retrieves paginated attempt summaries for a hunt.
func (r *ProgressRepository) ListByHunt(ctx context.Context, huntID uuid.UUID, limit, offset int) ([]HuntResult, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM hunt_progress WHERE hunt_id = $1`, huntID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, total_points,
		        jsonb_array_length(completed_clue_ids),
		        jsonb_array_length(hints_used_clue_ids),
		        status, started_at, finished_at
		 FROM hunt_progress
		 WHERE hunt_id = $1
		 ORDER BY total_points DESC, started_at ASC
		 LIMIT $2 OFFSET $3`, huntID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []HuntResult
	for rows.Next() {
		var res HuntResult
		if err := rows.Scan(&res.UserID, &res.TotalPoints, &res.CompletedClues, &res.HintsUsed,
			&res.Status, &res.StartedAt, &res.FinishedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
