package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// HuntRepository handles hunt catalog data access.
type HuntRepository struct {
	pool *pgxpool.Pool
}

// NewHuntRepository creates a new HuntRepository.
func NewHuntRepository(pool *pgxpool.Pool) *HuntRepository {
	return &HuntRepository{pool: pool}
}

// cluePayload is the jsonb column holding the type-specific clue payload.
type cluePayload struct {
	Location *model.LocationSpec `json:"location,omitempty"`
	Question *model.QuestionSpec `json:"question,omitempty"`
	Photo    *model.PhotoSpec    `json:"photo,omitempty"`
	ArScan   *model.ArScanSpec   `json:"ar_scan,omitempty"`
}

// GetByID retrieves a hunt with its clues ordered by position.
func (r *HuntRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Hunt, error) {
	h := &model.Hunt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, difficulty, estimated_duration_minutes, status, created_at, updated_at
		 FROM hunts
		 WHERE id = $1`, id,
	).Scan(&h.ID, &h.Title, &h.Description, &h.Difficulty, &h.EstimatedDurationMinutes, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}

	clues, err := r.listClues(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list clues: %w", err)
	}
	h.Clues = clues
	return h, nil
}

func (r *HuntRepository) listClues(ctx context.Context, huntID uuid.UUID) ([]model.Clue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ord, type, title, description, hint, points,
		        requires_gps, requires_photo, requires_answer, payload
		 FROM clues
		 WHERE hunt_id = $1
		 ORDER BY ord ASC`, huntID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clues []model.Clue
	for rows.Next() {
		var c model.Clue
		var raw []byte
		if err := rows.Scan(
			&c.ID, &c.Order, &c.Type, &c.Title, &c.Description, &c.Hint, &c.Points,
			&c.Criteria.RequiresGPS, &c.Criteria.RequiresPhoto, &c.Criteria.RequiresAnswer, &raw,
		); err != nil {
			return nil, err
		}
		var p cluePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode clue payload %s: %w", c.ID, err)
		}
		c.Location, c.Question, c.Photo, c.ArScan = p.Location, p.Question, p.Photo, p.ArScan
		clues = append(clues, c)
	}
	return clues, rows.Err()
}

// Create inserts a hunt and its clues in one transaction.
func (r *HuntRepository) Create(ctx context.Context, h *model.Hunt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO hunts (title, description, difficulty, estimated_duration_minutes, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		h.Title, h.Description, h.Difficulty, h.EstimatedDurationMinutes, h.Status,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert hunt: %w", err)
	}

	if err := insertClues(ctx, tx, h.ID, h.Clues); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceClues swaps the full clue sequence of a hunt.
func (r *HuntRepository) ReplaceClues(ctx context.Context, huntID uuid.UUID, clues []model.Clue) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM clues WHERE hunt_id = $1`, huntID); err != nil {
		return fmt.Errorf("delete clues: %w", err)
	}
	if err := insertClues(ctx, tx, huntID, clues); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE hunts SET updated_at = NOW() WHERE id = $1`, huntID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertClues(ctx context.Context, tx pgx.Tx, huntID uuid.UUID, clues []model.Clue) error {
	for i := range clues {
		c := &clues[i]
		raw, err := json.Marshal(cluePayload{
			Location: c.Location,
			Question: c.Question,
			Photo:    c.Photo,
			ArScan:   c.ArScan,
		})
		if err != nil {
			return fmt.Errorf("encode clue payload: %w", err)
		}
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO clues (id, hunt_id, ord, type, title, description, hint, points,
			                    requires_gps, requires_photo, requires_answer, payload)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			c.ID, huntID, c.Order, c.Type, c.Title, c.Description, c.Hint, c.Points,
			c.Criteria.RequiresGPS, c.Criteria.RequiresPhoto, c.Criteria.RequiresAnswer, raw,
		)
		if err != nil {
			return fmt.Errorf("insert clue %d: %w", c.Order, err)
		}
	}
	return nil
}

// UpdateMetadata updates the hunt's metadata fields.
func (r *HuntRepository) UpdateMetadata(ctx context.Context, h *model.Hunt) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE hunts
		 SET title = $1, description = $2, difficulty = $3, estimated_duration_minutes = $4, updated_at = NOW()
		 WHERE id = $5`,
		h.Title, h.Description, h.Difficulty, h.EstimatedDurationMinutes, h.ID)
	return err
}

// UpdateStatus transitions the hunt's catalog status.
func (r *HuntRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.HuntStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE hunts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// Delete removes a hunt; clues cascade.
func (r *HuntRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM hunts WHERE id = $1`, id)
	return err
}

// ListPaginated retrieves hunts with an optional status filter.
func (r *HuntRepository) ListPaginated(ctx context.Context, status *model.HuntStatus, limit, offset int) ([]model.Hunt, int, error) {
	baseQuery := `FROM hunts WHERE 1=1`
	args := []any{}

	if status != nil {
		args = append(args, *status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, title, description, difficulty, estimated_duration_minutes, status, created_at, updated_at ` +
		baseQuery + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var hunts []model.Hunt
	for rows.Next() {
		var h model.Hunt
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Difficulty, &h.EstimatedDurationMinutes, &h.Status, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, 0, err
		}
		hunts = append(hunts, h)
	}
	return hunts, total, rows.Err()
}

// ListPublished retrieves all published hunts with their clues, for cache
// prewarming and the player lobby.
func (r *HuntRepository) ListPublished(ctx context.Context) ([]model.Hunt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM hunts WHERE status = $1 ORDER BY created_at DESC`, model.HuntStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hunts := make([]model.Hunt, 0, len(ids))
	for _, id := range ids {
		h, err := r.GetByID(ctx, id)
		if err != nil {
			continue // Skip if deleted concurrently
		}
		hunts = append(hunts, *h)
	}
	return hunts, nil
}
