package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/lakbayapp/lakbay-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrHuntNotDraft     = errors.New("hunt status is not DRAFT")
	ErrHuntNotAvailable = errors.New("hunt is not available")
)

// CatalogService handles hunt catalog business logic and Redis caching.
// Published hunts are cached in two forms: the full definition (answer keys
// included) read by the session engine, and the player-safe payload served
// to clients.
type CatalogService struct {
	huntRepo *repository.HuntRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(huntRepo *repository.HuntRepository, rdb *redis.Client, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		huntRepo: huntRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "catalog_service").Logger(),
	}
}

// GetByID retrieves a hunt from postgres with its clues.
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*model.Hunt, error) {
	return s.huntRepo.GetByID(ctx, id)
}

// List retrieves paginated hunts for the operator view.
func (s *CatalogService) List(ctx context.Context, status *model.HuntStatus, page, perPage int) ([]model.Hunt, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	hunts, total, err := s.huntRepo.ListPaginated(ctx, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if hunts == nil {
		hunts = []model.Hunt{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return hunts, pagination, nil
}

// Create inserts a new hunt as DRAFT. Clue payloads are checked structurally;
// the full definition check happens at publish time.
func (s *CatalogService) Create(ctx context.Context, req *model.CreateHuntRequest) (*model.Hunt, error) {
	h := &model.Hunt{
		Title:                    req.Title,
		Description:              req.Description,
		Difficulty:               req.Difficulty,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		Status:                   model.HuntStatusDraft,
	}
	for i := range req.Clues {
		h.Clues = append(h.Clues, req.Clues[i].ToClue())
	}
	if err := s.huntRepo.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("create hunt: %w", err)
	}
	return h, nil
}

// Update modifies a DRAFT hunt. Published hunts must be archived first so
// in-flight sessions never see a definition change underneath them.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateHuntRequest) (*model.Hunt, error) {
	h, err := s.huntRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hunt: %w", err)
	}
	if h.Status != model.HuntStatusDraft {
		return nil, ErrHuntNotDraft
	}

	if req.Title != "" {
		h.Title = req.Title
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Difficulty != "" {
		h.Difficulty = req.Difficulty
	}
	if req.EstimatedDurationMinutes > 0 {
		h.EstimatedDurationMinutes = req.EstimatedDurationMinutes
	}
	if err := s.huntRepo.UpdateMetadata(ctx, h); err != nil {
		return nil, fmt.Errorf("update hunt: %w", err)
	}

	if req.Clues != nil {
		clues := make([]model.Clue, 0, len(req.Clues))
		for i := range req.Clues {
			clues = append(clues, req.Clues[i].ToClue())
		}
		if err := s.huntRepo.ReplaceClues(ctx, id, clues); err != nil {
			return nil, fmt.Errorf("replace clues: %w", err)
		}
		h.Clues = clues
	}

	return h, nil
}

// Delete removes a DRAFT hunt.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	h, err := s.huntRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get hunt: %w", err)
	}
	if h.Status != model.HuntStatusDraft {
		return ErrHuntNotDraft
	}
	return s.huntRepo.Delete(ctx, id)
}

// Publish validates the full hunt definition, caches it in Redis, and
// transitions the hunt to PUBLISHED. This is the load-time gate: a hunt that
// fails Validate never becomes visible to players.
func (s *CatalogService) Publish(ctx context.Context, id uuid.UUID) error {
	h, err := s.huntRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get hunt: %w", err)
	}
	if h.Status != model.HuntStatusDraft {
		return ErrHuntNotDraft
	}
	if err := h.Validate(); err != nil {
		return err
	}

	if err := s.WarmHuntCache(ctx, h); err != nil {
		return err
	}

	if err := s.huntRepo.UpdateStatus(ctx, id, model.HuntStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("hunt_id", id.String()).Str("title", h.Title).Msg("Hunt published")
	return nil
}

// Archive withdraws a published hunt from the catalog and drops its caches.
func (s *CatalogService) Archive(ctx context.Context, id uuid.UUID) error {
	h, err := s.huntRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get hunt: %w", err)
	}
	if h.Status != model.HuntStatusPublished {
		return ErrHuntNotAvailable
	}

	if err := s.huntRepo.UpdateStatus(ctx, id, model.HuntStatusArchived); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.rdb.Del(ctx,
		config.CacheKey.HuntDefinitionKey(id.String()),
		config.CacheKey.HuntPayloadKey(id.String()),
	)
	return nil
}

// WarmHuntCache stores both cache forms of a hunt in Redis.
func (s *CatalogService) WarmHuntCache(ctx context.Context, h *model.Hunt) error {
	def, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	payload, err := json.Marshal(h.PlayerPayload())
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.HuntDefinitionKey(h.ID.String()), def, 0).Err(); err != nil {
		return fmt.Errorf("cache definition: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.HuntPayloadKey(h.ID.String()), payload, 0).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}
	return nil
}

// PrewarmAllCaches loads every published hunt into Redis. Called before the
// server accepts traffic to avoid lazy-load races under a thundering herd.
func (s *CatalogService) PrewarmAllCaches(ctx context.Context) error {
	hunts, err := s.huntRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published: %w", err)
	}
	for i := range hunts {
		if err := s.WarmHuntCache(ctx, &hunts[i]); err != nil {
			s.log.Warn().Err(err).Str("hunt_id", hunts[i].ID.String()).Msg("Prewarm failed for hunt")
			continue
		}
	}
	s.log.Info().Int("count", len(hunts)).Msg("Hunt caches prewarmed")
	return nil
}

// GetDefinition retrieves the full hunt definition for the session engine:
// Redis fast path, postgres fallback with cache self-heal. Only published
// hunts are playable.
func (s *CatalogService) GetDefinition(ctx context.Context, id uuid.UUID) (*model.Hunt, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.HuntDefinitionKey(id.String())).Result()
	if err == nil {
		h := &model.Hunt{}
		if err := json.Unmarshal([]byte(raw), h); err == nil {
			return h, nil
		}
		// Corrupt cache entry: fall through to postgres and rewrite it.
		s.log.Warn().Str("hunt_id", id.String()).Msg("Corrupt hunt definition cache, reloading")
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get definition: %w", err)
	}

	h, dbErr := s.huntRepo.GetByID(ctx, id)
	if dbErr != nil {
		return nil, fmt.Errorf("hunt not found in cache or db: %w", dbErr)
	}
	if h.Status != model.HuntStatusPublished {
		return nil, ErrHuntNotAvailable
	}

	// Self-heal so the next request hits the fast path.
	if err := s.WarmHuntCache(ctx, h); err != nil {
		s.log.Warn().Err(err).Str("hunt_id", id.String()).Msg("Cache self-heal failed")
	}
	return h, nil
}

// GetPayload retrieves the player-safe payload for a published hunt.
func (s *CatalogService) GetPayload(ctx context.Context, id uuid.UUID) (*model.HuntPayload, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.HuntPayloadKey(id.String())).Result()
	if err == nil {
		p := &model.HuntPayload{}
		if err := json.Unmarshal([]byte(raw), p); err == nil {
			return p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get payload: %w", err)
	}

	h, err := s.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := h.PlayerPayload()
	return &payload, nil
}

// ListPublished returns all published hunts (metadata only) for the lobby.
func (s *CatalogService) ListPublished(ctx context.Context) ([]model.Hunt, error) {
	status := model.HuntStatusPublished
	hunts, _, err := s.huntRepo.ListPaginated(ctx, &status, 100, 0)
	if err != nil {
		return nil, err
	}
	if hunts == nil {
		hunts = []model.Hunt{}
	}
	return hunts, nil
}
