package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/hunt"
	"github.com/lakbayapp/lakbay-backend/internal/middleware"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/response"
	"github.com/lakbayapp/lakbay-backend/internal/service"
	"github.com/lakbayapp/lakbay-backend/internal/validator"
)

// PortalHandler handles player-facing endpoints: lobby, hunt payloads, and
// the session lifecycle.
type PortalHandler struct {
	sessionService *service.HuntSessionService
	catalogService *service.CatalogService
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(
	sessionService *service.HuntSessionService,
	catalogService *service.CatalogService,
) *PortalHandler {
	return &PortalHandler{
		sessionService: sessionService,
		catalogService: catalogService,
	}
}

// GetLobby godoc
// GET /api/v1/hunts
// Returns published hunts with the caller's saved attempts overlaid.
func (h *PortalHandler) GetLobby(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	lobby, err := h.sessionService.Lobby(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if lobby == nil {
		lobby = []service.LobbyHunt{}
	}

	response.Success(c, http.StatusOK, gin.H{"hunts": lobby})
}

// GetHuntPayload godoc
// GET /api/v1/hunts/:hunt_id
// Returns the player-safe hunt payload (no answer keys, no hint texts).
func (h *PortalHandler) GetHuntPayload(c *gin.Context) {
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	payload, err := h.catalogService.GetPayload(c.Request.Context(), huntID)
	if err != nil {
		if errors.Is(err, service.ErrHuntNotAvailable) {
			response.Fail(c, http.StatusNotFound, response.ErrHuntNotAvailable)
			return
		}
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// StartHunt godoc
// POST /api/v1/hunts/:hunt_id/start
// Begins a fresh attempt. 409 when one is already in progress — the client
// must offer resume or restart instead.
func (h *PortalHandler) StartHunt(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Start)
}

// ResumeHunt godoc
// POST /api/v1/hunts/:hunt_id/resume
// Re-enters the saved attempt at its stored clue index.
func (h *PortalHandler) ResumeHunt(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Resume)
}

// RestartHunt godoc
// POST /api/v1/hunts/:hunt_id/restart
// Discards the saved attempt and starts from scratch.
func (h *PortalHandler) RestartHunt(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Restart)
}

// AbandonHunt godoc
// POST /api/v1/hunts/:hunt_id/abandon
func (h *PortalHandler) AbandonHunt(c *gin.Context) {
	h.sessionOp(c, h.sessionService.Abandon)
}

// UseHint godoc
// POST /api/v1/hunts/:hunt_id/hint
// Records hint usage for the current clue and returns the hint text.
func (h *PortalHandler) UseHint(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	text, hasHint, err := h.sessionService.UseHint(c.Request.Context(), claims.UserID, huntID)
	if err != nil {
		failSession(c, err)
		return
	}
	if !hasHint {
		response.Fail(c, http.StatusNotFound, response.ErrNoHint)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"hint": text})
}

// SubmitEvidence godoc
// POST /api/v1/hunts/:hunt_id/evidence
// The central transition: evaluates the submission against the current
// clue's completion criteria.
func (h *PortalHandler) SubmitEvidence(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	var ev model.Evidence
	if fields := validator.Bind(c, &ev); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), claims.UserID, huntID, ev)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetCurrentClue godoc
// GET /api/v1/hunts/:hunt_id/clue
func (h *PortalHandler) GetCurrentClue(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	clue, err := h.sessionService.CurrentClue(c.Request.Context(), claims.UserID, huntID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"clue": clue})
}

// GetProgress godoc
// GET /api/v1/hunts/:hunt_id/progress
// Returns the saved progress snapshot, covering page reloads.
func (h *PortalHandler) GetProgress(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	progress, err := h.sessionService.Snapshot(c.Request.Context(), claims.UserID, huntID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

// GetRewards godoc
// GET /api/v1/rewards
// Returns all rewards granted to the caller.
func (h *PortalHandler) GetRewards(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	rewards, err := h.sessionService.ListRewards(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rewards": rewards})
}

// sessionOp runs a start/resume/restart/abandon operation and renders the
// session view.
func (h *PortalHandler) sessionOp(c *gin.Context, op func(ctx context.Context, userID string, huntID uuid.UUID) (*service.SessionView, error)) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	huntID, ok := parseHuntID(c)
	if !ok {
		return
	}

	view, err := op(c.Request.Context(), claims.UserID, huntID)
	if err != nil {
		failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

func parseHuntID(c *gin.Context) (uuid.UUID, bool) {
	huntID, err := uuid.Parse(c.Param("hunt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return huntID, true
}

// failSession maps session and catalog errors onto response codes.
func failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgressExists):
		response.Fail(c, http.StatusConflict, response.ErrProgressExists)
	case errors.Is(err, service.ErrNoProgress):
		response.Fail(c, http.StatusNotFound, response.ErrNoProgress)
	case errors.Is(err, service.ErrHuntNotAvailable):
		response.Fail(c, http.StatusNotFound, response.ErrHuntNotAvailable)
	case errors.Is(err, hunt.ErrEvidenceMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEvidenceMismatch)
	case errors.Is(err, hunt.ErrHuntCompleted):
		response.Fail(c, http.StatusConflict, response.ErrHuntCompleted)
	case errors.Is(err, hunt.ErrSessionNotActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotActive)
	case errors.Is(err, model.ErrInvalidHuntDefinition):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidHuntDefinition)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
