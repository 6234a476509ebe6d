package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/hunt"
	"github.com/lakbayapp/lakbay-backend/internal/middleware"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/service"
	ws "github.com/lakbayapp/lakbay-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket location watch stream.
type WSHandler struct {
	rdb            *redis.Client
	sessionService *service.HuntSessionService
	catalogService *service.CatalogService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, sessionService *service.HuntSessionService, catalogService *service.CatalogService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:            rdb,
		sessionService: sessionService,
		catalogService: catalogService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// HuntWatchStream godoc
// WS /ws/v1/hunts/:hunt_id/watch
// Upgrades to WebSocket for continuous proximity feedback and in-stream
// evidence submission. One watch per attempt: a newer connection supersedes
// the old one.
func (h *WSHandler) HuntWatchStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	huntID, err := uuid.Parse(c.Param("hunt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hunt ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := claims.UserID
	ctx := c.Request.Context()

	// Only an active attempt may open a watch.
	progress, err := h.sessionService.Snapshot(ctx, userID, huntID)
	if err != nil || progress.Status != model.ProgressStatusInProgress {
		ws.WriteError(conn, "no active attempt for this hunt")
		return
	}

	// Claim the watch. Any previously connected watch for this attempt is
	// displaced and will be told on its next frame.
	connToken := uuid.NewString()
	ownerKey := config.CacheKey.WatchOwnerKey(userID, huntID.String())
	if err := h.rdb.Set(ctx, ownerKey, connToken, 24*time.Hour).Err(); err != nil {
		h.log.Error().Err(err).Msg("Watch owner claim failed")
		ws.WriteError(conn, "watch unavailable")
		return
	}
	defer h.releaseWatch(ownerKey, connToken)

	wsLog := h.log.With().
		Str("user_id", userID).
		Str("hunt_id", huntID.String()).
		Logger()

	wsLog.Info().Msg("Watch connected")

	monitor := hunt.NewMonitor()
	currentClueID := h.refreshTarget(ctx, monitor, huntID, progress.CurrentClueIndex)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		if !h.ownsWatch(ctx, ownerKey, connToken) {
			ws.WriteTyped(conn, ws.SupersededResponse{Event: ws.EventSuperseded})
			break
		}

		switch msg.Action {
		case ws.ActionLocation:
			h.handleLocation(ctx, conn, wsLog, monitor, userID, huntID, currentClueID, msg.Sample)
		case ws.ActionSubmit:
			currentClueID = h.handleSubmit(ctx, conn, wsLog, monitor, userID, huntID, currentClueID, msg.Evidence)
		case ws.ActionHint:
			h.handleHint(ctx, conn, userID, huntID)
		case ws.ActionAbandon:
			h.handleAbandon(ctx, conn, wsLog, userID, huntID)
			return
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// refreshTarget points the monitor at the active clue's location target, or
// clears it for clue types without one. Returns the active clue ID.
func (h *WSHandler) refreshTarget(ctx context.Context, monitor *hunt.Monitor, huntID uuid.UUID, clueIndex int) string {
	def, err := h.catalogService.GetDefinition(ctx, huntID)
	if err != nil {
		monitor.ClearTarget()
		return ""
	}
	for i := range def.Clues {
		clue := &def.Clues[i]
		if clue.Order != clueIndex {
			continue
		}
		if clue.Location != nil && clue.Criteria.RequiresGPS {
			monitor.SetTarget(hunt.TargetFromSpec(clue.Location))
		} else {
			monitor.ClearTarget()
		}
		return clue.ID.String()
	}
	monitor.ClearTarget()
	return ""
}

// handleLocation answers a GPS sample with a proximity report. The first
// in-radius sample per clue additionally pushes a location_found event,
// deduplicated across reconnects through Redis.
func (h *WSHandler) handleLocation(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, monitor *hunt.Monitor, userID string, huntID uuid.UUID, clueID string, sample *model.LocationSample) {
	if sample == nil {
		ws.WriteError(conn, "sample is required")
		return
	}
	if !monitor.HasTarget() {
		ws.WriteError(conn, "current clue has no location target")
		return
	}

	result, found := monitor.Observe(*sample)
	ws.WriteTyped(conn, ws.ProximityResponse{
		Event:     ws.EventProximity,
		ClueID:    clueID,
		Proximity: result,
	})

	if !found {
		return
	}

	foundKey := config.CacheKey.LocationFoundKey(userID, huntID.String(), clueID)
	first, err := h.rdb.SetNX(ctx, foundKey, "1", 24*time.Hour).Result()
	if err != nil {
		wsLog.Error().Err(err).Msg("Location found marker error")
		return
	}
	if first {
		ws.WriteTyped(conn, ws.LocationFoundResponse{
			Event:  ws.EventLocationFound,
			ClueID: clueID,
		})
	}
}

// handleSubmit evaluates evidence in-stream and returns the new active clue
// ID so the monitor tracks the next target.
func (h *WSHandler) handleSubmit(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, monitor *hunt.Monitor, userID string, huntID uuid.UUID, clueID string, evidence *model.Evidence) string {
	if evidence == nil {
		ws.WriteError(conn, "evidence is required")
		return clueID
	}

	result, err := h.sessionService.Submit(ctx, userID, huntID, *evidence)
	if err != nil {
		h.writeSessionError(conn, err)
		return clueID
	}

	event := ws.EventUnsatisfied
	if result.Outcome.Completed {
		event = ws.EventCompleted
	} else if result.Outcome.Satisfied {
		event = ws.EventSatisfied
	}
	ws.WriteTyped(conn, ws.SubmitResponse{
		Event:    event,
		Outcome:  result.Outcome,
		Progress: result.Progress,
		NextClue: result.NextClue,
	})

	if result.Outcome.Satisfied {
		wsLog.Info().
			Bool("completed", result.Outcome.Completed).
			Int("points", result.Outcome.PointsAwarded).
			Msg("Evidence accepted over watch")
	}

	if result.Outcome.Completed {
		monitor.ClearTarget()
		return ""
	}
	return h.refreshTarget(ctx, monitor, huntID, result.Progress.CurrentClueIndex)
}

func (h *WSHandler) handleHint(ctx context.Context, conn *websocket.Conn, userID string, huntID uuid.UUID) {
	text, hasHint, err := h.sessionService.UseHint(ctx, userID, huntID)
	if err != nil {
		h.writeSessionError(conn, err)
		return
	}
	if !hasHint {
		ws.WriteError(conn, "current clue has no hint")
		return
	}
	ws.WriteTyped(conn, ws.HintResponse{Event: ws.EventHint, Hint: text})
}

func (h *WSHandler) handleAbandon(ctx context.Context, conn *websocket.Conn, wsLog zerolog.Logger, userID string, huntID uuid.UUID) {
	view, err := h.sessionService.Abandon(ctx, userID, huntID)
	if err != nil {
		h.writeSessionError(conn, err)
		return
	}
	wsLog.Info().Msg("Attempt abandoned over watch")
	ws.WriteTyped(conn, ws.AbandonedResponse{Event: ws.EventAbandoned, Progress: view.Progress})
}

func (h *WSHandler) writeSessionError(conn *websocket.Conn, err error) {
	switch {
	case errors.Is(err, service.ErrNoProgress):
		ws.WriteError(conn, "no saved attempt for this hunt")
	case errors.Is(err, hunt.ErrHuntCompleted):
		ws.WriteError(conn, "hunt already completed")
	case errors.Is(err, hunt.ErrSessionNotActive):
		ws.WriteError(conn, "attempt is not active")
	case errors.Is(err, hunt.ErrEvidenceMismatch):
		ws.WriteError(conn, "evidence does not match the current clue")
	default:
		ws.WriteError(conn, "operation failed")
	}
}

// releaseWatch frees the owner key only when this connection still holds it.
func (h *WSHandler) releaseWatch(ownerKey, connToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := h.rdb.Get(ctx, ownerKey).Result()
	if err == nil && val == connToken {
		h.rdb.Del(ctx, ownerKey)
	}
}

func (h *WSHandler) ownsWatch(ctx context.Context, ownerKey, connToken string) bool {
	val, err := h.rdb.Get(ctx, ownerKey).Result()
	if err != nil {
		// Missing key means no competing watch. Other errors fail open.
		return true
	}
	return val == connToken
}
