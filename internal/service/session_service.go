package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/config"
	"github.com/lakbayapp/lakbay-backend/internal/hunt"
	"github.com/lakbayapp/lakbay-backend/internal/model"
	"github.com/lakbayapp/lakbay-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session orchestration errors.
var (
	ErrProgressExists = errors.New("an attempt is already in progress")
	ErrNoProgress     = errors.New("no saved attempt for this hunt")
)

// SessionView is the state returned to the player after a session operation.
type SessionView struct {
	Progress    *model.Progress   `json:"progress"`
	CurrentClue *model.CluePlayer `json:"current_clue,omitempty"`
	Events      []hunt.Event      `json:"events,omitempty"`
}

// SubmitResult is the response to an evidence submission.
type SubmitResult struct {
	Outcome  hunt.Outcome      `json:"outcome"`
	Progress *model.Progress   `json:"progress"`
	NextClue *model.CluePlayer `json:"next_clue,omitempty"`
	Events   []hunt.Event      `json:"events,omitempty"`
}

// HuntSessionService drives the session engine against stored state. Each
// operation loads the hunt definition and the saved progress, reconstructs
// the engine, applies the operation, and saves the result. Single logical
// owner per (user, hunt): callers serialize operations for one attempt.
type HuntSessionService struct {
	catalog    *CatalogService
	store      *ProgressStore
	rewardRepo *repository.RewardRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewHuntSessionService creates a new HuntSessionService.
func NewHuntSessionService(
	catalog *CatalogService,
	store *ProgressStore,
	rewardRepo *repository.RewardRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *HuntSessionService {
	return &HuntSessionService{
		catalog:    catalog,
		store:      store,
		rewardRepo: rewardRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "session_service").Logger(),
	}
}

// session loads the hunt definition and prior progress and builds the engine.
func (s *HuntSessionService) session(ctx context.Context, userID string, huntID uuid.UUID) (*hunt.Session, error) {
	def, err := s.catalog.GetDefinition(ctx, huntID)
	if err != nil {
		return nil, err
	}
	prior, err := s.store.Load(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	return hunt.NewSession(def, prior)
}

// Start begins a fresh attempt. A prior in-progress attempt is never
// silently replaced — the player must resume or restart explicitly.
func (s *HuntSessionService) Start(ctx context.Context, userID string, huntID uuid.UUID) (*SessionView, error) {
	sess, err := s.session(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if err := sess.Start(userID, time.Now()); err != nil {
		if errors.Is(err, hunt.ErrAlreadyStarted) {
			return nil, ErrProgressExists
		}
		return nil, err
	}
	s.store.Save(ctx, sess.Progress())
	s.log.Info().Str("user_id", userID).Str("hunt_id", huntID.String()).Msg("Hunt started")
	return s.view(sess), nil
}

// Resume re-enters a saved in-progress attempt.
func (s *HuntSessionService) Resume(ctx context.Context, userID string, huntID uuid.UUID) (*SessionView, error) {
	sess, err := s.session(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if err := sess.Resume(); err != nil {
		if errors.Is(err, hunt.ErrNoPriorProgress) {
			return nil, ErrNoProgress
		}
		return nil, err
	}
	return s.view(sess), nil
}

// Restart clears any saved attempt and starts from scratch.
func (s *HuntSessionService) Restart(ctx context.Context, userID string, huntID uuid.UUID) (*SessionView, error) {
	sess, err := s.session(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Clear(ctx, userID, sess.Hunt()); err != nil {
		// The stale row would shadow the fresh attempt via the monotonic
		// guard, so a failed clear is the one store error that aborts.
		return nil, err
	}
	if err := sess.Restart(userID, time.Now()); err != nil {
		return nil, err
	}
	s.store.Save(ctx, sess.Progress())
	s.log.Info().Str("user_id", userID).Str("hunt_id", huntID.String()).Msg("Hunt restarted")
	return s.view(sess), nil
}

// Abandon marks the attempt abandoned. No rewards are computed; an
// explicit restart is the only way back into the hunt.
func (s *HuntSessionService) Abandon(ctx context.Context, userID string, huntID uuid.UUID) (*SessionView, error) {
	sess, err := s.activeSession(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if err := sess.Abandon(time.Now()); err != nil {
		return nil, err
	}
	s.store.Save(ctx, sess.Progress())
	return s.view(sess), nil
}

// UseHint records hint usage on the current clue and returns the hint text.
func (s *HuntSessionService) UseHint(ctx context.Context, userID string, huntID uuid.UUID) (string, bool, error) {
	sess, err := s.activeSession(ctx, userID, huntID)
	if err != nil {
		return "", false, err
	}
	text, ok, err := sess.UseHint()
	if err != nil {
		return "", false, err
	}
	if ok {
		s.store.Save(ctx, sess.Progress())
	}
	return text, ok, nil
}

// Submit evaluates one evidence submission against the current clue.
func (s *HuntSessionService) Submit(ctx context.Context, userID string, huntID uuid.UUID, ev model.Evidence) (*SubmitResult, error) {
	sess, err := s.activeSession(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}

	outcome, err := sess.SubmitEvidence(ev, time.Now())
	if err != nil {
		return nil, err
	}

	progress := sess.Progress()
	if outcome.Satisfied {
		s.store.Save(ctx, progress)
	}

	if outcome.Completed {
		s.queueRewards(ctx, progress, outcome.Rewards)
		s.store.Retire(ctx, userID, huntID)
		s.log.Info().
			Str("user_id", userID).
			Str("hunt_id", huntID.String()).
			Int("total_points", progress.TotalPoints).
			Msg("Hunt completed")
	}

	result := &SubmitResult{
		Outcome:  outcome,
		Progress: progress,
		Events:   sess.Events(),
	}
	if clue := sess.CurrentClue(); clue != nil {
		view := clue.PlayerView()
		result.NextClue = &view
	}
	return result, nil
}

// Snapshot returns the saved progress for a hunt without mutating it.
func (s *HuntSessionService) Snapshot(ctx context.Context, userID string, huntID uuid.UUID) (*model.Progress, error) {
	p, err := s.store.Load(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoProgress
	}
	return p, nil
}

// CurrentClue returns the player view of the active clue.
func (s *HuntSessionService) CurrentClue(ctx context.Context, userID string, huntID uuid.UUID) (*model.CluePlayer, error) {
	sess, err := s.activeSession(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	clue := sess.CurrentClue()
	if clue == nil {
		return nil, hunt.ErrHuntCompleted
	}
	view := clue.PlayerView()
	return &view, nil
}

// LobbyHunt is a published hunt with the user's attempt overlaid.
type LobbyHunt struct {
	model.Hunt
	ProgressStatus *model.ProgressStatus `json:"progress_status,omitempty"`
	TotalPoints    *int                  `json:"total_points,omitempty"`
}

// Lobby lists published hunts with the user's saved attempts overlaid so the
// client can offer start vs resume.
func (s *HuntSessionService) Lobby(ctx context.Context, userID string) ([]LobbyHunt, error) {
	hunts, err := s.catalog.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	lobby := make([]LobbyHunt, 0, len(hunts))
	for i := range hunts {
		entry := LobbyHunt{Hunt: hunts[i]}
		p, err := s.store.Load(ctx, userID, hunts[i].ID)
		if err == nil && p != nil {
			entry.ProgressStatus = &p.Status
			entry.TotalPoints = &p.TotalPoints
		}
		lobby = append(lobby, entry)
	}
	return lobby, nil
}

// ListRewards returns all rewards granted to the user.
func (s *HuntSessionService) ListRewards(ctx context.Context, userID string) ([]model.GrantedReward, error) {
	grants, err := s.rewardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if grants == nil {
		grants = []model.GrantedReward{}
	}
	return grants, nil
}

// activeSession builds a session resumed onto the saved in-progress attempt.
func (s *HuntSessionService) activeSession(ctx context.Context, userID string, huntID uuid.UUID) (*hunt.Session, error) {
	sess, err := s.session(ctx, userID, huntID)
	if err != nil {
		return nil, err
	}
	if err := sess.Resume(); err != nil {
		if errors.Is(err, hunt.ErrNoPriorProgress) {
			return nil, ErrNoProgress
		}
		return nil, err
	}
	return sess, nil
}

// queueRewards pushes the granted rewards to the persistence queue. The
// reward worker owns the durable write; a queue failure here is logged and
// the grants are written inline as a best-effort fallback.
func (s *HuntSessionService) queueRewards(ctx context.Context, p *model.Progress, rewards []model.Reward) {
	grants := make([]model.GrantedReward, 0, len(rewards))
	now := time.Now().UTC().Truncate(time.Second)
	for _, rw := range rewards {
		grants = append(grants, model.GrantedReward{
			ID:        uuid.New(),
			UserID:    p.UserID,
			HuntID:    p.HuntID,
			Kind:      rw.Kind,
			Name:      rw.Name,
			Points:    rw.Points,
			AwardedAt: now,
		})
	}

	raw, err := json.Marshal(grants)
	if err != nil {
		s.log.Error().Err(err).Msg("Encode rewards failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistRewardsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Msg("Queue rewards failed, writing inline")
		if err := s.rewardRepo.InsertBatch(ctx, grants); err != nil {
			s.log.Error().Err(err).Str("user_id", p.UserID).Msg("Inline reward write failed")
		}
	}
}

// view assembles the session view for start/resume/restart/abandon responses.
func (s *HuntSessionService) view(sess *hunt.Session) *SessionView {
	v := &SessionView{
		Progress: sess.Progress(),
		Events:   sess.Events(),
	}
	if clue := sess.CurrentClue(); clue != nil {
		view := clue.PlayerView()
		v.CurrentClue = &view
	}
	return v
}
