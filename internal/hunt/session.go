// Package hunt implements the scavenger-hunt session engine: a deterministic
// state machine over a hunt definition and a progress record. It has no
// transport or storage concerns; callers feed it evidence and drain the
// events it emits.
package hunt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// Domain errors surfaced by session operations. Sensor and persistence
// failures never appear here — those are absorbed by the calling layer.
var (
	ErrAlreadyStarted   = errors.New("session already started")
	ErrNotStarted       = errors.New("session not started")
	ErrNoPriorProgress  = errors.New("no prior progress to resume")
	ErrSessionNotActive = errors.New("session is not in progress")
	ErrHuntCompleted    = errors.New("hunt is already completed")
	ErrEvidenceMismatch = errors.New("evidence kind does not match clue criteria")
)

// UnsatisfiedReason tells the presentation layer why a submission did not
// complete the current clue.
type UnsatisfiedReason string

const (
	ReasonNoLocationFix UnsatisfiedReason = "NO_LOCATION_FIX"
	ReasonOutOfRange    UnsatisfiedReason = "OUT_OF_RANGE"
	ReasonPhotoMissing  UnsatisfiedReason = "PHOTO_MISSING"
	ReasonWrongAnswer   UnsatisfiedReason = "WRONG_ANSWER"
	ReasonScanFailed    UnsatisfiedReason = "SCAN_FAILED"
)

// EventKind enumerates session events.
type EventKind string

const (
	EventClueSatisfied   EventKind = "clue_satisfied"
	EventClueUnsatisfied EventKind = "clue_unsatisfied"
	EventHuntCompleted   EventKind = "hunt_completed"
	EventLocationFound   EventKind = "location_found"
)

// Event is a discrete occurrence the presentation layer renders. The engine
// never formats user-facing strings itself.
type Event struct {
	Kind    EventKind         `json:"kind"`
	ClueID  uuid.UUID         `json:"clue_id,omitempty"`
	Reason  UnsatisfiedReason `json:"reason,omitempty"`
	Points  int               `json:"points,omitempty"`
	Rewards []model.Reward    `json:"rewards,omitempty"`
}

// Outcome is the result of one evidence submission.
type Outcome struct {
	Satisfied     bool              `json:"satisfied"`
	Reason        UnsatisfiedReason `json:"reason,omitempty"`
	PointsAwarded int               `json:"points_awarded"`
	Completed     bool              `json:"completed"`
	Rewards       []model.Reward    `json:"rewards,omitempty"`
	// Explanation is revealed after a correct answer when the question
	// carries one.
	Explanation string `json:"explanation,omitempty"`
}

// Session drives clue transitions for one user's attempt at one hunt.
// It is single-owner: callers serialize all operations. Location samples
// arriving from the watch stream only unlock the ability to submit; they
// never advance the state machine themselves.
type Session struct {
	hunt     *model.Hunt
	prior    *model.Progress
	progress *model.Progress
	events   []Event
}

// NewSession validates the hunt and wraps it with optional prior progress.
// A prior IN_PROGRESS record is never consumed implicitly: the caller must
// invoke Resume or Restart before the session becomes active.
func NewSession(h *model.Hunt, prior *model.Progress) (*Session, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if prior != nil && prior.HuntID != h.ID {
		return nil, fmt.Errorf("progress hunt %s does not match hunt %s", prior.HuntID, h.ID)
	}
	return &Session{hunt: h, prior: prior}, nil
}

// Hunt returns the validated hunt definition.
func (s *Session) Hunt() *model.Hunt { return s.hunt }

// Progress returns the in-memory progress, or nil before start/resume.
func (s *Session) Progress() *model.Progress { return s.progress }

// Events drains and returns the events emitted since the last drain.
func (s *Session) Events() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Session) emit(e Event) { s.events = append(s.events, e) }

// Start begins a fresh attempt. Any prior attempt blocks it: an in-progress
// or abandoned one must be resumed or restarted explicitly, so the saved
// copy is never shadowed without being discarded first.
func (s *Session) Start(userID string, now time.Time) error {
	if s.progress != nil {
		return ErrAlreadyStarted
	}
	if s.prior != nil {
		if s.prior.Status == model.ProgressStatusCompleted {
			return ErrHuntCompleted
		}
		return ErrAlreadyStarted
	}
	s.progress = model.NewProgress(userID, s.hunt.ID, now)
	return nil
}

// Resume re-enters an in-progress prior attempt without resetting counters.
func (s *Session) Resume() error {
	if s.progress != nil {
		return ErrAlreadyStarted
	}
	if s.prior == nil {
		return ErrNoPriorProgress
	}
	if s.prior.Status != model.ProgressStatusInProgress {
		return ErrSessionNotActive
	}
	s.progress = s.prior
	return nil
}

// Restart discards any prior attempt and starts fresh. The caller is
// responsible for clearing the persisted copy.
func (s *Session) Restart(userID string, now time.Time) error {
	s.prior = nil
	s.progress = nil
	return s.Start(userID, now)
}

// Abandon marks the attempt abandoned. No rewards are computed — abandoned
// is not completed.
func (s *Session) Abandon(now time.Time) error {
	if s.progress == nil {
		return ErrNotStarted
	}
	if s.progress.Status != model.ProgressStatusInProgress {
		return ErrSessionNotActive
	}
	s.progress.Status = model.ProgressStatusAbandoned
	t := now.UTC().Truncate(time.Second)
	s.progress.FinishedAt = &t
	return nil
}

// CurrentClue returns the active clue, or nil once the hunt is complete.
func (s *Session) CurrentClue() *model.Clue {
	if s.progress == nil {
		return nil
	}
	idx := s.progress.CurrentClueIndex
	if idx < 0 || idx >= len(s.hunt.Clues) {
		return nil
	}
	return s.clueAt(idx)
}

// clueAt returns the clue with the given order. Orders are validated to be
// contiguous from 0, so this is a lookup by order value, not slice position.
func (s *Session) clueAt(order int) *model.Clue {
	for i := range s.hunt.Clues {
		if s.hunt.Clues[i].Order == order {
			return &s.hunt.Clues[i]
		}
	}
	return nil
}

// UseHint records hint usage for the current clue and returns the hint text.
// Recording is idempotent; hints never affect the score. The second return
// is false when the clue has no hint.
func (s *Session) UseHint() (string, bool, error) {
	if s.progress == nil {
		return "", false, ErrNotStarted
	}
	if s.progress.Status != model.ProgressStatusInProgress {
		return "", false, ErrSessionNotActive
	}
	clue := s.CurrentClue()
	if clue == nil {
		return "", false, ErrHuntCompleted
	}
	if clue.Hint == "" {
		return "", false, nil
	}
	if !s.progress.HasUsedHint(clue.ID) {
		s.progress.HintsUsedClueIDs = append(s.progress.HintsUsedClueIDs, clue.ID)
	}
	return clue.Hint, true, nil
}

// SubmitEvidence evaluates the submission against the current clue's
// completion criteria. A kind that does not match what the criteria require
// is a caller error (ErrEvidenceMismatch) and leaves the state unchanged.
// An unsatisfied outcome also leaves the state unchanged; the clue stays
// presentable and resubmittable.
func (s *Session) SubmitEvidence(ev model.Evidence, now time.Time) (Outcome, error) {
	if s.progress == nil {
		return Outcome{}, ErrNotStarted
	}
	if s.progress.Status != model.ProgressStatusInProgress {
		return Outcome{}, ErrSessionNotActive
	}
	clue := s.CurrentClue()
	if clue == nil {
		return Outcome{}, ErrHuntCompleted
	}

	if expectedKind(clue.Criteria) != ev.Kind {
		return Outcome{}, ErrEvidenceMismatch
	}

	outcome, evidenceRef, err := evaluate(clue, ev)
	if err != nil {
		return Outcome{}, err
	}

	if !outcome.Satisfied {
		s.emit(Event{Kind: EventClueUnsatisfied, ClueID: clue.ID, Reason: outcome.Reason})
		return outcome, nil
	}

	s.progress.CompletedClueIDs = append(s.progress.CompletedClueIDs, clue.ID)
	s.progress.TotalPoints += clue.Points
	s.progress.CurrentClueIndex++
	if evidenceRef != "" {
		s.progress.Evidence[clue.ID.String()] = evidenceRef
	}
	outcome.PointsAwarded = clue.Points
	s.emit(Event{Kind: EventClueSatisfied, ClueID: clue.ID, Points: clue.Points})

	if s.progress.CurrentClueIndex == len(s.hunt.Clues) {
		s.progress.Status = model.ProgressStatusCompleted
		t := now.UTC().Truncate(time.Second)
		s.progress.FinishedAt = &t
		outcome.Completed = true
		outcome.Rewards = CalculateRewards(s.progress, s.hunt)
		s.emit(Event{Kind: EventHuntCompleted, Rewards: outcome.Rewards})
	}

	return outcome, nil
}

// expectedKind derives the evidence kind the criteria accept. Composite
// location+photo clues still take a location submission that carries the
// photo reference alongside the fix.
func expectedKind(c model.CompletionCriteria) model.EvidenceKind {
	switch {
	case c.RequiresAnswer:
		return model.EvidenceKindAnswer
	case c.RequiresGPS:
		return model.EvidenceKindLocation
	case c.RequiresPhoto:
		return model.EvidenceKindPhoto
	default:
		return model.EvidenceKindArScan
	}
}

// evaluate applies the clue-type completion test. It returns the outcome and
// the evidence reference to record on success.
func evaluate(clue *model.Clue, ev model.Evidence) (Outcome, string, error) {
	switch clue.Type {
	case model.ClueTypeLocation:
		// Sensor failure degrades to "cannot verify yet", never an error.
		if ev.Sample == nil {
			return Outcome{Reason: ReasonNoLocationFix}, "", nil
		}
		prox := ProximityTo(TargetFromSpec(clue.Location), *ev.Sample)
		if !prox.WithinRadius {
			return Outcome{Reason: ReasonOutOfRange}, "", nil
		}
		if clue.Criteria.RequiresPhoto && ev.PhotoRef == "" {
			// Composite criteria: both proofs must arrive together.
			return Outcome{Reason: ReasonPhotoMissing}, "", nil
		}
		ref := ev.PhotoRef
		if ref == "" {
			ref = fmt.Sprintf("geo:%.6f,%.6f", ev.Sample.Latitude, ev.Sample.Longitude)
		}
		return Outcome{Satisfied: true}, ref, nil

	case model.ClueTypeQuestion:
		if ev.AnswerIndex == nil {
			return Outcome{}, "", ErrEvidenceMismatch
		}
		if *ev.AnswerIndex != clue.Question.CorrectAnswerIndex {
			return Outcome{Reason: ReasonWrongAnswer}, "", nil
		}
		return Outcome{Satisfied: true, Explanation: clue.Question.Explanation},
			strconv.Itoa(*ev.AnswerIndex), nil

	case model.ClueTypePhoto:
		// Content is never verified against the required elements; a
		// non-empty reference is the deliberate trust boundary.
		if ev.PhotoRef == "" {
			return Outcome{Reason: ReasonPhotoMissing}, "", nil
		}
		return Outcome{Satisfied: true}, ev.PhotoRef, nil

	case model.ClueTypeArScan:
		if ev.ScanSuccess == nil {
			return Outcome{}, "", ErrEvidenceMismatch
		}
		if !*ev.ScanSuccess {
			return Outcome{Reason: ReasonScanFailed}, "", nil
		}
		return Outcome{Satisfied: true}, "scan:" + clue.ArScan.TargetObjectName, nil
	}

	return Outcome{}, "", fmt.Errorf("unknown clue type %q", clue.Type)
}
