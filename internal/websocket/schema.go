package websocket

import (
	"github.com/lakbayapp/lakbay-backend/internal/hunt"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionLocation Action = "location"
	ActionSubmit   Action = "submit"
	ActionHint     Action = "hint"
	ActionAbandon  Action = "abandon"
	ActionPing     Action = "ping"
)

// RequestEnvelope carries every client frame. Action selects which fields
// are read.
type RequestEnvelope struct {
	Action   Action                `json:"action"`
	Sample   *model.LocationSample `json:"sample,omitempty"`   // location
	Evidence *model.Evidence       `json:"evidence,omitempty"` // submit
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventProximity     Event = "proximity"
	EventLocationFound Event = "location_found"
	EventSatisfied     Event = "clue_satisfied"
	EventUnsatisfied   Event = "clue_unsatisfied"
	EventCompleted     Event = "hunt_completed"
	EventHint          Event = "hint"
	EventAbandoned     Event = "abandoned"
	EventSuperseded    Event = "superseded"
	EventPong          Event = "pong"
)

// ProximityResponse answers every location frame while a GPS clue is active.
type ProximityResponse struct {
	Event     Event                `json:"event"`
	ClueID    string               `json:"clue_id"`
	Proximity hunt.ProximityResult `json:"proximity"`
}

// LocationFoundResponse is pushed once per clue when the player first enters
// the target radius.
type LocationFoundResponse struct {
	Event  Event  `json:"event"`
	ClueID string `json:"clue_id"`
}

// SubmitResponse reports an evidence evaluation over the stream.
type SubmitResponse struct {
	Event    Event             `json:"event"`
	Outcome  hunt.Outcome      `json:"outcome"`
	Progress *model.Progress   `json:"progress,omitempty"`
	NextClue *model.CluePlayer `json:"next_clue,omitempty"`
}

// HintResponse carries the hint text of the current clue.
type HintResponse struct {
	Event Event  `json:"event"`
	Hint  string `json:"hint"`
}

// AbandonedResponse confirms the attempt was marked abandoned.
type AbandonedResponse struct {
	Event    Event           `json:"event"`
	Progress *model.Progress `json:"progress,omitempty"`
}

// SupersededResponse tells a stale watch that a newer connection took over.
type SupersededResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
