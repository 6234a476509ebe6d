package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidHuntDefinition marks a hunt that must be rejected before any
// session is constructed from it. All validation failures wrap this sentinel.
var ErrInvalidHuntDefinition = errors.New("invalid hunt definition")

// Difficulty enumerates hunt difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// HuntStatus enumerates the catalog lifecycle states of a hunt.
type HuntStatus string

const (
	HuntStatusDraft     HuntStatus = "DRAFT"
	HuntStatusPublished HuntStatus = "PUBLISHED"
	HuntStatusArchived  HuntStatus = "ARCHIVED"
)

// ClueType enumerates the closed set of clue kinds.
type ClueType string

const (
	ClueTypeLocation ClueType = "LOCATION"
	ClueTypeQuestion ClueType = "QUESTION"
	ClueTypePhoto    ClueType = "PHOTO"
	ClueTypeArScan   ClueType = "AR_SCAN"
)

// Hunt represents a scavenger hunt: metadata plus an ordered clue sequence.
type Hunt struct {
	ID                       uuid.UUID  `json:"id"`
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Difficulty               Difficulty `json:"difficulty"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	Status                   HuntStatus `json:"status"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
	Clues                    []Clue     `json:"clues,omitempty"`
}

// CompletionCriteria is the authoritative gate for which evidence completes
// a clue. The clue type determines presentation; these booleans determine
// the completion logic, and the two are validated to agree at load time.
type CompletionCriteria struct {
	RequiresGPS    bool `json:"requires_gps"`
	RequiresPhoto  bool `json:"requires_photo"`
	RequiresAnswer bool `json:"requires_answer"`
}

// LocationSpec is the payload of a LOCATION clue: a circular geofence.
type LocationSpec struct {
	TargetLatitude  float64 `json:"target_latitude"`
	TargetLongitude float64 `json:"target_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
}

// QuestionSpec is the payload of a QUESTION clue.
type QuestionSpec struct {
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation,omitempty"`
}

// PhotoSpec is the payload of a PHOTO clue. RequiredElements are advisory
// hints for the user; photo content is never machine-verified.
type PhotoSpec struct {
	Instruction      string   `json:"instruction"`
	RequiredElements []string `json:"required_elements,omitempty"`
}

// ArScanSpec is the payload of an AR_SCAN clue. Detection itself happens on
// the device; the backend only consumes the reported outcome.
type ArScanSpec struct {
	TargetObjectName string `json:"target_object_name"`
	ReferenceURL     string `json:"reference_url,omitempty"`
}

// Clue is one step of a hunt. Exactly one of the payload pointers matching
// Type is set; the rest are nil (tagged union).
type Clue struct {
	ID          uuid.UUID          `json:"id"`
	Order       int                `json:"order"`
	Type        ClueType           `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Hint        string             `json:"hint,omitempty"`
	Points      int                `json:"points"`
	Criteria    CompletionCriteria `json:"completion_criteria"`

	Location *LocationSpec `json:"location,omitempty"`
	Question *QuestionSpec `json:"question,omitempty"`
	Photo    *PhotoSpec    `json:"photo,omitempty"`
	ArScan   *ArScanSpec   `json:"ar_scan,omitempty"`
}

// TotalPoints sums the points of all clues.
func (h *Hunt) TotalPoints() int {
	total := 0
	for i := range h.Clues {
		total += h.Clues[i].Points
	}
	return total
}

// ClueByID returns the clue with the given ID, or nil.
func (h *Hunt) ClueByID(id uuid.UUID) *Clue {
	for i := range h.Clues {
		if h.Clues[i].ID == id {
			return &h.Clues[i]
		}
	}
	return nil
}

// Validate checks the full hunt definition: at least one clue, contiguous
// orders starting at 0, well-formed per-type payloads, and completion
// criteria consistent with each clue's type. Every failure wraps
// ErrInvalidHuntDefinition.
func (h *Hunt) Validate() error {
	if len(h.Clues) == 0 {
		return fmt.Errorf("%w: hunt has no clues", ErrInvalidHuntDefinition)
	}

	seen := make(map[int]bool, len(h.Clues))
	for i := range h.Clues {
		c := &h.Clues[i]
		if seen[c.Order] {
			return fmt.Errorf("%w: duplicate clue order %d", ErrInvalidHuntDefinition, c.Order)
		}
		seen[c.Order] = true
		if err := c.validate(); err != nil {
			return err
		}
	}

	// Orders must form a contiguous 0..n-1 sequence.
	for i := 0; i < len(h.Clues); i++ {
		if !seen[i] {
			return fmt.Errorf("%w: clue orders are not contiguous, missing %d", ErrInvalidHuntDefinition, i)
		}
	}

	switch h.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidHuntDefinition, h.Difficulty)
	}

	return nil
}

func (c *Clue) validate() error {
	if c.Points < 0 {
		return fmt.Errorf("%w: clue %d has negative points", ErrInvalidHuntDefinition, c.Order)
	}

	payloads := 0
	if c.Location != nil {
		payloads++
	}
	if c.Question != nil {
		payloads++
	}
	if c.Photo != nil {
		payloads++
	}
	if c.ArScan != nil {
		payloads++
	}
	if payloads != 1 {
		return fmt.Errorf("%w: clue %d must carry exactly one payload, has %d", ErrInvalidHuntDefinition, c.Order, payloads)
	}

	switch c.Type {
	case ClueTypeLocation:
		if c.Location == nil {
			return fmt.Errorf("%w: clue %d is LOCATION but has no location payload", ErrInvalidHuntDefinition, c.Order)
		}
		if c.Location.RadiusMeters <= 0 {
			return fmt.Errorf("%w: clue %d radius must be > 0", ErrInvalidHuntDefinition, c.Order)
		}
		if c.Location.TargetLatitude < -90 || c.Location.TargetLatitude > 90 ||
			c.Location.TargetLongitude < -180 || c.Location.TargetLongitude > 180 {
			return fmt.Errorf("%w: clue %d target coordinates out of range", ErrInvalidHuntDefinition, c.Order)
		}
		// A location clue may additionally require a photo (composite evidence).
		if !c.Criteria.RequiresGPS || c.Criteria.RequiresAnswer {
			return fmt.Errorf("%w: clue %d criteria do not match LOCATION type", ErrInvalidHuntDefinition, c.Order)
		}

	case ClueTypeQuestion:
		if c.Question == nil {
			return fmt.Errorf("%w: clue %d is QUESTION but has no question payload", ErrInvalidHuntDefinition, c.Order)
		}
		if len(c.Question.Options) < 2 {
			return fmt.Errorf("%w: clue %d must have at least 2 options", ErrInvalidHuntDefinition, c.Order)
		}
		if c.Question.CorrectAnswerIndex < 0 || c.Question.CorrectAnswerIndex >= len(c.Question.Options) {
			return fmt.Errorf("%w: clue %d correct answer index %d out of range", ErrInvalidHuntDefinition, c.Order, c.Question.CorrectAnswerIndex)
		}
		if !c.Criteria.RequiresAnswer || c.Criteria.RequiresGPS || c.Criteria.RequiresPhoto {
			return fmt.Errorf("%w: clue %d criteria do not match QUESTION type", ErrInvalidHuntDefinition, c.Order)
		}

	case ClueTypePhoto:
		if c.Photo == nil {
			return fmt.Errorf("%w: clue %d is PHOTO but has no photo payload", ErrInvalidHuntDefinition, c.Order)
		}
		if !c.Criteria.RequiresPhoto || c.Criteria.RequiresGPS || c.Criteria.RequiresAnswer {
			return fmt.Errorf("%w: clue %d criteria do not match PHOTO type", ErrInvalidHuntDefinition, c.Order)
		}

	case ClueTypeArScan:
		if c.ArScan == nil {
			return fmt.Errorf("%w: clue %d is AR_SCAN but has no ar_scan payload", ErrInvalidHuntDefinition, c.Order)
		}
		if c.ArScan.TargetObjectName == "" {
			return fmt.Errorf("%w: clue %d has no target object name", ErrInvalidHuntDefinition, c.Order)
		}
		if c.Criteria.RequiresGPS || c.Criteria.RequiresPhoto || c.Criteria.RequiresAnswer {
			return fmt.Errorf("%w: clue %d criteria do not match AR_SCAN type", ErrInvalidHuntDefinition, c.Order)
		}

	default:
		return fmt.Errorf("%w: clue %d has unknown type %q", ErrInvalidHuntDefinition, c.Order, c.Type)
	}

	return nil
}

// ─── Admin request payloads ─────────────────────────────────────────

// CreateHuntRequest is the payload for creating a new hunt as DRAFT.
type CreateHuntRequest struct {
	Title                    string        `json:"title" binding:"required,min=3,max=255"`
	Description              string        `json:"description" binding:"max=2000"`
	Difficulty               Difficulty    `json:"difficulty" binding:"required,oneof=easy medium hard"`
	EstimatedDurationMinutes int           `json:"estimated_duration_minutes" binding:"required,min=1,max=600"`
	Clues                    []ClueRequest `json:"clues" binding:"omitempty,dive"`
}

// UpdateHuntRequest is the payload for updating a DRAFT hunt. A non-nil
// Clues slice replaces the whole clue sequence.
type UpdateHuntRequest struct {
	Title                    string        `json:"title" binding:"omitempty,min=3,max=255"`
	Description              *string       `json:"description" binding:"omitempty,max=2000"`
	Difficulty               Difficulty    `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	EstimatedDurationMinutes int           `json:"estimated_duration_minutes" binding:"omitempty,min=1,max=600"`
	Clues                    []ClueRequest `json:"clues" binding:"omitempty,dive"`
}

// ClueRequest is one clue in a create/update payload.
type ClueRequest struct {
	Order       int                `json:"order" binding:"min=0"`
	Type        ClueType           `json:"type" binding:"required,oneof=LOCATION QUESTION PHOTO AR_SCAN"`
	Title       string             `json:"title" binding:"required,min=1,max=255"`
	Description string             `json:"description" binding:"max=2000"`
	Hint        string             `json:"hint" binding:"max=500"`
	Points      int                `json:"points" binding:"min=0"`
	Criteria    CompletionCriteria `json:"completion_criteria"`
	Location    *LocationSpec      `json:"location" binding:"omitempty"`
	Question    *QuestionSpec      `json:"question" binding:"omitempty"`
	Photo       *PhotoSpec         `json:"photo" binding:"omitempty"`
	ArScan      *ArScanSpec        `json:"ar_scan" binding:"omitempty"`
}

// ToClue converts a request clue into a model clue with a fresh ID.
func (cr *ClueRequest) ToClue() Clue {
	return Clue{
		ID:          uuid.New(),
		Order:       cr.Order,
		Type:        cr.Type,
		Title:       cr.Title,
		Description: cr.Description,
		Hint:        cr.Hint,
		Points:      cr.Points,
		Criteria:    cr.Criteria,
		Location:    cr.Location,
		Question:    cr.Question,
		Photo:       cr.Photo,
		ArScan:      cr.ArScan,
	}
}

// ─── Player-safe views ──────────────────────────────────────────────

// HuntPayload is the redis-cached hunt sent to players: clues carry no
// correct answer index and no hint text (hints go through the hint endpoint).
type HuntPayload struct {
	HuntID                   uuid.UUID    `json:"hunt_id"`
	Title                    string       `json:"title"`
	Description              string       `json:"description"`
	Difficulty               Difficulty   `json:"difficulty"`
	EstimatedDurationMinutes int          `json:"estimated_duration_minutes"`
	TotalPoints              int          `json:"total_points"`
	Clues                    []CluePlayer `json:"clues"`
}

// CluePlayer is a clue as presented to a player.
type CluePlayer struct {
	ID          uuid.UUID          `json:"id"`
	Order       int                `json:"order"`
	Type        ClueType           `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	HasHint     bool               `json:"has_hint"`
	Points      int                `json:"points"`
	Criteria    CompletionCriteria `json:"completion_criteria"`
	Location    *LocationSpec      `json:"location,omitempty"`
	Question    *QuestionPlayer    `json:"question,omitempty"`
	Photo       *PhotoSpec         `json:"photo,omitempty"`
	ArScan      *ArScanSpec        `json:"ar_scan,omitempty"`
}

// QuestionPlayer is a question payload without the correct answer.
type QuestionPlayer struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// PlayerView strips answer keys and hint texts from a clue.
func (c *Clue) PlayerView() CluePlayer {
	view := CluePlayer{
		ID:          c.ID,
		Order:       c.Order,
		Type:        c.Type,
		Title:       c.Title,
		Description: c.Description,
		HasHint:     c.Hint != "",
		Points:      c.Points,
		Criteria:    c.Criteria,
		Location:    c.Location,
		Photo:       c.Photo,
		ArScan:      c.ArScan,
	}
	if c.Question != nil {
		view.Question = &QuestionPlayer{
			QuestionText: c.Question.QuestionText,
			Options:      c.Question.Options,
		}
	}
	return view
}

// PlayerPayload builds the player-safe payload for a hunt.
func (h *Hunt) PlayerPayload() HuntPayload {
	clues := make([]CluePlayer, 0, len(h.Clues))
	for i := range h.Clues {
		clues = append(clues, h.Clues[i].PlayerView())
	}
	return HuntPayload{
		HuntID:                   h.ID,
		Title:                    h.Title,
		Description:              h.Description,
		Difficulty:               h.Difficulty,
		EstimatedDurationMinutes: h.EstimatedDurationMinutes,
		TotalPoints:              h.TotalPoints(),
		Clues:                    clues,
	}
}
