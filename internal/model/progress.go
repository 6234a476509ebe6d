package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressStatus enumerates hunt attempt states.
type ProgressStatus string

const (
	ProgressStatusInProgress ProgressStatus = "IN_PROGRESS"
	ProgressStatusCompleted  ProgressStatus = "COMPLETED"
	ProgressStatusAbandoned  ProgressStatus = "ABANDONED"
)

// Progress is the resumable state of one user's attempt at one hunt.
// The session engine owns the in-memory instance; the progress store owns
// serialization. Timestamps are truncated to whole seconds so the redis and
// postgres copies round-trip exactly.
type Progress struct {
	UserID           string            `json:"user_id"`
	HuntID           uuid.UUID         `json:"hunt_id"`
	CurrentClueIndex int               `json:"current_clue_index"`
	TotalPoints      int               `json:"total_points"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       *time.Time        `json:"finished_at,omitempty"`
	CompletedClueIDs []uuid.UUID       `json:"completed_clue_ids"`
	SkippedClueIDs   []uuid.UUID       `json:"skipped_clue_ids"`
	HintsUsedClueIDs []uuid.UUID       `json:"hints_used_clue_ids"`
	Evidence         map[string]string `json:"evidence"` // clue ID → photo URI or answer
	Status           ProgressStatus    `json:"status"`
}

// NewProgress creates a fresh attempt starting at the first clue.
func NewProgress(userID string, huntID uuid.UUID, now time.Time) *Progress {
	return &Progress{
		UserID:           userID,
		HuntID:           huntID,
		CurrentClueIndex: 0,
		TotalPoints:      0,
		StartedAt:        now.UTC().Truncate(time.Second),
		CompletedClueIDs: []uuid.UUID{},
		SkippedClueIDs:   []uuid.UUID{},
		HintsUsedClueIDs: []uuid.UUID{},
		Evidence:         map[string]string{},
		Status:           ProgressStatusInProgress,
	}
}

// HasCompleted reports whether the clue is in the completed set.
func (p *Progress) HasCompleted(clueID uuid.UUID) bool {
	return containsID(p.CompletedClueIDs, clueID)
}

// HasUsedHint reports whether a hint was already recorded for the clue.
func (p *Progress) HasUsedHint(clueID uuid.UUID) bool {
	return containsID(p.HintsUsedClueIDs, clueID)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// LocationSample is a single device position fix. Ephemeral — it is never
// persisted as part of Progress.
type LocationSample struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// EvidenceKind enumerates the evidence variants a player can submit.
type EvidenceKind string

const (
	EvidenceKindLocation EvidenceKind = "location"
	EvidenceKindAnswer   EvidenceKind = "answer"
	EvidenceKindPhoto    EvidenceKind = "photo"
	EvidenceKindArScan   EvidenceKind = "ar_scan"
)

// Evidence is one submission against the current clue. Kind selects the
// variant; only the matching fields are read. A location submission may
// additionally carry PhotoRef when the clue's criteria require a photo
// alongside GPS (composite evidence).
type Evidence struct {
	Kind        EvidenceKind    `json:"kind" binding:"required,oneof=location answer photo ar_scan"`
	Sample      *LocationSample `json:"sample,omitempty"`
	PhotoRef    string          `json:"photo_ref,omitempty"`
	AnswerIndex *int            `json:"answer_index,omitempty"`
	ScanSuccess *bool           `json:"scan_success,omitempty"`
}
