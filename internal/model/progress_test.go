package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewProgress(t *testing.T) {
	huntID := uuid.New()
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

	p := NewProgress("user-1", huntID, now)

	if p.CurrentClueIndex != 0 || p.TotalPoints != 0 {
		t.Errorf("fresh progress = index %d, points %d; want zeros", p.CurrentClueIndex, p.TotalPoints)
	}
	if p.Status != ProgressStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", p.Status)
	}
	if p.StartedAt.Nanosecond() != 0 {
		t.Errorf("StartedAt not truncated to whole seconds: %v", p.StartedAt)
	}
	if p.CompletedClueIDs == nil || p.Evidence == nil {
		t.Error("collections must be initialized, not nil")
	}
}

// The redis copy and the queue payload are both this JSON document; every
// field must survive the round trip bit-for-bit.
func TestProgressJSONRoundTrip(t *testing.T) {
	finished := time.Date(2026, 5, 2, 16, 40, 12, 0, time.UTC)
	clueA, clueB := uuid.New(), uuid.New()

	original := &Progress{
		UserID:           "user-1",
		HuntID:           uuid.New(),
		CurrentClueIndex: 2,
		TotalPoints:      125,
		StartedAt:        time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC),
		FinishedAt:       &finished,
		CompletedClueIDs: []uuid.UUID{clueA, clueB},
		SkippedClueIDs:   []uuid.UUID{},
		HintsUsedClueIDs: []uuid.UUID{clueB},
		Evidence: map[string]string{
			clueA.String(): "geo:10.293700,123.906800",
			clueB.String(): "/uploads/user-1/photo.jpg",
		},
		Status: ProgressStatusCompleted,
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored Progress
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, &restored) {
		t.Errorf("round trip mismatch:\n  original: %+v\n  restored: %+v", original, &restored)
	}
}

func TestProgressRoundTripWithoutFinish(t *testing.T) {
	original := NewProgress("user-1", uuid.New(), time.Now())

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Progress
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.FinishedAt != nil {
		t.Errorf("FinishedAt = %v, want nil", restored.FinishedAt)
	}
	if !reflect.DeepEqual(original, &restored) {
		t.Errorf("round trip mismatch:\n  original: %+v\n  restored: %+v", original, &restored)
	}
}

func TestHasCompletedAndHints(t *testing.T) {
	p := NewProgress("user-1", uuid.New(), time.Now())
	clue := uuid.New()

	if p.HasCompleted(clue) || p.HasUsedHint(clue) {
		t.Error("fresh progress reports completion or hint use")
	}

	p.CompletedClueIDs = append(p.CompletedClueIDs, clue)
	p.HintsUsedClueIDs = append(p.HintsUsedClueIDs, clue)

	if !p.HasCompleted(clue) {
		t.Error("HasCompleted false after recording")
	}
	if !p.HasUsedHint(clue) {
		t.Error("HasUsedHint false after recording")
	}
	if p.HasCompleted(uuid.New()) {
		t.Error("HasCompleted true for an unknown clue")
	}
}
