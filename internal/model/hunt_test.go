package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func validHunt() *Hunt {
	return &Hunt{
		ID:         uuid.New(),
		Title:      "Test Walk",
		Difficulty: DifficultyMedium,
		Status:     HuntStatusDraft,
		Clues: []Clue{
			{
				ID:       uuid.New(),
				Order:    0,
				Type:     ClueTypeLocation,
				Title:    "Find the spot",
				Points:   50,
				Criteria: CompletionCriteria{RequiresGPS: true},
				Location: &LocationSpec{TargetLatitude: 10.29, TargetLongitude: 123.90, RadiusMeters: 15},
			},
			{
				ID:       uuid.New(),
				Order:    1,
				Type:     ClueTypeQuestion,
				Title:    "Answer this",
				Hint:     "Think 1521.",
				Points:   75,
				Criteria: CompletionCriteria{RequiresAnswer: true},
				Question: &QuestionSpec{
					QuestionText:       "Who?",
					Options:            []string{"A", "B", "C"},
					CorrectAnswerIndex: 2,
				},
			},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validHunt().Validate(); err != nil {
		t.Fatalf("valid hunt rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *Hunt)
	}{
		{"no clues", func(h *Hunt) { h.Clues = nil }},
		{"duplicate orders", func(h *Hunt) { h.Clues[1].Order = 0 }},
		{"gap in orders", func(h *Hunt) { h.Clues[1].Order = 5 }},
		{"orders not starting at zero", func(h *Hunt) {
			h.Clues[0].Order = 1
			h.Clues[1].Order = 2
		}},
		{"unknown difficulty", func(h *Hunt) { h.Difficulty = "brutal" }},
		{"negative points", func(h *Hunt) { h.Clues[0].Points = -10 }},
		{"no payload", func(h *Hunt) { h.Clues[0].Location = nil }},
		{"two payloads", func(h *Hunt) {
			h.Clues[0].Photo = &PhotoSpec{Instruction: "extra"}
		}},
		{"payload does not match type", func(h *Hunt) {
			h.Clues[0].Location = nil
			h.Clues[0].Photo = &PhotoSpec{Instruction: "wrong slot"}
		}},
		{"zero radius", func(h *Hunt) { h.Clues[0].Location.RadiusMeters = 0 }},
		{"negative radius", func(h *Hunt) { h.Clues[0].Location.RadiusMeters = -5 }},
		{"latitude out of range", func(h *Hunt) { h.Clues[0].Location.TargetLatitude = 91 }},
		{"longitude out of range", func(h *Hunt) { h.Clues[0].Location.TargetLongitude = -181 }},
		{"location clue without gps criteria", func(h *Hunt) {
			h.Clues[0].Criteria = CompletionCriteria{}
		}},
		{"location clue requiring an answer", func(h *Hunt) {
			h.Clues[0].Criteria.RequiresAnswer = true
		}},
		{"single option question", func(h *Hunt) {
			h.Clues[1].Question.Options = []string{"only"}
			h.Clues[1].Question.CorrectAnswerIndex = 0
		}},
		{"answer index out of range", func(h *Hunt) {
			h.Clues[1].Question.CorrectAnswerIndex = 3
		}},
		{"negative answer index", func(h *Hunt) {
			h.Clues[1].Question.CorrectAnswerIndex = -1
		}},
		{"question clue without answer criteria", func(h *Hunt) {
			h.Clues[1].Criteria = CompletionCriteria{RequiresPhoto: true}
		}},
		{"unknown clue type", func(h *Hunt) { h.Clues[0].Type = "RIDDLE" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHunt()
			tt.mutate(h)
			err := h.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidHuntDefinition) {
				t.Fatalf("error %v does not wrap ErrInvalidHuntDefinition", err)
			}
		})
	}
}

func TestValidateArScanCriteria(t *testing.T) {
	h := validHunt()
	h.Clues = append(h.Clues, Clue{
		ID:       uuid.New(),
		Order:    2,
		Type:     ClueTypeArScan,
		Title:    "Scan the statue",
		Points:   80,
		Criteria: CompletionCriteria{},
		ArScan:   &ArScanSpec{TargetObjectName: "Statue"},
	})
	if err := h.Validate(); err != nil {
		t.Fatalf("valid AR_SCAN clue rejected: %v", err)
	}

	h.Clues[2].Criteria.RequiresGPS = true
	if err := h.Validate(); !errors.Is(err, ErrInvalidHuntDefinition) {
		t.Fatalf("AR_SCAN with gps criteria = %v, want ErrInvalidHuntDefinition", err)
	}
}

func TestValidateCompositeLocationPhoto(t *testing.T) {
	h := validHunt()
	h.Clues[0].Criteria.RequiresPhoto = true
	if err := h.Validate(); err != nil {
		t.Fatalf("composite location+photo rejected: %v", err)
	}
}

func TestTotalPoints(t *testing.T) {
	h := validHunt()
	if got := h.TotalPoints(); got != 125 {
		t.Errorf("TotalPoints() = %d, want 125", got)
	}
}

func TestClueByID(t *testing.T) {
	h := validHunt()
	if c := h.ClueByID(h.Clues[1].ID); c == nil || c.Order != 1 {
		t.Errorf("ClueByID returned %v, want clue at order 1", c)
	}
	if c := h.ClueByID(uuid.New()); c != nil {
		t.Errorf("ClueByID for unknown ID = %v, want nil", c)
	}
}

func TestPlayerViewStripsSecrets(t *testing.T) {
	h := validHunt()

	loc := h.Clues[0].PlayerView()
	if loc.HasHint {
		t.Error("hintless clue reports HasHint")
	}
	if loc.Location == nil {
		t.Error("location spec stripped from player view")
	}

	q := h.Clues[1].PlayerView()
	if !q.HasHint {
		t.Error("clue with hint reports no hint")
	}
	if q.Question == nil {
		t.Fatal("question stripped entirely")
	}
	if len(q.Question.Options) != 3 {
		t.Errorf("options = %d, want 3", len(q.Question.Options))
	}
}

func TestPlayerPayload(t *testing.T) {
	h := validHunt()
	payload := h.PlayerPayload()

	if payload.HuntID != h.ID {
		t.Errorf("payload hunt ID = %s, want %s", payload.HuntID, h.ID)
	}
	if payload.TotalPoints != 125 {
		t.Errorf("payload total points = %d, want 125", payload.TotalPoints)
	}
	if len(payload.Clues) != 2 {
		t.Fatalf("payload clues = %d, want 2", len(payload.Clues))
	}
}
