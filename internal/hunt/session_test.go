package hunt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// testHunt builds a four-clue hunt covering every clue type. The location
// target is Magellan's Cross in Cebu with a 15 m radius.
func testHunt() *model.Hunt {
	return &model.Hunt{
		ID:                       uuid.New(),
		Title:                    "Cebu Heritage Walk",
		Difficulty:               model.DifficultyEasy,
		EstimatedDurationMinutes: 90,
		Status:                   model.HuntStatusPublished,
		Clues: []model.Clue{
			{
				ID:       uuid.New(),
				Order:    0,
				Type:     model.ClueTypeLocation,
				Title:    "Find the cross",
				Hint:     "Between the basilica and city hall.",
				Points:   50,
				Criteria: model.CompletionCriteria{RequiresGPS: true},
				Location: &model.LocationSpec{
					TargetLatitude:  10.2937,
					TargetLongitude: 123.9068,
					RadiusMeters:    15,
				},
			},
			{
				ID:       uuid.New(),
				Order:    1,
				Type:     model.ClueTypeQuestion,
				Title:    "The oldest image",
				Points:   75,
				Criteria: model.CompletionCriteria{RequiresAnswer: true},
				Question: &model.QuestionSpec{
					QuestionText:       "Who gave the image?",
					Options:            []string{"Legazpi", "Magellan"},
					CorrectAnswerIndex: 1,
					Explanation:        "Magellan presented it in 1521.",
				},
			},
			{
				ID:       uuid.New(),
				Order:    2,
				Type:     model.ClueTypePhoto,
				Title:    "Walls of coral stone",
				Points:   60,
				Criteria: model.CompletionCriteria{RequiresPhoto: true},
				Photo:    &model.PhotoSpec{Instruction: "Photograph the gate."},
			},
			{
				ID:       uuid.New(),
				Order:    3,
				Type:     model.ClueTypeArScan,
				Title:    "The heritage monument",
				Points:   80,
				Criteria: model.CompletionCriteria{},
				ArScan:   &model.ArScanSpec{TargetObjectName: "Heritage of Cebu Monument"},
			},
		},
	}
}

func startedSession(t *testing.T, h *model.Hunt) *Session {
	t.Helper()
	sess, err := NewSession(h, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.Start("user-1", time.Now()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return sess
}

func sample(lat, lng float64) *model.LocationSample {
	return &model.LocationSample{Latitude: lat, Longitude: lng, Timestamp: time.Now()}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestNewSessionRejectsInvalidHunt(t *testing.T) {
	h := testHunt()
	h.Clues = nil
	if _, err := NewSession(h, nil); !errors.Is(err, model.ErrInvalidHuntDefinition) {
		t.Fatalf("expected ErrInvalidHuntDefinition, got %v", err)
	}
}

func TestNewSessionRejectsForeignProgress(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", uuid.New(), time.Now())
	if _, err := NewSession(h, prior); err == nil {
		t.Fatal("expected error for progress belonging to a different hunt")
	}
}

func TestStartFresh(t *testing.T) {
	sess := startedSession(t, testHunt())

	p := sess.Progress()
	if p == nil {
		t.Fatal("progress is nil after start")
	}
	if p.CurrentClueIndex != 0 || p.TotalPoints != 0 {
		t.Errorf("fresh progress = index %d, points %d; want 0, 0", p.CurrentClueIndex, p.TotalPoints)
	}
	if p.Status != model.ProgressStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", p.Status)
	}
	if clue := sess.CurrentClue(); clue == nil || clue.Order != 0 {
		t.Errorf("current clue = %v, want order 0", clue)
	}
}

func TestStartWithActivePrior(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())

	sess, err := NewSession(h, prior)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := sess.Start("user-1", time.Now()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("Start with active prior = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartWithCompletedPrior(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())
	prior.Status = model.ProgressStatusCompleted

	sess, _ := NewSession(h, prior)
	if err := sess.Start("user-1", time.Now()); !errors.Is(err, ErrHuntCompleted) {
		t.Fatalf("Start with completed prior = %v, want ErrHuntCompleted", err)
	}
}

func TestStartWithAbandonedPrior(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())
	prior.Status = model.ProgressStatusAbandoned
	prior.CurrentClueIndex = 3
	prior.TotalPoints = 185

	// An abandoned attempt still occupies the slot: only an explicit
	// restart discards it, so the saved copy can never be shadowed by a
	// fresh start that left it behind.
	sess, _ := NewSession(h, prior)
	if err := sess.Start("user-1", time.Now()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("Start with abandoned prior = %v, want ErrAlreadyStarted", err)
	}

	if err := sess.Restart("user-1", time.Now()); err != nil {
		t.Fatalf("Restart after abandoned prior: %v", err)
	}
	p := sess.Progress()
	if p.CurrentClueIndex != 0 || p.TotalPoints != 0 || p.Status != model.ProgressStatusInProgress {
		t.Errorf("restart kept abandoned state: index %d, points %d, status %s",
			p.CurrentClueIndex, p.TotalPoints, p.Status)
	}
}

func TestResume(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())
	prior.CurrentClueIndex = 2
	prior.TotalPoints = 125

	sess, _ := NewSession(h, prior)
	if err := sess.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if clue := sess.CurrentClue(); clue == nil || clue.Order != 2 {
		t.Errorf("resumed at clue %v, want order 2", clue)
	}
	if sess.Progress().TotalPoints != 125 {
		t.Errorf("points after resume = %d, want 125", sess.Progress().TotalPoints)
	}
}

func TestResumeWithoutPrior(t *testing.T) {
	sess, _ := NewSession(testHunt(), nil)
	if err := sess.Resume(); !errors.Is(err, ErrNoPriorProgress) {
		t.Fatalf("Resume without prior = %v, want ErrNoPriorProgress", err)
	}
}

func TestResumeTerminalPrior(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())
	prior.Status = model.ProgressStatusAbandoned

	sess, _ := NewSession(h, prior)
	if err := sess.Resume(); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("Resume abandoned prior = %v, want ErrSessionNotActive", err)
	}
}

func TestRestartDiscardsPrior(t *testing.T) {
	h := testHunt()
	prior := model.NewProgress("user-1", h.ID, time.Now())
	prior.CurrentClueIndex = 3
	prior.TotalPoints = 185

	sess, _ := NewSession(h, prior)
	if err := sess.Restart("user-1", time.Now()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	p := sess.Progress()
	if p.CurrentClueIndex != 0 || p.TotalPoints != 0 || len(p.CompletedClueIDs) != 0 {
		t.Errorf("restart kept state: index %d, points %d", p.CurrentClueIndex, p.TotalPoints)
	}
}

func TestAbandon(t *testing.T) {
	sess := startedSession(t, testHunt())

	if err := sess.Abandon(time.Now()); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	p := sess.Progress()
	if p.Status != model.ProgressStatusAbandoned {
		t.Errorf("status = %s, want ABANDONED", p.Status)
	}
	if p.FinishedAt == nil {
		t.Error("FinishedAt not set on abandon")
	}

	// Terminal: nothing else is allowed.
	if err := sess.Abandon(time.Now()); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("second Abandon = %v, want ErrSessionNotActive", err)
	}
	if _, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindLocation}, time.Now()); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("SubmitEvidence after abandon = %v, want ErrSessionNotActive", err)
	}
}

func TestSubmitLocationNoFix(t *testing.T) {
	sess := startedSession(t, testHunt())

	outcome, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindLocation}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonNoLocationFix {
		t.Errorf("outcome = %+v, want unsatisfied NO_LOCATION_FIX", outcome)
	}
	if sess.Progress().CurrentClueIndex != 0 {
		t.Error("unsatisfied submission advanced the clue index")
	}
}

func TestSubmitLocationOutOfRange(t *testing.T) {
	sess := startedSession(t, testHunt())

	// ~550 m away from the target.
	outcome, err := sess.SubmitEvidence(model.Evidence{
		Kind:   model.EvidenceKindLocation,
		Sample: sample(10.2987, 123.9068),
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonOutOfRange {
		t.Errorf("outcome = %+v, want unsatisfied OUT_OF_RANGE", outcome)
	}
	if pts := sess.Progress().TotalPoints; pts != 0 {
		t.Errorf("points after failed submit = %d, want 0", pts)
	}
}

func TestSubmitLocationWithinRadius(t *testing.T) {
	h := testHunt()
	sess := startedSession(t, h)

	outcome, err := sess.SubmitEvidence(model.Evidence{
		Kind:   model.EvidenceKindLocation,
		Sample: sample(10.2937, 123.9068),
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if !outcome.Satisfied || outcome.PointsAwarded != 50 {
		t.Errorf("outcome = %+v, want satisfied with 50 points", outcome)
	}

	p := sess.Progress()
	if p.CurrentClueIndex != 1 || p.TotalPoints != 50 {
		t.Errorf("progress = index %d, points %d; want 1, 50", p.CurrentClueIndex, p.TotalPoints)
	}
	if !p.HasCompleted(h.Clues[0].ID) {
		t.Error("clue not recorded as completed")
	}
	if ref := p.Evidence[h.Clues[0].ID.String()]; ref == "" {
		t.Error("no evidence reference recorded")
	}
}

func TestSubmitEvidenceKindMismatch(t *testing.T) {
	sess := startedSession(t, testHunt())

	_, err := sess.SubmitEvidence(model.Evidence{
		Kind:        model.EvidenceKindAnswer,
		AnswerIndex: intPtr(1),
	}, time.Now())
	if !errors.Is(err, ErrEvidenceMismatch) {
		t.Fatalf("answer against location clue = %v, want ErrEvidenceMismatch", err)
	}
	if sess.Progress().CurrentClueIndex != 0 {
		t.Error("mismatched submission changed state")
	}
}

func TestQuestionWrongThenRight(t *testing.T) {
	h := testHunt()
	sess := startedSession(t, h)
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindLocation, Sample: sample(10.2937, 123.9068)})

	outcome, err := sess.SubmitEvidence(model.Evidence{
		Kind:        model.EvidenceKindAnswer,
		AnswerIndex: intPtr(0),
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonWrongAnswer {
		t.Errorf("outcome = %+v, want unsatisfied WRONG_ANSWER", outcome)
	}
	if outcome.Explanation != "" {
		t.Error("explanation leaked on a wrong answer")
	}

	// Unlimited retries at no cost.
	outcome, err = sess.SubmitEvidence(model.Evidence{
		Kind:        model.EvidenceKindAnswer,
		AnswerIndex: intPtr(1),
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if !outcome.Satisfied || outcome.PointsAwarded != 75 {
		t.Errorf("outcome = %+v, want satisfied with 75 points", outcome)
	}
	if outcome.Explanation != "Magellan presented it in 1521." {
		t.Errorf("explanation = %q, want revealed text", outcome.Explanation)
	}
	if sess.Progress().TotalPoints != 125 {
		t.Errorf("points = %d, want 125", sess.Progress().TotalPoints)
	}
}

func TestQuestionMissingAnswerIndex(t *testing.T) {
	sess := startedSession(t, testHunt())
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindLocation, Sample: sample(10.2937, 123.9068)})

	if _, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindAnswer}, time.Now()); !errors.Is(err, ErrEvidenceMismatch) {
		t.Fatalf("answer evidence without index = %v, want ErrEvidenceMismatch", err)
	}
}

func TestUseHint(t *testing.T) {
	h := testHunt()
	sess := startedSession(t, h)

	text, ok, err := sess.UseHint()
	if err != nil || !ok {
		t.Fatalf("UseHint = %q, %v, %v", text, ok, err)
	}
	if text != h.Clues[0].Hint {
		t.Errorf("hint = %q, want %q", text, h.Clues[0].Hint)
	}

	// Idempotent: a second use records nothing new.
	if _, _, err := sess.UseHint(); err != nil {
		t.Fatalf("second UseHint: %v", err)
	}
	if n := len(sess.Progress().HintsUsedClueIDs); n != 1 {
		t.Errorf("hints recorded = %d, want 1", n)
	}

	// Hints never change the score.
	if sess.Progress().TotalPoints != 0 {
		t.Error("hint usage changed points")
	}
}

func TestUseHintNoText(t *testing.T) {
	sess := startedSession(t, testHunt())
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindLocation, Sample: sample(10.2937, 123.9068)})
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindAnswer, AnswerIndex: intPtr(1)})

	// The photo clue carries no hint.
	if _, ok, err := sess.UseHint(); err != nil || ok {
		t.Fatalf("UseHint on hintless clue = %v, %v; want false, nil", ok, err)
	}
	if n := len(sess.Progress().HintsUsedClueIDs); n != 0 {
		t.Errorf("hints recorded = %d, want 0 for a hintless clue", n)
	}
}

func TestFullRun(t *testing.T) {
	h := testHunt()
	sess := startedSession(t, h)

	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindLocation, Sample: sample(10.2937, 123.9068)})
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindAnswer, AnswerIndex: intPtr(1)})

	// Photo clue: empty reference fails, non-empty completes.
	outcome, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindPhoto}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonPhotoMissing {
		t.Errorf("outcome = %+v, want unsatisfied PHOTO_MISSING", outcome)
	}
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindPhoto, PhotoRef: "/uploads/user-1/a.jpg"})

	// AR scan: failed report keeps the clue active.
	outcome, err = sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindArScan, ScanSuccess: boolPtr(false)}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonScanFailed {
		t.Errorf("outcome = %+v, want unsatisfied SCAN_FAILED", outcome)
	}

	outcome, err = sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindArScan, ScanSuccess: boolPtr(true)}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if !outcome.Satisfied || !outcome.Completed {
		t.Fatalf("final outcome = %+v, want satisfied and completed", outcome)
	}

	p := sess.Progress()
	if p.Status != model.ProgressStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", p.Status)
	}
	if p.FinishedAt == nil {
		t.Error("FinishedAt not set on completion")
	}
	if p.TotalPoints != 265 {
		t.Errorf("total points = %d, want 265", p.TotalPoints)
	}
	if len(p.CompletedClueIDs) != len(h.Clues) {
		t.Errorf("completed clues = %d, want %d", len(p.CompletedClueIDs), len(h.Clues))
	}

	// 265 ≥ 200, all clues done: Explorer badge, Collector stamp, points.
	if len(outcome.Rewards) != 3 {
		t.Fatalf("rewards = %d, want 3", len(outcome.Rewards))
	}

	// Terminal: further submissions are rejected.
	if _, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindArScan, ScanSuccess: boolPtr(true)}, time.Now()); !errors.Is(err, ErrHuntCompleted) {
		t.Errorf("submit after completion = %v, want ErrHuntCompleted", err)
	}
	if sess.CurrentClue() != nil {
		t.Error("current clue after completion should be nil")
	}
}

func TestCompositeLocationPhoto(t *testing.T) {
	h := testHunt()
	h.Clues = h.Clues[:1]
	h.Clues[0].Criteria.RequiresPhoto = true
	sess := startedSession(t, h)

	inRadius := sample(10.2937, 123.9068)

	// In radius but no photo: both proofs must arrive together.
	outcome, err := sess.SubmitEvidence(model.Evidence{Kind: model.EvidenceKindLocation, Sample: inRadius}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonPhotoMissing {
		t.Errorf("outcome = %+v, want unsatisfied PHOTO_MISSING", outcome)
	}

	// Photo but out of range.
	outcome, err = sess.SubmitEvidence(model.Evidence{
		Kind:     model.EvidenceKindLocation,
		Sample:   sample(10.2987, 123.9068),
		PhotoRef: "/uploads/user-1/b.jpg",
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if outcome.Satisfied || outcome.Reason != ReasonOutOfRange {
		t.Errorf("outcome = %+v, want unsatisfied OUT_OF_RANGE", outcome)
	}

	outcome, err = sess.SubmitEvidence(model.Evidence{
		Kind:     model.EvidenceKindLocation,
		Sample:   inRadius,
		PhotoRef: "/uploads/user-1/b.jpg",
	}, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence: %v", err)
	}
	if !outcome.Satisfied {
		t.Fatalf("outcome = %+v, want satisfied", outcome)
	}
	if ref := sess.Progress().Evidence[h.Clues[0].ID.String()]; ref != "/uploads/user-1/b.jpg" {
		t.Errorf("evidence ref = %q, want the photo reference", ref)
	}
}

func TestEventsDrain(t *testing.T) {
	sess := startedSession(t, testHunt())
	mustSatisfy(t, sess, model.Evidence{Kind: model.EvidenceKindLocation, Sample: sample(10.2937, 123.9068)})

	events := sess.Events()
	if len(events) != 1 || events[0].Kind != EventClueSatisfied {
		t.Fatalf("events = %+v, want one clue_satisfied", events)
	}
	if events[0].Points != 50 {
		t.Errorf("event points = %d, want 50", events[0].Points)
	}

	// Drained: a second call returns nothing.
	if again := sess.Events(); len(again) != 0 {
		t.Errorf("second drain returned %d events, want 0", len(again))
	}
}

func mustSatisfy(t *testing.T, sess *Session, ev model.Evidence) {
	t.Helper()
	outcome, err := sess.SubmitEvidence(ev, time.Now())
	if err != nil {
		t.Fatalf("SubmitEvidence(%s): %v", ev.Kind, err)
	}
	if !outcome.Satisfied {
		t.Fatalf("SubmitEvidence(%s) unsatisfied: %s", ev.Kind, outcome.Reason)
	}
}
