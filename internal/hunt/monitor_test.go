package hunt

import (
	"math"
	"testing"
	"time"

	"github.com/lakbayapp/lakbay-backend/internal/model"
)

var crossTarget = Target{Latitude: 10.2937, Longitude: 123.9068, RadiusMeters: 15}

func fix(lat, lng float64) model.LocationSample {
	return model.LocationSample{Latitude: lat, Longitude: lng, Timestamp: time.Now()}
}

func TestProximityToPure(t *testing.T) {
	s := fix(10.2940, 123.9070)
	a := ProximityTo(crossTarget, s)
	b := ProximityTo(crossTarget, s)
	if a != b {
		t.Errorf("same inputs gave different results: %+v vs %+v", a, b)
	}
}

func TestProximityToWithin(t *testing.T) {
	res := ProximityTo(crossTarget, fix(10.2937, 123.9068))
	if !res.WithinRadius {
		t.Errorf("at the target: WithinRadius = false, distance %.2f", res.DistanceMeters)
	}

	res = ProximityTo(crossTarget, fix(10.2987, 123.9068))
	if res.WithinRadius {
		t.Errorf("~550 m away: WithinRadius = true")
	}
	if math.Abs(res.DistanceMeters-556) > 10 {
		t.Errorf("distance = %.2f, want ~556", res.DistanceMeters)
	}
	// Target lies due south of the sample.
	if res.Compass != "S" {
		t.Errorf("compass = %q, want S", res.Compass)
	}
}

func TestMonitorAnnouncesOnce(t *testing.T) {
	m := NewMonitor()
	m.SetTarget(crossTarget)

	// Approaching from outside.
	if _, found := m.Observe(fix(10.2987, 123.9068)); found {
		t.Error("announced while outside the radius")
	}

	// First fix inside announces.
	res, found := m.Observe(fix(10.2937, 123.9068))
	if !found {
		t.Error("first in-radius fix not announced")
	}
	if !res.WithinRadius {
		t.Errorf("result = %+v, want within radius", res)
	}

	// Staying inside stays silent.
	if _, found := m.Observe(fix(10.29371, 123.90681)); found {
		t.Error("second in-radius fix announced again")
	}

	// Leaving and re-entering the same target also stays silent.
	m.Observe(fix(10.2987, 123.9068))
	if _, found := m.Observe(fix(10.2937, 123.9068)); found {
		t.Error("re-entry announced for the same target")
	}
}

func TestMonitorResetOnNewTarget(t *testing.T) {
	m := NewMonitor()
	m.SetTarget(crossTarget)
	if _, found := m.Observe(fix(10.2937, 123.9068)); !found {
		t.Fatal("first target never announced")
	}

	m.SetTarget(Target{Latitude: 10.2925, Longitude: 123.9060, RadiusMeters: 20})
	if _, found := m.Observe(fix(10.2925, 123.9060)); !found {
		t.Error("new target did not announce on first in-radius fix")
	}
}

func TestMonitorWithoutTarget(t *testing.T) {
	m := NewMonitor()
	if m.HasTarget() {
		t.Error("fresh monitor reports a target")
	}
	if _, found := m.Observe(fix(10.2937, 123.9068)); found {
		t.Error("observation with no target announced")
	}
	if m.Last() != nil {
		t.Error("Last() set without a target")
	}

	m.SetTarget(crossTarget)
	m.Observe(fix(10.2937, 123.9068))
	if m.Last() == nil {
		t.Error("Last() nil after an observation")
	}

	m.ClearTarget()
	if m.HasTarget() || m.Last() != nil {
		t.Error("ClearTarget did not reset state")
	}
}
