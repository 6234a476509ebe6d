package hunt

import (
	"github.com/lakbayapp/lakbay-backend/internal/geo"
	"github.com/lakbayapp/lakbay-backend/internal/model"
)

// Target is the active geofence a monitor evaluates samples against.
type Target struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// TargetFromSpec builds a Target from a location clue payload.
func TargetFromSpec(spec *model.LocationSpec) Target {
	return Target{
		Latitude:     spec.TargetLatitude,
		Longitude:    spec.TargetLongitude,
		RadiusMeters: spec.RadiusMeters,
	}
}

// ProximityResult is the evaluation of one sample against one target.
type ProximityResult struct {
	DistanceMeters float64 `json:"distance_meters"`
	WithinRadius   bool    `json:"within_radius"`
	BearingDegrees float64 `json:"bearing_degrees"`
	Compass        string  `json:"compass"`
}

// ProximityTo evaluates a sample against a target. Pure: calling it twice
// with the same inputs yields identical results. The radius boundary is
// inclusive.
func ProximityTo(t Target, s model.LocationSample) ProximityResult {
	d := geo.DistanceMeters(s.Latitude, s.Longitude, t.Latitude, t.Longitude)
	b := geo.BearingDegrees(s.Latitude, s.Longitude, t.Latitude, t.Longitude)
	return ProximityResult{
		DistanceMeters: d,
		WithinRadius:   d <= t.RadiusMeters,
		BearingDegrees: b,
		Compass:        geo.CompassDirection(b),
	}
}

// Monitor folds a stream of location samples into a current proximity state
// for one active target at a time. The first outside→inside transition per
// target is announced exactly once; subsequent fixes inside the radius stay
// silent. Not safe for concurrent use — one watch per session.
type Monitor struct {
	target    *Target
	announced bool
	last      *ProximityResult
}

// NewMonitor creates a monitor with no active target.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// SetTarget replaces the active target and resets the announcement state.
func (m *Monitor) SetTarget(t Target) {
	m.target = &t
	m.announced = false
	m.last = nil
}

// ClearTarget stops proximity evaluation. Idempotent.
func (m *Monitor) ClearTarget() {
	m.target = nil
	m.announced = false
	m.last = nil
}

// HasTarget reports whether a target is active.
func (m *Monitor) HasTarget() bool { return m.target != nil }

// Last returns the most recent proximity result, or nil.
func (m *Monitor) Last() *ProximityResult { return m.last }

// Observe merges a sample into the proximity state. The second return is
// true only for the first fix inside the radius of the current target.
func (m *Monitor) Observe(s model.LocationSample) (ProximityResult, bool) {
	if m.target == nil {
		return ProximityResult{}, false
	}
	res := ProximityTo(*m.target, s)
	m.last = &res

	found := false
	if res.WithinRadius && !m.announced {
		m.announced = true
		found = true
	}
	return res, found
}
