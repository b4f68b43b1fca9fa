package sla

import "github.com/spec-kit/maintenance-sla/internal/domain"

// ShouldEscalate decides whether moving from prev to next crosses an
// escalation threshold. It fires only on a strict worsening along
// on_track < warning < critical < breached (or on the first classification
// into a tier), so a stable status re-observed by every sweep tick, or a
// regression after a deadline extension, never notifies again.
func ShouldEscalate(prev, next domain.SLAStatus) bool {
	if !next.Escalatable() {
		return false
	}
	switch prev {
	case "", domain.SLAStatusNone, domain.SLAStatusOnTrack:
		return true
	}
	return next.Rank() > prev.Rank()
}

// ThresholdForStatus maps an escalation tier to the rule threshold percent
// it is configured under.
func ThresholdForStatus(s domain.SLAStatus) (int, bool) {
	switch s {
	case domain.SLAStatusWarning:
		return domain.ThresholdWarning, true
	case domain.SLAStatusCritical:
		return domain.ThresholdCritical, true
	case domain.SLAStatusBreached:
		return domain.ThresholdBreached, true
	default:
		return 0, false
	}
}
