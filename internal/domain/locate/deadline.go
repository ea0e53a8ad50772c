package locate

import (
	"time"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// ─────────────────────────────────────────────────────────────────────────────
// SLA constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// emergencyResponseWindow is the fixed clock window for EMERGENCY calls.
	emergencyResponseWindow = 4 * time.Hour

	// standardBusinessDays is the number of business days a STANDARD call
	// allows, counted strictly after the call's business-day-adjusted start.
	standardBusinessDays = 2

	// businessDayCutoffHour is the end of the business day in local time.
	// A STANDARD call placed at or after this hour counts from the next
	// business day, and STANDARD deadlines land at this hour.
	businessDayCutoffHour = 17
)

// ─────────────────────────────────────────────────────────────────────────────
// Business-day arithmetic
// ─────────────────────────────────────────────────────────────────────────────

func isBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// nextBusinessDay returns the first business day strictly after t's date.
func nextBusinessDay(t time.Time) time.Time {
	t = t.AddDate(0, 0, 1)
	for !isBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// dateOf truncates t to midnight of its calendar date in t's location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadline derivation
// ─────────────────────────────────────────────────────────────────────────────

// Deadline derives the completion deadline for a recorded call.
//
// EMERGENCY calls get a fixed 4-hour window with no calendar adjustment.
// STANDARD calls get 2 business days: the walk starts at the call's calendar
// date in loc, rolled forward to the next business day when the call lands on
// a weekend or at/after the 17:00 cutoff, and the deadline is 17:00 local on
// the 2nd business day strictly after that start.
//
// A call at Friday 16:00 is therefore due Tuesday 17:00 (Monday and Tuesday
// are the two business days); a call at Friday 18:00 starts from Monday and
// is due Wednesday 17:00.
//
// Deadline is a pure function of its inputs; callers that receive an explicit
// completion date from upstream use that verbatim and never call this.
func Deadline(calledAt time.Time, callType types.CallType, loc *time.Location) time.Time {
	if callType == types.CallTypeEmergency {
		return calledAt.Add(emergencyResponseWindow)
	}

	local := calledAt.In(loc)
	start := dateOf(local)
	if !isBusinessDay(start) || local.Hour() >= businessDayCutoffHour {
		start = nextBusinessDay(start)
	}

	due := start
	for i := 0; i < standardBusinessDays; i++ {
		due = nextBusinessDay(due)
	}
	return time.Date(due.Year(), due.Month(), due.Day(), businessDayCutoffHour, 0, 0, 0, loc)
}
