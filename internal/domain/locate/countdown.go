package locate

import (
	"fmt"
	"time"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// Urgency thresholds for EMERGENCY countdowns.
const (
	criticalThreshold = 30 * time.Minute
	warningThreshold  = time.Hour
)

// ExpiredText is the display text for any deadline at or before now.
const ExpiredText = "EXPIRED"

// Countdown is the render-ready remaining-time display for one record.
type Countdown struct {
	Text    string
	Urgency types.Urgency
}

// FormatCountdown renders the time remaining until deadline as seen at now.
//
// EMERGENCY countdowns show clock time ("1h 23m", then "23m 45s", then
// "45s") and escalate at 60 and 30 minutes remaining.  STANDARD countdowns
// show whole business days remaining, walking forward from now with the same
// weekend and 17:00-cutoff rule the deadline derivation uses; once the
// deadline day arrives the text collapses to hours ("5h remaining today").
//
// The function is pure and O(business-days-remaining), so calling it for
// every visible record on a 1-second tick is cheap.
func FormatCountdown(deadline, now time.Time, callType types.CallType, loc *time.Location) Countdown {
	if !deadline.After(now) {
		return Countdown{Text: ExpiredText, Urgency: types.UrgencyExpired}
	}
	if callType == types.CallTypeEmergency {
		return emergencyCountdown(deadline.Sub(now))
	}
	return standardCountdown(deadline, now, loc)
}

func emergencyCountdown(remaining time.Duration) Countdown {
	h := int(remaining.Hours())
	m := int(remaining.Minutes()) % 60
	s := int(remaining.Seconds()) % 60

	var text string
	switch {
	case remaining >= time.Hour:
		text = fmt.Sprintf("%dh %dm", h, m)
	case remaining >= time.Minute:
		text = fmt.Sprintf("%dm %ds", m, s)
	default:
		text = fmt.Sprintf("%ds", s)
	}

	urgency := types.UrgencyNormal
	switch {
	case remaining <= criticalThreshold:
		urgency = types.UrgencyCritical
	case remaining <= warningThreshold:
		urgency = types.UrgencyWarning
	}
	return Countdown{Text: text, Urgency: urgency}
}

func standardCountdown(deadline, now time.Time, loc *time.Location) Countdown {
	nowLocal := now.In(loc)
	target := dateOf(deadline.In(loc))

	// Today only counts when it is a business day with working hours left.
	cursor := dateOf(nowLocal)
	if !isBusinessDay(cursor) || nowLocal.Hour() >= businessDayCutoffHour {
		cursor = nextBusinessDay(cursor)
	}

	days := 0
	for cursor.Before(target) {
		cursor = nextBusinessDay(cursor)
		days++
	}

	switch days {
	case 0:
		// Hours wording applies only on the deadline day itself.  A weekend
		// or post-cutoff viewer whose effective day rolled onto the deadline
		// day sees the day form, not a multi-day hour count.
		if dateOf(nowLocal).Before(target) {
			return Countdown{Text: "1 business day", Urgency: types.UrgencyWarning}
		}
		hours := int(deadline.Sub(now).Hours())
		if hours < 1 {
			hours = 1
		}
		return Countdown{
			Text:    fmt.Sprintf("%dh remaining today", hours),
			Urgency: types.UrgencyWarning,
		}
	case 1:
		return Countdown{Text: "1 business day", Urgency: types.UrgencyWarning}
	default:
		return Countdown{
			Text:    fmt.Sprintf("%d business days", days),
			Urgency: types.UrgencyNormal,
		}
	}
}
