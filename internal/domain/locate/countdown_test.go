package locate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

func TestFormatCountdown_Expired(t *testing.T) {
	deadline := mar(5, 17, 0)

	for _, now := range []time.Time{deadline, deadline.Add(time.Second), deadline.Add(48 * time.Hour)} {
		got := FormatCountdown(deadline, now, types.CallTypeStandard, time.UTC)
		assert.Equal(t, ExpiredText, got.Text)
		assert.Equal(t, types.UrgencyExpired, got.Urgency)
	}

	// Same rule for emergency deadlines.
	got := FormatCountdown(deadline, deadline, types.CallTypeEmergency, time.UTC)
	assert.Equal(t, ExpiredText, got.Text)
}

func TestFormatCountdown_Emergency(t *testing.T) {
	deadline := mar(5, 12, 0)

	tests := []struct {
		name    string
		now     time.Time
		text    string
		urgency types.Urgency
	}{
		{"hours remaining", deadline.Add(-(3*time.Hour + 25*time.Minute)), "3h 25m", types.UrgencyNormal},
		{"just over an hour", deadline.Add(-(time.Hour + time.Second)), "1h 0m", types.UrgencyNormal},
		{"under an hour", deadline.Add(-45 * time.Minute), "45m 0s", types.UrgencyWarning},
		{"twenty minutes left", deadline.Add(-20 * time.Minute), "20m 0s", types.UrgencyCritical},
		{"seconds only", deadline.Add(-45 * time.Second), "45s", types.UrgencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCountdown(deadline, tt.now, types.CallTypeEmergency, time.UTC)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.urgency, got.Urgency)
		})
	}
}

func TestFormatCountdown_Standard(t *testing.T) {
	deadline := mar(5, 17, 0) // Tuesday 17:00

	tests := []struct {
		name    string
		now     time.Time
		text    string
		urgency types.Urgency
	}{
		{"due today", mar(5, 10, 0), "7h remaining today", types.UrgencyWarning},
		{"one business day", mar(4, 10, 0), "1 business day", types.UrgencyWarning},
		{"weekend rolls to monday as the current day", mar(2, 10, 0), "1 business day", types.UrgencyWarning},
		{"friday still has two business days", mar(1, 10, 0), "2 business days", types.UrgencyNormal},
		{"friday after cutoff drops to one", mar(1, 18, 0), "1 business day", types.UrgencyWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCountdown(deadline, tt.now, types.CallTypeStandard, time.UTC)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.urgency, got.Urgency)
		})
	}
}

func TestFormatCountdown_HoursOnlyOnDeadlineDay(t *testing.T) {
	deadline := mar(4, 17, 0) // Monday 17:00

	// Saturday's effective day is already Monday, but the hour form would
	// read "55h remaining today"; earlier calendar days get the day form.
	got := FormatCountdown(deadline, mar(2, 10, 0), types.CallTypeStandard, time.UTC)
	assert.Equal(t, "1 business day", got.Text)
	assert.Equal(t, types.UrgencyWarning, got.Urgency)

	// Friday after cutoff rolls the same way.
	got = FormatCountdown(deadline, mar(1, 18, 0), types.CallTypeStandard, time.UTC)
	assert.Equal(t, "1 business day", got.Text)

	// On the deadline day itself the text collapses to hours.
	got = FormatCountdown(deadline, mar(4, 9, 0), types.CallTypeStandard, time.UTC)
	assert.Equal(t, "8h remaining today", got.Text)
	assert.Equal(t, types.UrgencyWarning, got.Urgency)
}

func TestFormatCountdown_Idempotent(t *testing.T) {
	deadline := mar(5, 17, 0)
	now := mar(4, 11, 30)

	first := FormatCountdown(deadline, now, types.CallTypeStandard, time.UTC)
	second := FormatCountdown(deadline, now, types.CallTypeStandard, time.UTC)
	assert.Equal(t, first, second)
}
