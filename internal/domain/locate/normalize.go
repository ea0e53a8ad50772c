package locate

import (
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// excavatorPriority is the upstream priority label that marks a work order as
// needing a locate call.
const excavatorPriority = "EXCAVATOR"

// timestampLayouts are tried in order when parsing upstream time strings.
// The collaborator API is not consistent about its formats.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an upstream time string, interpreting zone-less
// layouts in loc.  Returns nil for empty or unparsable input.
func parseTimestamp(raw string, loc *time.Location) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z") {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, loc)
		}
		if err == nil {
			return &t
		}
	}
	return nil
}

// Normalizer flattens raw dashboard payloads into the uniform Record shape.
// It runs once per refresh, never per tick.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer returns a Normalizer whose zone-less timestamps and
// business-day arithmetic use loc.
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc}
}

// Normalize flattens every work order in parents into Records.  Work orders
// that neither need a call nor have one recorded carry no SLA state and are
// dropped.  Normalization never fails: malformed fields degrade per record
// and bad timestamps fall back to the not-yet-called state.
func (n *Normalizer) Normalize(parents []types.DashboardParent) []Record {
	var records []Record
	for _, parent := range parents {
		for _, wo := range parent.WorkOrders {
			if rec, ok := n.normalizeOne(wo); ok {
				records = append(records, rec)
			}
		}
	}
	return records
}

func (n *Normalizer) normalizeOne(wo types.WorkOrder) (Record, bool) {
	needsCall := strings.EqualFold(strings.TrimSpace(wo.PriorityName), excavatorPriority)
	if !needsCall && !wo.LocatesCalled {
		return Record{}, false
	}

	rec := Record{
		ID:              wo.ID,
		WorkOrderNumber: wo.WorkOrderNumber,
		CustomerName:    wo.CustomerName,
		Address:         ParseAddress(wo.CustomerAddress),
		TechName:        wo.TechName,
		PriorityName:    wo.PriorityName,
		NeedsCall:       needsCall,
		LocatesCalled:   wo.LocatesCalled,
		CalledByName:    wo.CalledBy,
		CalledByEmail:   wo.CalledByEmail,
		CreatedAt:       parseTimestamp(wo.CreatedDate, n.loc),
		Tags:            wo.Tags,
		ManuallyTagged:  wo.ManuallyTagged,
		TaggedByName:    wo.TaggedBy,
		TaggedByEmail:   wo.TaggedByEmail,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	rec.CallType = deriveCallType(wo)

	if wo.LocatesCalled {
		rec.CalledAt = parseTimestamp(wo.CalledAt, n.loc)
		if rec.CalledAt == nil {
			// Fail-safe: a call with no usable timestamp gets no derived
			// deadline and classifies as not-yet-called rather than
			// in-progress forever.
			rec.LocatesCalled = false
		}
	}

	// Upstream-supplied completion date wins over recomputation.
	if deadline := parseTimestamp(wo.CompletionDate, n.loc); deadline != nil {
		rec.CompletionDeadline = deadline
	} else if rec.LocatesCalled && rec.CallType.Valid() {
		d := Deadline(*rec.CalledAt, rec.CallType, n.loc)
		rec.CompletionDeadline = &d
	}

	return rec, true
}

// deriveCallType picks the SLA rule for a work order.  Once a call has been
// recorded the stored type is authoritative; before that the type is inferred
// from the upstream type/priority labels, with EMERGENCY anywhere in either
// label taking precedence.
func deriveCallType(wo types.WorkOrder) types.CallType {
	if wo.LocatesCalled {
		if ct := types.CallType(strings.ToUpper(strings.TrimSpace(wo.CallType))); ct.Valid() {
			return ct
		}
	}
	if containsEmergency(wo.Type) || containsEmergency(wo.PriorityName) {
		return types.CallTypeEmergency
	}
	return types.CallTypeStandard
}

func containsEmergency(s string) bool {
	return strings.Contains(strings.ToUpper(s), string(types.CallTypeEmergency))
}
