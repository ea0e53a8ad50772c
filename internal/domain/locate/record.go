// Package locate holds the core domain model of the SLA tracking engine:
// the normalized locate record, deadline derivation, countdown formatting,
// and bucket classification.  Everything here is pure computation over
// (record, now); no I/O, no ambient time.
package locate

import (
	"strings"
	"time"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// Address is the parsed form of the upstream customer address string.
// When parsing fails, Street carries the raw input and the other fields
// stay empty.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Record is one normalized locate request.  Records are derived per refresh
// and never persisted; expiry and bucket membership are recomputed from
// (record, now) on demand.
type Record struct {
	ID              string
	WorkOrderNumber string
	CustomerName    string
	Address         Address
	TechName        string
	PriorityName    string

	// NeedsCall is true iff the upstream priority label is EXCAVATOR.
	NeedsCall bool

	// CallType is the SLA rule governing this record.  Before a call it is
	// the type the call would be made under, derived from the upstream
	// type/priority labels; after a call it is the stored value.
	CallType types.CallType

	LocatesCalled bool
	CalledAt      *time.Time
	CalledByName  string
	CalledByEmail string

	// CompletionDeadline is present once a call has been recorded with a
	// parsable timestamp, or when upstream supplies one directly.
	CompletionDeadline *time.Time

	CreatedAt *time.Time

	Tags           string
	ManuallyTagged bool
	TaggedByName   string
	TaggedByEmail  string
}

// IsExpired reports whether the record's deadline exists and is at or before
// now.  Records without a deadline never expire.
func (r *Record) IsExpired(now time.Time) bool {
	return r.CompletionDeadline != nil && !r.CompletionDeadline.After(now)
}

// MatchesSearch reports whether term is a case-insensitive substring of the
// work-order number, customer name, street, city, or technician name.
// An empty term matches everything.
func (r *Record) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{
		r.WorkOrderNumber,
		r.CustomerName,
		r.Address.Street,
		r.Address.City,
		r.TechName,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
