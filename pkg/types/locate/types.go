// Package locate defines the wire-level types shared by the upstream
// collaborator client, the exposed HTTP surface, and the Go SDK.  No business
// logic lives here — only plain data shapes.
package locate

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// CallType distinguishes the two SLA rules a locate call can fall under.
type CallType string

const (
	// CallTypeStandard gives the locating company 2 business days to respond.
	CallTypeStandard CallType = "STANDARD"

	// CallTypeEmergency gives the locating company 4 clock hours to respond.
	CallTypeEmergency CallType = "EMERGENCY"
)

// Valid reports whether the CallType is one of the two known values.
func (c CallType) Valid() bool {
	return c == CallTypeStandard || c == CallTypeEmergency
}

// Urgency is the severity tier attached to a countdown, ordered from least to
// most severe.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
	UrgencyExpired  Urgency = "expired"
)

// Bucket identifies one of the three mutually exclusive life-cycle buckets.
type Bucket string

const (
	BucketNeedsCall  Bucket = "needs_call"
	BucketInProgress Bucket = "in_progress"
	BucketCompleted  Bucket = "completed"
)

// Buckets lists all buckets in display order.
var Buckets = []Bucket{BucketNeedsCall, BucketInProgress, BucketCompleted}

// Valid reports whether the Bucket is one of the three known values.
func (b Bucket) Valid() bool {
	switch b {
	case BucketNeedsCall, BucketInProgress, BucketCompleted:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Upstream collaborator API shapes
// ─────────────────────────────────────────────────────────────────────────────

// WorkOrder is a single work order as returned inside a dashboard parent
// record by GET /locates/all-locates.  Timestamps travel as strings and are
// parsed defensively by the normalizer; a malformed value never fails the
// whole payload.
type WorkOrder struct {
	ID              string `json:"id"`
	WorkOrderNumber string `json:"workOrderNumber"`
	CustomerName    string `json:"customerName"`
	CustomerAddress string `json:"customerAddress"`
	Type            string `json:"type"`
	PriorityName    string `json:"priorityName"`
	TechName        string `json:"techName"`
	CreatedDate     string `json:"createdDate"`
	CompletedDate   string `json:"completedDate"`

	LocatesCalled  bool   `json:"locatesCalled"`
	CallType       string `json:"callType"`
	CalledAt       string `json:"calledAt"`
	CalledBy       string `json:"calledBy"`
	CalledByEmail  string `json:"calledByEmail"`
	CompletionDate string `json:"completionDate"`

	Tags           string `json:"tags"`
	ManuallyTagged bool   `json:"manuallyTagged"`
	TaggedBy       string `json:"taggedBy"`
	TaggedByEmail  string `json:"taggedByEmail"`
}

// DashboardParent is one parent record from GET /locates/all-locates; each
// parent carries the work orders that share a dispatch.
type DashboardParent struct {
	ID         string      `json:"id"`
	WorkOrders []WorkOrder `json:"workOrders"`
}

// UpdateCallStatusRequest is the body of
// PATCH /locates/work-order/{id}/update-call-status.  Idempotent per id.
type UpdateCallStatusRequest struct {
	LocatesCalled bool   `json:"locatesCalled"`
	CallType      string `json:"callType"`
	CalledAt      string `json:"calledAt"`
	CalledBy      string `json:"calledBy,omitempty"`
	CalledByEmail string `json:"calledByEmail,omitempty"`
}

// BulkDeleteRequest is the body of DELETE /locates/work-order/bulk-delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// TagRequest is the body of POST /locates/tag-locates-needed.
type TagRequest struct {
	WorkOrderNumber string `json:"workOrderNumber"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Tags            string `json:"tags"`
}

// BulkTagRequest is the body of POST /locates/bulk-tag-locates-needed.
type BulkTagRequest struct {
	WorkOrderNumbers []string `json:"workOrderNumbers"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Tags             string   `json:"tags"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Exposed surface shapes
// ─────────────────────────────────────────────────────────────────────────────

// RecordView is a single locate record as presented to the UI: the normalized
// fields plus the live countdown computed against the clock at render time.
type RecordView struct {
	ID              string `json:"id"`
	WorkOrderNumber string `json:"work_order_number"`
	CustomerName    string `json:"customer_name"`
	Street          string `json:"street"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
	TechName        string `json:"tech_name"`
	PriorityName    string `json:"priority_name"`

	CallType           CallType   `json:"call_type,omitempty"`
	LocatesCalled      bool       `json:"locates_called"`
	CalledAt           *time.Time `json:"called_at,omitempty"`
	CalledByName       string     `json:"called_by_name,omitempty"`
	CalledByEmail      string     `json:"called_by_email,omitempty"`
	CompletionDeadline *time.Time `json:"completion_deadline,omitempty"`

	Tags           string `json:"tags,omitempty"`
	ManuallyTagged bool   `json:"manually_tagged"`
	TaggedByName   string `json:"tagged_by_name,omitempty"`
	TaggedByEmail  string `json:"tagged_by_email,omitempty"`

	Countdown string  `json:"countdown"`
	Urgency   Urgency `json:"urgency"`
}

// BucketsView is the full dashboard payload: the three bucketed, sorted lists
// and the instant they were computed at.
type BucketsView struct {
	NeedsCall   []RecordView `json:"needs_call"`
	InProgress  []RecordView `json:"in_progress"`
	Completed   []RecordView `json:"completed"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ItemFailure records one failed item of a bulk operation.
type ItemFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkOutcome aggregates a settle-all bulk operation.  Succeeded+Failed always
// equals Attempted; Message is the human-readable summary shown to operators
// (e.g. "3 deleted, 1 failed").
type BulkOutcome struct {
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Message   string        `json:"message"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

// TagForm carries the tagging dialog fields.  Name and Email must be non-empty
// before any network call is made.
type TagForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Tags  string `json:"tags"`
}

// SelectionView reports the current selection for one bucket.
type SelectionView struct {
	Bucket Bucket   `json:"bucket"`
	IDs    []string `json:"ids"`
}
