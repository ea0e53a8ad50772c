package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldlink/locate-sla/internal/application/tracking"
	"github.com/fieldlink/locate-sla/internal/domain/locate"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// LocatesHandler serves the dashboard buckets, selection state, and the
// call/tag/delete actions.
type LocatesHandler struct {
	service     *tracking.Service
	coordinator *tracking.Coordinator
}

// NewLocatesHandler wires the handler.
func NewLocatesHandler(service *tracking.Service, coordinator *tracking.Coordinator) *LocatesHandler {
	return &LocatesHandler{service: service, coordinator: coordinator}
}

// ─────────────────────────────────────────────────────────────────────────────
// Buckets
// ─────────────────────────────────────────────────────────────────────────────

// GetBuckets returns the three bucketed lists with live countdowns.
// Query parameters: search (substring filter on the Needs Call bucket) and
// untagged_only (bool).
func (h *LocatesHandler) GetBuckets(c *gin.Context) {
	filter := locate.Filter{Search: c.Query("search")}
	if raw := c.Query("untagged_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, errors.InvalidParam("untagged_only must be a boolean"))
			return
		}
		filter.UntaggedOnly = v
	}
	respond(c, http.StatusOK, h.service.Snapshot(filter))
}

// Refresh triggers an upstream dashboard resync followed by a refetch.
func (h *LocatesHandler) Refresh(c *gin.Context) {
	if err := h.service.Sync(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "refreshed"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Single actions
// ─────────────────────────────────────────────────────────────────────────────

type callRequest struct {
	CallType types.CallType `json:"call_type"`
}

// Call records a locate call for one work order.
func (h *LocatesHandler) Call(c *gin.Context) {
	var req callRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.coordinator.MarkCalled(c.Request.Context(), c.Param("id"), req.CallType); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "called"})
}

type tagRequest struct {
	WorkOrderNumber string `json:"work_order_number"`
	types.TagForm
}

// Tag attaches locates-needed metadata to one work order.
func (h *LocatesHandler) Tag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.coordinator.Tag(c.Request.Context(), req.WorkOrderNumber, req.TagForm); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "tagged"})
}

// TagDefaults returns the profile-seeded tag form for dialog pre-population.
func (h *LocatesHandler) TagDefaults(c *gin.Context) {
	respond(c, http.StatusOK, h.coordinator.TagDefaults())
}

// ─────────────────────────────────────────────────────────────────────────────
// Selection
// ─────────────────────────────────────────────────────────────────────────────

func bucketParam(c *gin.Context) (types.Bucket, bool) {
	bucket := types.Bucket(c.Param("bucket"))
	if !bucket.Valid() {
		respondError(c, errors.New(errors.CodeBucketInvalid, "unknown bucket").WithDetail(c.Param("bucket")))
		return "", false
	}
	return bucket, true
}

// GetSelection returns the bucket's selected ids.
func (h *LocatesHandler) GetSelection(c *gin.Context) {
	bucket, ok := bucketParam(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, h.coordinator.Selection().View(bucket))
}

type replaceSelectionRequest struct {
	IDs []string `json:"ids"`
}

// ReplaceSelection overwrites the bucket's selection.
func (h *LocatesHandler) ReplaceSelection(c *gin.Context) {
	bucket, ok := bucketParam(c)
	if !ok {
		return
	}
	var req replaceSelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.coordinator.Selection().Replace(bucket, req.IDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, h.coordinator.Selection().View(bucket))
}

// ClearSelection empties the bucket's selection.
func (h *LocatesHandler) ClearSelection(c *gin.Context) {
	bucket, ok := bucketParam(c)
	if !ok {
		return
	}
	h.coordinator.Selection().Clear(bucket)
	respond(c, http.StatusOK, h.coordinator.Selection().View(bucket))
}

type toggleRequest struct {
	ID string `json:"id"`
}

// ToggleSelection flips one id in the bucket's selection.
func (h *LocatesHandler) ToggleSelection(c *gin.Context) {
	bucket, ok := bucketParam(c)
	if !ok {
		return
	}
	var req toggleRequest
	if !bindJSON(c, &req) {
		return
	}
	selected, err := h.coordinator.Selection().Toggle(bucket, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": req.ID, "selected": selected})
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk actions
// ─────────────────────────────────────────────────────────────────────────────

type bulkDeleteRequest struct {
	Bucket types.Bucket `json:"bucket"`
	IDs    []string     `json:"ids"`
}

// BulkDelete deletes the given ids (or the bucket's current selection) with
// settle-all semantics.  Partial failure responds 207 with per-item failures.
func (h *LocatesHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	outcome, err := h.coordinator.BulkDelete(c.Request.Context(), req.Bucket, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, bulkStatus(outcome), outcome)
}

type bulkTagRequest struct {
	Bucket types.Bucket `json:"bucket"`
	IDs    []string     `json:"ids"`
	types.TagForm
}

// BulkTag tags the given ids (or the bucket's current selection) in one
// upstream request.
func (h *LocatesHandler) BulkTag(c *gin.Context) {
	var req bulkTagRequest
	if !bindJSON(c, &req) {
		return
	}
	outcome, err := h.coordinator.BulkTag(c.Request.Context(), req.Bucket, req.IDs, req.TagForm)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, bulkStatus(outcome), outcome)
}

// bulkStatus maps a settled outcome to its HTTP status: all-success 200,
// partial failure 207, total failure 502.
func bulkStatus(outcome types.BulkOutcome) int {
	switch {
	case outcome.Failed == 0:
		return http.StatusOK
	case outcome.Succeeded == 0:
		return http.StatusBadGateway
	default:
		return http.StatusMultiStatus
	}
}
