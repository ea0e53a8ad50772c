package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/pkg/errors"
	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// Bulk action names, used as metric labels.
const (
	actionCall   = "call"
	actionDelete = "delete"
	actionTag    = "tag"
)

// Coordinator executes the call/tag/delete state transitions against the
// upstream API.  Single actions refetch the record set on success and leave
// local state untouched on failure; bulk actions settle every item
// independently and report aggregate counts.
type Coordinator struct {
	api       UpstreamAPI
	service   *Service
	selection *Selection
	forms     *TagForms
	bulkLimit int
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewCoordinator wires the coordinator.  bulkLimit bounds concurrent
// per-item requests during settle-all execution.
func NewCoordinator(api UpstreamAPI, service *Service, selection *Selection, forms *TagForms, bulkLimit int, logger logging.Logger, metrics *prometheus.AppMetrics) *Coordinator {
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	if bulkLimit < 1 {
		bulkLimit = 1
	}
	return &Coordinator{
		api:       api,
		service:   service,
		selection: selection,
		forms:     forms,
		bulkLimit: bulkLimit,
		logger:    logger.Named("coordinator"),
		metrics:   metrics,
	}
}

// Selection exposes the per-bucket selection state.
func (c *Coordinator) Selection() *Selection { return c.selection }

// TagDefaults returns the profile-seeded tag form.
func (c *Coordinator) TagDefaults() types.TagForm { return c.forms.Defaults() }

// ─────────────────────────────────────────────────────────────────────────────
// Single actions
// ─────────────────────────────────────────────────────────────────────────────

// MarkCalled records a locate call for one work order.  On success the
// record set is refetched so every bucket recomputes; on failure nothing
// local changes and the error is surfaced.
func (c *Coordinator) MarkCalled(ctx context.Context, id string, callType types.CallType) error {
	if !callType.Valid() {
		return errors.New(errors.CodeCallTypeInvalid, "call type must be STANDARD or EMERGENCY").
			WithDetail(string(callType))
	}
	rec, ok := c.service.RecordByID(id)
	if !ok {
		return errors.New(errors.CodeRecordNotFound, "work order not found").WithDetail(id)
	}

	form := c.forms.Defaults()
	req := types.UpdateCallStatusRequest{
		LocatesCalled: true,
		CallType:      string(callType),
		CalledAt:      c.service.clock.Now().UTC().Format(time.RFC3339),
		CalledBy:      form.Name,
		CalledByEmail: form.Email,
	}

	if err := c.api.UpdateCallStatus(ctx, id, req); err != nil {
		c.metrics.BulkItemsTotal.WithLabelValues(actionCall, "failure").Inc()
		return errors.Wrap(err, errors.CodeUnknown, "failed to record locate call")
	}
	c.metrics.BulkItemsTotal.WithLabelValues(actionCall, "success").Inc()

	c.logger.Info("locate call recorded",
		logging.String("record_id", id),
		logging.String("work_order", rec.WorkOrderNumber),
		logging.String("call_type", string(callType)),
	)
	c.refreshAfterMutation(ctx)
	return nil
}

// Tag attaches locates-needed metadata to one work order.  Name and email
// are validated before any network call.
func (c *Coordinator) Tag(ctx context.Context, workOrderNumber string, form types.TagForm) error {
	if workOrderNumber == "" {
		return errors.New(errors.CodeNoWorkOrderNumbers, "work order number is required")
	}
	form = c.forms.Fill(form)
	if err := c.forms.Validate(form); err != nil {
		return err
	}

	req := types.TagRequest{
		WorkOrderNumber: workOrderNumber,
		Name:            form.Name,
		Email:           form.Email,
		Tags:            form.Tags,
	}
	if err := c.api.TagLocates(ctx, req); err != nil {
		c.metrics.BulkItemsTotal.WithLabelValues(actionTag, "failure").Inc()
		return errors.Wrap(err, errors.CodeUnknown, "failed to tag locates")
	}
	c.metrics.BulkItemsTotal.WithLabelValues(actionTag, "success").Inc()

	c.refreshAfterMutation(ctx)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk actions
// ─────────────────────────────────────────────────────────────────────────────

// BulkDelete deletes every selected record in the bucket with independent
// per-item outcomes.  The bucket's selection is cleared regardless of partial
// failure: retried ids must be reselected from refreshed data.  The outcome
// message reads "{n} deleted, {m} failed".
func (c *Coordinator) BulkDelete(ctx context.Context, bucket types.Bucket, ids []string) (types.BulkOutcome, error) {
	if !bucket.Valid() {
		return types.BulkOutcome{}, errors.New(errors.CodeBucketInvalid, "unknown bucket").WithDetail(string(bucket))
	}
	if len(ids) == 0 {
		ids = c.selection.IDs(bucket)
	}
	if len(ids) == 0 {
		return types.BulkOutcome{}, errors.New(errors.CodeSelectionEmpty, "no records selected for deletion")
	}

	outcomes := SettleAll(ctx, ids, c.bulkLimit, func(ctx context.Context, id string) error {
		return c.api.DeleteWorkOrders(ctx, []string{id})
	})

	// Retried ids must come from refreshed data, so the selection is cleared
	// even on partial failure.
	c.selection.Clear(bucket)

	outcome := c.reduce(actionDelete, "deleted", outcomes)
	if outcome.Succeeded > 0 {
		c.refreshAfterMutation(ctx)
	}
	c.logger.Info("bulk delete settled",
		logging.String("bucket", string(bucket)),
		logging.Int("succeeded", outcome.Succeeded),
		logging.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

// BulkTag tags every selected record in the bucket in one upstream request.
// The form is validated and the work-order numbers resolved before any
// network call; an empty resolution rejects the whole operation.
func (c *Coordinator) BulkTag(ctx context.Context, bucket types.Bucket, ids []string, form types.TagForm) (types.BulkOutcome, error) {
	if !bucket.Valid() {
		return types.BulkOutcome{}, errors.New(errors.CodeBucketInvalid, "unknown bucket").WithDetail(string(bucket))
	}
	form = c.forms.Fill(form)
	if err := c.forms.Validate(form); err != nil {
		return types.BulkOutcome{}, err
	}

	if len(ids) == 0 {
		ids = c.selection.IDs(bucket)
	}
	if len(ids) == 0 {
		return types.BulkOutcome{}, errors.New(errors.CodeSelectionEmpty, "no records selected for tagging")
	}
	numbers := c.service.WorkOrderNumbers(ids)
	if len(numbers) == 0 {
		return types.BulkOutcome{}, errors.New(errors.CodeNoWorkOrderNumbers, "selected records have no work order numbers")
	}

	req := types.BulkTagRequest{
		WorkOrderNumbers: numbers,
		Name:             form.Name,
		Email:            form.Email,
		Tags:             form.Tags,
	}
	if err := c.api.BulkTagLocates(ctx, req); err != nil {
		c.metrics.BulkItemsTotal.WithLabelValues(actionTag, "failure").Add(float64(len(numbers)))
		return types.BulkOutcome{}, errors.Wrap(err, errors.CodeUnknown, "failed to bulk tag locates")
	}
	c.metrics.BulkItemsTotal.WithLabelValues(actionTag, "success").Add(float64(len(numbers)))

	c.selection.Clear(bucket)
	c.refreshAfterMutation(ctx)

	n := len(numbers)
	return types.BulkOutcome{
		Attempted: n,
		Succeeded: n,
		Message:   fmt.Sprintf("%d tagged, 0 failed", n),
	}, nil
}

// reduce folds settled outcomes into the aggregate wire shape.
func (c *Coordinator) reduce(action, verb string, outcomes []ItemOutcome[string]) types.BulkOutcome {
	succeeded, failed := CountOutcomes(outcomes)
	out := types.BulkOutcome{
		Attempted: len(outcomes),
		Succeeded: succeeded,
		Failed:    failed,
		Message:   fmt.Sprintf("%d %s, %d failed", succeeded, verb, failed),
	}
	for _, o := range outcomes {
		result := "success"
		if o.Err != nil {
			result = "failure"
			out.Failures = append(out.Failures, types.ItemFailure{ID: o.Item, Error: o.Err.Error()})
		}
		c.metrics.BulkItemsTotal.WithLabelValues(action, result).Inc()
	}
	return out
}

// refreshAfterMutation refetches the record set after a successful mutation.
// A refresh failure is logged, not surfaced: the mutation itself succeeded
// and the staleness loop will retry.
func (c *Coordinator) refreshAfterMutation(ctx context.Context) {
	if err := c.service.Refresh(ctx, TriggerMutation); err != nil {
		c.logger.Warn("post-mutation refresh failed", logging.Err(err))
	}
}
