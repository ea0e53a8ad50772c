package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	types "github.com/fieldlink/locate-sla/pkg/types/locate"
)

// LocatesClient exposes the locate tracking surface.
type LocatesClient struct {
	client *Client
}

// Buckets fetches the three bucketed lists with live countdowns.  search
// filters the Needs Call bucket by substring; untaggedOnly drops manually
// tagged records from it.
func (lc *LocatesClient) Buckets(ctx context.Context, search string, untaggedOnly bool) (*types.BucketsView, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if untaggedOnly {
		q.Set("untagged_only", "true")
	}
	path := "/api/v1/locates/buckets"
	if len(q) > 0 {
		path = path + "?" + q.Encode()
	}

	var view types.BucketsView
	if err := lc.client.get(ctx, path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Refresh triggers an upstream dashboard resync followed by a refetch.
func (lc *LocatesClient) Refresh(ctx context.Context) error {
	return lc.client.post(ctx, "/api/v1/locates/refresh", nil, nil)
}

// MarkCalled records a locate call for one work order.
func (lc *LocatesClient) MarkCalled(ctx context.Context, id string, callType types.CallType) error {
	path := fmt.Sprintf("/api/v1/locates/work-orders/%s/call", url.PathEscape(id))
	body := map[string]types.CallType{"call_type": callType}
	return lc.client.post(ctx, path, body, nil)
}

// Tag attaches locates-needed metadata to one work order.  Blank name/email
// fields fall back to the server's configured profile.
func (lc *LocatesClient) Tag(ctx context.Context, workOrderNumber string, form types.TagForm) error {
	body := struct {
		WorkOrderNumber string `json:"work_order_number"`
		types.TagForm
	}{WorkOrderNumber: workOrderNumber, TagForm: form}
	return lc.client.post(ctx, "/api/v1/locates/tag", body, nil)
}

// TagDefaults fetches the profile-seeded tag form.
func (lc *LocatesClient) TagDefaults(ctx context.Context) (*types.TagForm, error) {
	var form types.TagForm
	if err := lc.client.get(ctx, "/api/v1/locates/tag-defaults", &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// Selection returns the bucket's selected ids.
func (lc *LocatesClient) Selection(ctx context.Context, bucket types.Bucket) (*types.SelectionView, error) {
	var view types.SelectionView
	if err := lc.client.get(ctx, selectionPath(bucket), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ReplaceSelection overwrites the bucket's selection.
func (lc *LocatesClient) ReplaceSelection(ctx context.Context, bucket types.Bucket, ids []string) error {
	body := map[string][]string{"ids": ids}
	return lc.client.post(ctx, selectionPath(bucket), body, nil)
}

// ClearSelection empties the bucket's selection.
func (lc *LocatesClient) ClearSelection(ctx context.Context, bucket types.Bucket) error {
	return lc.client.delete(ctx, selectionPath(bucket), nil)
}

// ToggleSelection flips one id in the bucket's selection and reports whether
// it is selected afterwards.
func (lc *LocatesClient) ToggleSelection(ctx context.Context, bucket types.Bucket, id string) (bool, error) {
	var resp struct {
		Selected bool `json:"selected"`
	}
	body := map[string]string{"id": id}
	if err := lc.client.post(ctx, selectionPath(bucket)+"/toggle", body, &resp); err != nil {
		return false, err
	}
	return resp.Selected, nil
}

// BulkDelete deletes ids (or the bucket's server-side selection when ids is
// empty).  A partial failure is returned as an outcome, not an error.
func (lc *LocatesClient) BulkDelete(ctx context.Context, bucket types.Bucket, ids []string) (*types.BulkOutcome, error) {
	body := struct {
		Bucket types.Bucket `json:"bucket"`
		IDs    []string     `json:"ids,omitempty"`
	}{Bucket: bucket, IDs: ids}
	return lc.bulk(ctx, "/api/v1/locates/bulk-delete", body)
}

// BulkTag tags ids (or the bucket's server-side selection when ids is empty).
func (lc *LocatesClient) BulkTag(ctx context.Context, bucket types.Bucket, ids []string, form types.TagForm) (*types.BulkOutcome, error) {
	body := struct {
		Bucket types.Bucket `json:"bucket"`
		IDs    []string     `json:"ids,omitempty"`
		types.TagForm
	}{Bucket: bucket, IDs: ids, TagForm: form}
	return lc.bulk(ctx, "/api/v1/locates/bulk-tag", body)
}

// bulk posts a bulk action and decodes the settled outcome.  200 and 207
// both carry an outcome body; other statuses are API errors.
func (lc *LocatesClient) bulk(ctx context.Context, path string, body interface{}) (*types.BulkOutcome, error) {
	status, respBody, err := lc.client.doRaw(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusMultiStatus {
		return nil, apiError(status, respBody)
	}
	var outcome types.BulkOutcome
	if err := json.Unmarshal(respBody, &outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bulk outcome: %w", err)
	}
	return &outcome, nil
}

func selectionPath(bucket types.Bucket) string {
	return "/api/v1/locates/selection/" + url.PathEscape(string(bucket))
}
