package easypost

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type scanFormList struct {
	ScanForms []ScanForm `json:"scan_forms"`
	HasMore   bool       `json:"has_more"`
}

type shipmentID struct {
	ID string `json:"id"`
}

// CreateScanForm manifests the given purchased shipments.
func (c *Client) CreateScanForm(ctx context.Context, shipmentIDs []string) (*ScanForm, error) {
	refs := make([]shipmentID, 0, len(shipmentIDs))
	for _, id := range shipmentIDs {
		refs = append(refs, shipmentID{ID: id})
	}
	body := map[string]any{"shipments": refs}

	var out ScanForm
	if err := c.do(ctx, http.MethodPost, "/scan_forms", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListScanForms returns the most recent scan forms.
func (c *Client) ListScanForms(ctx context.Context, pageSize int) ([]ScanForm, error) {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))

	var out scanFormList
	if err := c.do(ctx, http.MethodGet, "/scan_forms?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.HasMore {
		logPartialPage("/scan_forms", len(out.ScanForms))
	}
	return out.ScanForms, nil
}
