package easypost

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type shipmentList struct {
	Shipments []Shipment `json:"shipments"`
	HasMore   bool       `json:"has_more"`
}

// ListShipments returns the most recent shipments, newest first.
func (c *Client) ListShipments(ctx context.Context, pageSize int) ([]Shipment, error) {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))

	var out shipmentList
	if err := c.do(ctx, http.MethodGet, "/shipments?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.HasMore {
		logPartialPage("/shipments", len(out.Shipments))
	}
	return out.Shipments, nil
}

// GetShipment retrieves a single shipment.
func (c *Client) GetShipment(ctx context.Context, id string) (*Shipment, error) {
	var out Shipment
	if err := c.do(ctx, http.MethodGet, "/shipments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShipment creates an unpurchased shipment; the response carries rates.
func (c *Client) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*Shipment, error) {
	body := map[string]any{"shipment": req}

	var out Shipment
	if err := c.do(ctx, http.MethodPost, "/shipments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyShipment purchases rateID for the shipment. A positive insurance
// amount (dollars) is bought alongside the label.
func (c *Client) BuyShipment(ctx context.Context, shipmentID, rateID string, insurance float64) (*Shipment, error) {
	body := map[string]any{
		"rate": map[string]string{"id": rateID},
	}
	if insurance > 0 {
		body["insurance"] = fmt.Sprintf("%.2f", insurance)
	}

	var out Shipment
	if err := c.do(ctx, http.MethodPost, "/shipments/"+url.PathEscape(shipmentID)+"/buy", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
