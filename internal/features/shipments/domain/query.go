package domain

import "time"

// Page size bounds for listing.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter narrows a shipment listing. Zero values mean "no filter".
type ListFilter struct {
	// Search matches recipient name, tracking code or recipient city, case-insensitively.
	Search  string
	Method  Method
	Carrier string
	// Manifested is nil for any, otherwise restricts to manifested or not.
	Manifested *bool
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// Normalize applies paging defaults and bounds.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Offset is the row offset of the page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ShipmentPage is one page of a listing.
type ShipmentPage struct {
	Shipments  []Shipment `json:"shipments"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalShipments    int     `json:"total_shipments"`
	TotalCost         float64 `json:"total_cost"`
	ShipmentsToday    int     `json:"shipments_today"`
	CostToday         float64 `json:"cost_today"`
	ShipmentsThisWeek int     `json:"shipments_this_week"`
	CostThisWeek      float64 `json:"cost_this_week"`
	CardShipments     int     `json:"card_shipments"`
	TrackedShipments  int     `json:"tracked_shipments"`
}
