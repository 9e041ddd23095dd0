package domain

import (
	"errors"
	"time"
)

var (
	// ErrScanFormNotFound is returned when no local scan form matches.
	ErrScanFormNotFound = errors.New("scan form not found")
	// ErrNoShipments is returned when a scan form is requested for no shipments.
	ErrNoShipments = errors.New("no shipments selected")
	// ErrUnknownShipment is returned when a requested shipment id does not exist.
	ErrUnknownShipment = errors.New("unknown shipment")
	// ErrCardShipment is returned when a card mailer is selected. Card mailers are untracked and cannot be manifested.
	ErrCardShipment = errors.New("card shipments cannot be added to a scan form")
	// ErrAlreadyManifested is returned when a selected shipment already has a manifest.
	ErrAlreadyManifested = errors.New("shipment is already manifested")
)

// ScanForm is a USPS manifest stored locally.
type ScanForm struct {
	ID            int64     `json:"id"`
	ProviderID    string    `json:"easypost_id"`
	Status        string    `json:"status"`
	FormURL       string    `json:"form_url"`
	TrackingCodes []string  `json:"tracking_codes"`
	ShipmentCount int       `json:"shipment_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProviderScanForm is a scan form as reported by EasyPost.
type ProviderScanForm struct {
	ID            string
	Status        string
	FormURL       string
	TrackingCodes []string
	// CreatedAt is the raw provider timestamp; empty when absent.
	CreatedAt string
}

// CreateRequest selects local shipments for a new scan form.
type CreateRequest struct {
	ShipmentIDs []int64 `json:"shipment_ids"`
}

// SyncResult reports one scan form sync pass.
type SyncResult struct {
	Imported      int `json:"imported"`
	Updated       int `json:"updated"`
	TotalExamined int `json:"total_examined"`
}
