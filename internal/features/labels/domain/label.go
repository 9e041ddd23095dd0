package domain

import (
	"errors"
	"time"

	shipments "shipdesk/internal/features/shipments/domain"
)

var (
	// ErrNoRates is returned when the provider quotes no usable rate.
	ErrNoRates = errors.New("no rates available for this shipment")
	// ErrInvalidParcelType is returned for an unknown parcel preset.
	ErrInvalidParcelType = errors.New("invalid parcel type: must be card or standard")
	// ErrInvalidAddress is returned when the recipient address is incomplete.
	ErrInvalidAddress = errors.New("recipient name, street1, city, state and zip are required")
	// ErrInvalidInsurance is returned for a negative insurance amount.
	ErrInvalidInsurance = errors.New("insurance amount cannot be negative")
)

// ParcelType selects a parcel preset.
type ParcelType string

const (
	// ParcelCard is a card mailer (EasyPost predefined "card", 3 oz).
	ParcelCard ParcelType = "card"
	// ParcelStandard is a flat 6 x 4.5 x 0.016 in, 5 oz package.
	ParcelStandard ParcelType = "standard"
)

// Preset returns the parcel for t. An empty type means card.
func (t ParcelType) Preset() (shipments.Parcel, error) {
	switch t {
	case ParcelCard, "":
		return shipments.Parcel{PredefinedPackage: shipments.CardPackage, Weight: 3}, nil
	case ParcelStandard:
		length, width, height := 6.0, 4.5, 0.016
		return shipments.Parcel{Length: &length, Width: &width, Height: &height, Weight: 5}, nil
	default:
		return shipments.Parcel{}, ErrInvalidParcelType
	}
}

// MethodFor classifies a purchased parcel. Only card mailers are untracked.
func MethodFor(p shipments.Parcel) shipments.Method {
	if p.PredefinedPackage == shipments.CardPackage {
		return shipments.MethodCard
	}
	return shipments.MethodTracked
}

// ValidateRecipient checks the fields EasyPost needs to rate an address.
func ValidateRecipient(a shipments.Address) error {
	if a.Name == "" || a.Street1 == "" || a.City == "" || a.State == "" || a.Zip == "" {
		return ErrInvalidAddress
	}
	return nil
}

// RateQuote is one carrier quote.
type RateQuote struct {
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Rate         float64 `json:"rate"`
	DeliveryDays *int    `json:"delivery_days,omitempty"`
}

// QuoteRequest asks for rates without buying.
type QuoteRequest struct {
	From       *shipments.Address `json:"from_address,omitempty"`
	To         shipments.Address  `json:"to_address"`
	ParcelType ParcelType         `json:"parcel_type"`
}

// QuoteResponse lists rates cheapest first.
type QuoteResponse struct {
	Rates  []RateQuote `json:"rates"`
	Lowest *RateQuote  `json:"lowest_rate,omitempty"`
	Cached bool        `json:"cached"`
}

// PurchaseRequest buys a label at the lowest rate.
type PurchaseRequest struct {
	From       *shipments.Address `json:"from_address,omitempty"`
	To         shipments.Address  `json:"to_address"`
	ParcelType ParcelType         `json:"parcel_type"`
	// Parcel overrides the preset when set.
	Parcel *shipments.Parcel `json:"parcel,omitempty"`
	// InsuranceAmount in dollars; zero means uninsured.
	InsuranceAmount float64 `json:"insurance_amount,omitempty"`
}

// PurchasedLabel is what the provider returns for a bought label.
type PurchasedLabel struct {
	ProviderID   string
	TrackingCode string
	LabelURL     string
	Carrier      string
	Service      string
	Cost         float64
}

// Label is the stored result of a purchase.
type Label struct {
	ID              int64            `json:"id"`
	ProviderID      string           `json:"easypost_id"`
	TrackingCode    string           `json:"tracking_code"`
	LabelURL        string           `json:"label_url"`
	ToName          string           `json:"to_name"`
	Carrier         string           `json:"carrier"`
	Service         string           `json:"service"`
	Cost            float64          `json:"cost"`
	Method          shipments.Method `json:"method"`
	InsuranceAmount *float64         `json:"insurance_amount,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
