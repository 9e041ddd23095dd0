package ports

import (
	"context"

	"shipdesk/internal/features/labels/domain"
	shipments "shipdesk/internal/features/shipments/domain"
)

// LabelProvider rates and buys labels.
// This is a Secondary Port (Driven Port).
type LabelProvider interface {
	// QuoteRates returns every quoted rate, cheapest first.
	QuoteRates(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel) ([]domain.RateQuote, error)
	// BuyLowest buys the cheapest rate, with insurance when amount > 0.
	BuyLowest(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel, insurance float64) (*domain.PurchasedLabel, error)
}

// RateCache stores quotes by request. Failures are treated as misses.
type RateCache interface {
	Get(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel) ([]domain.RateQuote, bool)
	Set(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel, rates []domain.RateQuote)
}

// ShipmentRecorder persists a purchased label as a local shipment.
type ShipmentRecorder interface {
	Insert(ctx context.Context, s *shipments.Shipment) (int64, error)
}

// LabelService is the primary port for label operations.
type LabelService interface {
	QuoteRates(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteResponse, error)
	PurchaseLabel(ctx context.Context, req domain.PurchaseRequest) (*domain.Label, error)
}
