package service

import (
	"context"
	"fmt"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/labels/domain"
	"shipdesk/internal/features/labels/ports"
	shipments "shipdesk/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// LabelService quotes and purchases labels.
type LabelService struct {
	provider ports.LabelProvider
	recorder ports.ShipmentRecorder
	cache    ports.RateCache
	shipper  shipments.Address
	now      func() time.Time
	log      *zap.Logger
}

// NewLabelService creates a new LabelService. cache may be nil.
func NewLabelService(provider ports.LabelProvider, recorder ports.ShipmentRecorder, cache ports.RateCache, shipper shipments.Address) *LabelService {
	return &LabelService{
		provider: provider,
		recorder: recorder,
		cache:    cache,
		shipper:  shipper,
		now:      time.Now,
		log:      logger.Named("labels"),
	}
}

func (s *LabelService) sender(from *shipments.Address) shipments.Address {
	if from != nil && from.Street1 != "" {
		return *from
	}
	return s.shipper
}

// QuoteRates returns rates for the request, cheapest first. Quotes are
// served from the cache when available.
func (s *LabelService) QuoteRates(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteResponse, error) {
	if err := domain.ValidateRecipient(req.To); err != nil {
		return nil, err
	}
	parcel, err := req.ParcelType.Preset()
	if err != nil {
		return nil, err
	}
	from := s.sender(req.From)

	if s.cache != nil {
		if rates, ok := s.cache.Get(ctx, from, req.To, parcel); ok {
			return quoteResponse(rates, true), nil
		}
	}

	rates, err := s.provider.QuoteRates(ctx, from, req.To, parcel)
	if err != nil {
		return nil, fmt.Errorf("labels: quote rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, domain.ErrNoRates
	}

	if s.cache != nil {
		s.cache.Set(ctx, from, req.To, parcel, rates)
	}
	return quoteResponse(rates, false), nil
}

func quoteResponse(rates []domain.RateQuote, cached bool) *domain.QuoteResponse {
	resp := &domain.QuoteResponse{Rates: rates, Cached: cached}
	if len(rates) > 0 {
		lowest := rates[0]
		resp.Lowest = &lowest
	}
	return resp
}

// PurchaseLabel buys the cheapest rate and records the shipment locally with
// its provider creation time set to now.
func (s *LabelService) PurchaseLabel(ctx context.Context, req domain.PurchaseRequest) (*domain.Label, error) {
	if err := domain.ValidateRecipient(req.To); err != nil {
		return nil, err
	}
	if req.InsuranceAmount < 0 {
		return nil, domain.ErrInvalidInsurance
	}

	var parcel shipments.Parcel
	if req.Parcel != nil {
		parcel = *req.Parcel
	} else {
		p, err := req.ParcelType.Preset()
		if err != nil {
			return nil, err
		}
		parcel = p
	}
	from := s.sender(req.From)

	bought, err := s.provider.BuyLowest(ctx, from, req.To, parcel, req.InsuranceAmount)
	if err != nil {
		return nil, fmt.Errorf("labels: purchase: %w", err)
	}

	now := s.now().UTC()
	shipment := &shipments.Shipment{
		ProviderID:        bought.ProviderID,
		TrackingCode:      bought.TrackingCode,
		LabelURL:          bought.LabelURL,
		From:              withCountry(from),
		To:                withCountry(req.To),
		Carrier:           bought.Carrier,
		Service:           bought.Service,
		Cost:              bought.Cost,
		Method:            domain.MethodFor(parcel),
		Parcel:            parcel,
		Status:            shipments.StatusCreated,
		ProviderCreatedAt: &now,
		CreatedAt:         now,
	}

	id, err := s.recorder.Insert(ctx, shipment)
	if err != nil {
		// The label is paid for at this point; a later sync pass imports it.
		s.log.Error("Purchased label could not be stored",
			zap.String("provider_id", bought.ProviderID),
			zap.String("tracking_code", bought.TrackingCode),
			zap.Error(err),
		)
		return nil, fmt.Errorf("labels: store purchased label: %w", err)
	}

	s.log.Info("Label purchased",
		zap.Int64("shipment_id", id),
		zap.String("provider_id", bought.ProviderID),
		zap.String("carrier", bought.Carrier),
		zap.String("service", bought.Service),
		zap.Float64("cost", bought.Cost),
	)

	label := &domain.Label{
		ID:           id,
		ProviderID:   bought.ProviderID,
		TrackingCode: bought.TrackingCode,
		LabelURL:     bought.LabelURL,
		ToName:       req.To.Name,
		Carrier:      bought.Carrier,
		Service:      bought.Service,
		Cost:         bought.Cost,
		Method:       shipment.Method,
		CreatedAt:    now,
	}
	if req.InsuranceAmount > 0 {
		amount := req.InsuranceAmount
		label.InsuranceAmount = &amount
	}
	return label, nil
}

func withCountry(a shipments.Address) shipments.Address {
	if a.Country == "" {
		a.Country = "US"
	}
	return a
}
