package adapters

import (
	"context"
	"errors"
	"fmt"

	"shipdesk/internal/core/easypost"
	"shipdesk/internal/features/shipments/domain"
)

// ShipmentAPI is the part of the EasyPost client the source needs.
type ShipmentAPI interface {
	ListShipments(ctx context.Context, pageSize int) ([]easypost.Shipment, error)
	GetShipment(ctx context.Context, id string) (*easypost.Shipment, error)
}

// EasyPostShipmentSource implements ports.ShipmentSource.
type EasyPostShipmentSource struct {
	api ShipmentAPI
}

// NewEasyPostShipmentSource creates a new EasyPostShipmentSource.
func NewEasyPostShipmentSource(api ShipmentAPI) *EasyPostShipmentSource {
	return &EasyPostShipmentSource{api: api}
}

// FetchPage returns the most recent shipments in EasyPost order.
func (s *EasyPostShipmentSource) FetchPage(ctx context.Context, pageSize int) ([]domain.ProviderShipment, error) {
	shipments, err := s.api.ListShipments(ctx, pageSize)
	if err != nil {
		return nil, WrapProviderError(err)
	}

	out := make([]domain.ProviderShipment, 0, len(shipments))
	for i := range shipments {
		out = append(out, MapProviderShipment(&shipments[i]))
	}
	return out, nil
}

// FetchByID retrieves one shipment.
func (s *EasyPostShipmentSource) FetchByID(ctx context.Context, providerID string) (*domain.ProviderShipment, error) {
	shipment, err := s.api.GetShipment(ctx, providerID)
	if err != nil {
		var apiErr *easypost.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, fmt.Errorf("%w: %s", domain.ErrShipmentNotFound, providerID)
		}
		return nil, WrapProviderError(err)
	}
	p := MapProviderShipment(shipment)
	return &p, nil
}

// MapProviderShipment converts an EasyPost shipment into the provider record.
func MapProviderShipment(s *easypost.Shipment) domain.ProviderShipment {
	p := domain.ProviderShipment{
		ID:           s.ID,
		TrackingCode: s.TrackingCode,
		BatchID:      s.BatchID,
		CreatedAt:    s.CreatedAt,
		Status:       s.Status,
	}
	if s.PostageLabel != nil {
		p.LabelURL = s.PostageLabel.LabelURL
	}
	if s.SelectedRate != nil {
		p.SelectedRate = &domain.ProviderRate{
			Carrier: s.SelectedRate.Carrier,
			Service: s.SelectedRate.Service,
			Price:   s.SelectedRate.Rate,
		}
	}
	if s.Parcel != nil {
		p.Parcel = domain.Parcel{
			Length:            s.Parcel.Length,
			Width:             s.Parcel.Width,
			Height:            s.Parcel.Height,
			Weight:            s.Parcel.Weight,
			PredefinedPackage: s.Parcel.PredefinedPackage,
		}
	}
	if s.ScanForm != nil {
		p.ScanFormID = s.ScanForm.ID
	}
	p.From = mapAddress(s.FromAddress)
	p.To = mapAddress(s.ToAddress)
	return p
}

func mapAddress(a *easypost.Address) domain.Address {
	if a == nil {
		return domain.Address{}
	}
	name := a.Name
	if name == "" {
		name = a.Company
	}
	return domain.Address{
		Name:    name,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
	}
}

// WrapProviderError converts an EasyPost API error into a domain.ProviderError,
// keeping its code and message. Other errors (transport, decoding) are
// wrapped with an empty code.
func WrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *easypost.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{Code: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &domain.ProviderError{Message: err.Error(), Err: err}
}
