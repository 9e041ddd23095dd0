package adapters

import (
	"context"

	"shipdesk/internal/core/easypost"
	"shipdesk/internal/features/scanforms/domain"
	shipmentadapters "shipdesk/internal/features/shipments/adapters"
)

// ScanFormAPI is the part of the EasyPost client used for scan forms.
type ScanFormAPI interface {
	CreateScanForm(ctx context.Context, shipmentIDs []string) (*easypost.ScanForm, error)
	ListScanForms(ctx context.Context, pageSize int) ([]easypost.ScanForm, error)
}

// EasyPostScanFormProvider implements ports.ScanFormProvider.
type EasyPostScanFormProvider struct {
	api ScanFormAPI
}

// NewEasyPostScanFormProvider creates a new EasyPostScanFormProvider.
func NewEasyPostScanFormProvider(api ScanFormAPI) *EasyPostScanFormProvider {
	return &EasyPostScanFormProvider{api: api}
}

// Create asks EasyPost to manifest the given shipments.
func (p *EasyPostScanFormProvider) Create(ctx context.Context, providerShipmentIDs []string) (*domain.ProviderScanForm, error) {
	sf, err := p.api.CreateScanForm(ctx, providerShipmentIDs)
	if err != nil {
		return nil, shipmentadapters.WrapProviderError(err)
	}
	out := mapScanForm(*sf)
	return &out, nil
}

// FetchRecent returns the most recent scan forms.
func (p *EasyPostScanFormProvider) FetchRecent(ctx context.Context, pageSize int) ([]domain.ProviderScanForm, error) {
	forms, err := p.api.ListScanForms(ctx, pageSize)
	if err != nil {
		return nil, shipmentadapters.WrapProviderError(err)
	}
	out := make([]domain.ProviderScanForm, 0, len(forms))
	for _, sf := range forms {
		out = append(out, mapScanForm(sf))
	}
	return out, nil
}

func mapScanForm(sf easypost.ScanForm) domain.ProviderScanForm {
	return domain.ProviderScanForm{
		ID:            sf.ID,
		Status:        sf.Status,
		FormURL:       sf.FormURL,
		TrackingCodes: sf.TrackingCodes,
		CreatedAt:     sf.CreatedAt,
	}
}
