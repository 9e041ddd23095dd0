package adapters

import (
	"context"

	"shipdesk/internal/core/easypost"
	"shipdesk/internal/features/labels/domain"
	shipmentadapters "shipdesk/internal/features/shipments/adapters"
	shipments "shipdesk/internal/features/shipments/domain"
)

// LabelAPI is the part of the EasyPost client used for labels.
type LabelAPI interface {
	CreateShipment(ctx context.Context, req easypost.CreateShipmentRequest) (*easypost.Shipment, error)
	BuyShipment(ctx context.Context, shipmentID, rateID string, insurance float64) (*easypost.Shipment, error)
}

// EasyPostLabelProvider implements ports.LabelProvider.
type EasyPostLabelProvider struct {
	api LabelAPI
}

// NewEasyPostLabelProvider creates a new EasyPostLabelProvider.
func NewEasyPostLabelProvider(api LabelAPI) *EasyPostLabelProvider {
	return &EasyPostLabelProvider{api: api}
}

// QuoteRates creates an unpurchased shipment and returns its rates, cheapest first.
func (p *EasyPostLabelProvider) QuoteRates(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel) ([]domain.RateQuote, error) {
	shipment, err := p.api.CreateShipment(ctx, toRequest(from, to, parcel))
	if err != nil {
		return nil, shipmentadapters.WrapProviderError(err)
	}

	sorted := shipment.SortedRates()
	rates := make([]domain.RateQuote, 0, len(sorted))
	for _, r := range sorted {
		price, err := r.Price()
		if err != nil {
			continue
		}
		rates = append(rates, domain.RateQuote{
			Carrier:      r.Carrier,
			Service:      r.Service,
			Rate:         price,
			DeliveryDays: r.DeliveryDays,
		})
	}
	return rates, nil
}

// BuyLowest creates the shipment and buys its cheapest rate.
func (p *EasyPostLabelProvider) BuyLowest(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel, insurance float64) (*domain.PurchasedLabel, error) {
	shipment, err := p.api.CreateShipment(ctx, toRequest(from, to, parcel))
	if err != nil {
		return nil, shipmentadapters.WrapProviderError(err)
	}

	lowest, ok := shipment.LowestRate()
	if !ok {
		return nil, domain.ErrNoRates
	}
	cost, _ := lowest.Price()

	bought, err := p.api.BuyShipment(ctx, shipment.ID, lowest.ID, insurance)
	if err != nil {
		return nil, shipmentadapters.WrapProviderError(err)
	}

	label := &domain.PurchasedLabel{
		ProviderID:   bought.ID,
		TrackingCode: bought.TrackingCode,
		Carrier:      lowest.Carrier,
		Service:      lowest.Service,
		Cost:         cost,
	}
	if bought.PostageLabel != nil {
		label.LabelURL = bought.PostageLabel.LabelURL
	}
	return label, nil
}

func toRequest(from, to shipments.Address, parcel shipments.Parcel) easypost.CreateShipmentRequest {
	return easypost.CreateShipmentRequest{
		FromAddress: toAddress(from),
		ToAddress:   toAddress(to),
		Parcel: easypost.Parcel{
			Length:            parcel.Length,
			Width:             parcel.Width,
			Height:            parcel.Height,
			Weight:            parcel.Weight,
			PredefinedPackage: parcel.PredefinedPackage,
		},
	}
}

func toAddress(a shipments.Address) easypost.Address {
	return easypost.Address{
		Name:    a.Name,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
		Phone:   a.Phone,
	}
}
