package domain

// ProviderRate is the rate selected when the label was bought.
type ProviderRate struct {
	Carrier string
	Service string
	// Price is the provider's decimal string.
	Price string
}

// ProviderShipment is a shipment as reported by the provider. Both manifest
// signals are optional and may both be present.
type ProviderShipment struct {
	ID           string
	TrackingCode string
	// LabelURL is empty when no postage label was bought.
	LabelURL     string
	SelectedRate *ProviderRate
	Parcel       Parcel
	From         Address
	To           Address
	// ScanFormID is the attached manifest reference, already resolved to a string.
	ScanFormID string
	// BatchID is the batch linkage.
	BatchID string
	// CreatedAt is the raw ISO-8601 creation time.
	CreatedAt string
	// Status is the provider shipment status.
	Status string
}

// HasLabel reports whether a postage label was purchased.
func (p ProviderShipment) HasLabel() bool {
	return p.LabelURL != ""
}
