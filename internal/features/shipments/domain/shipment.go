package domain

import "time"

// Method is the parcel class of a shipment, decided once at purchase or import.
type Method string

const (
	// MethodCard is an untracked card/letter mailer.
	MethodCard Method = "card"
	// MethodTracked is a tracked package.
	MethodTracked Method = "tracked"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodTracked
}

// CardPackage is EasyPost's predefined package tag for card mailers.
const CardPackage = "card"

// Address is a postal address value.
type Address struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// Parcel describes the package. Dimensions are inches, weight is ounces.
type Parcel struct {
	Length            *float64 `json:"length,omitempty"`
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	Weight            float64  `json:"weight"`
	PredefinedPackage string   `json:"predefined_package,omitempty"`
}

// Shipment is a purchased label tracked locally.
type Shipment struct {
	// ID is the local surrogate key.
	ID int64 `json:"id"`
	// ProviderID is the EasyPost shipment id; unique.
	ProviderID   string  `json:"easypost_id"`
	TrackingCode string  `json:"tracking_code"`
	LabelURL     string  `json:"label_url"`
	From         Address `json:"from_address"`
	To           Address `json:"to_address"`
	Carrier      string  `json:"carrier"`
	Service      string  `json:"service"`
	Cost         float64 `json:"cost"`
	Method       Method  `json:"method"`
	Parcel       Parcel  `json:"parcel"`
	Status       string  `json:"status"`
	// Manifest goes from none to set once; only provisional batch values are ever cleared.
	Manifest ManifestRef `json:"manifested"`
	// ProviderCreatedAt is written at most once.
	ProviderCreatedAt *time.Time `json:"easypost_created_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// StatusCreated is the status of a freshly stored shipment.
const StatusCreated = "created"
