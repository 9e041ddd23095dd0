package easypost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Address is an EasyPost address object.
type Address struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Parcel is an EasyPost parcel. Dimensions are inches, weight is ounces.
type Parcel struct {
	Length            *float64 `json:"length,omitempty"`
	Width             *float64 `json:"width,omitempty"`
	Height            *float64 `json:"height,omitempty"`
	Weight            float64  `json:"weight"`
	PredefinedPackage string   `json:"predefined_package,omitempty"`
}

// Rate is a carrier quote. EasyPost encodes the price as a decimal string.
type Rate struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	Rate         string `json:"rate"`
	Currency     string `json:"currency,omitempty"`
	DeliveryDays *int   `json:"delivery_days,omitempty"`
}

// Price parses the decimal price.
func (r Rate) Price() (float64, error) {
	p, err := strconv.ParseFloat(r.Rate, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate price %q: %w", r.Rate, err)
	}
	return p, nil
}

// PostageLabel holds the purchased label.
type PostageLabel struct {
	LabelURL string `json:"label_url"`
}

// ScanFormRef is the scan_form attribute of a shipment. EasyPost returns
// either the embedded object or, in older payloads, a bare identifier.
type ScanFormRef struct {
	ID string
}

// UnmarshalJSON accepts an object carrying "id" or any scalar.
func (r *ScanFormRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.ID = obj.ID
	case '"':
		return json.Unmarshal(data, &r.ID)
	default:
		r.ID = string(data)
	}
	return nil
}

// Shipment is an EasyPost shipment.
type Shipment struct {
	ID           string        `json:"id"`
	Mode         string        `json:"mode,omitempty"`
	Status       string        `json:"status,omitempty"`
	TrackingCode string        `json:"tracking_code,omitempty"`
	FromAddress  *Address      `json:"from_address,omitempty"`
	ToAddress    *Address      `json:"to_address,omitempty"`
	Parcel       *Parcel       `json:"parcel,omitempty"`
	Rates        []Rate        `json:"rates,omitempty"`
	SelectedRate *Rate         `json:"selected_rate,omitempty"`
	PostageLabel *PostageLabel `json:"postage_label,omitempty"`
	ScanForm     *ScanFormRef  `json:"scan_form,omitempty"`
	BatchID      string        `json:"batch_id,omitempty"`
	Insurance    string        `json:"insurance,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
}

// LowestRate returns the cheapest quoted rate. Unparseable prices are ignored.
func (s *Shipment) LowestRate() (Rate, bool) {
	var (
		best      Rate
		bestPrice float64
		found     bool
	)
	for _, r := range s.Rates {
		p, err := r.Price()
		if err != nil {
			continue
		}
		if !found || p < bestPrice {
			best, bestPrice, found = r, p, true
		}
	}
	return best, found
}

// SortedRates returns the rates ordered by ascending price.
func (s *Shipment) SortedRates() []Rate {
	out := make([]Rate, len(s.Rates))
	copy(out, s.Rates)
	sort.SliceStable(out, func(i, j int) bool {
		pi, erri := out[i].Price()
		pj, errj := out[j].Price()
		if erri != nil || errj != nil {
			return erri == nil
		}
		return pi < pj
	})
	return out
}

// ScanForm is an EasyPost ScanForm (USPS manifest).
type ScanForm struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	FormURL       string   `json:"form_url"`
	TrackingCodes []string `json:"tracking_codes"`
	BatchID       string   `json:"batch_id,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

// CreateShipmentRequest is the body of POST /shipments.
type CreateShipmentRequest struct {
	FromAddress Address `json:"from_address"`
	ToAddress   Address `json:"to_address"`
	Parcel      Parcel  `json:"parcel"`
}
