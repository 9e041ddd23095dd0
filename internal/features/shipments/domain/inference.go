package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// trackedPriceThreshold is the rate above which a shipment without a
// predefined package is considered tracked.
const trackedPriceThreshold = 1.00

// InferManifest resolves the manifest status of a provider record. An attached
// ScanForm always wins over a batch linkage.
func InferManifest(p ProviderShipment) ManifestRef {
	if p.ScanFormID != "" {
		return ExplicitManifest(p.ScanFormID)
	}
	if p.BatchID != "" {
		return BatchManifest(p.BatchID)
	}
	return NoManifest()
}

// MethodClassifier decides the method of an imported shipment.
type MethodClassifier func(p ProviderShipment) (Method, error)

// ClassifyMethod is the default classifier: a predefined card package is a
// card; otherwise the price decides.
func ClassifyMethod(p ProviderShipment) (Method, error) {
	if p.Parcel.PredefinedPackage == CardPackage {
		return MethodCard, nil
	}
	if p.SelectedRate == nil {
		return MethodCard, nil
	}
	price, err := ParsePrice(p.SelectedRate.Price)
	if err != nil {
		return "", err
	}
	if price > trackedPriceThreshold {
		return MethodTracked, nil
	}
	return MethodCard, nil
}

// ParsePrice parses a provider decimal price.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return price, nil
}

var providerTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseProviderTimestamp parses an ISO-8601 creation time. Values without a
// zone are taken as UTC.
func ParseProviderTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
