package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrShipmentNotFound is returned when no local or provider shipment matches.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrPassInProgress is returned when another maintenance pass holds the lock.
	ErrPassInProgress = errors.New("another sync pass is in progress")
)

// ProviderError is a failure reported by the shipping provider. Code and
// Message are carried unchanged.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
