package ports

import (
	"context"

	"shipdesk/internal/features/scanforms/domain"
	shipments "shipdesk/internal/features/shipments/domain"
)

// ScanFormRepository is the local scan form store.
// This is a Secondary Port (Driven Port).
type ScanFormRepository interface {
	Insert(ctx context.Context, sf *domain.ScanForm) (int64, error)
	// Get returns domain.ErrScanFormNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.ScanForm, error)
	// FindByProviderID returns domain.ErrScanFormNotFound when absent.
	FindByProviderID(ctx context.Context, providerID string) (*domain.ScanForm, error)
	// List returns every scan form, newest first.
	List(ctx context.Context) ([]domain.ScanForm, error)
	// UpdateStatus overwrites status and form URL.
	UpdateStatus(ctx context.Context, id int64, status, formURL string) error
}

// ShipmentStore is the part of the shipment store scan forms need.
// This is a Secondary Port (Driven Port).
type ShipmentStore interface {
	FindByIDs(ctx context.Context, ids []int64) ([]shipments.Shipment, error)
	SetManifest(ctx context.Context, id int64, ref shipments.ManifestRef) (bool, error)
}

// ScanFormProvider creates and lists scan forms at the provider.
// This is a Secondary Port (Driven Port).
type ScanFormProvider interface {
	Create(ctx context.Context, providerShipmentIDs []string) (*domain.ProviderScanForm, error)
	FetchRecent(ctx context.Context, pageSize int) ([]domain.ProviderScanForm, error)
}

// ScanFormService is the primary port for scan form operations.
// This is a Primary Port (Driving Port).
type ScanFormService interface {
	Create(ctx context.Context, req domain.CreateRequest) (*domain.ScanForm, error)
	Sync(ctx context.Context) (*domain.SyncResult, error)
	List(ctx context.Context) ([]domain.ScanForm, error)
	Get(ctx context.Context, id int64) (*domain.ScanForm, error)
}
