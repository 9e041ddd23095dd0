package ports

import (
	"context"
	"time"

	"shipdesk/internal/features/shipments/domain"
)

// ShipmentRepository is the local shipment store.
// This is a Secondary Port (Driven Port).
type ShipmentRepository interface {
	// FindByProviderID returns domain.ErrShipmentNotFound when absent.
	FindByProviderID(ctx context.Context, providerID string) (*domain.Shipment, error)
	// Get returns domain.ErrShipmentNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.Shipment, error)
	// Insert stores a new shipment and returns its id.
	Insert(ctx context.Context, s *domain.Shipment) (int64, error)
	// SetManifest writes ref only if the shipment has no manifest yet.
	SetManifest(ctx context.Context, id int64, ref domain.ManifestRef) (bool, error)
	// SetProviderCreatedAt writes t only if no provider timestamp is stored yet.
	SetProviderCreatedAt(ctx context.Context, id int64, t time.Time) (bool, error)
	// ClearProvisionalManifests resets every batch-derived manifest and returns the count.
	ClearProvisionalManifests(ctx context.Context) (int, error)
	// ListUnmanifestedTracked returns tracked shipments without a manifest.
	ListUnmanifestedTracked(ctx context.Context) ([]domain.Shipment, error)
	// List returns one filtered page.
	List(ctx context.Context, filter domain.ListFilter) (*domain.ShipmentPage, error)
	// Stats summarises the store relative to now.
	Stats(ctx context.Context, now time.Time) (*domain.Stats, error)
}

// ShipmentSource reads shipments from the provider.
// This is a Secondary Port (Driven Port).
type ShipmentSource interface {
	// FetchPage returns the most recent page of shipments in provider order.
	FetchPage(ctx context.Context, pageSize int) ([]domain.ProviderShipment, error)
	// FetchByID returns a single shipment.
	FetchByID(ctx context.Context, providerID string) (*domain.ProviderShipment, error)
}

// Transactor runs fn in a single store transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PassLock serialises maintenance passes across processes.
type PassLock interface {
	// Acquire returns domain.ErrPassInProgress when the lock is held elsewhere.
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// Reconciler runs the reconciliation and manifest maintenance passes.
// This is a Primary Port (Driving Port).
type Reconciler interface {
	Sync(ctx context.Context) (*domain.SyncResult, error)
	CorrectBatchManifested(ctx context.Context) (*domain.CorrectionResult, error)
	RefreshManifestStatus(ctx context.Context) (*domain.RefreshResult, error)
	Probe(ctx context.Context, providerID string) (domain.ManifestRef, error)
	Inspect(ctx context.Context, id int64) (*domain.ProbeResult, error)
}

// ShipmentQueries answers read-only queries.
// This is a Primary Port (Driving Port).
type ShipmentQueries interface {
	List(ctx context.Context, filter domain.ListFilter) (*domain.ShipmentPage, error)
	Get(ctx context.Context, id int64) (*domain.Shipment, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}
