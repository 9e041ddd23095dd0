package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/shipments/domain"
	"shipdesk/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// DefaultPageSize is the provider page fetched by one sync pass.
const DefaultPageSize = 100

const defaultCountry = "US"

// recordError marks a failure confined to a single provider record. The
// pass logs it, counts it and moves on; any other error aborts the pass.
type recordError struct {
	providerID string
	err        error
}

func (e *recordError) Error() string {
	return fmt.Sprintf("shipment %s: %v", e.providerID, e.err)
}

func (e *recordError) Unwrap() error {
	return e.err
}

// ReconcileService merges provider shipments into the local store and runs
// the manifest maintenance passes.
type ReconcileService struct {
	repo     ports.ShipmentRepository
	source   ports.ShipmentSource
	tx       ports.Transactor
	lock     ports.PassLock
	classify domain.MethodClassifier
	pageSize int
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a ReconcileService.
type Option func(*ReconcileService)

// WithPageSize overrides the provider page size.
func WithPageSize(n int) Option {
	return func(s *ReconcileService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPassLock serialises passes across processes.
func WithPassLock(l ports.PassLock) Option {
	return func(s *ReconcileService) { s.lock = l }
}

// WithMethodClassifier replaces the default card/tracked heuristic.
func WithMethodClassifier(c domain.MethodClassifier) Option {
	return func(s *ReconcileService) {
		if c != nil {
			s.classify = c
		}
	}
}

// WithClock sets the time source used for local creation times.
func WithClock(now func() time.Time) Option {
	return func(s *ReconcileService) { s.now = now }
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(repo ports.ShipmentRepository, source ports.ShipmentSource, tx ports.Transactor, opts ...Option) *ReconcileService {
	s := &ReconcileService{
		repo:     repo,
		source:   source,
		tx:       tx,
		classify: domain.ClassifyMethod,
		pageSize: DefaultPageSize,
		now:      time.Now,
		log:      logger.Named("reconcile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReconcileService) acquire(ctx context.Context, pass string) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	release, err := s.lock.Acquire(ctx, pass)
	if err != nil {
		if errors.Is(err, domain.ErrPassInProgress) {
			return nil, err
		}
		return nil, fmt.Errorf("reconcile: acquire %s lock: %w", pass, err)
	}
	return release, nil
}

// Sync runs one reconciliation pass over the most recent provider page.
// A failed fetch leaves the store untouched. All writes of the pass commit
// together.
func (s *ReconcileService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	release, err := s.acquire(ctx, "sync")
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()

	records, err := s.source.FetchPage(ctx, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("reconcile: fetch shipments: %w", err)
	}

	var result domain.SyncResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		result = domain.SyncResult{}
		for _, rec := range records {
			result.TotalExamined++

			err := s.reconcileRecord(ctx, rec, &result)
			if err == nil {
				continue
			}

			var recErr *recordError
			if !errors.As(err, &recErr) {
				return err
			}
			result.Failed++
			s.log.Warn("Skipping shipment that could not be reconciled",
				zap.String("provider_id", recErr.providerID),
				zap.Error(recErr.err),
			)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile: sync pass: %w", err)
	}

	s.log.Info("Sync pass completed",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("manifest_backfilled", result.ManifestBackfilled),
		zap.Int("timestamp_backfilled", result.TimestampBackfilled),
		zap.Int("failed", result.Failed),
		zap.Int("total_examined", result.TotalExamined),
		zap.Duration("duration", time.Since(start)),
	)
	return &result, nil
}

func (s *ReconcileService) reconcileRecord(ctx context.Context, rec domain.ProviderShipment, result *domain.SyncResult) error {
	if rec.ID == "" {
		return &recordError{providerID: "<empty>", err: errors.New("missing provider id")}
	}

	existing, err := s.repo.FindByProviderID(ctx, rec.ID)
	switch {
	case err == nil:
		if err := s.backfill(ctx, existing, rec, result); err != nil {
			return err
		}
		result.Skipped++
		return nil
	case errors.Is(err, domain.ErrShipmentNotFound):
		return s.importRecord(ctx, rec, result)
	default:
		return err
	}
}

// backfill fills the manifest and provider timestamp of an existing shipment
// when they are still empty. Populated fields are never overwritten.
func (s *ReconcileService) backfill(ctx context.Context, existing *domain.Shipment, rec domain.ProviderShipment, result *domain.SyncResult) error {
	if !existing.Manifest.IsSet() {
		if ref := domain.InferManifest(rec); ref.IsSet() {
			ok, err := s.repo.SetManifest(ctx, existing.ID, ref)
			if err != nil {
				return err
			}
			if ok {
				result.ManifestBackfilled++
			}
		}
	}

	if existing.ProviderCreatedAt == nil && rec.CreatedAt != "" {
		if createdAt, ok := s.parseCreatedAt(rec); ok {
			ok, err := s.repo.SetProviderCreatedAt(ctx, existing.ID, createdAt)
			if err != nil {
				return err
			}
			if ok {
				result.TimestampBackfilled++
			}
		}
	}
	return nil
}

func (s *ReconcileService) importRecord(ctx context.Context, rec domain.ProviderShipment, result *domain.SyncResult) error {
	if !rec.HasLabel() || rec.SelectedRate == nil {
		s.log.Debug("Ignoring shipment without a purchased label", zap.String("provider_id", rec.ID))
		return nil
	}

	method, err := s.classify(rec)
	if err != nil {
		return &recordError{providerID: rec.ID, err: err}
	}
	cost, err := domain.ParsePrice(rec.SelectedRate.Price)
	if err != nil {
		return &recordError{providerID: rec.ID, err: err}
	}

	shipment := &domain.Shipment{
		ProviderID:   rec.ID,
		TrackingCode: rec.TrackingCode,
		LabelURL:     rec.LabelURL,
		From:         withDefaultCountry(rec.From),
		To:           withDefaultCountry(rec.To),
		Carrier:      rec.SelectedRate.Carrier,
		Service:      rec.SelectedRate.Service,
		Cost:         cost,
		Method:       method,
		Parcel:       rec.Parcel,
		Status:       domain.StatusCreated,
		Manifest:     domain.InferManifest(rec),
		CreatedAt:    s.now(),
	}
	if createdAt, ok := s.parseCreatedAt(rec); ok {
		shipment.ProviderCreatedAt = &createdAt
	}

	if _, err := s.repo.Insert(ctx, shipment); err != nil {
		return err
	}
	result.Imported++
	return nil
}

// parseCreatedAt swallows parse failures; the field simply stays empty.
func (s *ReconcileService) parseCreatedAt(rec domain.ProviderShipment) (time.Time, bool) {
	if rec.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := domain.ParseProviderTimestamp(rec.CreatedAt)
	if err != nil {
		s.log.Debug("Ignoring unparseable provider timestamp",
			zap.String("provider_id", rec.ID),
			zap.String("created_at", rec.CreatedAt),
			zap.Error(err),
		)
		return time.Time{}, false
	}
	return t, true
}

func withDefaultCountry(a domain.Address) domain.Address {
	if a.Country == "" {
		a.Country = defaultCountry
	}
	return a
}

// CorrectBatchManifested clears every batch-derived manifest. Real ScanForm
// ids are left alone.
func (s *ReconcileService) CorrectBatchManifested(ctx context.Context) (*domain.CorrectionResult, error) {
	release, err := s.acquire(ctx, "sync")
	if err != nil {
		return nil, err
	}
	defer release()

	cleared, err := s.repo.ClearProvisionalManifests(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: clear batch manifests: %w", err)
	}

	s.log.Info("Cleared batch-derived manifests", zap.Int("cleared", cleared))
	return &domain.CorrectionResult{ClearedCount: cleared}, nil
}

// Probe resolves the current manifest of one provider shipment.
func (s *ReconcileService) Probe(ctx context.Context, providerID string) (domain.ManifestRef, error) {
	rec, err := s.source.FetchByID(ctx, providerID)
	if err != nil {
		return domain.NoManifest(), err
	}
	return domain.InferManifest(*rec), nil
}

// RefreshManifestStatus probes every tracked shipment that has no manifest
// and backfills the ones the provider reports as manifested. Probe failures
// are counted and do not stop the sweep.
func (s *ReconcileService) RefreshManifestStatus(ctx context.Context) (*domain.RefreshResult, error) {
	release, err := s.acquire(ctx, "sync")
	if err != nil {
		return nil, err
	}
	defer release()

	candidates, err := s.repo.ListUnmanifestedTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list unmanifested shipments: %w", err)
	}

	type update struct {
		id  int64
		ref domain.ManifestRef
	}

	result := domain.RefreshResult{Checked: len(candidates)}
	var updates []update

	for _, shipment := range candidates {
		ref, err := s.Probe(ctx, shipment.ProviderID)
		if err != nil {
			result.Errors++
			s.log.Warn("Manifest probe failed",
				zap.Int64("shipment_id", shipment.ID),
				zap.String("provider_id", shipment.ProviderID),
				zap.Error(err),
			)
			continue
		}
		if ref.IsSet() {
			updates = append(updates, update{id: shipment.ID, ref: ref})
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		result.Updated = 0
		for _, u := range updates {
			ok, err := s.repo.SetManifest(ctx, u.id, u.ref)
			if err != nil {
				return err
			}
			if ok {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile: apply manifest updates: %w", err)
	}

	s.log.Info("Manifest refresh completed",
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Int("errors", result.Errors),
	)
	return &result, nil
}

// Inspect reports the stored manifest of a shipment next to what the
// provider currently says.
func (s *ReconcileService) Inspect(ctx context.Context, id int64) (*domain.ProbeResult, error) {
	shipment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.source.FetchByID(ctx, shipment.ProviderID)
	if err != nil {
		return nil, err
	}

	return &domain.ProbeResult{
		ShipmentID:       shipment.ID,
		ProviderID:       shipment.ProviderID,
		Method:           shipment.Method,
		StoredManifest:   shipment.Manifest,
		ScanFormID:       rec.ScanFormID,
		BatchID:          rec.BatchID,
		InferredManifest: domain.InferManifest(*rec),
	}, nil
}
