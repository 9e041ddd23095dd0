package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/scanforms/domain"
	"shipdesk/internal/features/scanforms/ports"
	shipments "shipdesk/internal/features/shipments/domain"
	shipmentports "shipdesk/internal/features/shipments/ports"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 100
	syncLockName    = "scanforms"
)

// ScanFormService creates scan forms and mirrors the provider's list locally.
type ScanFormService struct {
	repo      ports.ScanFormRepository
	shipments ports.ShipmentStore
	provider  ports.ScanFormProvider
	tx        shipmentports.Transactor
	lock      shipmentports.PassLock
	pageSize  int
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a ScanFormService.
type Option func(*ScanFormService)

// WithPageSize sets how many provider scan forms one sync pass examines.
func WithPageSize(n int) Option {
	return func(s *ScanFormService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPassLock serialises sync passes across processes.
func WithPassLock(l shipmentports.PassLock) Option {
	return func(s *ScanFormService) { s.lock = l }
}

// NewScanFormService creates a new ScanFormService.
func NewScanFormService(repo ports.ScanFormRepository, store ports.ShipmentStore, provider ports.ScanFormProvider, tx shipmentports.Transactor, opts ...Option) *ScanFormService {
	s := &ScanFormService{
		repo:      repo,
		shipments: store,
		provider:  provider,
		tx:        tx,
		pageSize:  defaultPageSize,
		now:       time.Now,
		log:       logger.Named("scanforms"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create manifests the selected shipments. The scan form is stored and every
// shipment is marked with its id in one transaction.
func (s *ScanFormService) Create(ctx context.Context, req domain.CreateRequest) (*domain.ScanForm, error) {
	selected, err := s.selectShipments(ctx, req.ShipmentIDs)
	if err != nil {
		return nil, err
	}

	providerIDs := make([]string, len(selected))
	for i, sh := range selected {
		providerIDs[i] = sh.ProviderID
	}

	pf, err := s.provider.Create(ctx, providerIDs)
	if err != nil {
		return nil, fmt.Errorf("scanforms: create: %w", err)
	}

	sf := s.fromProvider(*pf)
	if len(sf.TrackingCodes) == 0 {
		for _, sh := range selected {
			sf.TrackingCodes = append(sf.TrackingCodes, sh.TrackingCode)
		}
	}

	ref := shipments.ExplicitManifest(pf.ID)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		applied := 0
		for _, sh := range selected {
			ok, err := s.shipments.SetManifest(ctx, sh.ID, ref)
			if err != nil {
				return err
			}
			if !ok {
				s.log.Warn("Shipment manifested elsewhere before scan form was stored",
					zap.Int64("shipment_id", sh.ID),
					zap.String("scan_form_id", pf.ID),
				)
				continue
			}
			applied++
		}
		sf.ShipmentCount = applied
		id, err := s.repo.Insert(ctx, &sf)
		if err != nil {
			return err
		}
		sf.ID = id
		return nil
	})
	if err != nil {
		// The form exists at the provider; the next scan form and shipment syncs pick it up.
		s.log.Error("Scan form created but not stored",
			zap.String("scan_form_id", pf.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("scanforms: store %s: %w", pf.ID, err)
	}

	s.log.Info("Scan form created",
		zap.String("scan_form_id", pf.ID),
		zap.Int("shipments", sf.ShipmentCount),
	)
	return &sf, nil
}

func (s *ScanFormService) selectShipments(ctx context.Context, ids []int64) ([]shipments.Shipment, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, domain.ErrNoShipments
	}

	found, err := s.shipments.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("scanforms: load shipments: %w", err)
	}

	byID := make(map[int64]shipments.Shipment, len(found))
	for _, sh := range found {
		byID[sh.ID] = sh
	}

	selected := make([]shipments.Shipment, 0, len(unique))
	for _, id := range unique {
		sh, ok := byID[id]
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: %d", domain.ErrUnknownShipment, id)
		case sh.Method == shipments.MethodCard:
			return nil, fmt.Errorf("%w: %d", domain.ErrCardShipment, id)
		case sh.Manifest.IsSet():
			return nil, fmt.Errorf("%w: %d (%s)", domain.ErrAlreadyManifested, id, sh.Manifest)
		}
		selected = append(selected, sh)
	}
	return selected, nil
}

// Sync imports provider scan forms not stored locally and refreshes the
// status and form URL of known ones.
func (s *ScanFormService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx, syncLockName)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	forms, err := s.provider.FetchRecent(ctx, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("scanforms: fetch: %w", err)
	}

	result := &domain.SyncResult{TotalExamined: len(forms)}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, pf := range forms {
			existing, err := s.repo.FindByProviderID(ctx, pf.ID)
			if errors.Is(err, domain.ErrScanFormNotFound) {
				sf := s.fromProvider(pf)
				sf.ShipmentCount = len(pf.TrackingCodes)
				if _, err := s.repo.Insert(ctx, &sf); err != nil {
					return err
				}
				result.Imported++
				continue
			}
			if err != nil {
				return err
			}

			if existing.Status == pf.Status && existing.FormURL == pf.FormURL {
				continue
			}
			if err := s.repo.UpdateStatus(ctx, existing.ID, pf.Status, pf.FormURL); err != nil {
				return err
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanforms: sync: %w", err)
	}

	s.log.Info("Scan form sync finished",
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("total_examined", result.TotalExamined),
	)
	return result, nil
}

func (s *ScanFormService) fromProvider(pf domain.ProviderScanForm) domain.ScanForm {
	createdAt := s.now().UTC()
	if pf.CreatedAt != "" {
		if t, err := shipments.ParseProviderTimestamp(pf.CreatedAt); err == nil {
			createdAt = t
		}
	}
	return domain.ScanForm{
		ProviderID:    pf.ID,
		Status:        pf.Status,
		FormURL:       pf.FormURL,
		TrackingCodes: pf.TrackingCodes,
		CreatedAt:     createdAt,
	}
}

// List returns every stored scan form, newest first.
func (s *ScanFormService) List(ctx context.Context) ([]domain.ScanForm, error) {
	return s.repo.List(ctx)
}

// Get returns one stored scan form.
func (s *ScanFormService) Get(ctx context.Context, id int64) (*domain.ScanForm, error) {
	return s.repo.Get(ctx, id)
}
