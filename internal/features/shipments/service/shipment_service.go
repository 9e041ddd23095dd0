package service

import (
	"context"
	"math"
	"time"

	"shipdesk/internal/features/shipments/domain"
	"shipdesk/internal/features/shipments/ports"
)

// ShipmentService answers read queries over the local store.
type ShipmentService struct {
	repo ports.ShipmentRepository
	now  func() time.Time
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(repo ports.ShipmentRepository) *ShipmentService {
	return &ShipmentService{repo: repo, now: time.Now}
}

// List returns one page of shipments matching filter.
func (s *ShipmentService) List(ctx context.Context, filter domain.ListFilter) (*domain.ShipmentPage, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Get returns a shipment by local id.
func (s *ShipmentService) Get(ctx context.Context, id int64) (*domain.Shipment, error) {
	return s.repo.Get(ctx, id)
}

// Stats returns the dashboard summary with costs rounded to cents.
func (s *ShipmentService) Stats(ctx context.Context) (*domain.Stats, error) {
	st, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		return nil, err
	}
	st.TotalCost = roundCents(st.TotalCost)
	st.CostToday = roundCents(st.CostToday)
	st.CostThisWeek = roundCents(st.CostThisWeek)
	return st, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
