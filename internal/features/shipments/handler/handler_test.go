package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shipdesk/internal/core/server"
	"shipdesk/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQueries is a mock implementation of ports.ShipmentQueries
type MockQueries struct {
	mock.Mock
}

func (m *MockQueries) List(ctx context.Context, filter domain.ListFilter) (*domain.ShipmentPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShipmentPage), args.Error(1)
}

func (m *MockQueries) Get(ctx context.Context, id int64) (*domain.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shipment), args.Error(1)
}

func (m *MockQueries) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// MockReconciler is a mock implementation of ports.Reconciler
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Sync(ctx context.Context) (*domain.SyncResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockReconciler) CorrectBatchManifested(ctx context.Context) (*domain.CorrectionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CorrectionResult), args.Error(1)
}

func (m *MockReconciler) RefreshManifestStatus(ctx context.Context) (*domain.RefreshResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshResult), args.Error(1)
}

func (m *MockReconciler) Probe(ctx context.Context, providerID string) (domain.ManifestRef, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(domain.ManifestRef), args.Error(1)
}

func (m *MockReconciler) Inspect(ctx context.Context, id int64) (*domain.ProbeResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProbeResult), args.Error(1)
}

func setupApp(q *MockQueries, r *MockReconciler) *fiber.App {
	app := fiber.New()
	NewShipmentHandler(q, r).Register(app.Group("/api/shipments"))
	return app
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestShipmentHandler_Sync(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		q, r := new(MockQueries), new(MockReconciler)
		app := setupApp(q, r)

		r.On("Sync", mock.Anything).Return(&domain.SyncResult{Imported: 2, Skipped: 1, TotalExamined: 4}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/api/shipments/sync", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[map[string]int](t, resp)
		assert.Equal(t, 2, body["imported"])
		assert.Equal(t, 1, body["skipped"])
		assert.Equal(t, 4, body["total_examined"])
		r.AssertExpectations(t)
	})

	t.Run("ProviderError", func(t *testing.T) {
		q, r := new(MockQueries), new(MockReconciler)
		app := setupApp(q, r)

		perr := &domain.ProviderError{Code: "APIKEY.INVALID", Message: "bad key"}
		r.On("Sync", mock.Anything).Return(nil, errors.Join(errors.New("reconcile"), perr)).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/api/shipments/sync", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		body := decode[server.ErrorResponse](t, resp)
		assert.Equal(t, "bad key", body.Message)
		assert.Equal(t, "APIKEY.INVALID", body.Code)
	})

	t.Run("PassInProgress", func(t *testing.T) {
		q, r := new(MockQueries), new(MockReconciler)
		app := setupApp(q, r)

		r.On("Sync", mock.Anything).Return(nil, domain.ErrPassInProgress).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/api/shipments/sync", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("StoreError", func(t *testing.T) {
		q, r := new(MockQueries), new(MockReconciler)
		app := setupApp(q, r)

		r.On("Sync", mock.Anything).Return(nil, errors.New("database is locked")).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/api/shipments/sync", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestShipmentHandler_Maintenance(t *testing.T) {
	q, r := new(MockQueries), new(MockReconciler)
	app := setupApp(q, r)

	r.On("CorrectBatchManifested", mock.Anything).Return(&domain.CorrectionResult{ClearedCount: 3}, nil).Once()
	r.On("RefreshManifestStatus", mock.Anything).Return(&domain.RefreshResult{Checked: 5, Updated: 2, Errors: 1}, nil).Once()

	resp, err := app.Test(httptest.NewRequest("POST", "/api/shipments/clear-batch-manifested", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decode[map[string]int](t, resp)["cleared_count"])

	resp, err = app.Test(httptest.NewRequest("POST", "/api/shipments/refresh-manifested", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"checked": 5, "updated": 2, "errors": 1}, decode[map[string]int](t, resp))

	r.AssertExpectations(t)
}

func TestShipmentHandler_List(t *testing.T) {
	t.Run("Filters", func(t *testing.T) {
		q, r := new(MockQueries), new(MockReconciler)
		app := setupApp(q, r)

		q.On("List", mock.Anything, mock.MatchedBy(func(f domain.ListFilter) bool {
			return f.Search == "ada" &&
				f.Method == domain.MethodTracked &&
				f.Manifested != nil && !*f.Manifested &&
				f.StartDate != nil && f.StartDate.Day() == 2 &&
				f.Page == 2 && f.PageSize == 10
		})).Return(&domain.ShipmentPage{Shipments: []domain.Shipment{}, Total: 0, Page: 2, PageSize: 10}, nil).Once()

		req := httptest.NewRequest("GET", "/api/shipments?search=ada&method=tracked&manifested=no&start_date=2024-03-02&page=2&page_size=10", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		q.AssertExpectations(t)
	})

	for _, query := range []string{"page_size=500", "method=express", "manifested=maybe", "end_date=yesterday", "page=0"} {
		t.Run("Invalid "+query, func(t *testing.T) {
			q, r := new(MockQueries), new(MockReconciler)
			app := setupApp(q, r)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/shipments?"+query, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			q.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestShipmentHandler_GetShipment(t *testing.T) {
	q, r := new(MockQueries), new(MockReconciler)
	app := setupApp(q, r)

	q.On("Get", mock.Anything, int64(7)).Return(&domain.Shipment{ID: 7, ProviderID: "shp_7", Manifest: domain.BatchManifest("b1")}, nil).Once()
	q.On("Get", mock.Anything, int64(8)).Return(nil, domain.ErrShipmentNotFound).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/shipments/7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "shp_7", body["easypost_id"])
	assert.Equal(t, "batch:b1", body["manifested"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/shipments/8", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/shipments/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	q.AssertExpectations(t)
}

func TestShipmentHandler_StatsAndProbe(t *testing.T) {
	q, r := new(MockQueries), new(MockReconciler)
	app := setupApp(q, r)

	q.On("Stats", mock.Anything).Return(&domain.Stats{TotalShipments: 4, TotalCost: 15.55}, nil).Once()
	r.On("Inspect", mock.Anything, int64(3)).Return(&domain.ProbeResult{
		ShipmentID:       3,
		ProviderID:       "shp_3",
		InferredManifest: domain.ExplicitManifest("sf_1"),
	}, nil).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/shipments/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 15.55, decode[map[string]any](t, resp)["total_cost"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/shipments/3/manifest-probe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "sf_1", body["inferred_manifest"])
	assert.Nil(t, body["manifested"])

	q.AssertExpectations(t)
	r.AssertExpectations(t)
}
