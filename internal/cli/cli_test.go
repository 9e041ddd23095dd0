package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shipdesk/internal/core/config"
	scanforms "shipdesk/internal/features/scanforms/domain"
	"shipdesk/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockScanForms struct {
	mock.Mock
}

func (m *MockScanForms) Create(ctx context.Context, req scanforms.CreateRequest) (*scanforms.ScanForm, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scanforms.ScanForm), args.Error(1)
}

func (m *MockScanForms) Sync(ctx context.Context) (*scanforms.SyncResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scanforms.SyncResult), args.Error(1)
}

func (m *MockScanForms) List(ctx context.Context) ([]scanforms.ScanForm, error) {
	args := m.Called(ctx)
	return args.Get(0).([]scanforms.ScanForm), args.Error(1)
}

func (m *MockScanForms) Get(ctx context.Context, id int64) (*scanforms.ScanForm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scanforms.ScanForm), args.Error(1)
}

type harness struct {
	reconciler *MockReconciler
	scanForms  *MockScanForms
	cfg        *config.AppConfig
	closed     int
	opened     int
}

func newHarness() *harness {
	return &harness{
		reconciler: new(MockReconciler),
		scanForms:  new(MockScanForms),
		cfg: &config.AppConfig{
			LogLevel: "info",
			EasyPost: config.EasyPostConfig{Mode: config.ModeTest, TestKey: "EZTK0123456789abc"},
		},
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{
		LoadConfig: func(string) (*config.AppConfig, error) { return h.cfg, nil },
		Open: func(context.Context, *config.AppConfig) (*Runtime, error) {
			h.opened++
			return &Runtime{
				Reconciler: h.reconciler,
				ScanForms:  h.scanForms,
				Close: func() error {
					h.closed++
					return nil
				},
			}, nil
		},
	}
	cmd := NewRootCommandWith(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"sync", "correct-batch-manifests", "refresh-manifests", "sync-scanforms", "probe", "env"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestSync(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Sync", mock.Anything).Return(&domain.SyncResult{Imported: 3, Skipped: 1, TotalExamined: 5}, nil).Once()

		out, err := h.run(t, "sync")
		require.NoError(t, err)
		assert.Contains(t, out, "Imported:             3")
		assert.Equal(t, 1, h.closed)
	})

	t.Run("JSON", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Sync", mock.Anything).Return(&domain.SyncResult{Imported: 2}, nil).Once()

		out, err := h.run(t, "sync", "--format", "json")
		require.NoError(t, err)

		var resp struct {
			Status string            `json:"status"`
			Data   domain.SyncResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 2, resp.Data.Imported)
	})

	t.Run("FailedRecords", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Sync", mock.Anything).Return(&domain.SyncResult{Imported: 1, Failed: 2}, nil).Once()

		_, err := h.run(t, "sync")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("PassError", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Sync", mock.Anything).Return(nil, domain.ErrPassInProgress).Once()

		out, err := h.run(t, "sync", "--format", "json")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPassInProgress)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, `"status":"error"`)
		assert.Equal(t, 1, h.closed)
	})
}

func TestMaintenanceCommands(t *testing.T) {
	h := newHarness()
	h.reconciler.On("CorrectBatchManifested", mock.Anything).Return(&domain.CorrectionResult{ClearedCount: 4}, nil).Once()
	h.reconciler.On("RefreshManifestStatus", mock.Anything).Return(&domain.RefreshResult{Checked: 3, Updated: 1, Errors: 1}, nil).Once()
	h.scanForms.On("Sync", mock.Anything).Return(&scanforms.SyncResult{Imported: 2, TotalExamined: 6}, nil).Once()

	out, err := h.run(t, "correct-batch-manifests")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 4")

	out, err = h.run(t, "refresh-manifests")
	require.NoError(t, err)
	assert.Contains(t, out, "Checked: 3")

	out, err = h.run(t, "sync-scanforms")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported: 2")

	h.reconciler.AssertExpectations(t)
	h.scanForms.AssertExpectations(t)
}

func TestProbe(t *testing.T) {
	t.Run("LocalID", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Inspect", mock.Anything, int64(42)).Return(&domain.ProbeResult{
			ShipmentID:       42,
			ProviderID:       "shp_42",
			Method:           domain.MethodTracked,
			StoredManifest:   domain.BatchManifest("batch_1"),
			BatchID:          "batch_1",
			InferredManifest: domain.BatchManifest("batch_1"),
		}, nil).Once()

		out, err := h.run(t, "probe", "42")
		require.NoError(t, err)
		assert.Contains(t, out, "batch batch_1 (provisional)")
		assert.Contains(t, out, "scan_form: -")
	})

	t.Run("ProviderID", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Probe", mock.Anything, "shp_9").Return(domain.ExplicitManifest("sf_9"), nil).Once()

		out, err := h.run(t, "probe", "--provider", "shp_9")
		require.NoError(t, err)
		assert.Contains(t, out, "shp_9: scan form sf_9")
	})

	t.Run("InvalidID", func(t *testing.T) {
		h := newHarness()

		_, err := h.run(t, "probe", "shp_9")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Zero(t, h.opened)
	})

	t.Run("NotFound", func(t *testing.T) {
		h := newHarness()
		h.reconciler.On("Inspect", mock.Anything, int64(7)).Return(nil, domain.ErrShipmentNotFound).Once()

		_, err := h.run(t, "probe", "7")
		assert.ErrorIs(t, err, domain.ErrShipmentNotFound)
	})
}

func TestEnv(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "Environment: test")
	assert.Contains(t, out, "Test:        EZTK012345...")
	assert.Contains(t, out, "Production:  not configured")
	assert.Zero(t, h.opened)
}

func TestErrors(t *testing.T) {
	t.Run("InvalidFormat", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(t, "env", "--format", "yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("ConfigError", func(t *testing.T) {
		opts := &RootOptions{
			LoadConfig: func(string) (*config.AppConfig, error) {
				return nil, errors.New("missing required configuration: DATABASE_URL")
			},
		}
		cmd := NewRootCommandWith(opts)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"sync"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("OpenError", func(t *testing.T) {
		opts := &RootOptions{
			LoadConfig: func(string) (*config.AppConfig, error) { return &config.AppConfig{}, nil },
			Open: func(context.Context, *config.AppConfig) (*Runtime, error) {
				return nil, errors.New("connection refused")
			},
		}
		cmd := NewRootCommandWith(opts)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"refresh-manifests"})

		err := cmd.Execute()
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("VerboseRaisesLogLevel", func(t *testing.T) {
		h := newHarness()
		var seen string
		opts := &RootOptions{
			LoadConfig: func(string) (*config.AppConfig, error) { return h.cfg, nil },
			Open: func(_ context.Context, cfg *config.AppConfig) (*Runtime, error) {
				seen = cfg.LogLevel
				return &Runtime{Reconciler: h.reconciler}, nil
			},
		}
		h.reconciler.On("CorrectBatchManifested", mock.Anything).Return(&domain.CorrectionResult{}, nil).Once()

		cmd := NewRootCommandWith(opts)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"correct-batch-manifests", "-v"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, "debug", seen)
	})
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "wrapped", errors.New("inner"))))
}
