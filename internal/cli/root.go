package cli

import (
	"context"
	"fmt"

	"shipdesk/internal/app"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/logger"
	scanformports "shipdesk/internal/features/scanforms/ports"
	shipmentports "shipdesk/internal/features/shipments/ports"

	"github.com/spf13/cobra"
)

// Runtime is what the maintenance commands operate on.
type Runtime struct {
	Reconciler shipmentports.Reconciler
	ScanForms  scanformports.ScanFormService
	Close      func() error
}

// RootOptions holds global flags and the injectable dependencies.
type RootOptions struct {
	ConfigDir string
	Format    string
	Verbose   bool

	// LoadConfig and Open are replaced in tests.
	LoadConfig func(dir string) (*config.AppConfig, error)
	Open       func(ctx context.Context, cfg *config.AppConfig) (*Runtime, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the shipctl root command with the production wiring.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{
		LoadConfig: config.Load,
		Open:       openRuntime,
	})
}

// NewRootCommandWith creates the root command over opts.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipctl",
		Short: "shipctl - shipment maintenance",
		Long:  "Runs EasyPost reconciliation and USPS manifest maintenance passes against the shipdesk store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", ".", "directory containing the .env file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newSyncCommand(opts))
	cmd.AddCommand(newCorrectCommand(opts))
	cmd.AddCommand(newRefreshCommand(opts))
	cmd.AddCommand(newSyncScanFormsCommand(opts))
	cmd.AddCommand(newProbeCommand(opts))
	cmd.AddCommand(newEnvCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func (o *RootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := o.LoadConfig(o.ConfigDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// withRuntime loads config, opens the runtime, runs fn and closes it.
func (o *RootOptions) withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *Runtime) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := o.Open(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if rt.Close != nil {
			_ = rt.Close()
		}
	}()

	return fn(ctx, rt)
}

// fail reports a failed pass and returns it with ExitFailure.
func (o *RootOptions) fail(cmd *cobra.Command, message string, err error) error {
	exitErr := WrapExitError(ExitFailure, message, err)
	o.formatter(cmd).Failure(exitErr)
	return exitErr
}

func openRuntime(ctx context.Context, cfg *config.AppConfig) (*Runtime, error) {
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Reconciler: a.Reconciler,
		ScanForms:  a.ScanForms,
		Close: func() error {
			logger.Sync()
			return a.Close()
		},
	}, nil
}
