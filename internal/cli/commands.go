package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"shipdesk/internal/features/shipments/domain"

	"github.com/spf13/cobra"
)

func newSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import new EasyPost shipments and backfill existing ones",
		Long: `Fetch the most recent page of EasyPost shipments and merge it into the store.

Shipments without a purchased label are skipped. Known shipments get their
manifest and EasyPost creation time backfilled when still unset. Exits 1 when
any record failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				result, err := rt.Reconciler.Sync(ctx)
				if err != nil {
					return opts.fail(cmd, "sync failed", err)
				}
				if err := opts.formatter(cmd).Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Examined:             %d\n", result.TotalExamined)
					fmt.Fprintf(w, "Imported:             %d\n", result.Imported)
					fmt.Fprintf(w, "Skipped:              %d\n", result.Skipped)
					fmt.Fprintf(w, "Manifest backfilled:  %d\n", result.ManifestBackfilled)
					fmt.Fprintf(w, "Timestamp backfilled: %d\n", result.TimestampBackfilled)
					fmt.Fprintf(w, "Failed:               %d\n", result.Failed)
				}); err != nil {
					return err
				}
				if result.Failed > 0 {
					return NewExitError(ExitFailure, fmt.Sprintf("%d record(s) failed", result.Failed))
				}
				return nil
			})
		},
	}
}

func newCorrectCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "correct-batch-manifests",
		Short: "Clear manifest values inferred from a batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				result, err := rt.Reconciler.CorrectBatchManifested(ctx)
				if err != nil {
					return opts.fail(cmd, "correction failed", err)
				}
				return opts.formatter(cmd).Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Cleared %d batch-derived manifest(s)\n", result.ClearedCount)
				})
			})
		},
	}
}

func newRefreshCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-manifests",
		Short: "Probe every tracked, unmanifested shipment for a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				result, err := rt.Reconciler.RefreshManifestStatus(ctx)
				if err != nil {
					return opts.fail(cmd, "refresh failed", err)
				}
				return opts.formatter(cmd).Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Checked: %d\nUpdated: %d\nErrors:  %d\n", result.Checked, result.Updated, result.Errors)
				})
			})
		},
	}
}

func newSyncScanFormsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-scanforms",
		Short: "Import EasyPost scan forms and refresh their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				result, err := rt.ScanForms.Sync(ctx)
				if err != nil {
					return opts.fail(cmd, "scan form sync failed", err)
				}
				return opts.formatter(cmd).Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Examined: %d\nImported: %d\nUpdated:  %d\n", result.TotalExamined, result.Imported, result.Updated)
				})
			})
		},
	}
}

func newProbeCommand(opts *RootOptions) *cobra.Command {
	var byProvider bool

	cmd := &cobra.Command{
		Use:   "probe <shipment-id>",
		Short: "Show the manifest EasyPost currently reports for a shipment",
		Long: `Show the manifest EasyPost currently reports for a shipment.

By default the argument is a local shipment id and the stored value is shown
next to the raw scan_form and batch_id. With --provider the argument is an
EasyPost shipment id and only the inferred manifest is printed. Nothing is
written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if byProvider {
				return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
					ref, err := rt.Reconciler.Probe(ctx, args[0])
					if err != nil {
						return opts.fail(cmd, "probe failed", err)
					}
					return opts.formatter(cmd).Success(map[string]domain.ManifestRef{"manifested": ref}, func(w io.Writer) {
						fmt.Fprintf(w, "%s: %s\n", args[0], describe(ref))
					})
				})
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid shipment id %q: use --provider for EasyPost ids", args[0]))
			}
			return opts.withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				result, err := rt.Reconciler.Inspect(ctx, id)
				if err != nil {
					return opts.fail(cmd, "probe failed", err)
				}
				return opts.formatter(cmd).Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Shipment:  %d (%s, %s)\n", result.ShipmentID, result.ProviderID, result.Method)
					fmt.Fprintf(w, "Stored:    %s\n", describe(result.StoredManifest))
					fmt.Fprintf(w, "Inferred:  %s\n", describe(result.InferredManifest))
					fmt.Fprintf(w, "scan_form: %s\n", orDash(result.ScanFormID))
					fmt.Fprintf(w, "batch_id:  %s\n", orDash(result.BatchID))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&byProvider, "provider", false, "treat the argument as an EasyPost shipment id")
	return cmd
}

func newEnvCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the active EasyPost environment and configured keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			info := cfg.EasyPost.Info()
			return opts.formatter(cmd).Success(info, func(w io.Writer) {
				fmt.Fprintf(w, "Environment: %s\n", info.CurrentEnvironment)
				fmt.Fprintf(w, "Production:  %s\n", keyStatus(info.ProductionConfigured, info.ProductionKeyPrefix))
				fmt.Fprintf(w, "Test:        %s\n", keyStatus(info.TestConfigured, info.TestKeyPrefix))
			})
		},
	}
}

func describe(ref domain.ManifestRef) string {
	switch ref.Kind() {
	case domain.ManifestExplicit:
		return "scan form " + ref.ID()
	case domain.ManifestFromBatch:
		return "batch " + ref.ID() + " (provisional)"
	default:
		return "not manifested"
	}
}

func keyStatus(configured bool, prefix string) string {
	if !configured {
		return "not configured"
	}
	return prefix
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
