package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"list-sync/core/config"
	"list-sync/core/credentials"
	"list-sync/core/twitter"
	"list-sync/feature/listsync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncDryRun      bool
	syncTarget      string
	syncAccount     string
	syncConcurrency int
)

// syncCmd runs one reconciliation of every configured list.
var syncCmd = &cobra.Command{
	Use:   "sync [credentials-file]",
	Short: "Reconcile the configured lists with the follow graph",
	Long: `Reconcile every configured list once.

The credentials file defaults to twitter.credentials_file (twitter_keys.json).
The command exits non-zero when authentication or fetching fails, or when any
membership change could not be applied.

Examples:
  # Sync every configured list
  list-sync sync

  # Show what would change without touching the lists
  list-sync sync --dry-run

  # Only the mutuals list, with explicit credentials
  list-sync sync ~/keys.json --target mutuals`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute and print changes without applying them")
	syncCmd.Flags().StringVar(&syncTarget, "target", "all", "Target to sync: following, mutuals or all")
	syncCmd.Flags().StringVar(&syncAccount, "account", "", "Account whose follow graph is mirrored (default: authenticated user)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Membership changes in flight (overrides sync.concurrency)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	return runLogged("sync", func(cfg *config.Config, l *zap.Logger) error {
		return syncLists(cmd, args, cfg, l)
	})
}

func syncLists(cmd *cobra.Command, args []string, cfg *config.Config, l *zap.Logger) error {
	if cmd.Flags().Changed("dry-run") {
		cfg.Sync.DryRun = syncDryRun
	}
	if cmd.Flags().Changed("account") {
		cfg.Sync.Account = syncAccount
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Sync.Concurrency = syncConcurrency
	}

	path := credentialsPath(cfg, args)
	l.Info("Starting list-sync",
		zap.String("credentials_file", path),
		zap.String("target", syncTarget),
		zap.Bool("dry_run", cfg.Sync.DryRun),
	)

	targets, err := listsync.Select(cfg.Sync.Targets(), syncTarget)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("%w: set sync.following_list_id or sync.mutuals_list_id", listsync.ErrNoTargets)
	}

	creds, err := credentials.Load(path)
	if err != nil {
		return err
	}

	client, err := twitter.NewClient(cfg.Twitter, creds, cfg.Retry, l)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Sync.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Sync.Timeout)
		defer cancel()
	}

	sinks, closeSinks := openSinks(ctx, cfg, l)
	defer closeSinks()

	svc := listsync.NewService(client, l, listsync.Options{
		Concurrency: cfg.Sync.Concurrency,
		DryRun:      cfg.Sync.DryRun,
	}, sinks...)

	reports, err := svc.SyncAll(ctx, cfg.Sync.Account, targets)
	printReports(cmd.OutOrStdout(), reports)
	if err != nil {
		return err
	}

	if cfg.Sync.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	l.Info("Sync completed", zap.Int("targets", len(reports)))
	return nil
}
