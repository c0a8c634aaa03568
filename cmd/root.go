package cmd

import (
	"errors"
	"fmt"
	"os"

	"list-sync/core/config"
	"list-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configFile is the optional config file passed with --config.
var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "list-sync",
	Short: "Keep lists in sync with your follow graph",
	Long: `list-sync mirrors the accounts you follow into a list, and optionally
the accounts that follow you back into a second one.

Every run fetches the current state, adds what is missing, removes what is
stale and logs each change. Failed changes are reported and picked up again
by the next run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Already written to the configured log outputs.
		var logged loggedError
		if errors.As(err, &logged) {
			os.Exit(1)
		}

		// Console format with debug level gives ISO8601 timestamps for CLI users.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
}

// loadConfig loads the configuration and the logger every command needs.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".", configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, l, nil
}

// loggedError marks an error that was already written to the configured log.
type loggedError struct {
	error
}

func (e loggedError) Unwrap() error {
	return e.error
}

// runLogged loads the configuration and logger, then runs fn. A failure of fn
// is logged through the configured logger so it also reaches the log file.
func runLogged(command string, fn func(cfg *config.Config, l *zap.Logger) error) error {
	cfg, l, err := loadConfig()
	if err != nil {
		return err
	}
	defer l.Sync()

	if err := fn(cfg, l); err != nil {
		l.Error("command failed", zap.String("command", command), zap.Error(err))
		return loggedError{err}
	}
	return nil
}

// credentialsPath picks the credentials file from args or the config.
func credentialsPath(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Twitter.CredentialsFile
}
