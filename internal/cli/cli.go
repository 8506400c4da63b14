// Package cli wires the agent's commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngenohkevin/taskdeck-agent/config"
	"github.com/ngenohkevin/taskdeck-agent/internal/files"
	"github.com/ngenohkevin/taskdeck-agent/internal/logging"
	"github.com/ngenohkevin/taskdeck-agent/internal/server"
	"github.com/ngenohkevin/taskdeck-agent/internal/system"
	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
	"github.com/ngenohkevin/taskdeck-agent/internal/taskschd"
)

// app carries the collaborators shared by every command
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (*config.Config, error)
	service    tasks.Service
	lister     tasks.DirectoryLister // nil means the filesystem
	message    tasks.MessageLookup
	hostname   func() string
}

func newApp() *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
		service:    taskschd.New(),
		message:    taskschd.Message,
		hostname:   system.Hostname,
	}
}

// Execute runs the agent CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(newApp())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCommand(a *app) *cobra.Command {
	serve := newServeCommand(a)

	root := &cobra.Command{
		Use:           "taskdeck-agent",
		Short:         "Inventory the Windows Task Scheduler and serve it over HTTP",
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.AddCommand(serve, newCollectCommand(a), newKeygenCommand(a), newTokenCommand(a))
	return root
}

func (a *app) logger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.LogLevel, a.stderr)
}

func (a *app) collector(cfg *config.Config, logger *slog.Logger) *tasks.Collector {
	lister := a.lister
	if lister == nil {
		lister = files.NewLister(logger)
	}
	resolver := tasks.NewResolver(lister, logger)
	return tasks.NewCollector(a.service, resolver, tasks.Options{
		IncludeHidden: cfg.IncludeHiddenTasks,
		Message:       a.message,
		Host:          a.hostname(),
	}, logger)
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve scheduled task snapshots over HTTP (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}

			logger := a.logger(cfg)
			srv := server.New(cfg, a.collector(cfg, logger), logger)
			return srv.Run(cmd.Context())
		},
	}
}

func newKeygenCommand(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key and store it in the .env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := config.GenerateAPIKey()
			if err != nil {
				return err
			}

			if !printOnly {
				cfg, err := a.loadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if err := cfg.SaveAPIKey(key); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "API key written to %s\n", cfg.EnvFile)
			}

			fmt.Fprintln(a.stdout, key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print-only", false, "print the key without writing the .env file")
	return cmd
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a scoped read-only access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}

			token, err := server.NewAuthService(cfg.APIKey, cfg.JWTSecret).IssueToken(subject, scopes, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "dashboard", "who the token is issued to")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{server.ScopeInventoryRead}, "granted scopes: inventory:read, host:read")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
