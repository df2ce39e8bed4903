// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/ledger-sync/internal/config"
	"github.com/MKhiriev/ledger-sync/internal/logger"
	"github.com/MKhiriev/ledger-sync/models"
	"github.com/spf13/cobra"
)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

type rootOptions struct {
	serverAddress  string
	dsn            string
	configPath     string
	logFile        string
	requestTimeout time.Duration
	syncInterval   time.Duration
}

// overrides returns the flag values as the highest-priority configuration
// layer. Unset flags stay zero so that env and JSON can fill them.
func (o *rootOptions) overrides() *config.StructuredConfig {
	return &config.StructuredConfig{
		Storage: config.Storage{DB: config.DB{DSN: o.dsn}},
		Adapter: config.Adapter{
			HTTPAddress:    o.serverAddress,
			RequestTimeout: o.requestTimeout,
		},
		Workers:      config.Workers{SyncInterval: o.syncInterval},
		Log:          config.Log{File: o.logFile},
		JSONFilePath: o.configPath,
	}
}

// NewRootCommand builds the ledger-sync device client CLI.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &rootOptions{}
	var app *App

	root := &cobra.Command{
		Use:           "ledger-sync",
		Short:         "Device client for the ledger-sync server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetClientConfig(opts.overrides())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logger.NewClientLogger("ledger-sync-client", cfg.Log)
			cmd.SetContext(log.WithContext(cmd.Context()))

			app, err = NewApp(cmd.Context(), cfg, log)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.serverAddress, "server", "a", "", "server address host:port")
	flags.StringVarP(&opts.dsn, "db", "d", "", "path of the local SQLite database")
	flags.StringVarP(&opts.configPath, "config", "c", "", "JSON config file path")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path")
	flags.DurationVar(&opts.requestTimeout, "request-timeout", 0, "server request timeout (e.g. 15s)")
	flags.DurationVar(&opts.syncInterval, "sync-interval", 0, "interval between sync rounds in watch mode")

	appFn := func() *App { return app }

	root.AddCommand(
		newRegisterCommand(appFn),
		newLoginCommand(appFn),
		newRecordCommand(appFn),
		newSyncCommand(appFn),
		newInitialSyncCommand(appFn),
		newWatchCommand(appFn),
		newListCommand(appFn),
		newVersionCommand(appFn, build),
	)

	return root
}

func credentialsFlags(cmd *cobra.Command, user *models.User) {
	cmd.Flags().StringVarP(&user.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&user.Password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
}

func newRegisterCommand(app func() *App) *cobra.Command {
	var user models.User

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log this device in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app().services.AuthService.Register(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", session.Username, session.UserID)
			return nil
		},
	}
	credentialsFlags(cmd, &user)
	cmd.Flags().StringVar(&user.Nickname, "nickname", "", "display name")

	return cmd
}

func newLoginCommand(app func() *App) *cobra.Command {
	var user models.User

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log this device in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app().services.AuthService.Login(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", session.Username, session.UserID)
			return nil
		},
	}
	credentialsFlags(cmd, &user)

	return cmd
}

func newRecordCommand(app func() *App) *cobra.Command {
	var (
		entry       models.LogEntry
		businessIDs []string
		parentType  string
		parentID    string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Queue a local change for the next sync round",
		Example: `  ledger-sync record -t book -o create -i b1 --data '{"id":"b1","name":"Home"}'
  ledger-sync record -t item -o batchDelete -i i1 -i i2 --parent-type book --parent-id b1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry.BusinessID = businessIDs
			if parentType != "" {
				entry.ParentType = &parentType
			}
			if parentID != "" {
				entry.ParentID = &parentID
			}

			recorded, err := app().services.LogService.Record(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued %s\n", recorded.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP((*string)(&entry.BusinessType), "type", "t", "", "business type (book, category, item, shop, symbol, fund, fundBook, bookMember, user)")
	flags.StringVarP((*string)(&entry.OperateType), "op", "o", "", "operation (create, update, delete, batchCreate, batchUpdate, batchDelete)")
	flags.StringSliceVarP(&businessIDs, "id", "i", nil, "affected record id, repeat for batches")
	flags.StringVar(&entry.OperateData, "data", "", "JSON payload")
	flags.StringVar(&parentType, "parent-type", "", "parent type, e.g. book")
	flags.StringVar(&parentID, "parent-id", "", "parent id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}

func newSyncCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync round",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := app().services.SyncService.Sync(cmd.Context())
			if err != nil {
				return err
			}
			printRound(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newInitialSyncCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "initial-sync",
		Short: "Download the full visible history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := app().services.SyncService.InitialSync(cmd.Context())
			if err != nil {
				return err
			}
			printRound(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newWatchCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep syncing until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app().Watch(ctx)
		},
	}
}

func newListCommand(app func() *App) *cobra.Command {
	var limit uint64

	cmd := &cobra.Command{
		Use:       "list {pending|failed|changes}",
		Short:     "Print local entries as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pending", "failed", "changes"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logs := app().services.LogService

			var (
				entries []models.LogEntry
				err     error
			)
			switch args[0] {
			case "pending":
				entries, err = logs.Pending(cmd.Context())
			case "failed":
				entries, err = logs.Failed(cmd.Context())
			case "changes":
				entries, err = logs.Changes(cmd.Context(), limit)
			default:
				return fmt.Errorf("unknown list %q", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().Uint64Var(&limit, "limit", 0, "maximum number of changes, 0 for all")

	return cmd
}

func newVersionCommand(app func() *App, build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", build.Version, build.Date, build.Commit)

			serverVersion, err := app().adapter.Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "Server version: unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Server version: %s\n", serverVersion)
			return nil
		},
	}
}

func printRound(out io.Writer, resp models.SyncResponse) {
	var synced, failed int
	for _, result := range resp.Results {
		switch result.SyncState {
		case models.SyncStateSynced:
			synced++
		case models.SyncStateFailed:
			failed++
			reason := ""
			if result.SyncError != nil {
				reason = *result.SyncError
			}
			fmt.Fprintf(out, "failed %s: %s\n", result.LogID, reason)
		}
	}
	fmt.Fprintf(out, "synced %d, failed %d, received %d changes (cursor %d)\n",
		synced, failed, len(resp.Changes), resp.SyncTimeStamp)
}
