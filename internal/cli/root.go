// Package cli is the crmctl command tree: a terminal shell over the CRM API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/geocoder89/salescrm/internal/client/authclient"
	"github.com/geocoder89/salescrm/internal/client/dashboard"
	"github.com/geocoder89/salescrm/internal/client/fetch"
	"github.com/geocoder89/salescrm/internal/client/session"
	"github.com/geocoder89/salescrm/internal/config"
	"github.com/geocoder89/salescrm/internal/redisclient"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL       string
	DemoMode     bool
	SessionFile  string
	SessionRedis string
	Verbose      bool
	Format       string // "json" | "text"

	// Storage and HTTPClient override the defaults (for testing).
	Storage    session.Storage
	HTTPClient *http.Client

	app *App
}

var ValidFormats = []string{"text", "json"}

// App is the wired client core shared by every command of one invocation.
type App struct {
	Log     *slog.Logger
	Holder  *session.Holder
	Auth    *authclient.Client
	Fetcher *fetch.Fetcher
	Stats   *dashboard.Aggregator

	closers []func() error
}

// Close releases what build opened, e.g. the session redis client. It is safe to call twice.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *RootOptions) {
	defaults := config.LoadClient()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "crmctl",
		Short: "Sales CRM shell",
		Long: `crmctl signs in to the CRM API and shows the dashboard, records and navigation
available to your role. The session is kept between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.build(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.Close()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", defaults.APIURL, "API base URL (through the gateway)")
	cmd.PersistentFlags().BoolVar(&opts.DemoMode, "demo", defaults.DemoMode, "substitute demo data when a fetch fails")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", defaults.SessionFile, "where the session is kept")
	cmd.PersistentFlags().StringVar(&opts.SessionRedis, "session-redis", defaults.SessionRedis, "redis URL to keep the session in instead of a file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", defaults.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewNavCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))

	return cmd, opts
}

// Close releases the App of the last build. PersistentPostRunE is skipped when a command
// fails, so Execute calls it too.
func (o *RootOptions) Close() error {
	if o.app == nil {
		return nil
	}
	return o.app.Close()
}

func (o *RootOptions) build(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	o.APIURL = strings.TrimRight(o.APIURL, "/")

	storage, closeStorage, err := o.storage()
	if err != nil {
		return err
	}

	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	holder := session.NewHolder(session.NewStore(storage), log)
	fetcher := fetch.NewFetcher(o.APIURL, httpClient, fetch.Policy{DemoMode: o.DemoMode}, log)

	o.app = &App{
		Log:     log,
		Holder:  holder,
		Auth:    authclient.New(o.APIURL, httpClient, holder, log),
		Fetcher: fetcher,
		Stats:   dashboard.NewAggregator(fetcher, log),
	}
	if closeStorage != nil {
		o.app.closers = append(o.app.closers, closeStorage)
	}

	holder.Hydrate(ctx)
	return nil
}

// storage picks the session backend. The returned close func is nil when there is nothing to release.
func (o *RootOptions) storage() (session.Storage, func() error, error) {
	if o.Storage != nil {
		return o.Storage, nil, nil
	}

	if o.SessionRedis != "" {
		rc, err := redisclient.New(redisclient.Config{URL: o.SessionRedis})
		if err != nil {
			return nil, nil, fmt.Errorf("session redis: %w", err)
		}
		return session.NewRedisStorage(rc.Raw(), "salescrm:session:"), rc.Close, nil
	}

	if o.SessionFile == "" {
		return nil, nil, fmt.Errorf("no session file configured")
	}
	return session.NewFileStorage(o.SessionFile), nil, nil
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd, opts := newRootCommand()
	defer func() { _ = opts.Close() }()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
