package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poptique_list/internal/app"
	"poptique_list/internal/backend"
	"poptique_list/internal/proxy"
	"poptique_list/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newProxyCmd(a *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Serve the CORS proxy that forwards to SCRIPT_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.Settings.ProxyAddr
			}
			if a.Settings.ScriptURL == "" {
				log.Warn().Msg("SCRIPT_URL is not set; every request will fail until it is")
			}
			srv := proxy.NewServer(addr, proxy.NewHandler(a.Settings.ScriptURL))
			return serve(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $PROXY_ADDR)")
	return cmd
}

func newBackendCmd(a *App) *cobra.Command {
	var addr, store string
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Serve the list backend over Google Sheets or SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.Settings.BackendAddr
			}
			if store == "" {
				store = a.Settings.BackendStore
			}
			ctx := cmd.Context()

			st, closeStore, err := openStore(ctx, store, a.Settings)
			if err != nil {
				return err
			}
			defer closeStore()

			notifier := app.InitializeNotificationClient(a.Settings)
			defer notifier.Wait()

			srv := &http.Server{
				Addr:              addr,
				Handler:           backend.NewHandler(st, notifier),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $BACKEND_ADDR)")
	cmd.Flags().StringVar(&store, "store", "", "sheets or sqlite (default $BACKEND_STORE)")
	return cmd
}

func openStore(ctx context.Context, kind string, s app.Settings) (backend.Store, func(), error) {
	switch kind {
	case "sheets":
		spreadsheetID := s.SpreadsheetID
		if spreadsheetID == "" {
			spreadsheetID = app.GetRequiredEnv("SPREADSHEET_ID")
		}
		client, err := sheets.NewClient(ctx, s.GoogleCredentials)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		log.Info().Str("range", s.SpreadsheetRange).Msg("Using Google Sheets store")
		return backend.NewSheetsStore(client, spreadsheetID, s.SpreadsheetRange), func() {}, nil
	case "sqlite":
		st, err := backend.OpenSQLite(ctx, s.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", s.SQLitePath).Msg("Using SQLite store")
		return st, func() {
			if err := st.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close SQLite store")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, expected sheets or sqlite", kind)
	}
}

// serve runs srv until ctx is cancelled or the process is interrupted, then
// drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})
	return g.Wait()
}
