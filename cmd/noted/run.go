package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexjbarnes/noted/internal/config"
	"github.com/alexjbarnes/noted/internal/console"
	errs "github.com/alexjbarnes/noted/internal/errors"
	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/logging"
	"github.com/alexjbarnes/noted/internal/mcpserver"
	"github.com/alexjbarnes/noted/internal/notebook"
	"github.com/alexjbarnes/noted/internal/server"
	"github.com/alexjbarnes/noted/internal/state"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "noted",
		Short:         "Plain text notes in a folder, kept in sync with changes made by other programs.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runApp,
	}

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Open the current note folder in the terminal (default)",
		Args:  cobra.NoArgs,
		RunE:  runApp,
	})
	root.AddCommand(newFolderCmd())
	root.AddCommand(newNotesCmd())
	root.AddCommand(newMCPKeyCmd())

	return root
}

// runApp starts the watcher, the controller loop, the console and the
// optional MCP server. Quitting the console stops everything else.
func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	logger.Info("noted starting",
		slog.String("version", Version),
		slog.Bool("mcp", cfg.EnableMCP),
		slog.Bool("mcp_auth", cfg.MCPAPIKeyHash != ""),
	)

	st, err := state.LoadAt(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	defer st.Close()

	nf, err := currentFolder(cfg, st)
	if err != nil {
		return err
	}

	folder, err := notebook.NewFolder(nf.LocalPath)
	if err != nil {
		return fmt.Errorf("opening note folder: %w", err)
	}

	store, err := index.Open(":memory:")
	if err != nil {
		return fmt.Errorf("opening note index: %w", err)
	}
	defer store.Close()

	watcher, err := notebook.NewWatcher(notebook.WatcherOptions{
		SettleDelay: cfg.WatchSettleDelay,
		Debounce:    cfg.WatchDebounce,
		MaxFiles:    cfg.MaxWatchedFiles,
	}, logger.With(slog.String("service", "watcher")))
	if err != nil {
		return err
	}
	defer watcher.Close()

	con := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	ctrl := notebook.New(folder, store, watcher, st, con, con, settingsFrom(cfg), logger)

	logger.Info("opening note folder",
		slog.String("name", nf.Name),
		slog.String("path", folder.Dir()),
	)

	if err := ctrl.Rebuild(); err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(watcher.Watch(gctx))
	})

	g.Go(func() error {
		return ignoreCanceled(ctrl.Run(gctx))
	})

	g.Go(func() error {
		defer cancel()
		return ignoreCanceled(con.Run(gctx, ctrl))
	})

	if cfg.EnableMCP {
		g.Go(func() error {
			return runMCP(gctx, cfg, ctrl, logger)
		})
	}

	return g.Wait()
}

// runMCP serves the note tools over streamable HTTP.
func runMCP(ctx context.Context, cfg *config.Config, ctrl *notebook.Controller, logger *slog.Logger) error {
	mcpLogger := logger.With(slog.String("service", "mcp"))

	mcpServer := mcp.NewServer(
		&mcp.Implementation{Name: "noted-mcp", Version: Version},
		nil,
	)
	mcpserver.RegisterTools(mcpServer, ctrl)

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	mux := server.NewMux(server.MuxConfig{
		MCPHandler: mcpHandler,
		Logger:     mcpLogger,
		APIKeyHash: cfg.MCPAPIKeyHash,
	})

	return server.Serve(ctx, cfg.MCPListenAddr, mux, mcpLogger)
}

// currentFolder returns the stored current note folder. On first start
// the configured notes directory, or ~/Notes, is stored as the first
// folder.
func currentFolder(cfg *config.Config, st *state.State) (state.NoteFolder, error) {
	nf, err := st.CurrentFolder()
	if err == nil {
		return nf, nil
	}

	if !errors.Is(err, errs.ErrFolderNotFound) {
		return state.NoteFolder{}, err
	}

	dir := cfg.NotesDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return state.NoteFolder{}, fmt.Errorf("determining home directory: %w", err)
		}

		dir = filepath.Join(home, "Notes")
	}

	nf, err = st.AddFolder(filepath.Base(dir), dir)
	if err != nil {
		return state.NoteFolder{}, fmt.Errorf("storing note folder: %w", err)
	}

	return nf, nil
}

func settingsFrom(cfg *config.Config) notebook.Settings {
	return notebook.Settings{
		NotifyAllExternalModifications: cfg.NotifyAllExternalModifications,
		AutosaveInterval:               cfg.AutosaveInterval,
		ViewRefreshInterval:            cfg.ViewRefreshInterval,
		PeriodicCheckInterval:          cfg.PeriodicCheckInterval,
		QuietReloadAfter:               cfg.QuietReloadAfter,
		CryptoKeyTTL:                   cfg.CryptoKeyTTL,
		DownloadTimeout:                cfg.DownloadTimeout,
		SortAlphabetically:             cfg.SortAlphabetically,
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
