package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/config"
	"github.com/jask/stockpile/internal/logging"
	"github.com/jask/stockpile/internal/navigation"
	"github.com/jask/stockpile/internal/presenter"
	"github.com/jask/stockpile/internal/sample"
	"github.com/jask/stockpile/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	debug      bool
	simulate   bool
	backend    string
	seed       int
	samples    string
	write      bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "stockpile",
		Short:        "Stockpile - a terminal product catalog",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if f.write {
				return writeConfig(cmd.OutOrStdout(), cfg)
			}
			log, cleanup, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []tea.ProgramOption{}
			if cfg.UI.AltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			return run(ctx, cfg, f, log, opts...)
		},
	}

	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config.toml (overrides $STOCKPILE_CONFIG)")
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging with caller info")
	cmd.PersistentFlags().BoolVar(&f.simulate, "simulate-camera", false, "never open the camera; use placeholder photos")
	cmd.PersistentFlags().StringVar(&f.backend, "backend", "", "catalog backend: memory or sqlite")
	cmd.Flags().IntVar(&f.seed, "seed-samples", 0, "start with this many generated sample products")
	cmd.Flags().StringVar(&f.samples, "samples-file", "", "start with the products listed in this YAML file")
	cmd.Flags().BoolVar(&f.write, "write-config", false, "save the effective settings (flags included) to the config file and exit")
	return cmd
}

// loadConfig reads the config and applies flag overrides.
func loadConfig(f flags) (config.Config, error) {
	if f.configPath != "" {
		if err := os.Setenv("STOCKPILE_CONFIG", f.configPath); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	load := config.Load
	if f.write {
		// --write-config may be creating the file.
		if _, err := os.Stat(config.Path()); errors.Is(err, os.ErrNotExist) {
			load = config.Defaults
		}
	}
	cfg, err := load()
	if err != nil {
		return config.Config{}, err
	}
	if f.debug {
		cfg.Log.Debug = true
	}
	if f.simulate {
		cfg.Camera.Mode = config.CameraSimulate
	}
	if f.backend != "" {
		cfg.Catalog.Backend = f.backend
	}
	if f.seed < 0 {
		return config.Config{}, fmt.Errorf("--seed-samples must not be negative")
	}
	return cfg, cfg.Validate()
}

// writeConfig saves cfg where Load will find it and reports the path.
func writeConfig(w io.Writer, cfg config.Config) error {
	if err := config.Save(cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "wrote %s\n", config.Path())
	return err
}

func run(ctx context.Context, cfg config.Config, f flags, log *zap.Logger, opts ...tea.ProgramOption) error {
	backend, closeBackend, err := newBackend(cfg.Catalog)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			log.Warn("close catalog backend", zap.Error(err))
		}
	}()

	camera, err := newCamera(cfg.Camera, log)
	if err != nil {
		return err
	}

	store := catalog.NewStore(backend, catalog.WithLogger(log))
	nav := navigation.New(log)
	if err := seedCatalog(ctx, store, f); err != nil {
		return err
	}

	form := presenter.NewCaptureForm(presenter.CaptureDeps{
		Store:   store,
		Nav:     nav,
		Camera:  camera,
		Timeout: cfg.Camera.Timeout,
		Log:     log,
	})
	defer form.Close()
	list, err := presenter.NewListView(ctx, presenter.ListDeps{Store: store, Nav: nav, Log: log})
	if err != nil {
		return err
	}
	defer list.Close()

	// The form is subscribed by now, so a capture start gets a fresh draft.
	start, err := goToStart(nav, cfg.UI)
	if err != nil {
		return err
	}

	log.Info("starting",
		zap.String("backend", cfg.Catalog.Backend),
		zap.String("camera", cfg.Camera.Mode),
		zap.Stringer("screen", start),
	)
	return tui.Run(ctx, tui.Deps{Nav: nav, List: list, Form: form, Log: log}, opts...)
}

// goToStart moves nav to the configured start screen.
func goToStart(nav *navigation.Controller, ui config.UIConfig) (navigation.Screen, error) {
	start, err := navigation.ParseScreen(ui.StartScreen)
	if err != nil {
		return 0, err
	}
	return start, nav.GoTo(start)
}

func seedCatalog(ctx context.Context, store *catalog.Store, f flags) error {
	if f.samples != "" {
		entries, err := sample.LoadFile(f.samples)
		if err != nil {
			return err
		}
		if _, err := sample.SeedEntries(ctx, store, entries); err != nil {
			return err
		}
	}
	if f.seed > 0 {
		if _, err := sample.Seed(ctx, store, f.seed, nil); err != nil {
			return err
		}
	}
	return nil
}
