package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/config"
	"github.com/jask/stockpile/internal/database/repository"
	"github.com/jask/stockpile/internal/navigation"
	"github.com/jask/stockpile/internal/presenter"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, name := range []string{config.BackendMemory, config.BackendSQLite} {
		backend, closeFn, err := newBackend(config.CatalogConfig{Backend: name})
		require.NoError(t, err, name)

		store := catalog.NewStore(backend)
		_, err = store.Add(ctx, "Laptop", "Fast laptop", "")
		require.NoError(t, err, name)
		n, err := store.Len(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.NoError(t, closeFn())
	}

	backend, closeFn, err := newBackend(config.CatalogConfig{Backend: config.BackendSQLite})
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()
	require.IsType(t, &repository.ProductRepo{}, backend)

	_, _, err = newBackend(config.CatalogConfig{Backend: "redis"})
	require.Error(t, err)
}

func TestNewCamera(t *testing.T) {
	t.Parallel()

	log := zaptest.NewLogger(t)
	cam, err := newCamera(config.CameraConfig{Mode: config.CameraSimulate}, log)
	require.NoError(t, err)
	require.Equal(t, capture.Offline{}, cam)

	cam, err = newCamera(config.CameraConfig{Mode: config.CameraAuto, Command: "fswebcam", Permission: "denied"}, log)
	require.NoError(t, err)
	_, err = cam.Request(context.Background())
	require.ErrorIs(t, err, capture.ErrDeclined)

	_, err = newCamera(config.CameraConfig{Mode: config.CameraAuto, Permission: "sometimes"}, log)
	require.Error(t, err)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[catalog]\nbackend = \"memory\"\n"), 0o600))
	t.Setenv("STOCKPILE_CONFIG", "")

	cfg, err := loadConfig(flags{configPath: path, debug: true, simulate: true, backend: "sqlite"})
	require.NoError(t, err)
	require.True(t, cfg.Log.Debug)
	require.Equal(t, config.CameraSimulate, cfg.Camera.Mode)
	require.Equal(t, config.BackendSQLite, cfg.Catalog.Backend)

	_, err = loadConfig(flags{configPath: path, backend: "postgres"})
	require.Error(t, err)

	_, err = loadConfig(flags{configPath: path, seed: -1})
	require.Error(t, err)
}

func TestWriteConfigFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOCKPILE_CONFIG", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--write-config", "--simulate-camera", "--backend", "sqlite"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.CameraSimulate, cfg.Camera.Mode)
	require.Equal(t, config.BackendSQLite, cfg.Catalog.Backend)
	require.Equal(t, "list", cfg.UI.StartScreen)

	// A second write keeps what the file already holds.
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--write-config", "--debug"})
	require.NoError(t, cmd.Execute())

	cfg, err = config.Load()
	require.NoError(t, err)
	require.Equal(t, config.BackendSQLite, cfg.Catalog.Backend)
	require.True(t, cfg.Log.Debug)
}

func TestGoToStart(t *testing.T) {
	t.Parallel()

	log := zaptest.NewLogger(t)
	nav := navigation.New(log)
	form := presenter.NewCaptureForm(presenter.CaptureDeps{Store: catalog.NewStore(nil), Nav: nav, Log: log})
	defer form.Close()

	start, err := goToStart(nav, config.UIConfig{StartScreen: "capture"})
	require.NoError(t, err)
	require.Equal(t, navigation.Capture, start)
	require.Equal(t, navigation.Capture, nav.Current())
	require.Equal(t, presenter.Draft{}, form.Draft())

	_, err = goToStart(nav, config.UIConfig{StartScreen: "settings"})
	require.Error(t, err)
	require.Equal(t, navigation.Capture, nav.Current())
}

func TestSeedCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - name: Lamp\n    description: Desk lamp\n"), 0o600))

	ctx := context.Background()
	store := catalog.NewStore(nil)
	require.NoError(t, seedCatalog(ctx, store, flags{samples: path, seed: 3}))

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	require.Equal(t, "Lamp", items[0].Name)
}
