package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/config"
	"github.com/jask/stockpile/internal/database"
	"github.com/jask/stockpile/internal/database/repository"
)

// newBackend opens the configured catalog backend. Both live only as long as
// the process.
func newBackend(cfg config.CatalogConfig) (catalog.Backend, func() error, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendSQLite:
		db, err := database.Open("stockpile-" + uuid.NewString())
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog db: %w", err)
		}
		return repository.NewProductRepo(db), db.Close, nil
	case config.BackendMemory, "":
		return catalog.NewMemoryBackend(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}

func newCamera(cfg config.CameraConfig, log *zap.Logger) (capture.Capability, error) {
	if strings.EqualFold(cfg.Mode, config.CameraSimulate) {
		return capture.Offline{}, nil
	}
	perm, err := capture.ParsePermission(cfg.Permission)
	if err != nil {
		return nil, err
	}
	return capture.NewCommandCamera(cfg.Command, cfg.Args, cfg.OutputDir, perm, log), nil
}
