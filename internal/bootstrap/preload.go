package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/config"
)

// Preload runs upload.preload_file through the pipeline so the dashboard has data right
// after boot.
func Preload(cfg *config.Config, service app.SpaceSummaryService, log *slog.Logger) error {
	path := cfg.Upload.PreloadFile
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read preload file: %w", err)
	}

	res, err := service.Upload(context.Background(), filepath.Base(path), file)
	if err != nil {
		return fmt.Errorf("preload %s: %w", path, err)
	}

	log.Info("space summary preloaded", "path", path, "categories", len(res.Summary))
	return nil
}
