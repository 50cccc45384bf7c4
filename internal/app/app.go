package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/gridstate/internal/config"
	"github.com/specialistvlad/gridstate/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp loads the workspace and returns an App ready to Run. Results are
// written to outW and logs to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.WorkspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	logger.Debug("Workspace loaded and translated into unified model.",
		"shared", len(model.Shared), "draws", len(model.Draws))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}, nil
}

// Model returns the loaded workspace. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
