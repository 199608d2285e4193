package root

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Laz627/life-rpg/internal/config"
	"github.com/Laz627/life-rpg/internal/engine"
	"github.com/Laz627/life-rpg/internal/narrative"
	"github.com/Laz627/life-rpg/internal/storage"
)

// openService loads config, opens the database, and wires the engine with
// its logger and (when a key is configured) the narrative generator.
func openService(ctx context.Context) (*engine.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	svc := engine.NewService(db, log)
	if cfg.GeminiAPIKey != "" {
		gen, err := narrative.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		svc.SetGenerator(gen, cfg.NarrativeTimeout)
	}

	cleanup := func() {
		_ = log.Sync()
		_ = db.Close()
	}
	return svc, cleanup, nil
}

// openSession additionally resolves the single local user.
func openSession(ctx context.Context) (*engine.Service, *storage.User, func(), error) {
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	user, err := svc.GetOrCreateDefaultUser(ctx)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, user, cleanup, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
