package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"recipescale"
	"recipescale/config"
)

// app wires one session to the storage backend chosen in the config.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	session *recipescale.Session
	closers []io.Closer
}

func newLogger(cfg config.Config, errOut io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	var encoder zapcore.Encoder
	if cfg.LogFormat == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(errOut), level)
	return zap.New(core), nil
}

func openStorage(cfg config.Config) (recipescale.Storage, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return recipescale.NewMemoryStorage(), nil, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		s, err := recipescale.OpenSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return s, s, nil
	default:
		s, err := recipescale.NewFileStorage(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	}
}

func newApp(cfg config.Config, errOut io.Writer) (*app, error) {
	logger, err := newLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}
	storage, closer, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	defaults := cfg.DefaultIngredients()
	ingredients, err := recipescale.LoadIngredientStore(storage, cfg.IngredientsKey, defaults, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	stamper, err := recipescale.NewDateStamper(cfg.Locale, cfg.DateLayout)
	if err != nil {
		a.Close()
		return nil, err
	}
	records, err := recipescale.LoadRecordStore(storage, cfg.RecordsKey, logger,
		recipescale.WithDateStamper(stamper),
		recipescale.WithFallbackKinds(defaults.Kinds()),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session = recipescale.NewSession(ingredients, records, cfg.Scaler(), recipescale.NewFormatter(cfg.Labels), logger)
	logger.Debug("session ready", zap.String("backend", cfg.Backend), zap.String("data_dir", cfg.DataDir))
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
