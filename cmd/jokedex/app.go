package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/config"
	"github.com/kailas-cloud/jokedex/internal/db"
	dbRedis "github.com/kailas-cloud/jokedex/internal/db/redis"
	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	logpkg "github.com/kailas-cloud/jokedex/internal/logger"
	"github.com/kailas-cloud/jokedex/internal/metrics"
	datasetrepo "github.com/kailas-cloud/jokedex/internal/repository/dataset"
	openaiGen "github.com/kailas-cloud/jokedex/internal/transport/openai"
	generateuc "github.com/kailas-cloud/jokedex/internal/usecase/generate"
	queryuc "github.com/kailas-cloud/jokedex/internal/usecase/query"
)

// app is the composition root shared by every command.
type app struct {
	env        string
	cfg        config.Config
	logger     *zap.Logger
	store      *domds.Store
	db         db.Store
	query      *queryuc.Service
	generators *generateuc.Registry
	closers    []func()
}

func loadConfig() (config.Config, string, error) {
	env := config.GetEnv()
	if flagConfig != "" {
		cfg, err := config.LoadFile(flagConfig)
		return cfg, env, err
	}
	cfg, err := config.Load(env)
	return cfg, env, err
}

// newApp loads config and datasets and registers generators.
// logEnv selects the logger flavour; CLI commands pass "cli".
func newApp(ctx context.Context, logEnv string) (*app, error) {
	cfg, env, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if logEnv == "cli" {
		level = flagLogLevel
	} else if logEnv == "" {
		logEnv = env
	}
	logger, err := logpkg.NewLogger(logEnv, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: env, cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	src, err := a.openSource(ctx, &cfg.Source)
	if err != nil {
		a.Close()
		return nil, err
	}

	loadCtx := logpkg.ContextWithLogger(ctx, logger)
	a.store, err = datasetrepo.Load(loadCtx, src)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load datasets: %w", err)
	}

	a.query = queryuc.New(a.store)
	a.generators, err = buildRegistry(&cfg.Generators, a.query, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) topN() int {
	if a.cfg.Query.DefaultTopN > 0 {
		return a.cfg.Query.DefaultTopN
	}
	return queryuc.DefaultTopN
}

// sourceStore is a dataset location that can be both read and written.
type sourceStore interface {
	datasetrepo.Source
	datasetrepo.Writer
}

// openSource selects the dataset source for the configured driver.
func (a *app) openSource(ctx context.Context, sc *config.SourceConfig) (sourceStore, error) {
	a.logger.Info("Opening dataset source", zap.String("driver", sc.Driver))

	switch sc.Driver {
	case config.DriverFile:
		return datasetrepo.NewFileSource(sc.Path, time.Duration(sc.LockTimeoutSec)*time.Second), nil
	case config.DriverRedis, config.DriverValkey:
		store, err := a.openDB(ctx, sc)
		if err != nil {
			return nil, err
		}
		return datasetrepo.NewRedisSource(store, sc.KeyPrefix), nil
	case config.DriverSQLite:
		conn, err := a.openSQLite(sc)
		if err != nil {
			return nil, err
		}
		return datasetrepo.NewSQLSource(conn), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", sc.Driver)
	}
}

func (a *app) openDB(ctx context.Context, sc *config.SourceConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    sc.Addrs,
		Password: sc.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	if err := store.WaitForReady(ctx, time.Duration(sc.ReadinessTimeout)*time.Second); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	a.logger.Info("Connected to database", zap.Strings("addrs", sc.Addrs))
	a.db = store
	return store, nil
}

func (a *app) openSQLite(sc *config.SourceConfig) (*sql.DB, error) {
	conn, err := datasetrepo.OpenSQLite(sc.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = conn.Close() })
	return conn, nil
}

// buildRegistry registers the generators enabled in config. Registration is explicit.
func buildRegistry(
	gc *config.GeneratorsConfig, query *queryuc.Service, logger *zap.Logger,
) (*generateuc.Registry, error) {
	metrics.RegisterGenerationMetrics()
	registry := generateuc.NewRegistry()

	if gc.Sample != nil {
		sample, err := generateuc.NewSample(query, gc.Sample.Datasets)
		if err != nil {
			return nil, fmt.Errorf("sample generator: %w", err)
		}
		if err := registry.Register(sample); err != nil {
			return nil, err
		}
	}

	if gc.OpenAI != nil {
		gen := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      gc.OpenAI.APIKey,
			BaseURL:     gc.OpenAI.BaseURL,
			Model:       gc.OpenAI.Model,
			Temperature: gc.OpenAI.Temperature,
			Prompt:      gc.OpenAI.Prompt,
			Logger:      logger,
		})
		if err := registry.Register(gen); err != nil {
			return nil, err
		}
	}

	logger.Info("Generators registered", zap.Strings("generators", registry.Names()))
	return registry, nil
}

// withApp builds the app for a CLI command, runs fn and releases resources.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, w io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx = logpkg.ContextWithLogger(ctx, a.logger)
	return fn(ctx, a, cmd.OutOrStdout())
}
