// Package app wires the upstream clients, the query engine and the services
// built on them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"inventory-hub/internal/config"
	"inventory-hub/internal/domain"
	"inventory-hub/internal/engine"
	"inventory-hub/internal/service/aggregate"
	"inventory-hub/internal/service/query"
	"inventory-hub/internal/upstream"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	// HTTPClient is shared by the upstream clients; nil uses a default.
	HTTPClient *http.Client
}

// Services groups the services the API handler and the CLI need.
type Services struct {
	Aggregator *aggregate.Aggregator
	Runner     *query.Runner
	Reports    *query.Reports
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Engine   domain.QueryEngine

	closers []func() error
}

// New builds the application. An Athena engine whose AWS credentials cannot
// be resolved degrades to an unconfigured engine; only the query endpoints
// are affected.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// === Upstream clients ===
	opts := upstream.Options{
		Timeout:       cfg.Upstream.Timeout,
		HealthTimeout: cfg.Upstream.HealthTimeout,
		RPS:           cfg.Upstream.RPS,
		Burst:         cfg.Upstream.Burst,
		HTTPClient:    deps.HTTPClient,
		Logger:        logger.With("component", "upstream"),
	}
	products := upstream.NewProductsClient(cfg.Upstream.ProductsURL, opts)
	orders := upstream.NewOrdersClient(cfg.Upstream.OrdersURL, opts)
	suppliers := upstream.NewSuppliersClient(cfg.Upstream.SuppliersURL, opts)

	agg := aggregate.New(products, orders, suppliers,
		[]domain.HealthChecker{products, orders, suppliers},
		aggregate.Options{
			Concurrency:  cfg.Upstream.FanoutConcurrency,
			MaxListPages: cfg.Upstream.MaxListPages,
			ListPageSize: cfg.Upstream.ListPageSize,
			Logger:       logger.With("component", "aggregate"),
		})

	// === Query engine ===
	a := &App{}
	eng, presigner, err := a.newEngine(ctx, cfg.Query, logger.With("component", "engine"))
	if err != nil {
		return nil, err
	}
	a.Engine = eng

	runner := query.NewRunner(eng, query.RunnerOptions{
		Database:     cfg.Query.Database,
		ResultSink:   cfg.Query.OutputLocation,
		PollInterval: cfg.Query.PollInterval,
		PollAttempts: cfg.Query.PollAttempts,
		Presigner:    presigner,
		Logger:       logger.With("component", "query"),
	})

	a.Services = Services{
		Aggregator: agg,
		Runner:     runner,
		Reports:    query.NewReports(runner),
	}
	logger.Info("application wired",
		"engine", eng.Name(),
		"engine_configured", runner.Configured(),
		"products_url", cfg.Upstream.ProductsURL,
		"orders_url", cfg.Upstream.OrdersURL,
		"suppliers_url", cfg.Upstream.SuppliersURL,
	)
	return a, nil
}

func (a *App) newEngine(ctx context.Context, qc config.QueryConfig, logger *slog.Logger) (domain.QueryEngine, domain.ResultPresigner, error) {
	switch qc.Engine {
	case config.EngineAthena:
		awsCfg, err := engine.LoadAWSConfig(ctx, engine.AWSOptions{
			Region:          qc.AWSRegion,
			Profile:         qc.AWSProfile,
			AccessKeyID:     qc.AWSAccessKeyID,
			SecretAccessKey: qc.AWSSecretKey,
		})
		if err != nil {
			logger.Warn("athena disabled", "error", err)
			return engine.NewUnconfigured(fmt.Sprintf("athena credentials unavailable: %v", err)), nil, nil
		}
		eng := engine.NewAthena(awsCfg, engine.AthenaOptions{
			WorkGroup:      qc.WorkGroup,
			MaxResultPages: qc.MaxResultPages,
			Logger:         logger,
		})
		var presigner domain.ResultPresigner
		if qc.ResultURLTTL > 0 {
			presigner = engine.NewS3Presigner(awsCfg, qc.ResultURLTTL)
		}
		return eng, presigner, nil

	case config.EngineDuckDB:
		eng, err := engine.OpenDuckDB(ctx, engine.DuckDBOptions{
			Path:        qc.DuckDBPath,
			InitSQLFile: qc.DuckDBInitSQL,
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("local engine: %w", err)
		}
		a.closers = append(a.closers, eng.Close)
		return eng, nil, nil

	default:
		return engine.NewUnconfigured("query engine disabled (QUERY_ENGINE=none)"), nil, nil
	}
}

// Close releases engine resources.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
