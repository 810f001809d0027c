package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/featuretrail/internal/adapter/postgres"
	activitylogrepo "github.com/heartmarshall/featuretrail/internal/adapter/postgres/activitylog"
	"github.com/heartmarshall/featuretrail/internal/adapter/postgres/dashboard"
	featurerepo "github.com/heartmarshall/featuretrail/internal/adapter/postgres/feature"
	"github.com/heartmarshall/featuretrail/internal/config"
	"github.com/heartmarshall/featuretrail/internal/service/activitylog"
	"github.com/heartmarshall/featuretrail/internal/service/feature"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// App is the set of services wired to one Postgres pool.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Features *feature.Service
	Audit    *activitylog.Service

	pool   *pgxpool.Pool
	owners OwnerLister
}

// New connects to the database and wires repositories and services.
// The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	features := featurerepo.New(pool)

	audit := activitylog.NewService(logger, cfg.Audit, activitylogrepo.New(pool), txm)
	featureSvc := feature.NewService(logger, cfg.Features, features, audit, dashboard.New(pool), txm)

	logger.Info("application wired",
		VersionAttr(),
		slog.String("log_level", cfg.Log.Level),
	)

	return &App{
		Config:   cfg,
		Log:      logger,
		Features: featureSvc,
		Audit:    audit,
		pool:     pool,
		owners:   features,
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	a.pool.Close()
}

// EachOwner runs fn once per owner that has features, with the owner in ctx.
func (a *App) EachOwner(ctx context.Context, fn func(ctx context.Context, ownerID uuid.UUID) error) error {
	return ForEachOwner(ctx, a.owners, a.Config.Features.ReindexConcurrency, fn)
}

// OwnerLister lists every owner with at least one feature.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]uuid.UUID, error)
}

// ForEachOwner fans fn out over all owners, at most limit at a time.
// The first error cancels the remaining calls and is returned.
func ForEachOwner(ctx context.Context, owners OwnerLister, limit int, fn func(ctx context.Context, ownerID uuid.UUID) error) error {
	ids, err := owners.ListOwners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, id := range ids {
		g.Go(func() error {
			if err := fn(ctxutil.WithOwnerID(gctx, id), id); err != nil {
				return fmt.Errorf("owner %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
