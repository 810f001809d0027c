// Package dashboard implements per-owner analytics counters using PostgreSQL.
package dashboard

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/featuretrail/internal/adapter/postgres"
	"github.com/heartmarshall/featuretrail/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const incrementSQL = `
INSERT INTO feature_dashboards (owner_id, key, title, value, created_at, updated_at)
VALUES ($1, $2, $3, GREATEST($4::bigint, 0), $5, $5)
ON CONFLICT (owner_id, key)
DO UPDATE SET value = GREATEST(feature_dashboards.value + $4::bigint, 0), updated_at = $5
RETURNING owner_id, key, title, value, created_at, updated_at`

// Repo provides dashboard counter persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new dashboard repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type counterRow struct {
	OwnerID   uuid.UUID `db:"owner_id"`
	Key       string    `db:"key"`
	Title     string    `db:"title"`
	Value     int64     `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r counterRow) toDomain() domain.DashboardCounter {
	return domain.DashboardCounter{
		OwnerID:   r.OwnerID,
		Key:       domain.DashboardKey(r.Key),
		Title:     r.Title,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Increment adds delta to the owner's counter, creating it on first use.
// The stored value never drops below zero.
func (r *Repo) Increment(ctx context.Context, ownerID uuid.UUID, key domain.DashboardKey, delta int64, at time.Time) (domain.DashboardCounter, error) {
	var row counterRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, incrementSQL,
		ownerID, key.String(), key.Title(), delta, at); err != nil {
		return domain.DashboardCounter{}, postgres.MapError(err, "dashboard", key.String())
	}
	return row.toDomain(), nil
}

// List returns every counter of the owner ordered by key.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.DashboardCounter, error) {
	query, args, err := psql.Select("owner_id", "key", "title", "value", "created_at", "updated_at").
		From("feature_dashboards").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list dashboards query: %w", err)
	}

	var rows []counterRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}

	out := make([]domain.DashboardCounter, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
