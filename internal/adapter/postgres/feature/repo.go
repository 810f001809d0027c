// Package feature implements the Feature node store using PostgreSQL.
// Nodes are scoped by owner_id in every query; the denormalized child_ids and
// all_child_ids arrays are maintained through narrow append/pull primitives.
package feature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	postgres "github.com/heartmarshall/featuretrail/internal/adapter/postgres"
	"github.com/heartmarshall/featuretrail/internal/domain"
)

const tableName = "features"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "fid", "owner_id", "name", "parent_fid", "is_active",
	"child_ids", "all_child_ids", "modified_by", "created_at", "updated_at",
}

var errNoTx = errors.New("owner lock requires a transaction")

// Repo provides feature node persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new feature repository. db is usually a *pgxpool.Pool.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

// listAncestorsSQL walks parent_fid upward starting at $2 (inclusive).
// $3 bounds the walk so a corrupted cycle cannot recurse forever.
const listAncestorsSQL = `
WITH RECURSIVE chain AS (
    SELECT f.id, f.fid, f.owner_id, f.name, f.parent_fid, f.is_active,
           f.child_ids, f.all_child_ids, f.modified_by, f.created_at, f.updated_at,
           1 AS depth
    FROM features f
    WHERE f.owner_id = $1 AND f.fid = $2
    UNION ALL
    SELECT p.id, p.fid, p.owner_id, p.name, p.parent_fid, p.is_active,
           p.child_ids, p.all_child_ids, p.modified_by, p.created_at, p.updated_at,
           c.depth + 1
    FROM features p
    JOIN chain c ON p.owner_id = c.owner_id AND p.fid = c.parent_fid
    WHERE c.depth < $3
)
SELECT id, fid, owner_id, name, parent_fid, is_active,
       child_ids, all_child_ids, modified_by, created_at, updated_at
FROM chain
ORDER BY depth`

const appendChildSQL = `
UPDATE features
SET child_ids = array_append(child_ids, $3), updated_at = $4
WHERE owner_id = $1 AND id = $2`

const appendDescendantsSQL = `
UPDATE features
SET all_child_ids = all_child_ids || $3::uuid[], updated_at = $4
WHERE owner_id = $1 AND id = ANY($2::uuid[])`

const pullChildSQL = `
UPDATE features
SET child_ids = array_remove(child_ids, $3), updated_at = $4
WHERE owner_id = $1 AND id = $2`

// pullDescendantsSQL removes every id in $3 while keeping the remaining order.
const pullDescendantsSQL = `
UPDATE features
SET all_child_ids = ARRAY(
        SELECT d FROM unnest(all_child_ids) WITH ORDINALITY AS t(d, ord)
        WHERE d <> ALL($3::uuid[])
        ORDER BY ord
    ),
    updated_at = $4
WHERE owner_id = $1 AND id = ANY($2::uuid[])`

const setIndexSQL = `
UPDATE features
SET child_ids = $3::uuid[], all_child_ids = $4::uuid[]
WHERE owner_id = $1 AND id = $2`

const listOwnersSQL = `SELECT DISTINCT owner_id FROM features ORDER BY owner_id`

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type featureRow struct {
	ID          uuid.UUID   `db:"id"`
	FID         uuid.UUID   `db:"fid"`
	OwnerID     uuid.UUID   `db:"owner_id"`
	Name        string      `db:"name"`
	ParentFID   pgtype.UUID `db:"parent_fid"`
	IsActive    bool        `db:"is_active"`
	ChildIDs    []uuid.UUID `db:"child_ids"`
	AllChildIDs []uuid.UUID `db:"all_child_ids"`
	ModifiedBy  []byte      `db:"modified_by"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r featureRow) toDomain() (*domain.Feature, error) {
	f := &domain.Feature{
		ID:          r.ID,
		FID:         r.FID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		IsActive:    r.IsActive,
		ChildIDs:    nonNil(r.ChildIDs),
		AllChildIDs: nonNil(r.AllChildIDs),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ParentFID.Valid {
		parent := uuid.UUID(r.ParentFID.Bytes)
		f.ParentFID = &parent
	}
	if len(r.ModifiedBy) > 0 {
		if err := json.Unmarshal(r.ModifiedBy, &f.ModifiedBy); err != nil {
			return nil, fmt.Errorf("feature %s unmarshal modified_by: %w", r.FID, err)
		}
	}
	return f, nil
}

func toDomainList(rows []featureRow) ([]*domain.Feature, error) {
	out := make([]*domain.Feature, 0, len(rows))
	for _, row := range rows {
		f, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByFID returns a node by public id, scoped to the owner.
// Returns domain.ErrNotFound if the node does not exist or belongs to another owner.
func (r *Repo) GetByFID(ctx context.Context, ownerID, fid uuid.UUID) (*domain.Feature, error) {
	query, args, err := psql.Select(columns...).
		From(tableName).
		Where(sq.Eq{"owner_id": ownerID, "fid": fid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get feature query: %w", err)
	}

	var row featureRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapScanError(err, fid)
	}
	return row.toDomain()
}

// GetByIDs returns the owner's nodes whose storage id is in ids, ordered by
// creation time. Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Feature, error) {
	if len(ids) == 0 {
		return []*domain.Feature{}, nil
	}
	return r.selectMany(ctx, "get features by ids",
		psql.Select(columns...).
			From(tableName).
			Where(sq.Eq{"owner_id": ownerID}).
			Where("id = ANY(?::uuid[])", ids).
			OrderBy("created_at", "id"))
}

// ListRoots returns the owner's nodes without a parent, ordered by creation time.
func (r *Repo) ListRoots(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error) {
	return r.selectMany(ctx, "list root features",
		psql.Select(columns...).
			From(tableName).
			Where(sq.Eq{"owner_id": ownerID, "parent_fid": nil}).
			OrderBy("created_at", "id"))
}

// ListByOwner returns every node of the owner, ordered by creation time.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error) {
	return r.selectMany(ctx, "list features by owner",
		psql.Select(columns...).
			From(tableName).
			Where(sq.Eq{"owner_id": ownerID}).
			OrderBy("created_at", "id"))
}

// ListAncestors returns the node identified by fid followed by its ancestors,
// nearest first, up to maxDepth nodes. Returns domain.ErrNotFound if fid does
// not exist for the owner.
func (r *Repo) ListAncestors(ctx context.Context, ownerID, fid uuid.UUID, maxDepth int) ([]*domain.Feature, error) {
	var rows []featureRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, listAncestorsSQL, ownerID, fid, maxDepth); err != nil {
		return nil, postgres.MapError(err, "feature", fid.String())
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("feature %s: %w", fid, domain.ErrNotFound)
	}
	return toDomainList(rows)
}

// ExistsByName reports whether the owner has a node whose name equals name
// under case-insensitive comparison. excludeFID, when set, is ignored.
func (r *Repo) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeFID *uuid.UUID) (bool, error) {
	sub := psql.Select("1").
		From(tableName).
		Where(sq.Eq{"owner_id": ownerID, "name_normalized": domain.NormalizeName(name)})
	if excludeFID != nil {
		sub = sub.Where(sq.NotEq{"fid": *excludeFID})
	}

	query, args, err := sub.Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build name exists query: %w", err)
	}

	var exists bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check feature name: %w", err)
	}
	return exists, nil
}

// Count returns the number of nodes owned by ownerID.
func (r *Repo) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	query, args, err := psql.Select("count(*)").
		From(tableName).
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return count, nil
}

// ListOwners returns every owner that has at least one node.
func (r *Repo) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, listOwnersSQL)
	if err != nil {
		return nil, fmt.Errorf("list feature owners: %w", err)
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("list feature owners: %w", err)
	}
	return owners, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// LockOwner serializes tree mutations of one owner until the surrounding
// transaction ends.
func (r *Repo) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	if !postgres.InTx(ctx) {
		return fmt.Errorf("lock owner %s: %w", ownerID, errNoTx)
	}
	return postgres.AdvisoryXactLock(ctx, postgres.QuerierFromCtx(ctx, r.db), "features:"+ownerID.String())
}

// Create inserts a new node and returns the persisted domain.Feature.
// Returns domain.ErrAlreadyExists if the owner already has the fid or an
// equally named node.
func (r *Repo) Create(ctx context.Context, f *domain.Feature) (*domain.Feature, error) {
	modifiedBy, err := json.Marshal(f.ModifiedBy)
	if err != nil {
		return nil, fmt.Errorf("feature %s marshal modified_by: %w", f.FID, err)
	}

	query, args, err := psql.Insert(tableName).
		Columns("id", "fid", "owner_id", "name", "name_normalized", "parent_fid", "is_active",
			"child_ids", "all_child_ids", "modified_by", "created_at", "updated_at").
		Values(f.ID, f.FID, f.OwnerID, f.Name, domain.NormalizeName(f.Name), uuidPtrToPg(f.ParentFID), f.IsActive,
			nonNil(f.ChildIDs), nonNil(f.AllChildIDs), modifiedBy, f.CreatedAt, f.UpdatedAt).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert feature query: %w", err)
	}

	var row featureRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "feature", f.FID.String())
	}
	return row.toDomain()
}

// UpdateName renames a node and returns the updated row.
func (r *Repo) UpdateName(ctx context.Context, ownerID, fid uuid.UUID, name string, actor domain.Actor, at time.Time) (*domain.Feature, error) {
	modifiedBy, err := json.Marshal(actor)
	if err != nil {
		return nil, fmt.Errorf("feature %s marshal modified_by: %w", fid, err)
	}

	query, args, err := psql.Update(tableName).
		Set("name", name).
		Set("name_normalized", domain.NormalizeName(name)).
		Set("modified_by", modifiedBy).
		Set("updated_at", at).
		Where(sq.Eq{"owner_id": ownerID, "fid": fid}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build rename feature query: %w", err)
	}

	var row featureRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapScanError(err, fid)
	}
	return row.toDomain()
}

// SetActive sets is_active on every owner node whose storage id is in ids and
// returns the updated rows.
func (r *Repo) SetActive(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, active bool, actor domain.Actor, at time.Time) ([]*domain.Feature, error) {
	if len(ids) == 0 {
		return []*domain.Feature{}, nil
	}

	modifiedBy, err := json.Marshal(actor)
	if err != nil {
		return nil, fmt.Errorf("marshal modified_by: %w", err)
	}

	query, args, err := psql.Update(tableName).
		Set("is_active", active).
		Set("modified_by", modifiedBy).
		Set("updated_at", at).
		Where(sq.Eq{"owner_id": ownerID}).
		Where("id = ANY(?::uuid[])", ids).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build set active query: %w", err)
	}

	var rows []featureRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, fmt.Sprintf("set active=%t for owner", active), ownerID.String())
	}
	return toDomainList(rows)
}

// AppendChild appends childID to the parent's child_ids.
// Returns domain.ErrNotFound if the parent row does not exist for the owner.
func (r *Repo) AppendChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, appendChildSQL, ownerID, parentID, childID, at)
	if err != nil {
		return postgres.MapError(err, "feature", parentID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feature %s: %w", parentID, domain.ErrNotFound)
	}
	return nil
}

// AppendDescendants appends ids to all_child_ids of every ancestor in ancestorIDs.
func (r *Repo) AppendDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error {
	if len(ancestorIDs) == 0 || len(ids) == 0 {
		return nil
	}
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, appendDescendantsSQL, ownerID, ancestorIDs, ids, at)
	if err != nil {
		return postgres.MapError(err, "append descendants for owner", ownerID.String())
	}
	if int(tag.RowsAffected()) != len(ancestorIDs) {
		return fmt.Errorf("append descendants: updated %d of %d ancestors: %w", tag.RowsAffected(), len(ancestorIDs), domain.ErrNotFound)
	}
	return nil
}

// PullChild removes childID from the parent's child_ids.
func (r *Repo) PullChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, pullChildSQL, ownerID, parentID, childID, at); err != nil {
		return postgres.MapError(err, "feature", parentID.String())
	}
	return nil
}

// PullDescendants removes ids from all_child_ids of every ancestor in ancestorIDs.
func (r *Repo) PullDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error {
	if len(ancestorIDs) == 0 || len(ids) == 0 {
		return nil
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, pullDescendantsSQL, ownerID, ancestorIDs, ids, at); err != nil {
		return postgres.MapError(err, "pull descendants for owner", ownerID.String())
	}
	return nil
}

// DeleteByIDs removes the owner's nodes whose storage id is in ids and returns
// the fids of the removed rows.
func (r *Repo) DeleteByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	query, args, err := psql.Delete(tableName).
		Where(sq.Eq{"owner_id": ownerID}).
		Where("id = ANY(?::uuid[])", ids).
		Suffix("RETURNING fid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete features query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "delete features for owner", ownerID.String())
	}
	fids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "delete features for owner", ownerID.String())
	}
	return fids, nil
}

// SetIndex overwrites both denormalized caches of one node.
func (r *Repo) SetIndex(ctx context.Context, ownerID, id uuid.UUID, childIDs, allChildIDs []uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, setIndexSQL, ownerID, id, nonNil(childIDs), nonNil(allChildIDs))
	if err != nil {
		return postgres.MapError(err, "feature", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feature %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) selectMany(ctx context.Context, op string, b sq.SelectBuilder) ([]*domain.Feature, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []featureRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toDomainList(rows)
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// mapScanError maps scany's not-found into domain.ErrNotFound.
func mapScanError(err error, fid uuid.UUID) error {
	if pgxscan.NotFound(err) {
		return fmt.Errorf("feature %s: %w", fid, domain.ErrNotFound)
	}
	return postgres.MapError(err, "feature", fid.String())
}

// uuidPtrToPg converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func uuidPtrToPg(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// nonNil keeps empty arrays from being encoded as NULL.
func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
