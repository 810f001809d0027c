// Package activitylog implements the audit-trail store using PostgreSQL.
// Entries are immutable except for the one-time next_link backfill.
package activitylog

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

	postgres "github.com/heartmarshall/featuretrail/internal/adapter/postgres"
	"github.com/heartmarshall/featuretrail/internal/domain"
)

const (
	logsTable      = "activity_logs"
	timelinesTable = "activity_timelines"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "owner_id", "subject_id", "entity_type", "topic", "message", "payloads",
	"route_to_view", "navigation_workflow", "prev_link", "next_link",
	"modified_before_by", "modified_after_by", "created_at",
}

var errNoTx = errors.New("subject lock requires a transaction")

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new activity log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

// linkNextSQL only fills an empty next_link; a second backfill touches no rows.
const linkNextSQL = `
UPDATE activity_logs
SET next_link = $3
WHERE owner_id = $1 AND id = $2 AND next_link = ''`

const appendTimelineSQL = `
INSERT INTO activity_timelines (owner_id, subject_id, created_at, entries)
VALUES ($1, $2, $3, jsonb_build_array($4::jsonb))
ON CONFLICT (owner_id, subject_id)
DO UPDATE SET entries = activity_timelines.entries || jsonb_build_array($4::jsonb)`

const getTimelineSQL = `
SELECT owner_id, subject_id, created_at, entries
FROM activity_timelines
WHERE owner_id = $1 AND subject_id = $2`

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type entryRow struct {
	ID                 uuid.UUID `db:"id"`
	OwnerID            uuid.UUID `db:"owner_id"`
	SubjectID          string    `db:"subject_id"`
	EntityType         string    `db:"entity_type"`
	Topic              string    `db:"topic"`
	Message            string    `db:"message"`
	Payloads           []byte    `db:"payloads"`
	RouteToView        string    `db:"route_to_view"`
	NavigationWorkflow []string  `db:"navigation_workflow"`
	PrevLink           string    `db:"prev_link"`
	NextLink           string    `db:"next_link"`
	ModifiedBeforeBy   []byte    `db:"modified_before_by"`
	ModifiedAfterBy    []byte    `db:"modified_after_by"`
	CreatedAt          time.Time `db:"created_at"`
}

func (r entryRow) toDomain() (*domain.ActivityLogEntry, error) {
	e := &domain.ActivityLogEntry{
		ID:                 r.ID,
		OwnerID:            r.OwnerID,
		SubjectID:          r.SubjectID,
		EntityType:         domain.EntityType(r.EntityType),
		Topic:              domain.AuditTopic(r.Topic),
		Message:            r.Message,
		RouteToView:        r.RouteToView,
		NavigationWorkflow: r.NavigationWorkflow,
		PrevLink:           r.PrevLink,
		NextLink:           r.NextLink,
		CreatedAt:          r.CreatedAt,
	}
	if e.NavigationWorkflow == nil {
		e.NavigationWorkflow = []string{}
	}
	if err := unmarshalIfSet(r.Payloads, &e.Payloads); err != nil {
		return nil, fmt.Errorf("activity_log %s payloads: %w", r.ID, err)
	}
	if err := unmarshalIfSet(r.ModifiedBeforeBy, &e.ModifiedBeforeBy); err != nil {
		return nil, fmt.Errorf("activity_log %s modified_before_by: %w", r.ID, err)
	}
	if err := unmarshalIfSet(r.ModifiedAfterBy, &e.ModifiedAfterBy); err != nil {
		return nil, fmt.Errorf("activity_log %s modified_after_by: %w", r.ID, err)
	}
	return e, nil
}

func toDomainList(rows []entryRow) ([]*domain.ActivityLogEntry, error) {
	out := make([]*domain.ActivityLogEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type timelineRow struct {
	OwnerID   uuid.UUID `db:"owner_id"`
	SubjectID string    `db:"subject_id"`
	CreatedAt time.Time `db:"created_at"`
	Entries   []byte    `db:"entries"`
}

// ---------------------------------------------------------------------------
// Entries
// ---------------------------------------------------------------------------

// LockSubject serializes appends to one (owner, subject) chain until the
// surrounding transaction ends.
func (r *Repo) LockSubject(ctx context.Context, ownerID uuid.UUID, subjectID string) error {
	if !postgres.InTx(ctx) {
		return fmt.Errorf("lock subject %s: %w", subjectID, errNoTx)
	}
	return postgres.AdvisoryXactLock(ctx, postgres.QuerierFromCtx(ctx, r.db),
		"activity:"+ownerID.String()+":"+subjectID)
}

// Create inserts an entry and returns the persisted row.
func (r *Repo) Create(ctx context.Context, e *domain.ActivityLogEntry) (*domain.ActivityLogEntry, error) {
	payloads, err := json.Marshal(nonNilPayloads(e.Payloads))
	if err != nil {
		return nil, fmt.Errorf("activity_log marshal payloads: %w", err)
	}
	before, err := json.Marshal(e.ModifiedBeforeBy)
	if err != nil {
		return nil, fmt.Errorf("activity_log marshal modified_before_by: %w", err)
	}
	after, err := json.Marshal(e.ModifiedAfterBy)
	if err != nil {
		return nil, fmt.Errorf("activity_log marshal modified_after_by: %w", err)
	}
	workflow := e.NavigationWorkflow
	if workflow == nil {
		workflow = []string{}
	}

	query, args, err := psql.Insert(logsTable).
		Columns(columns...).
		Values(e.ID, e.OwnerID, e.SubjectID, string(e.EntityType), string(e.Topic), e.Message, payloads,
			e.RouteToView, workflow, e.PrevLink, e.NextLink, before, after, e.CreatedAt).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert activity log query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "activity_log", e.ID.String())
	}
	return row.toDomain()
}

// GetLatest returns the most recent entry of a subject chain.
// Returns domain.ErrNotFound if the chain is empty.
func (r *Repo) GetLatest(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityLogEntry, error) {
	query, args, err := psql.Select(columns...).
		From(logsTable).
		Where(sq.Eq{"owner_id": ownerID, "subject_id": subjectID}).
		OrderBy("created_at DESC", "seq DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest activity log query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapScanError(err, "subject", subjectID)
	}
	return row.toDomain()
}

// GetByID returns an entry of the owner by id.
func (r *Repo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ActivityLogEntry, error) {
	query, args, err := psql.Select(columns...).
		From(logsTable).
		Where(sq.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get activity log query: %w", err)
	}

	var row entryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapScanError(err, "activity_log", id.String())
	}
	return row.toDomain()
}

// LinkNext sets next_link on an entry whose next_link is still empty.
// Returns domain.ErrConflict if the entry is missing or already linked.
func (r *Repo) LinkNext(ctx context.Context, ownerID, id uuid.UUID, link string) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, linkNextSQL, ownerID, id, link)
	if err != nil {
		return postgres.MapError(err, "activity_log", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity_log %s next link: %w", id, domain.ErrConflict)
	}
	return nil
}

// List returns a page of the owner's entries, newest first, plus the total
// number of entries matching the filter.
func (r *Repo) List(ctx context.Context, ownerID uuid.UUID, filter domain.ActivityLogFilter) ([]*domain.ActivityLogEntry, int, error) {
	where := sq.And{sq.Eq{"owner_id": ownerID}}
	if filter.EntityType != nil {
		where = append(where, sq.Eq{"entity_type": filter.EntityType.String()})
	}
	if filter.From != nil {
		where = append(where, sq.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		where = append(where, sq.LtOrEq{"created_at": *filter.To})
	}

	countQuery, countArgs, err := psql.Select("count(*)").From(logsTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count activity logs query: %w", err)
	}
	var total int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	b := psql.Select(columns...).
		From(logsTable).
		Where(where).
		OrderBy("created_at DESC", "seq DESC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list activity logs query: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	entries, err := toDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListBySubject returns every entry of a subject chain, oldest first.
func (r *Repo) ListBySubject(ctx context.Context, ownerID uuid.UUID, subjectID string) ([]*domain.ActivityLogEntry, error) {
	query, args, err := psql.Select(columns...).
		From(logsTable).
		Where(sq.Eq{"owner_id": ownerID, "subject_id": subjectID}).
		OrderBy("created_at", "seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build subject activity logs query: %w", err)
	}

	var rows []entryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list subject activity logs: %w", err)
	}
	return toDomainList(rows)
}

// ---------------------------------------------------------------------------
// Timelines
// ---------------------------------------------------------------------------

// AppendTimeline appends item to the subject's timeline, creating the
// timeline at `at` when it does not exist yet.
func (r *Repo) AppendTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string, item domain.TimelineItem, at time.Time) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("activity_timeline marshal item: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, appendTimelineSQL, ownerID, subjectID, at, data); err != nil {
		return postgres.MapError(err, "activity_timeline", subjectID)
	}
	return nil
}

// GetTimeline returns the subject's timeline.
// Returns domain.ErrNotFound if nothing was recorded for the subject.
func (r *Repo) GetTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityTimeline, error) {
	var row timelineRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, getTimelineSQL, ownerID, subjectID); err != nil {
		return nil, mapScanError(err, "activity_timeline", subjectID)
	}

	tl := &domain.ActivityTimeline{
		OwnerID:   row.OwnerID,
		SubjectID: row.SubjectID,
		CreatedAt: row.CreatedAt,
		Items:     []domain.TimelineItem{},
	}
	if err := unmarshalIfSet(row.Entries, &tl.Items); err != nil {
		return nil, fmt.Errorf("activity_timeline %s entries: %w", subjectID, err)
	}
	return tl, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func mapScanError(err error, entity, id string) error {
	if pgxscan.NotFound(err) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return postgres.MapError(err, entity, id)
}

func unmarshalIfSet(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func nonNilPayloads(p []domain.Snapshot) []domain.Snapshot {
	if p == nil {
		return []domain.Snapshot{}
	}
	return p
}
