package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// ActivityLogRepo keeps audit entries in insertion order. A later index is
// newer when two entries share a timestamp.
type ActivityLogRepo struct {
	store *Store
}

func (r *ActivityLogRepo) LockSubject(ctx context.Context, ownerID uuid.UUID, subjectID string) error {
	if !inTx(ctx) {
		return fmt.Errorf("lock subject %s: %w", subjectID, errNoTx)
	}
	return nil
}

func (r *ActivityLogRepo) Create(ctx context.Context, e *domain.ActivityLogEntry) (*domain.ActivityLogEntry, error) {
	var out *domain.ActivityLogEntry
	err := r.store.write(ctx, func(st *state) error {
		for i := range st.logs {
			if st.logs[i].ID == e.ID {
				return fmt.Errorf("activity_log %s: %w", e.ID, domain.ErrAlreadyExists)
			}
		}
		stored := *e
		if stored.NavigationWorkflow == nil {
			stored.NavigationWorkflow = []string{}
		}
		st.logs = append(st.logs, stored)
		cp := stored
		out = &cp
		return nil
	})
	return out, err
}

// GetLatest returns the newest entry of a subject chain.
func (r *ActivityLogRepo) GetLatest(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityLogEntry, error) {
	var out *domain.ActivityLogEntry
	err := r.store.read(ctx, func(st *state) error {
		idx := -1
		for i := range st.logs {
			e := &st.logs[i]
			if e.OwnerID != ownerID || e.SubjectID != subjectID {
				continue
			}
			if idx < 0 || !e.CreatedAt.Before(st.logs[idx].CreatedAt) {
				idx = i
			}
		}
		if idx < 0 {
			return fmt.Errorf("subject %s: %w", subjectID, domain.ErrNotFound)
		}
		cp := st.logs[idx]
		out = &cp
		return nil
	})
	return out, err
}

func (r *ActivityLogRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ActivityLogEntry, error) {
	var out *domain.ActivityLogEntry
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.logs {
			if st.logs[i].ID == id && st.logs[i].OwnerID == ownerID {
				cp := st.logs[i]
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("activity_log %s: %w", id, domain.ErrNotFound)
	})
	return out, err
}

// LinkNext fills next_link once. Returns domain.ErrConflict if the entry is
// missing or already linked.
func (r *ActivityLogRepo) LinkNext(ctx context.Context, ownerID, id uuid.UUID, link string) error {
	return r.store.write(ctx, func(st *state) error {
		for i := range st.logs {
			e := &st.logs[i]
			if e.ID == id && e.OwnerID == ownerID && e.NextLink == "" {
				e.NextLink = link
				return nil
			}
		}
		return fmt.Errorf("activity_log %s next link: %w", id, domain.ErrConflict)
	})
}

// List returns a page of matching entries, newest first, and the match count.
func (r *ActivityLogRepo) List(ctx context.Context, ownerID uuid.UUID, filter domain.ActivityLogFilter) ([]*domain.ActivityLogEntry, int, error) {
	var (
		out   []*domain.ActivityLogEntry
		total int
	)
	err := r.store.read(ctx, func(st *state) error {
		matched := make([]*domain.ActivityLogEntry, 0)
		for i := len(st.logs) - 1; i >= 0; i-- {
			e := st.logs[i]
			if e.OwnerID != ownerID {
				continue
			}
			if filter.EntityType != nil && e.EntityType != *filter.EntityType {
				continue
			}
			if filter.From != nil && e.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.CreatedAt.After(*filter.To) {
				continue
			}
			matched = append(matched, &e)
		}
		// Newest first; the reverse walk already orders equal timestamps.
		slices.SortStableFunc(matched, func(a, b *domain.ActivityLogEntry) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})

		total = len(matched)
		start := min(filter.Offset, total)
		end := total
		if filter.Limit > 0 {
			end = min(start+filter.Limit, total)
		}
		out = matched[start:end]
		return nil
	})
	return out, total, err
}

// ListBySubject returns the subject chain oldest first.
func (r *ActivityLogRepo) ListBySubject(ctx context.Context, ownerID uuid.UUID, subjectID string) ([]*domain.ActivityLogEntry, error) {
	var out []*domain.ActivityLogEntry
	err := r.store.read(ctx, func(st *state) error {
		out = make([]*domain.ActivityLogEntry, 0)
		for i := range st.logs {
			e := st.logs[i]
			if e.OwnerID == ownerID && e.SubjectID == subjectID {
				out = append(out, &e)
			}
		}
		slices.SortStableFunc(out, func(a, b *domain.ActivityLogEntry) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		return nil
	})
	return out, err
}

func (r *ActivityLogRepo) AppendTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string, item domain.TimelineItem, at time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		key := ownerKey{ownerID, subjectID}
		tl, ok := st.timelines[key]
		if !ok {
			tl = &domain.ActivityTimeline{OwnerID: ownerID, SubjectID: subjectID, CreatedAt: at}
			st.timelines[key] = tl
		}
		tl.Items = append(tl.Items, item)
		return nil
	})
}

func (r *ActivityLogRepo) GetTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityTimeline, error) {
	var out *domain.ActivityTimeline
	err := r.store.read(ctx, func(st *state) error {
		tl, ok := st.timelines[ownerKey{ownerID, subjectID}]
		if !ok {
			return fmt.Errorf("activity_timeline %s: %w", subjectID, domain.ErrNotFound)
		}
		cp := *tl
		cp.Items = append([]domain.TimelineItem{}, tl.Items...)
		out = &cp
		return nil
	})
	return out, err
}
