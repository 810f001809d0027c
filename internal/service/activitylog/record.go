package activitylog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// Record appends ev to its subject's chain and timeline. It must run inside
// the caller's transaction so the entry commits together with the mutation it
// describes.
//
// Update and Delete entries link to the subject's latest entry, whose
// next link is backfilled to the new entry.
func (s *Service) Record(ctx context.Context, ev domain.AuditEvent) (*domain.ActivityLogEntry, error) {
	if err := ValidateEvent(ev); err != nil {
		return nil, err
	}

	if err := s.entries.LockSubject(ctx, ev.OwnerID, ev.SubjectID); err != nil {
		return nil, fmt.Errorf("lock subject: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)

	var prev *domain.ActivityLogEntry
	if ev.Topic.Chained() {
		latest, err := s.entries.GetLatest(ctx, ev.OwnerID, ev.SubjectID)
		switch {
		case err == nil:
			prev = latest
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, fmt.Errorf("get latest entry: %w", err)
		}
	}

	entry := &domain.ActivityLogEntry{
		ID:                 uuid.New(),
		OwnerID:            ev.OwnerID,
		SubjectID:          ev.SubjectID,
		EntityType:         ev.EntityType,
		Topic:              ev.Topic,
		Message:            ev.Message,
		Payloads:           payloadsFor(ev),
		RouteToView:        ev.RouteToView,
		NavigationWorkflow: ev.NavigationWorkflow,
		ModifiedBeforeBy:   ev.ActorBefore,
		ModifiedAfterBy:    ev.ActorAfter,
		CreatedAt:          now,
	}
	if prev != nil {
		entry.PrevLink = s.Link(prev.ID)
		// Keep created_at ordering consistent with the chain under clock skew.
		if entry.CreatedAt.Before(prev.CreatedAt) {
			entry.CreatedAt = prev.CreatedAt
		}
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if prev != nil {
		if err := s.entries.LinkNext(ctx, ev.OwnerID, prev.ID, s.Link(created.ID)); err != nil {
			return nil, fmt.Errorf("link previous entry: %w", err)
		}
	}

	item := domain.TimelineItem{EntryID: created.ID, Message: created.Message, CreatedAt: created.CreatedAt}
	if err := s.entries.AppendTimeline(ctx, ev.OwnerID, ev.SubjectID, item, created.CreatedAt); err != nil {
		return nil, fmt.Errorf("append timeline: %w", err)
	}

	s.log.DebugContext(logContext(ctx, ev.OwnerID), "activity recorded",
		slog.String("subject_id", ev.SubjectID),
		slog.String("topic", ev.Topic.String()),
		slog.String("entry_id", created.ID.String()),
	)

	return created, nil
}

// RecordAudit records ev in a transaction of its own, or joins the one ctx
// already carries. Resource services that already hold a transaction call
// Record instead.
func (s *Service) RecordAudit(ctx context.Context, ev domain.AuditEvent) (*domain.ActivityLogEntry, error) {
	var entry *domain.ActivityLogEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var recErr error
		entry, recErr = s.Record(txCtx, ev)
		return recErr
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(logContext(ctx, ev.OwnerID), "activity recorded",
		slog.String("subject_id", ev.SubjectID),
		slog.String("topic", ev.Topic.String()),
		slog.String("entry_id", entry.ID.String()),
	)

	return entry, nil
}

// logContext attaches the event's owner for the log handler when ctx has none.
func logContext(ctx context.Context, ownerID uuid.UUID) context.Context {
	if _, ok := ctxutil.OwnerIDFromCtx(ctx); ok {
		return ctx
	}
	return ctxutil.WithOwnerID(ctx, ownerID)
}

// payloadsFor stores the new snapshot first; Update entries also carry the
// old snapshot.
func payloadsFor(ev domain.AuditEvent) []domain.Snapshot {
	if ev.Topic == domain.AuditTopicUpdate {
		return []domain.Snapshot{ev.New, ev.Old}
	}
	return []domain.Snapshot{ev.New}
}

// ValidateEvent checks all fields and collects all errors.
func ValidateEvent(ev domain.AuditEvent) error {
	var errs []domain.FieldError

	if ev.OwnerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "owner_id", Message: "required"})
	}
	if ev.SubjectID == "" {
		errs = append(errs, domain.FieldError{Field: "subject_id", Message: "required"})
	}
	if !ev.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "invalid value"})
	}
	if !ev.Topic.IsValid() {
		errs = append(errs, domain.FieldError{Field: "topic", Message: "invalid value"})
	}
	if ev.Message == "" {
		errs = append(errs, domain.FieldError{Field: "message", Message: "required"})
	}
	if ev.New == nil {
		errs = append(errs, domain.FieldError{Field: "new", Message: "required"})
	}
	if ev.Topic == domain.AuditTopicUpdate && ev.Old == nil {
		errs = append(errs, domain.FieldError{Field: "old", Message: "required for Update"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
