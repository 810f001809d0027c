package activitylog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// ListInput holds the parameters for listing activity logs.
// Page is 1-based; zero values fall back to the first page and the
// configured default page size.
type ListInput struct {
	EntityType *domain.EntityType
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.EntityType != nil && !i.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "invalid value"})
	}
	if i.From != nil && i.To != nil && i.To.Before(*i.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}
	if i.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be positive"})
	}
	if i.PerPage < 0 {
		errs = append(errs, domain.FieldError{Field: "per_page", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListResult is one page of activity logs.
type ListResult struct {
	Entries []*domain.ActivityLogEntry
	Total   int
	Page    int
	PerPage int
}

// GetEntry returns one entry of the authenticated owner.
func (s *Service) GetEntry(ctx context.Context, entryID uuid.UUID) (*domain.ActivityLogEntry, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	entry, err := s.entries.GetByID(ctx, ownerID, entryID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// FollowLink returns the entry a deep link points at.
func (s *Service) FollowLink(ctx context.Context, link string) (*domain.ActivityLogEntry, error) {
	id, err := s.ResolveLink(link)
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, id)
}

// ListEntries returns the authenticated owner's entries, newest first.
func (s *Service) ListEntries(ctx context.Context, input ListInput) (*ListResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	page := max(input.Page, 1)
	perPage := input.PerPage
	if perPage == 0 {
		perPage = s.cfg.DefaultPageSize
	}
	perPage = min(perPage, s.cfg.MaxPageSize)

	entries, total, err := s.entries.List(ctx, ownerID, domain.ActivityLogFilter{
		EntityType: input.EntityType,
		From:       input.From,
		To:         input.To,
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return &ListResult{Entries: entries, Total: total, Page: page, PerPage: perPage}, nil
}

// GetHistory returns the full chain of a subject, oldest first.
func (s *Service) GetHistory(ctx context.Context, subjectID string) ([]*domain.ActivityLogEntry, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if subjectID == "" {
		return nil, domain.NewValidationError("subject_id", "required")
	}

	entries, err := s.entries.ListBySubject(ctx, ownerID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list subject entries: %w", err)
	}
	return entries, nil
}

// GetTimeline returns the timeline of a subject.
// Returns domain.ErrNotFound if nothing was recorded for the subject.
func (s *Service) GetTimeline(ctx context.Context, subjectID string) (*domain.ActivityTimeline, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if subjectID == "" {
		return nil, domain.NewValidationError("subject_id", "required")
	}

	tl, err := s.entries.GetTimeline(ctx, ownerID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get timeline: %w", err)
	}
	return tl, nil
}
