package activitylog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/config"
	"github.com/heartmarshall/featuretrail/internal/domain"
)

type entryRepo interface {
	LockSubject(ctx context.Context, ownerID uuid.UUID, subjectID string) error
	GetLatest(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityLogEntry, error)
	Create(ctx context.Context, e *domain.ActivityLogEntry) (*domain.ActivityLogEntry, error)
	LinkNext(ctx context.Context, ownerID, id uuid.UUID, link string) error

	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ActivityLogEntry, error)
	List(ctx context.Context, ownerID uuid.UUID, filter domain.ActivityLogFilter) ([]*domain.ActivityLogEntry, int, error)
	ListBySubject(ctx context.Context, ownerID uuid.UUID, subjectID string) ([]*domain.ActivityLogEntry, error)

	AppendTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string, item domain.TimelineItem, at time.Time) error
	GetTimeline(ctx context.Context, ownerID uuid.UUID, subjectID string) (*domain.ActivityTimeline, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service records and reads the audit trail of any resource type.
type Service struct {
	entries entryRepo
	tx      txManager
	log     *slog.Logger
	cfg     config.AuditConfig
	now     func() time.Time
}

// NewService creates a new activity log service.
func NewService(
	log *slog.Logger,
	cfg config.AuditConfig,
	entries entryRepo,
	tx txManager,
) *Service {
	return &Service{
		entries: entries,
		tx:      tx,
		log:     log.With("service", "activitylog"),
		cfg:     cfg,
		now:     time.Now,
	}
}
