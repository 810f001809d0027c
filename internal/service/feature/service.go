package feature

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/config"
	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

type featureRepo interface {
	LockOwner(ctx context.Context, ownerID uuid.UUID) error

	GetByFID(ctx context.Context, ownerID, fid uuid.UUID) (*domain.Feature, error)
	GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Feature, error)
	ListRoots(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error)
	ListAncestors(ctx context.Context, ownerID, fid uuid.UUID, maxDepth int) ([]*domain.Feature, error)
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeFID *uuid.UUID) (bool, error)
	Count(ctx context.Context, ownerID uuid.UUID) (int, error)

	Create(ctx context.Context, f *domain.Feature) (*domain.Feature, error)
	UpdateName(ctx context.Context, ownerID, fid uuid.UUID, name string, actor domain.Actor, at time.Time) (*domain.Feature, error)
	SetActive(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, active bool, actor domain.Actor, at time.Time) ([]*domain.Feature, error)
	DeleteByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)

	// Ancestor index primitives.
	AppendChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error
	AppendDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error
	PullChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error
	PullDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error
	SetIndex(ctx context.Context, ownerID, id uuid.UUID, childIDs, allChildIDs []uuid.UUID) error
}

type auditRecorder interface {
	Record(ctx context.Context, ev domain.AuditEvent) (*domain.ActivityLogEntry, error)
}

type dashboardRepo interface {
	Increment(ctx context.Context, ownerID uuid.UUID, key domain.DashboardKey, delta int64, at time.Time) (domain.DashboardCounter, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.DashboardCounter, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the feature tree: create, rename, cascading toggle and
// cascading delete, with every mutation audited in the same transaction.
type Service struct {
	features   featureRepo
	audit      auditRecorder
	dashboards dashboardRepo
	tx         txManager
	log        *slog.Logger
	cfg        config.FeaturesConfig
	now        func() time.Time
}

// NewService creates a new Feature service.
func NewService(
	log *slog.Logger,
	cfg config.FeaturesConfig,
	features featureRepo,
	audit auditRecorder,
	dashboards dashboardRepo,
	tx txManager,
) *Service {
	return &Service{
		features:   features,
		audit:      audit,
		dashboards: dashboards,
		tx:         tx,
		log:        log.With("service", "feature"),
		cfg:        cfg,
		now:        time.Now,
	}
}

// actorFromCtx snapshots the acting principal.
func actorFromCtx(ctx context.Context, ownerID uuid.UUID) domain.Actor {
	p := ctxutil.ProfileFromCtx(ctx)
	return domain.Actor{ID: ownerID, Name: p.Name, Email: p.Email}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// recordChange feeds one feature mutation into the audit trail.
func (s *Service) recordChange(ctx context.Context, topic domain.AuditTopic, message string, after, before *domain.Feature, actor domain.Actor) error {
	subject := after
	if subject == nil {
		subject = before
	}
	fid := subject.FID.String()

	ev := domain.AuditEvent{
		OwnerID:            subject.OwnerID,
		SubjectID:          fid,
		EntityType:         domain.EntityTypeFeature,
		Topic:              topic,
		Message:            message,
		RouteToView:        "/features/" + fid,
		NavigationWorkflow: []string{"features", fid},
		ActorAfter:         actor,
	}

	switch topic {
	case domain.AuditTopicCreate:
		ev.New = after.Snapshot()
	case domain.AuditTopicUpdate:
		ev.New = after.Snapshot()
		ev.Old = before.Snapshot()
		ev.ActorBefore = before.ModifiedBy
	case domain.AuditTopicDelete:
		ev.New = before.Snapshot()
		ev.ActorBefore = before.ModifiedBy
		ev.RouteToView = "/features"
		ev.NavigationWorkflow = []string{"features"}
	}

	if _, err := s.audit.Record(ctx, ev); err != nil {
		return fmt.Errorf("audit %s %s: %w", topic, fid, err)
	}
	return nil
}
