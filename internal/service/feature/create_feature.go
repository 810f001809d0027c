package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// CreateFeature creates a node for the authenticated owner, optionally under
// an existing parent. An active node cannot be created under an inactive parent.
func (s *Service) CreateFeature(ctx context.Context, input CreateFeatureInput) (*domain.Feature, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := s.checkNameLength(name); err != nil {
		return nil, err
	}

	actor := actorFromCtx(ctx, ownerID)
	now := s.timestamp()

	var created *domain.Feature
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.features.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		if s.cfg.MaxFeaturesPerOwner > 0 {
			count, err := s.features.Count(txCtx, ownerID)
			if err != nil {
				return fmt.Errorf("count features: %w", err)
			}
			if count >= s.cfg.MaxFeaturesPerOwner {
				return domain.NewValidationError("features", fmt.Sprintf("limit reached (max %d)", s.cfg.MaxFeaturesPerOwner))
			}
		}

		taken, err := s.features.ExistsByName(txCtx, ownerID, name, nil)
		if err != nil {
			return fmt.Errorf("check name: %w", err)
		}
		if taken {
			return fmt.Errorf("feature name %q: %w", name, domain.ErrConflict)
		}

		var chain []*domain.Feature
		if input.ParentFID != nil {
			chain, err = s.features.ListAncestors(txCtx, ownerID, *input.ParentFID, s.cfg.MaxDepth)
			if err != nil {
				return fmt.Errorf("get parent: %w", err)
			}
			if len(chain) >= s.cfg.MaxDepth {
				return domain.NewValidationError("parent_fid", fmt.Sprintf("max depth %d reached", s.cfg.MaxDepth))
			}
			if input.IsActive && !chain[0].IsActive {
				return fmt.Errorf("parent %s is inactive: %w", chain[0].FID, domain.ErrForbidden)
			}
		}

		node := &domain.Feature{
			ID:          uuid.New(),
			FID:         uuid.New(),
			OwnerID:     ownerID,
			Name:        name,
			ParentFID:   input.ParentFID,
			IsActive:    input.IsActive,
			ChildIDs:    []uuid.UUID{},
			AllChildIDs: []uuid.UUID{},
			ModifiedBy:  actor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created, err = s.features.Create(txCtx, node)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("feature name %q: %w", name, domain.ErrConflict)
			}
			return fmt.Errorf("create feature: %w", err)
		}

		if err := s.attach(txCtx, ownerID, created, chain, now); err != nil {
			return err
		}

		if err := s.recordChange(txCtx, domain.AuditTopicCreate,
			fmt.Sprintf("Feature %q created", created.Name), created, nil, actor); err != nil {
			return err
		}

		if _, err := s.dashboards.Increment(txCtx, ownerID, domain.DashboardKeyTotalFeatures, 1, now); err != nil {
			return fmt.Errorf("increment dashboard: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feature created",
		slog.String("fid", created.FID.String()),
		slog.String("name", created.Name),
		slog.Bool("is_active", created.IsActive),
	)

	return created, nil
}

func (s *Service) checkNameLength(name string) error {
	if s.cfg.MaxNameLength > 0 && len([]rune(name)) > s.cfg.MaxNameLength {
		return domain.NewValidationError("name", fmt.Sprintf("max %d characters", s.cfg.MaxNameLength))
	}
	return nil
}
