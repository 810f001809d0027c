package feature

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

// ToggleStatus flips a node's activation.
//
// Activation is refused with domain.ErrForbidden while the parent is
// inactive. Deactivation also deactivates every descendant; descendants are
// never reactivated automatically.
func (s *Service) ToggleStatus(ctx context.Context, input ToggleFeatureInput) (*ToggleResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	actor := actorFromCtx(ctx, ownerID)
	now := s.timestamp()

	var result *ToggleResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.features.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		node, err := s.features.GetByFID(txCtx, ownerID, input.FID)
		if err != nil {
			return fmt.Errorf("get feature: %w", err)
		}

		if !node.IsActive {
			result, err = s.activate(txCtx, ownerID, node, actor, now)
		} else {
			result, err = s.deactivate(txCtx, ownerID, node, actor, now)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feature toggled",
		slog.String("fid", input.FID.String()),
		slog.Bool("is_active", result.IsActive),
		slog.Int("affected", len(result.Affected)),
	)

	return result, nil
}

func (s *Service) activate(ctx context.Context, ownerID uuid.UUID, node *domain.Feature, actor domain.Actor, now time.Time) (*ToggleResult, error) {
	if node.ParentFID != nil {
		parent, err := s.features.GetByFID(ctx, ownerID, *node.ParentFID)
		switch {
		case err == nil:
			if !parent.IsActive {
				return nil, fmt.Errorf("parent %s is inactive: %w", parent.FID, domain.ErrForbidden)
			}
		case errors.Is(err, domain.ErrNotFound):
			// Dangling parent reference: nothing gates activation.
		default:
			return nil, fmt.Errorf("get parent: %w", err)
		}
	}

	updated, err := s.features.SetActive(ctx, ownerID, []uuid.UUID{node.ID}, true, actor, now)
	if err != nil {
		return nil, fmt.Errorf("activate feature: %w", err)
	}
	if len(updated) != 1 {
		return nil, fmt.Errorf("activate feature %s: %w", node.FID, domain.ErrNotFound)
	}

	if err := s.recordChange(ctx, domain.AuditTopicUpdate,
		fmt.Sprintf("Feature %q activated", node.Name), updated[0], node, actor); err != nil {
		return nil, err
	}

	return &ToggleResult{IsActive: true, Affected: updated}, nil
}

func (s *Service) deactivate(ctx context.Context, ownerID uuid.UUID, node *domain.Feature, actor domain.Actor, now time.Time) (*ToggleResult, error) {
	descendants, err := s.features.GetByIDs(ctx, ownerID, node.AllChildIDs)
	if err != nil {
		return nil, fmt.Errorf("get descendants: %w", err)
	}
	before := make(map[uuid.UUID]*domain.Feature, len(descendants)+1)
	before[node.ID] = node
	for _, d := range descendants {
		before[d.ID] = d
	}

	updated, err := s.features.SetActive(ctx, ownerID, node.SubtreeIDs(), false, actor, now)
	if err != nil {
		return nil, fmt.Errorf("deactivate subtree: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Feature, len(updated))
	for _, u := range updated {
		byID[u.ID] = u
	}

	// Report the toggled node first, then descendants in cache order.
	affected := make([]*domain.Feature, 0, len(updated))
	for _, id := range node.SubtreeIDs() {
		after, ok := byID[id]
		if !ok {
			continue
		}
		affected = append(affected, after)

		prev := before[id]
		if prev == nil || !prev.IsActive {
			continue
		}
		msg := fmt.Sprintf("Feature %q deactivated", after.Name)
		if id != node.ID {
			msg = fmt.Sprintf("Feature %q deactivated with ancestor %q", after.Name, node.Name)
		}
		if err := s.recordChange(ctx, domain.AuditTopicUpdate, msg, after, prev, actor); err != nil {
			return nil, err
		}
	}

	return &ToggleResult{IsActive: false, Affected: affected}, nil
}
