package feature

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// DeleteFeature removes a node together with its whole subtree and purges
// them from every ancestor's caches.
func (s *Service) DeleteFeature(ctx context.Context, input DeleteFeatureInput) (*DeleteResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	actor := actorFromCtx(ctx, ownerID)
	now := s.timestamp()

	result := &DeleteResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.features.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		node, err := s.features.GetByFID(txCtx, ownerID, input.FID)
		if err != nil {
			return fmt.Errorf("get feature: %w", err)
		}

		descendants, err := s.features.GetByIDs(txCtx, ownerID, node.AllChildIDs)
		if err != nil {
			return fmt.Errorf("get descendants: %w", err)
		}
		byID := make(map[uuid.UUID]*domain.Feature, len(descendants)+1)
		byID[node.ID] = node
		for _, d := range descendants {
			byID[d.ID] = d
		}

		if err := s.detach(txCtx, ownerID, node, now); err != nil {
			return err
		}

		removed, err := s.features.DeleteByIDs(txCtx, ownerID, node.SubtreeIDs())
		if err != nil {
			return fmt.Errorf("delete subtree: %w", err)
		}
		gone := make(map[uuid.UUID]bool, len(removed))
		for _, fid := range removed {
			gone[fid] = true
		}

		for _, id := range node.SubtreeIDs() {
			f, ok := byID[id]
			if !ok || !gone[f.FID] {
				continue
			}
			if err := s.recordChange(txCtx, domain.AuditTopicDelete,
				fmt.Sprintf("Feature %q deleted", f.Name), nil, f, actor); err != nil {
				return err
			}
			result.DeletedFIDs = append(result.DeletedFIDs, f.FID)
		}

		if _, err := s.dashboards.Increment(txCtx, ownerID, domain.DashboardKeyTotalFeatures, -int64(len(removed)), now); err != nil {
			return fmt.Errorf("decrement dashboard: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feature deleted",
		slog.String("fid", input.FID.String()),
		slog.Int("removed", len(result.DeletedFIDs)),
	)

	return result, nil
}
