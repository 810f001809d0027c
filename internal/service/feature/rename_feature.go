package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// RenameFeature renames a node of the authenticated owner.
// Returns domain.ErrNoChange, without writing, when the name is unchanged.
func (s *Service) RenameFeature(ctx context.Context, input RenameFeatureInput) (*domain.Feature, error) {
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

	var (
		old     *domain.Feature
		renamed *domain.Feature
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.features.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		var err error
		old, err = s.features.GetByFID(txCtx, ownerID, input.FID)
		if err != nil {
			return fmt.Errorf("get feature: %w", err)
		}

		if old.Name == name {
			return domain.ErrNoChange
		}

		taken, err := s.features.ExistsByName(txCtx, ownerID, name, &input.FID)
		if err != nil {
			return fmt.Errorf("check name: %w", err)
		}
		if taken {
			return fmt.Errorf("feature name %q: %w", name, domain.ErrConflict)
		}

		renamed, err = s.features.UpdateName(txCtx, ownerID, input.FID, name, actor, now)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("feature name %q: %w", name, domain.ErrConflict)
			}
			return fmt.Errorf("rename feature: %w", err)
		}

		return s.recordChange(txCtx, domain.AuditTopicUpdate,
			fmt.Sprintf("Feature renamed from %q to %q", old.Name, renamed.Name), renamed, old, actor)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feature renamed",
		slog.String("fid", input.FID.String()),
		slog.String("old_name", old.Name),
		slog.String("name", renamed.Name),
	)

	return renamed, nil
}
