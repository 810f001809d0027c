package feature

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// GetFeature returns one node of the authenticated owner.
func (s *Service) GetFeature(ctx context.Context, fid uuid.UUID) (*domain.Feature, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	f, err := s.features.GetByFID(ctx, ownerID, fid)
	if err != nil {
		return nil, fmt.Errorf("get feature: %w", err)
	}
	return f, nil
}

// ListRootFeatures returns the owner's top-level nodes in creation order.
func (s *Service) ListRootFeatures(ctx context.Context) ([]*domain.Feature, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	roots, err := s.features.ListRoots(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list roots: %w", err)
	}
	return roots, nil
}

// ListChildFeatures returns the immediate children of a node in the order
// they were attached.
func (s *Service) ListChildFeatures(ctx context.Context, fid uuid.UUID) ([]*domain.Feature, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	parent, err := s.features.GetByFID(ctx, ownerID, fid)
	if err != nil {
		return nil, fmt.Errorf("get feature: %w", err)
	}

	children, err := s.features.GetByIDs(ctx, ownerID, parent.ChildIDs)
	if err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Feature, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}
	ordered := make([]*domain.Feature, 0, len(children))
	for _, id := range parent.ChildIDs {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// GetFeatureAnalytics returns the owner's dashboard counters.
func (s *Service) GetFeatureAnalytics(ctx context.Context) ([]domain.DashboardCounter, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	counters, err := s.dashboards.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	return counters, nil
}
