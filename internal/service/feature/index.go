package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
	"github.com/heartmarshall/featuretrail/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Incremental maintenance
// ---------------------------------------------------------------------------

func storageIDs(nodes []*domain.Feature) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// attach registers child under chain[0]. chain is the parent followed by its
// ancestors, nearest first.
func (s *Service) attach(ctx context.Context, ownerID uuid.UUID, child *domain.Feature, chain []*domain.Feature, at time.Time) error {
	if len(chain) == 0 {
		return nil
	}
	if err := s.features.AppendChild(ctx, ownerID, chain[0].ID, child.ID, at); err != nil {
		return fmt.Errorf("append child: %w", err)
	}
	if err := s.features.AppendDescendants(ctx, ownerID, storageIDs(chain), []uuid.UUID{child.ID}, at); err != nil {
		return fmt.Errorf("append descendants: %w", err)
	}
	return nil
}

// detach removes node and its subtree from every ancestor's caches.
// A node whose parent no longer exists has nothing to detach from.
func (s *Service) detach(ctx context.Context, ownerID uuid.UUID, node *domain.Feature, at time.Time) error {
	if node.ParentFID == nil {
		return nil
	}

	chain, err := s.features.ListAncestors(ctx, ownerID, *node.ParentFID, s.cfg.MaxDepth+1)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("list ancestors: %w", err)
	}
	if len(chain) > s.cfg.MaxDepth {
		return fmt.Errorf("ancestors of %s exceed max depth %d", node.FID, s.cfg.MaxDepth)
	}

	if err := s.features.PullChild(ctx, ownerID, chain[0].ID, node.ID, at); err != nil {
		return fmt.Errorf("pull child: %w", err)
	}
	if err := s.features.PullDescendants(ctx, ownerID, storageIDs(chain), node.SubtreeIDs(), at); err != nil {
		return fmt.Errorf("pull descendants: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Full recomputation
// ---------------------------------------------------------------------------

// Index is the pair of denormalized caches of one node.
type Index struct {
	ChildIDs    []uuid.UUID
	AllChildIDs []uuid.UUID
}

// ComputeIndex derives every node's caches from parent references alone.
// nodes must be in creation order; children and descendants are listed in
// that order. Nodes whose parent is missing are treated as roots, and a
// parent cycle stops the upward walk.
func ComputeIndex(nodes []*domain.Feature) map[uuid.UUID]Index {
	byFID := make(map[uuid.UUID]*domain.Feature, len(nodes))
	for _, n := range nodes {
		byFID[n.FID] = n
	}

	out := make(map[uuid.UUID]Index, len(nodes))
	for _, n := range nodes {
		out[n.ID] = Index{ChildIDs: []uuid.UUID{}, AllChildIDs: []uuid.UUID{}}
	}

	for _, n := range nodes {
		seen := map[uuid.UUID]bool{n.ID: true}
		cur := n
		for depth := 0; cur.ParentFID != nil; depth++ {
			parent, ok := byFID[*cur.ParentFID]
			if !ok || seen[parent.ID] {
				break
			}
			seen[parent.ID] = true

			idx := out[parent.ID]
			if depth == 0 {
				idx.ChildIDs = append(idx.ChildIDs, n.ID)
			}
			idx.AllChildIDs = append(idx.AllChildIDs, n.ID)
			out[parent.ID] = idx
			cur = parent
		}
	}
	return out
}

// Mismatch reports a node whose stored caches differ from the recomputed ones.
type Mismatch struct {
	FID  uuid.UUID
	Name string
	// Field is "childIds" or "allChildIds".
	Field string
	Want  []uuid.UUID
	Got   []uuid.UUID
}

// sameSet reports whether a and b hold the same ids, duplicates included.
func sameSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := slices.Clone(a), slices.Clone(b)
	cmp := func(x, y uuid.UUID) int { return slices.Compare(x[:], y[:]) }
	slices.SortFunc(sa, cmp)
	slices.SortFunc(sb, cmp)
	return slices.Equal(sa, sb)
}

func diffIndex(nodes []*domain.Feature) []Mismatch {
	want := ComputeIndex(nodes)

	var out []Mismatch
	for _, n := range nodes {
		w := want[n.ID]
		if !sameSet(w.ChildIDs, n.ChildIDs) {
			out = append(out, Mismatch{FID: n.FID, Name: n.Name, Field: "childIds", Want: w.ChildIDs, Got: n.ChildIDs})
		}
		if !sameSet(w.AllChildIDs, n.AllChildIDs) {
			out = append(out, Mismatch{FID: n.FID, Name: n.Name, Field: "allChildIds", Want: w.AllChildIDs, Got: n.AllChildIDs})
		}
	}
	return out
}

// VerifyIndex reports every node of the authenticated owner whose caches do
// not match its parent references.
func (s *Service) VerifyIndex(ctx context.Context) ([]Mismatch, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	nodes, err := s.features.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	return diffIndex(nodes), nil
}

// ReindexResult summarizes a Reindex run.
type ReindexResult struct {
	Checked  int
	Repaired int
}

// Reindex recomputes the caches of every node of the authenticated owner and
// rewrites the ones that differ.
func (s *Service) Reindex(ctx context.Context) (*ReindexResult, error) {
	ownerID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	result := &ReindexResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.features.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		nodes, err := s.features.ListByOwner(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("list features: %w", err)
		}
		result.Checked = len(nodes)

		repaired := map[uuid.UUID]bool{}
		want := ComputeIndex(nodes)
		for _, m := range diffIndex(nodes) {
			n := nodeByFID(nodes, m.FID)
			if repaired[n.ID] {
				continue
			}
			w := want[n.ID]
			if err := s.features.SetIndex(txCtx, ownerID, n.ID, w.ChildIDs, w.AllChildIDs); err != nil {
				return fmt.Errorf("set index %s: %w", n.FID, err)
			}
			repaired[n.ID] = true
		}
		result.Repaired = len(repaired)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feature index rebuilt",
		slog.Int("checked", result.Checked),
		slog.Int("repaired", result.Repaired),
	)

	return result, nil
}

func nodeByFID(nodes []*domain.Feature, fid uuid.UUID) *domain.Feature {
	for _, n := range nodes {
		if n.FID == fid {
			return n
		}
	}
	return nil
}
