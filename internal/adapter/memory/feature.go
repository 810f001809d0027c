package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

var errNoTx = errors.New("lock requires a transaction")

// FeatureRepo stores feature nodes in the store's arena.
type FeatureRepo struct {
	store *Store
}

func notFound(fid uuid.UUID) error {
	return fmt.Errorf("feature %s: %w", fid, domain.ErrNotFound)
}

func (st *state) lookup(ownerID, fid uuid.UUID) (*domain.Feature, bool) {
	id, ok := st.byFID[ownerKey{ownerID, fid.String()}]
	if !ok {
		return nil, false
	}
	return st.features[id], true
}

// owned returns the owner's node with storage id id.
func (st *state) owned(ownerID, id uuid.UUID) (*domain.Feature, bool) {
	f, ok := st.features[id]
	if !ok || f.OwnerID != ownerID {
		return nil, false
	}
	return f, true
}

// LockOwner only checks that a transaction is open; memory transactions are
// already serialized.
func (r *FeatureRepo) LockOwner(ctx context.Context, ownerID uuid.UUID) error {
	if !inTx(ctx) {
		return fmt.Errorf("lock owner %s: %w", ownerID, errNoTx)
	}
	return nil
}

func (r *FeatureRepo) GetByFID(ctx context.Context, ownerID, fid uuid.UUID) (*domain.Feature, error) {
	var out *domain.Feature
	err := r.store.read(ctx, func(st *state) error {
		f, ok := st.lookup(ownerID, fid)
		if !ok {
			return notFound(fid)
		}
		out = f.Clone()
		return nil
	})
	return out, err
}

func (r *FeatureRepo) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Feature, error) {
	var out []*domain.Feature
	err := r.store.read(ctx, func(st *state) error {
		nodes := make([]*domain.Feature, 0, len(ids))
		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if f, ok := st.owned(ownerID, id); ok && !seen[id] {
				seen[id] = true
				nodes = append(nodes, f)
			}
		}
		out = st.sortedFeatures(nodes)
		return nil
	})
	return out, err
}

func (r *FeatureRepo) ListRoots(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error) {
	return r.filter(ctx, func(f *domain.Feature) bool {
		return f.OwnerID == ownerID && f.ParentFID == nil
	})
}

func (r *FeatureRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Feature, error) {
	return r.filter(ctx, func(f *domain.Feature) bool {
		return f.OwnerID == ownerID
	})
}

func (r *FeatureRepo) filter(ctx context.Context, keep func(*domain.Feature) bool) ([]*domain.Feature, error) {
	var out []*domain.Feature
	err := r.store.read(ctx, func(st *state) error {
		nodes := make([]*domain.Feature, 0)
		for _, f := range st.features {
			if keep(f) {
				nodes = append(nodes, f)
			}
		}
		out = st.sortedFeatures(nodes)
		return nil
	})
	return out, err
}

// ListAncestors returns the node identified by fid followed by its ancestors,
// nearest first, up to maxDepth nodes.
func (r *FeatureRepo) ListAncestors(ctx context.Context, ownerID, fid uuid.UUID, maxDepth int) ([]*domain.Feature, error) {
	var out []*domain.Feature
	err := r.store.read(ctx, func(st *state) error {
		cur, ok := st.lookup(ownerID, fid)
		if !ok {
			return notFound(fid)
		}
		for cur != nil && len(out) < maxDepth {
			out = append(out, cur.Clone())
			if cur.ParentFID == nil {
				break
			}
			cur, _ = st.lookup(ownerID, *cur.ParentFID)
		}
		return nil
	})
	return out, err
}

func (r *FeatureRepo) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string, excludeFID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.store.read(ctx, func(st *state) error {
		id, ok := st.byName[ownerKey{ownerID, domain.NormalizeName(name)}]
		if ok && excludeFID != nil && st.features[id].FID == *excludeFID {
			ok = false
		}
		exists = ok
		return nil
	})
	return exists, err
}

func (r *FeatureRepo) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := r.store.read(ctx, func(st *state) error {
		for _, f := range st.features {
			if f.OwnerID == ownerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *FeatureRepo) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	var out []uuid.UUID
	err := r.store.read(ctx, func(st *state) error {
		seen := map[uuid.UUID]bool{}
		for _, f := range st.features {
			if !seen[f.OwnerID] {
				seen[f.OwnerID] = true
				out = append(out, f.OwnerID)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b uuid.UUID) int { return slices.Compare(a[:], b[:]) })
	return out, err
}

// Create inserts a node. Returns domain.ErrAlreadyExists if the owner already
// uses the fid or the normalized name.
func (r *FeatureRepo) Create(ctx context.Context, f *domain.Feature) (*domain.Feature, error) {
	var out *domain.Feature
	err := r.store.write(ctx, func(st *state) error {
		fidKey := ownerKey{f.OwnerID, f.FID.String()}
		nameKey := ownerKey{f.OwnerID, domain.NormalizeName(f.Name)}
		if _, ok := st.byFID[fidKey]; ok {
			return fmt.Errorf("feature %s: %w", f.FID, domain.ErrAlreadyExists)
		}
		if _, ok := st.byName[nameKey]; ok {
			return fmt.Errorf("feature %s: %w", f.FID, domain.ErrAlreadyExists)
		}
		if _, ok := st.features[f.ID]; ok {
			return fmt.Errorf("feature %s: %w", f.ID, domain.ErrAlreadyExists)
		}

		stored := f.Clone()
		if stored.ChildIDs == nil {
			stored.ChildIDs = []uuid.UUID{}
		}
		if stored.AllChildIDs == nil {
			stored.AllChildIDs = []uuid.UUID{}
		}
		st.features[stored.ID] = stored
		st.byFID[fidKey] = stored.ID
		st.byName[nameKey] = stored.ID
		st.nextSeq++
		st.seq[stored.ID] = st.nextSeq
		out = stored.Clone()
		return nil
	})
	return out, err
}

func (r *FeatureRepo) UpdateName(ctx context.Context, ownerID, fid uuid.UUID, name string, actor domain.Actor, at time.Time) (*domain.Feature, error) {
	var out *domain.Feature
	err := r.store.write(ctx, func(st *state) error {
		f, ok := st.lookup(ownerID, fid)
		if !ok {
			return notFound(fid)
		}
		oldKey := ownerKey{ownerID, domain.NormalizeName(f.Name)}
		newKey := ownerKey{ownerID, domain.NormalizeName(name)}
		if id, taken := st.byName[newKey]; taken && id != f.ID {
			return fmt.Errorf("feature %s: %w", fid, domain.ErrAlreadyExists)
		}
		delete(st.byName, oldKey)
		st.byName[newKey] = f.ID

		f.Name = name
		f.ModifiedBy = actor
		f.UpdatedAt = at
		out = f.Clone()
		return nil
	})
	return out, err
}

func (r *FeatureRepo) SetActive(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, active bool, actor domain.Actor, at time.Time) ([]*domain.Feature, error) {
	var out []*domain.Feature
	err := r.store.write(ctx, func(st *state) error {
		touched := make([]*domain.Feature, 0, len(ids))
		for _, id := range ids {
			f, ok := st.owned(ownerID, id)
			if !ok {
				continue
			}
			f.IsActive = active
			f.ModifiedBy = actor
			f.UpdatedAt = at
			touched = append(touched, f)
		}
		out = st.sortedFeatures(touched)
		return nil
	})
	return out, err
}

func (r *FeatureRepo) AppendChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.owned(ownerID, parentID)
		if !ok {
			return notFound(parentID)
		}
		p.ChildIDs = append(p.ChildIDs, childID)
		p.UpdatedAt = at
		return nil
	})
}

func (r *FeatureRepo) AppendDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error {
	if len(ancestorIDs) == 0 || len(ids) == 0 {
		return nil
	}
	return r.store.write(ctx, func(st *state) error {
		for _, aid := range ancestorIDs {
			a, ok := st.owned(ownerID, aid)
			if !ok {
				return notFound(aid)
			}
			a.AllChildIDs = append(a.AllChildIDs, ids...)
			a.UpdatedAt = at
		}
		return nil
	})
}

func (r *FeatureRepo) PullChild(ctx context.Context, ownerID, parentID, childID uuid.UUID, at time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		if p, ok := st.owned(ownerID, parentID); ok {
			p.ChildIDs = slices.DeleteFunc(p.ChildIDs, func(id uuid.UUID) bool { return id == childID })
			p.UpdatedAt = at
		}
		return nil
	})
}

func (r *FeatureRepo) PullDescendants(ctx context.Context, ownerID uuid.UUID, ancestorIDs, ids []uuid.UUID, at time.Time) error {
	if len(ancestorIDs) == 0 || len(ids) == 0 {
		return nil
	}
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return r.store.write(ctx, func(st *state) error {
		for _, aid := range ancestorIDs {
			if a, ok := st.owned(ownerID, aid); ok {
				a.AllChildIDs = slices.DeleteFunc(a.AllChildIDs, func(id uuid.UUID) bool { return drop[id] })
				a.UpdatedAt = at
			}
		}
		return nil
	})
}

func (r *FeatureRepo) DeleteByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	fids := make([]uuid.UUID, 0, len(ids))
	err := r.store.write(ctx, func(st *state) error {
		for _, id := range ids {
			f, ok := st.owned(ownerID, id)
			if !ok {
				continue
			}
			delete(st.features, id)
			delete(st.byFID, ownerKey{ownerID, f.FID.String()})
			delete(st.byName, ownerKey{ownerID, domain.NormalizeName(f.Name)})
			delete(st.seq, id)
			fids = append(fids, f.FID)
		}
		return nil
	})
	return fids, err
}

func (r *FeatureRepo) SetIndex(ctx context.Context, ownerID, id uuid.UUID, childIDs, allChildIDs []uuid.UUID) error {
	return r.store.write(ctx, func(st *state) error {
		f, ok := st.owned(ownerID, id)
		if !ok {
			return notFound(id)
		}
		f.ChildIDs = append([]uuid.UUID{}, childIDs...)
		f.AllChildIDs = append([]uuid.UUID{}, allChildIDs...)
		return nil
	})
}
