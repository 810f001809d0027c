package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// DashboardRepo keeps per-owner counters.
type DashboardRepo struct {
	store *Store
}

// Increment adds delta to the counter, creating it on first use. The value
// never drops below zero.
func (r *DashboardRepo) Increment(ctx context.Context, ownerID uuid.UUID, key domain.DashboardKey, delta int64, at time.Time) (domain.DashboardCounter, error) {
	var out domain.DashboardCounter
	err := r.store.write(ctx, func(st *state) error {
		k := ownerKey{ownerID, key.String()}
		c, ok := st.dashboards[k]
		if !ok {
			c = domain.DashboardCounter{OwnerID: ownerID, Key: key, Title: key.Title(), CreatedAt: at}
		}
		c.Value = max(c.Value+delta, 0)
		c.UpdatedAt = at
		st.dashboards[k] = c
		out = c
		return nil
	})
	return out, err
}

func (r *DashboardRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.DashboardCounter, error) {
	var out []domain.DashboardCounter
	err := r.store.read(ctx, func(st *state) error {
		out = make([]domain.DashboardCounter, 0)
		for k, c := range st.dashboards {
			if k.owner == ownerID {
				out = append(out, c)
			}
		}
		slices.SortFunc(out, func(a, b domain.DashboardCounter) int {
			return strings.Compare(a.Key.String(), b.Key.String())
		})
		return nil
	})
	return out, err
}
