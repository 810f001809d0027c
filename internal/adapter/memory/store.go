// Package memory provides an in-memory implementation of the feature, activity
// log and dashboard repositories. Transactions work on a cloned copy of the
// state that replaces the committed state only when the callback succeeds.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

type ownerKey struct {
	owner uuid.UUID
	key   string
}

type state struct {
	// features is the node arena keyed by storage id.
	features map[uuid.UUID]*domain.Feature
	byFID    map[ownerKey]uuid.UUID
	byName   map[ownerKey]uuid.UUID
	// seq records insertion order for stable listings.
	seq     map[uuid.UUID]int64
	nextSeq int64

	logs       []domain.ActivityLogEntry
	timelines  map[ownerKey]*domain.ActivityTimeline
	dashboards map[ownerKey]domain.DashboardCounter
}

func newState() *state {
	return &state{
		features:   map[uuid.UUID]*domain.Feature{},
		byFID:      map[ownerKey]uuid.UUID{},
		byName:     map[ownerKey]uuid.UUID{},
		seq:        map[uuid.UUID]int64{},
		timelines:  map[ownerKey]*domain.ActivityTimeline{},
		dashboards: map[ownerKey]domain.DashboardCounter{},
	}
}

func (s *state) clone() *state {
	c := &state{
		features:   make(map[uuid.UUID]*domain.Feature, len(s.features)),
		byFID:      make(map[ownerKey]uuid.UUID, len(s.byFID)),
		byName:     make(map[ownerKey]uuid.UUID, len(s.byName)),
		seq:        make(map[uuid.UUID]int64, len(s.seq)),
		nextSeq:    s.nextSeq,
		logs:       make([]domain.ActivityLogEntry, len(s.logs)),
		timelines:  make(map[ownerKey]*domain.ActivityTimeline, len(s.timelines)),
		dashboards: make(map[ownerKey]domain.DashboardCounter, len(s.dashboards)),
	}
	for k, v := range s.features {
		c.features[k] = v.Clone()
	}
	for k, v := range s.byFID {
		c.byFID[k] = v
	}
	for k, v := range s.byName {
		c.byName[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	copy(c.logs, s.logs)
	for k, v := range s.timelines {
		tl := *v
		tl.Items = append([]domain.TimelineItem(nil), v.Items...)
		c.timelines[k] = &tl
	}
	for k, v := range s.dashboards {
		c.dashboards[k] = v
	}
	return c
}

// sortedFeatures returns clones of the given nodes ordered by creation time
// and then insertion order.
func (s *state) sortedFeatures(nodes []*domain.Feature) []*domain.Feature {
	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
		}
		return s.seq[nodes[i].ID] < s.seq[nodes[j].ID]
	})
	out := make([]*domain.Feature, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Store owns the committed state shared by all repositories it hands out.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

type txCtxKey struct{}

// RunInTx runs fn against a private copy of the state and commits it when fn
// returns nil. Transactions are serialized. A call made inside another
// transaction joins it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*state); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(context.WithValue(ctx, txCtxKey{}, working)); err != nil {
		return err
	}
	s.state = working
	return nil
}

// read runs fn against the transaction state or a read-locked committed state.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txCtxKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write runs fn against the transaction state, or as its own single-operation
// transaction when ctx carries none.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txCtxKey{}).(*state); ok {
		return fn(st)
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txCtxKey{}).(*state))
	})
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(*state)
	return ok
}

// Features returns the feature repository view of the store.
func (s *Store) Features() *FeatureRepo { return &FeatureRepo{store: s} }

// ActivityLogs returns the activity log repository view of the store.
func (s *Store) ActivityLogs() *ActivityLogRepo { return &ActivityLogRepo{store: s} }

// Dashboards returns the dashboard repository view of the store.
func (s *Store) Dashboards() *DashboardRepo { return &DashboardRepo{store: s} }
