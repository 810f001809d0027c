package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Actor is a snapshot of the principal that performed a mutation.
type Actor struct {
	ID    uuid.UUID `json:"uid"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Feature is a node of an owner's feature tree.
//
// ChildIDs and AllChildIDs are denormalized caches of storage IDs: the
// immediate children (in insertion order) and every transitive descendant.
type Feature struct {
	ID          uuid.UUID
	FID         uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	ParentFID   *uuid.UUID
	IsActive    bool
	ChildIDs    []uuid.UUID
	AllChildIDs []uuid.UUID
	ModifiedBy  Actor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot reports whether the node has no parent.
func (f *Feature) IsRoot() bool { return f.ParentFID == nil }

// IsExpandable reports whether the node has immediate children.
func (f *Feature) IsExpandable() bool { return len(f.ChildIDs) > 0 }

// SubtreeIDs returns the node's storage ID followed by all descendant IDs.
func (f *Feature) SubtreeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(f.AllChildIDs)+1)
	ids = append(ids, f.ID)
	return append(ids, f.AllChildIDs...)
}

// Clone returns a deep copy of the node.
func (f *Feature) Clone() *Feature {
	c := *f
	if f.ParentFID != nil {
		p := *f.ParentFID
		c.ParentFID = &p
	}
	c.ChildIDs = slices.Clone(f.ChildIDs)
	c.AllChildIDs = slices.Clone(f.AllChildIDs)
	return &c
}

// Snapshot projects the node into the ordered key/value form stored by the audit trail.
func (f *Feature) Snapshot() Snapshot {
	var parent any
	if f.ParentFID != nil {
		parent = f.ParentFID.String()
	}
	return Snapshot{
		{Key: "fid", Value: f.FID.String()},
		{Key: "name", Value: f.Name},
		{Key: "parent", Value: parent},
		{Key: "isActive", Value: f.IsActive},
	}
}

// DashboardCounter is a per-owner analytics counter.
type DashboardCounter struct {
	OwnerID   uuid.UUID
	Key       DashboardKey
	Title     string
	Value     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
