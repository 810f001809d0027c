package feature

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// ToggleResult is the outcome of a toggle.
// Affected holds the toggled node followed, on deactivation, by its descendants.
type ToggleResult struct {
	IsActive bool
	Affected []*domain.Feature
}

// DeleteResult lists the public ids of every removed node, the deleted node first.
type DeleteResult struct {
	DeletedFIDs []uuid.UUID
}
