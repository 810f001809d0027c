package domain

import (
	"time"

	"github.com/google/uuid"
)

// Field is one key/value pair of an entity snapshot.
type Field struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Snapshot is an entity projected into an ordered list of fields.
type Snapshot []Field

// Get returns the value stored under key.
func (s Snapshot) Get(key string) (any, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// ActivityLogEntry is an immutable audit record of one mutation on a subject.
//
// For Update entries Payloads holds the new snapshot followed by the old one;
// Create and Delete entries hold a single snapshot. PrevLink and NextLink are
// deep links to the neighbouring entries of the same (OwnerID, SubjectID) chain.
type ActivityLogEntry struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	SubjectID          string
	EntityType         EntityType
	Topic              AuditTopic
	Message            string
	Payloads           []Snapshot
	RouteToView        string
	NavigationWorkflow []string
	PrevLink           string
	NextLink           string
	ModifiedBeforeBy   Actor
	ModifiedAfterBy    Actor
	CreatedAt          time.Time
}

// TimelineItem is a lightweight summary of one activity log entry.
type TimelineItem struct {
	EntryID   uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityTimeline is the append-only per-subject feed of entry summaries.
type ActivityTimeline struct {
	OwnerID   uuid.UUID
	SubjectID string
	CreatedAt time.Time
	Items     []TimelineItem
}

// ActivityLogFilter narrows an owner's activity log listing.
type ActivityLogFilter struct {
	EntityType *EntityType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AuditEvent is what a resource service hands to the audit trail when it
// mutates an entity. Old is only set for Update events.
type AuditEvent struct {
	OwnerID            uuid.UUID
	SubjectID          string
	EntityType         EntityType
	Topic              AuditTopic
	Message            string
	New                Snapshot
	Old                Snapshot
	RouteToView        string
	NavigationWorkflow []string
	ActorBefore        Actor
	ActorAfter         Actor
}
