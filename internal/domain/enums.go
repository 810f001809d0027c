package domain

// EntityType identifies the kind of resource an activity log entry describes.
type EntityType string

const (
	EntityTypeFeature EntityType = "Feature"
	EntityTypeTask    EntityType = "Task"
	EntityTypeStatus  EntityType = "Status"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeFeature, EntityTypeTask, EntityTypeStatus:
		return true
	}
	return false
}

// AuditTopic is the mutation kind recorded by an activity log entry.
type AuditTopic string

const (
	AuditTopicCreate AuditTopic = "Create"
	AuditTopicUpdate AuditTopic = "Update"
	AuditTopicDelete AuditTopic = "Delete"
)

func (t AuditTopic) String() string { return string(t) }

func (t AuditTopic) IsValid() bool {
	switch t {
	case AuditTopicCreate, AuditTopicUpdate, AuditTopicDelete:
		return true
	}
	return false
}

// Chained reports whether entries of this topic are linked to the subject's
// previous entry. Create starts a chain; Update and Delete extend it.
func (t AuditTopic) Chained() bool {
	return t == AuditTopicUpdate || t == AuditTopicDelete
}

// DashboardKey names a per-owner analytics counter.
type DashboardKey string

const (
	DashboardKeyTotalFeatures DashboardKey = "totalFeatures"
)

func (k DashboardKey) String() string { return string(k) }

// Title returns the human-readable label of the counter.
func (k DashboardKey) Title() string {
	switch k {
	case DashboardKeyTotalFeatures:
		return "Total Features"
	}
	return string(k)
}
