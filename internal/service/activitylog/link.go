package activitylog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// Link returns the deep link that points at entry id.
func (s *Service) Link(id uuid.UUID) string {
	return s.cfg.LinkPrefix + id.String()
}

// ResolveLink returns the entry id a deep link points at.
func (s *Service) ResolveLink(link string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(link, s.cfg.LinkPrefix)
	if !ok || raw == "" {
		return uuid.Nil, domain.NewValidationError("link", "not an activity log link")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("link", "invalid entry id")
	}
	return id, nil
}
