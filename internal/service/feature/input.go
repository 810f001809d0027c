package feature

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// CreateFeatureInput holds the parameters for creating a feature.
type CreateFeatureInput struct {
	Name      string
	ParentFID *uuid.UUID // nil = root
	IsActive  bool
}

// Validate checks all fields and collects all errors.
func (i CreateFeatureInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.ParentFID != nil && *i.ParentFID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "parent_fid", Message: "invalid"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RenameFeatureInput holds the parameters for renaming a feature.
type RenameFeatureInput struct {
	FID  uuid.UUID
	Name string
}

// Validate checks all fields and collects all errors.
func (i RenameFeatureInput) Validate() error {
	var errs []domain.FieldError

	if i.FID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "fid", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ToggleFeatureInput holds the parameters for toggling a feature.
type ToggleFeatureInput struct {
	FID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i ToggleFeatureInput) Validate() error {
	if i.FID == uuid.Nil {
		return domain.NewValidationError("fid", "required")
	}
	return nil
}

// DeleteFeatureInput holds the parameters for deleting a feature.
type DeleteFeatureInput struct {
	FID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteFeatureInput) Validate() error {
	if i.FID == uuid.Nil {
		return domain.NewValidationError("fid", "required")
	}
	return nil
}
