package testhelper

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/featuretrail/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedOwner returns a fresh owner id. Owners have no table of their own; a
// new id keeps tests isolated from each other in the shared database.
func SeedOwner(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

// SeedRootFeature inserts an active root node for ownerID.
// The name gets a unique suffix so parallel tests never collide.
func SeedRootFeature(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, name string) domain.Feature {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	f := domain.Feature{
		ID:          uuid.New(),
		FID:         uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name + " " + uniqueSuffix()),
		IsActive:    true,
		ChildIDs:    []uuid.UUID{},
		AllChildIDs: []uuid.UUID{},
		ModifiedBy:  domain.Actor{ID: ownerID, Name: "Seeder", Email: "seeder@example.com"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	modifiedBy, err := json.Marshal(f.ModifiedBy)
	if err != nil {
		t.Fatalf("testhelper: SeedRootFeature marshal actor: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO features (id, fid, owner_id, name, name_normalized, parent_fid, is_active,
		                       child_ids, all_child_ids, modified_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NULL, $6, $7, $8, $9, $10, $11)`,
		f.ID, f.FID, f.OwnerID, f.Name, domain.NormalizeName(f.Name), f.IsActive,
		f.ChildIDs, f.AllChildIDs, modifiedBy, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRootFeature insert: %v", err)
	}

	return f
}

// FeatureExists reports whether a node with the given storage id exists.
func FeatureExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM features WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("testhelper: FeatureExists query: %v", err)
	}
	return exists
}
