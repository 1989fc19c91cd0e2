package schemamigrationsrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/kingjawir/marketplace/sdk/logger"
)

type Storer interface {
	List(ctx context.Context) ([]SchemaMigration, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

func (r *Repository) List(ctx context.Context) ([]SchemaMigration, error) {
	applied, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema migration repository list: %w", err)
	}
	return applied, nil
}

// Status merges the known migration files with the applied rows. Rows without
// a matching file are still reported so drift is visible.
func (r *Repository) Status(ctx context.Context, files []string) ([]MigrationStatus, error) {
	applied, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]SchemaMigration, len(applied))
	for _, m := range applied {
		byVersion[m.Version] = m
	}

	out := make([]MigrationStatus, 0, len(files))
	for _, f := range files {
		st := MigrationStatus{Version: f}
		if m, ok := byVersion[f]; ok {
			at := m.AppliedAt
			st.Applied, st.Checksum, st.AppliedAt = true, m.Checksum, &at
			delete(byVersion, f)
		}
		out = append(out, st)
	}
	for _, m := range byVersion {
		at := m.AppliedAt
		out = append(out, MigrationStatus{Version: m.Version, Applied: true, Checksum: m.Checksum, AppliedAt: &at})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
