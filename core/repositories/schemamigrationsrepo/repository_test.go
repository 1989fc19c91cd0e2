package schemamigrationsrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type fixed []schemamigrationsrepo.SchemaMigration

func (f fixed) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	return f, nil
}

func TestStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := schemamigrationsrepo.NewRepository(logger.NewDiscard(), fixed{
		{Version: "001_init.sql", Checksum: "abc", AppliedAt: at},
		{Version: "000_legacy.sql", Checksum: "old", AppliedAt: at},
	})

	got, err := repo.Status(context.Background(), []string{"001_init.sql", "002_next.sql"})
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	want := []schemamigrationsrepo.MigrationStatus{
		{Version: "000_legacy.sql", Applied: true, Checksum: "old", AppliedAt: &at},
		{Version: "001_init.sql", Applied: true, Checksum: "abc", AppliedAt: &at},
		{Version: "002_next.sql"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}
