package schemamigrationsrepo

import "time"

type SchemaMigration struct {
	Version   string    `db:"version"`
	Checksum  string    `db:"checksum"`
	AppliedAt time.Time `db:"applied_at"`
}

// MigrationStatus pairs a migration file with its applied row, if any.
type MigrationStatus struct {
	Version   string
	Applied   bool
	Checksum  string
	AppliedAt *time.Time
}
