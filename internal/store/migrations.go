package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create invocations",
		SQL: `
			CREATE TABLE invocations (
				id          TEXT PRIMARY KEY,
				tool        TEXT NOT NULL,
				ok          INTEGER NOT NULL,
				error_kind  TEXT NOT NULL DEFAULT '',
				status      INTEGER NOT NULL DEFAULT 0,
				duration_ms INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_invocations_tool ON invocations (tool);
			CREATE INDEX idx_invocations_created ON invocations (created_at);
		`,
	},
}
