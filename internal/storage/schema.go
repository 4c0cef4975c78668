package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progression (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_xp INTEGER NOT NULL DEFAULT 0,
			available_xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			next_level_xp INTEGER NOT NULL DEFAULT 0,
			level_progress REAL NOT NULL DEFAULT 0,

			pending_idle_xp REAL NOT NULL DEFAULT 0,
			passive_xp_per_second REAL NOT NULL DEFAULT 0,
			last_active_at TEXT NOT NULL,

			streak_count INTEGER NOT NULL DEFAULT 0,
			last_streak_date TEXT NOT NULL DEFAULT '',
			missions_seeded_date TEXT NOT NULL DEFAULT '',

			owned_themes TEXT NOT NULL DEFAULT '[]',
			owned_upgrades TEXT NOT NULL DEFAULT '{}',
			settings TEXT NOT NULL DEFAULT '{}',
			activity_log TEXT NOT NULL DEFAULT '[]'
		);`,
		// The mission list belongs to the singleton; position keeps display order.
		`CREATE TABLE IF NOT EXISTS missions (
			position INTEGER PRIMARY KEY,
			mission_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			target INTEGER NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			reward INTEGER NOT NULL,
			claimed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_missions_mission_id ON missions(mission_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
