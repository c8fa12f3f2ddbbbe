package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode and foreign keys enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS club (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		passcode_hash TEXT NOT NULL,
		owner_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		username TEXT NOT NULL,
		password_hash TEXT,
		is_owner INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE (club_id, username),
		FOREIGN KEY (club_id) REFERENCES club(id)
	);

	CREATE TABLE IF NOT EXISTS game (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		igdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unplayed',
		position_in_queue INTEGER NOT NULL,
		date_added TEXT NOT NULL,
		date_started TEXT,
		date_finished TEXT,
		UNIQUE (member_id, igdb_id),
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS rotation (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'planned',
		created_at TEXT NOT NULL,
		started_at TEXT,
		completed_at TEXT,
		FOREIGN KEY (club_id) REFERENCES club(id)
	);

	CREATE TABLE IF NOT EXISTS rotation_game (
		id TEXT PRIMARY KEY,
		rotation_id TEXT NOT NULL,
		game_id TEXT NOT NULL,
		rotation_status TEXT NOT NULL DEFAULT 'unplayed',
		play_order INTEGER NOT NULL,
		date_started TEXT,
		date_finished TEXT,
		FOREIGN KEY (rotation_id) REFERENCES rotation(id),
		FOREIGN KEY (game_id) REFERENCES game(id)
	);

	CREATE INDEX IF NOT EXISTS idx_member_club ON member(club_id);
	CREATE INDEX IF NOT EXISTS idx_game_member_position ON game(member_id, position_in_queue);
	CREATE INDEX IF NOT EXISTS idx_rotation_club_status ON rotation(club_id, status);
	CREATE INDEX IF NOT EXISTS idx_rotation_game_rotation ON rotation_game(rotation_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
