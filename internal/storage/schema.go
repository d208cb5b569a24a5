package storage

import "time"

// PositionRecord represents a row in the positions table
type PositionRecord struct {
	PositionID   string    `db:"position_id"`
	Placement    string    `db:"placement"`
	Turn         string    `db:"turn"` // "w" or "b"
	CreatedAtUTC time.Time `db:"created_at_utc"`
}

// GenerationRecord represents one move generation pass over a stored position
type GenerationRecord struct {
	GenerationID   int64     `db:"generation_id"`
	PositionID     string    `db:"position_id"`
	Turn           string    `db:"turn"`
	PieceCount     int       `db:"piece_count"`
	TargetCount    int       `db:"target_count"`
	GeneratedAtUTC time.Time `db:"generated_at_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS positions (
	position_id TEXT PRIMARY KEY,
	placement TEXT NOT NULL,
	turn TEXT NOT NULL CHECK(turn IN ('w', 'b')),
	created_at_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS generations (
	generation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	position_id TEXT NOT NULL,
	turn TEXT NOT NULL CHECK(turn IN ('w', 'b')),
	piece_count INTEGER NOT NULL,
	target_count INTEGER NOT NULL,
	generated_at_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (position_id) REFERENCES positions(position_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_generations_position_id ON generations(position_id);
CREATE INDEX IF NOT EXISTS idx_positions_created_at ON positions(created_at_utc);
`
