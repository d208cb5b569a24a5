package storage

import (
	"database/sql"
	"fmt"
)

// RecordPosition asynchronously records a newly loaded position
func (s *Store) RecordPosition(record PositionRecord) {
	s.enqueueWait("position record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO positions (position_id, placement, turn, created_at_utc) VALUES (?, ?, ?, ?)`,
			record.PositionID, record.Placement, record.Turn, record.CreatedAtUTC,
		)
		return err
	})
}

// UpdateTurn asynchronously changes the side to move of a stored position
func (s *Store) UpdateTurn(positionID, turn string) {
	s.enqueue("turn update", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE positions SET turn = ? WHERE position_id = ?`, turn, positionID)
		return err
	})
}

// RecordGeneration asynchronously records a generation summary. The row is
// skipped when its position is not stored (deleted, or its record was never written).
func (s *Store) RecordGeneration(record GenerationRecord) {
	s.enqueue("generation record", func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO generations (position_id, turn, piece_count, target_count, generated_at_utc)
			SELECT ?, ?, ?, ?, ?
			WHERE EXISTS (SELECT 1 FROM positions WHERE position_id = ?)`,
			record.PositionID, record.Turn, record.PieceCount, record.TargetCount, record.GeneratedAtUTC,
			record.PositionID,
		)
		return err
	})
}

// DeletePosition asynchronously removes a position; its generations cascade
func (s *Store) DeletePosition(positionID string) {
	s.enqueue("position delete", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM positions WHERE position_id = ?`, positionID)
		return err
	})
}

// QueryPositions lists positions, newest first. Empty or "*" matches all.
func (s *Store) QueryPositions(positionID string) ([]PositionRecord, error) {
	query := `SELECT position_id, placement, turn, created_at_utc FROM positions WHERE 1=1`

	var args []any
	if positionID != "" && positionID != "*" {
		query += " AND position_id = ?"
		args = append(args, positionID)
	}
	query += " ORDER BY created_at_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var positions []PositionRecord
	for rows.Next() {
		var p PositionRecord
		if err := rows.Scan(&p.PositionID, &p.Placement, &p.Turn, &p.CreatedAtUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return positions, nil
}

// QueryGenerations lists generation passes for one position in insertion order
func (s *Store) QueryGenerations(positionID string) ([]GenerationRecord, error) {
	rows, err := s.db.Query(
		`SELECT generation_id, position_id, turn, piece_count, target_count, generated_at_utc
		FROM generations WHERE position_id = ? ORDER BY generation_id`,
		positionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var gens []GenerationRecord
	for rows.Next() {
		var g GenerationRecord
		if err := rows.Scan(&g.GenerationID, &g.PositionID, &g.Turn, &g.PieceCount, &g.TargetCount, &g.GeneratedAtUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		gens = append(gens, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return gens, nil
}
