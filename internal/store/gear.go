package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveGear inserts or updates a gear item and its run attributions.
func (s *Store) SaveGear(g GearItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO gear (id, name, purchase_date, initial_mileage, total_mileage,
			target_mileage, is_default, is_retired)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			purchase_date = excluded.purchase_date,
			initial_mileage = excluded.initial_mileage,
			total_mileage = excluded.total_mileage,
			target_mileage = excluded.target_mileage,
			is_default = excluded.is_default,
			is_retired = excluded.is_retired,
			updated_at = CURRENT_TIMESTAMP`,
		g.ID, g.Name, g.PurchaseDate.Format(dateKey), g.InitialMileage,
		g.TotalMileage, g.TargetMileage, g.IsDefault, g.IsRetired,
	)
	if err != nil {
		return fmt.Errorf("saving gear: %w", err)
	}

	for _, runID := range g.RunIDs {
		if _, err := tx.Exec(`
			INSERT INTO gear_runs (gear_id, workout_id) VALUES (?, ?)
			ON CONFLICT(gear_id, workout_id) DO NOTHING`, g.ID, runID); err != nil {
			return fmt.Errorf("saving gear run: %w", err)
		}
	}
	return tx.Commit()
}

// GetGear returns a single gear item with its run attributions.
func (s *Store) GetGear(id string) (*GearItem, error) {
	row := s.db.QueryRow(selectGear+` WHERE id = ?`, id)
	g, err := scanGear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGearNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting gear: %w", err)
	}
	if err := s.loadGearRuns(g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGear returns all gear items, oldest first.
func (s *Store) ListGear() ([]GearItem, error) {
	rows, err := s.db.Query(selectGear + ` ORDER BY purchase_date, id`)
	if err != nil {
		return nil, fmt.Errorf("listing gear: %w", err)
	}
	defer rows.Close()

	var out []GearItem
	for rows.Next() {
		g, err := scanGear(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning gear: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadGearRuns(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

const selectGear = `
	SELECT id, name, purchase_date, initial_mileage, total_mileage,
		target_mileage, is_default, is_retired
	FROM gear`

func scanGear(row rowScanner) (*GearItem, error) {
	var g GearItem
	var purchased string
	err := row.Scan(&g.ID, &g.Name, &purchased, &g.InitialMileage,
		&g.TotalMileage, &g.TargetMileage, &g.IsDefault, &g.IsRetired)
	if err != nil {
		return nil, err
	}
	g.PurchaseDate, err = time.Parse(dateKey, purchased)
	if err != nil {
		return nil, fmt.Errorf("parsing purchase date %q: %w", purchased, err)
	}
	return &g, nil
}

func (s *Store) loadGearRuns(g *GearItem) error {
	rows, err := s.db.Query(`SELECT workout_id FROM gear_runs WHERE gear_id = ?`, g.ID)
	if err != nil {
		return fmt.Errorf("listing gear runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return fmt.Errorf("scanning gear run: %w", err)
		}
		g.RunIDs = append(g.RunIDs, runID)
	}
	return rows.Err()
}
