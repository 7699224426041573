package trip

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles trip data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const tripColumns = `id, grupo_id, data, tipo, horario_saida, status, criado_em`

func scanTrip(row interface{ Scan(...interface{}) error }) (*Trip, error) {
	t := &Trip{}
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.Date,
		&t.Leg,
		&t.DepartureTime,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreatePair inserts the outbound and return trips for one ride day.
// Existing rows for the same (group, date, leg) are left untouched.
func (r *Repository) CreatePair(ctx context.Context, groupID int64, date time.Time, departureTime, returnTime string) error {
	query := `
		INSERT INTO viagens (grupo_id, data, tipo, horario_saida, status)
		VALUES ($1, $2, $3, $4, 'agendada')
		ON CONFLICT (grupo_id, data, tipo) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, groupID, date, LegOutbound, departureTime); err != nil {
		return fmt.Errorf("failed to create outbound trip: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, groupID, date, LegReturn, returnTime); err != nil {
		return fmt.Errorf("failed to create return trip: %w", err)
	}

	return nil
}

// GetByGroupDateLeg retrieves the trip for a (group, date, leg) key
func (r *Repository) GetByGroupDateLeg(ctx context.Context, groupID int64, date time.Time, leg LegType) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viagens WHERE grupo_id = $1 AND data = $2 AND tipo = $3`

	t, err := scanTrip(r.db.QueryRowContext(ctx, query, groupID, date, leg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return t, nil
}

// ListByGroup retrieves a group's trips ordered by date and leg
func (r *Repository) ListByGroup(ctx context.Context, groupID int64) ([]*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM viagens WHERE grupo_id = $1 ORDER BY data, tipo`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, nil
}
