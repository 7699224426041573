package presence

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles presence data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new presence repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const presenceColumns = `id, viagem_id, membro_id, status, confirmado_em, horario_chegada, observacao`

func scanPresence(row interface{ Scan(...interface{}) error }) (*Presence, error) {
	p := &Presence{}
	err := row.Scan(
		&p.ID,
		&p.TripID,
		&p.MemberID,
		&p.Status,
		&p.ConfirmedAt,
		&p.ArrivalTime,
		&p.Note,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert writes a presence row, overwriting any prior state for the same
// (trip, member) pair
func (r *Repository) Upsert(ctx context.Context, p *Presence) (*Presence, error) {
	query := `
		INSERT INTO presencas (viagem_id, membro_id, status, confirmado_em, horario_chegada, observacao)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (viagem_id, membro_id) DO UPDATE
		SET status = EXCLUDED.status,
		    confirmado_em = EXCLUDED.confirmado_em,
		    horario_chegada = EXCLUDED.horario_chegada,
		    observacao = EXCLUDED.observacao
		RETURNING ` + presenceColumns

	saved, err := scanPresence(r.db.QueryRowContext(ctx, query,
		p.TripID, p.MemberID, p.Status, p.ConfirmedAt, p.ArrivalTime, p.Note))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert presence: %w", err)
	}

	return saved, nil
}

// GetByTripAndMember retrieves the presence row for a (trip, member) pair
func (r *Repository) GetByTripAndMember(ctx context.Context, tripID, memberID int64) (*Presence, error) {
	query := `SELECT ` + presenceColumns + ` FROM presencas WHERE viagem_id = $1 AND membro_id = $2`

	p, err := scanPresence(r.db.QueryRowContext(ctx, query, tripID, memberID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get presence: %w", err)
	}

	return p, nil
}

// StatusToday reads the materialized status view filtered to today's
// outbound leg
func (r *Repository) StatusToday(ctx context.Context, groupID int64) ([]*StatusEntry, error) {
	query := `
		SELECT membro_id, nome, status, horario_chegada
		FROM vw_status_semana
		WHERE grupo_id = $1 AND data = CURRENT_DATE AND tipo = 'ida'
		ORDER BY nome`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read status view: %w", err)
	}
	defer rows.Close()

	var entries []*StatusEntry
	for rows.Next() {
		e := &StatusEntry{}
		if err := rows.Scan(&e.MemberID, &e.Name, &e.Status, &e.ArrivalTime); err != nil {
			return nil, fmt.Errorf("failed to scan status entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
