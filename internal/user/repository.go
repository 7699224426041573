package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, nome, telefone, senha_hash, whatsapp_id, status_documento, status_cnh, bairro, criado_em`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Phone,
		&u.PasswordHash,
		&u.WhatsAppID,
		&u.DocumentStatus,
		&u.LicenseStatus,
		&u.Neighborhood,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO usuarios (nome, telefone, senha_hash, whatsapp_id, status_documento, status_cnh, bairro)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Name, u.Phone, u.PasswordHash, u.WhatsAppID, u.DocumentStatus, u.LicenseStatus, u.Neighborhood))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByPhoneCandidates retrieves a user whose stored phone matches any of
// the supplied normalized formats
func (r *Repository) GetByPhoneCandidates(ctx context.Context, candidates []string) (*User, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM usuarios WHERE telefone = ANY($1) LIMIT 1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, pq.Array(candidates)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}

	return u, nil
}

// UpdateWhatsAppID backfills the messaging-gateway participant id
func (r *Repository) UpdateWhatsAppID(ctx context.Context, id int64, whatsappID string) error {
	query := `UPDATE usuarios SET whatsapp_id = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, whatsappID); err != nil {
		return fmt.Errorf("failed to update whatsapp id: %w", err)
	}

	return nil
}

// List retrieves all users with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM usuarios`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY criado_em DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, total, nil
}

// Update modifies a user's profile fields
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	query := `
		UPDATE usuarios
		SET nome = COALESCE($2, nome),
		    bairro = COALESCE($3, bairro)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, req.Name, req.Neighborhood))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// SetDocumentStatus updates the document and/or license review status
func (r *Repository) SetDocumentStatus(ctx context.Context, id int64, req *SetDocumentStatusRequest) (*User, error) {
	query := `
		UPDATE usuarios
		SET status_documento = COALESCE($2, status_documento),
		    status_cnh = COALESCE($3, status_cnh)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, req.DocumentStatus, req.LicenseStatus))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set document status: %w", err)
	}

	return u, nil
}
