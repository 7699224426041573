package bot

import (
	"context"
	"database/sql"
	"fmt"
)

// ActivityLog is one processed-message audit row (table logs_atividade)
type ActivityLog struct {
	EventID string
	Phone   string
	Message string
	Action  string
	Reply   string
}

// Repository persists bot activity logs
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new bot repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LogActivity records a processed message and the reply it produced
func (r *Repository) LogActivity(ctx context.Context, entry *ActivityLog) error {
	query := `
		INSERT INTO logs_atividade (evento_id, telefone, mensagem, acao, resposta)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		entry.EventID, entry.Phone, entry.Message, entry.Action, entry.Reply); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	return nil
}
