package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles group and membership data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const groupColumns = `id, nome, motorista_id, horario_ida, horario_volta, modelo_cobranca,
	preco_semanal, preco_por_trajeto, janela_cancelamento_min, whatsapp_group_id, link_convite, criado_em`

func scanGroup(row interface{ Scan(...interface{}) error }) (*Group, error) {
	g := &Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.DriverID,
		&g.DepartureTime,
		&g.ReturnTime,
		&g.PricingModel,
		&g.WeeklyPrice,
		&g.PerTripPrice,
		&g.CancelWindowMin,
		&g.WhatsAppGroupID,
		&g.InviteLink,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateGroup inserts a new group into the database
func (r *Repository) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO grupos (nome, motorista_id, horario_ida, horario_volta, modelo_cobranca,
			preco_semanal, preco_por_trajeto, janela_cancelamento_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query,
		req.Name, req.DriverID, req.DepartureTime, req.ReturnTime, req.PricingModel,
		req.WeeklyPrice, req.PerTripPrice, req.CancelWindowMin))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return g, nil
}

// GetGroupByID retrieves a group by its ID
func (r *Repository) GetGroupByID(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM grupos WHERE id = $1`

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return g, nil
}

// GetGroupByWhatsAppID retrieves a group by its external messaging-group id
func (r *Repository) GetGroupByWhatsAppID(ctx context.Context, whatsappGroupID string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM grupos WHERE whatsapp_group_id = $1`

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, whatsappGroupID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group by whatsapp id: %w", err)
	}

	return g, nil
}

// ListGroups retrieves all groups with pagination
func (r *Repository) ListGroups(ctx context.Context, limit, offset int) ([]*Group, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grupos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `SELECT ` + groupColumns + ` FROM grupos ORDER BY criado_em DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, total, nil
}

// SetWhatsAppGroup stores the external messaging-group id and invite link
func (r *Repository) SetWhatsAppGroup(ctx context.Context, id int64, whatsappGroupID, inviteLink *string) error {
	query := `
		UPDATE grupos
		SET whatsapp_group_id = COALESCE($2, whatsapp_group_id),
		    link_convite = COALESCE($3, link_convite)
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, whatsappGroupID, inviteLink); err != nil {
		return fmt.Errorf("failed to set whatsapp group: %w", err)
	}

	return nil
}

const memberColumns = `m.id, m.grupo_id, m.usuario_id, m.is_motorista, m.ativo, m.status_aprovacao, m.dias_padrao, m.criado_em`

func scanProfile(row interface{ Scan(...interface{}) error }) (*MemberProfile, error) {
	p := &MemberProfile{}
	err := row.Scan(
		&p.ID,
		&p.GroupID,
		&p.UserID,
		&p.IsDriver,
		&p.Active,
		&p.ApprovalStatus,
		pq.Array(&p.DefaultDays),
		&p.CreatedAt,
		&p.Name,
		&p.Phone,
		&p.WhatsAppID,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddMember inserts a membership row. Unique-constraint violations are
// returned unwrapped so callers can distinguish duplicate memberships.
func (r *Repository) AddMember(ctx context.Context, m *Member) (*Member, error) {
	query := `
		INSERT INTO membros (grupo_id, usuario_id, is_motorista, ativo, status_aprovacao, dias_padrao)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, grupo_id, usuario_id, is_motorista, ativo, status_aprovacao, dias_padrao, criado_em`

	created := &Member{}
	err := r.db.QueryRowContext(ctx, query,
		m.GroupID, m.UserID, m.IsDriver, m.Active, m.ApprovalStatus, pq.Array(m.DefaultDays)).Scan(
		&created.ID,
		&created.GroupID,
		&created.UserID,
		&created.IsDriver,
		&created.Active,
		&created.ApprovalStatus,
		pq.Array(&created.DefaultDays),
		&created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetMember retrieves a membership by (group, user)
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*MemberProfile, error) {
	query := `
		SELECT ` + memberColumns + `, u.nome, u.telefone, u.whatsapp_id
		FROM membros m
		JOIN usuarios u ON m.usuario_id = u.id
		WHERE m.grupo_id = $1 AND m.usuario_id = $2`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return p, nil
}

// GetMemberByID retrieves a membership by its own id
func (r *Repository) GetMemberByID(ctx context.Context, id int64) (*MemberProfile, error) {
	query := `
		SELECT ` + memberColumns + `, u.nome, u.telefone, u.whatsapp_id
		FROM membros m
		JOIN usuarios u ON m.usuario_id = u.id
		WHERE m.id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by id: %w", err)
	}

	return p, nil
}

// GetActiveProfileByUserID retrieves the user's single active membership,
// flattened with identity fields
func (r *Repository) GetActiveProfileByUserID(ctx context.Context, userID int64) (*MemberProfile, error) {
	query := `
		SELECT ` + memberColumns + `, u.nome, u.telefone, u.whatsapp_id
		FROM membros m
		JOIN usuarios u ON m.usuario_id = u.id
		WHERE m.usuario_id = $1 AND m.ativo = true
		LIMIT 1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active membership: %w", err)
	}

	return p, nil
}

// GetMembersByGroup retrieves all memberships of a group with identity fields
func (r *Repository) GetMembersByGroup(ctx context.Context, groupID int64) ([]*MemberProfile, error) {
	query := `
		SELECT ` + memberColumns + `, u.nome, u.telefone, u.whatsapp_id
		FROM membros m
		JOIN usuarios u ON m.usuario_id = u.id
		WHERE m.grupo_id = $1
		ORDER BY u.nome`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*MemberProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, p)
	}

	return members, nil
}

// UpdateMemberApproval transitions a membership's approval status
func (r *Repository) UpdateMemberApproval(ctx context.Context, memberID int64, status ApprovalStatus) (*MemberProfile, error) {
	query := `UPDATE membros SET status_aprovacao = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, memberID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update member approval: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetMemberByID(ctx, memberID)
}
