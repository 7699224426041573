package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles transaction data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new ledger repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const transactionColumns = `id, grupo_id, membro_id, presenca_id, tipo, valor, descricao, criado_em`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.MemberID,
		&t.PresenceID,
		&t.Kind,
		&t.Amount,
		&t.Description,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// HasDebitForPresence reports whether a debit already references the presence
func (r *Repository) HasDebitForPresence(ctx context.Context, presenceID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transacoes WHERE presenca_id = $1 AND tipo = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, presenceID, KindDebit).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check debit: %w", err)
	}

	return exists, nil
}

// CreateDebit inserts a debit linked to a presence
func (r *Repository) CreateDebit(ctx context.Context, t *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO transacoes (grupo_id, membro_id, presenca_id, tipo, valor, descricao)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		t.GroupID, t.MemberID, t.PresenceID, KindDebit, t.Amount, t.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create debit: %w", err)
	}

	return created, nil
}

// DeleteDebitByPresence removes the debit linked to a presence and returns
// the refunded amount; zero if no debit existed
func (r *Repository) DeleteDebitByPresence(ctx context.Context, presenceID int64) (float64, error) {
	query := `DELETE FROM transacoes WHERE presenca_id = $1 AND tipo = $2 RETURNING valor`

	var amount float64
	err := r.db.QueryRowContext(ctx, query, presenceID, KindDebit).Scan(&amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to delete debit: %w", err)
	}

	return amount, nil
}

// CreatePayment inserts a payment entry
func (r *Repository) CreatePayment(ctx context.Context, t *Transaction) (*Transaction, error) {
	query := `
		INSERT INTO transacoes (grupo_id, membro_id, tipo, valor, descricao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		t.GroupID, t.MemberID, KindPayment, t.Amount, t.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

// GetBalance reads a member's aggregated balance from vw_saldo_membros.
// Members with no transactions get a zero-valued balance, not an error.
func (r *Repository) GetBalance(ctx context.Context, memberID int64) (*Balance, error) {
	query := `
		SELECT membro_id, total_debitos, total_pagamentos, saldo_pendente
		FROM vw_saldo_membros
		WHERE membro_id = $1`

	b := &Balance{}
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&b.MemberID,
		&b.TotalDebits,
		&b.TotalPayments,
		&b.Outstanding,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return &Balance{MemberID: memberID}, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return b, nil
}

// ListByGroup retrieves a group's transactions, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Transaction, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM transacoes WHERE grupo_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transacoes
		WHERE grupo_id = $1
		ORDER BY criado_em DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, total, nil
}
