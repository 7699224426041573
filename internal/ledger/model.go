package ledger

import "time"

// TransactionKind distinguishes debits from payments
type TransactionKind string

const (
	KindDebit   TransactionKind = "debito"
	KindPayment TransactionKind = "pagamento"
)

// Transaction represents a ledger entry (table transacoes). Debits carry
// the presence they bill for; payments never do.
type Transaction struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	MemberID    int64           `json:"member_id"`
	PresenceID  *int64          `json:"presence_id,omitempty"`
	Kind        TransactionKind `json:"kind"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Balance is a member's aggregated position (view vw_saldo_membros)
type Balance struct {
	MemberID      int64   `json:"member_id"`
	TotalDebits   float64 `json:"total_debits"`
	TotalPayments float64 `json:"total_payments"`
	Outstanding   float64 `json:"outstanding"`
}
