package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cajurona/backend/internal/group"
)

// Common errors
var (
	ErrMemberNotFound = errors.New("member not found")
)

// Service handles ledger business logic
type Service struct {
	repo    *Repository
	members *group.Repository
}

// NewService creates a new ledger service
func NewService(repo *Repository, members *group.Repository) *Service {
	return &Service{repo: repo, members: members}
}

// Balance returns a member's aggregated position; zero-valued when the
// member has no transactions
func (s *Service) Balance(ctx context.Context, memberID int64) (*Balance, error) {
	return s.repo.GetBalance(ctx, memberID)
}

// BalanceMessage reads the balance and renders the WhatsApp reply
func (s *Service) BalanceMessage(ctx context.Context, memberID int64, name string) (string, error) {
	b, err := s.repo.GetBalance(ctx, memberID)
	if err != nil {
		return "", err
	}
	return FormatBalance(name, b), nil
}

// RegisterPayment records a payment for a member and reports the
// resulting position. The amount is taken as given; validating it is the
// caller's responsibility.
func (s *Service) RegisterPayment(ctx context.Context, groupID, memberID int64, amount float64, description string) (string, error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", ErrMemberNotFound
	}

	if description == "" {
		description = "Pagamento"
	}

	if _, err := s.repo.CreatePayment(ctx, &Transaction{
		GroupID:     groupID,
		MemberID:    memberID,
		Amount:      amount,
		Description: description,
	}); err != nil {
		return "", err
	}

	b, err := s.repo.GetBalance(ctx, memberID)
	if err != nil {
		return "", err
	}

	if b.Outstanding <= 0 {
		return fmt.Sprintf("✅ Pagamento de %s registrado para %s. Saldo quitado! 🎉",
			FormatMoney(amount), member.Name), nil
	}
	return fmt.Sprintf("✅ Pagamento de %s registrado para %s. Saldo pendente: %s",
		FormatMoney(amount), member.Name, FormatMoney(b.Outstanding)), nil
}

// ListByGroup retrieves a group's transactions with pagination
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Transaction, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}
