package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid document status")
)

var validStatuses = map[DocumentStatus]bool{
	DocumentStatusPending:  true,
	DocumentStatusApproved: true,
	DocumentStatusRejected: true,
	DocumentStatusNotSent:  true,
}

// Service handles user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, req *CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &User{
		Name:           req.Name,
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		DocumentStatus: DocumentStatusNotSent,
		LicenseStatus:  DocumentStatusNotSent,
		Neighborhood:   req.Neighborhood,
	})
}

// CreateFromWhatsApp creates a user record for someone first seen in a
// group chat. The one-time password is hashed like any other password so
// the account can later be claimed on the dashboard.
func (s *Service) CreateFromWhatsApp(ctx context.Context, name, phone, whatsappID, oneTimePassword string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(oneTimePassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:           name,
		Phone:          phone,
		PasswordHash:   string(hash),
		DocumentStatus: DocumentStatusPending,
		LicenseStatus:  DocumentStatusNotSent,
	}
	if whatsappID != "" {
		u.WhatsAppID = &whatsappID
	}

	return s.repo.Create(ctx, u)
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByPhone looks up a user by any normalized format of the raw phone.
// A nil result is not an error; it means the phone is unknown.
func (s *Service) FindByPhone(ctx context.Context, rawPhone string) (*User, error) {
	return s.repo.GetByPhoneCandidates(ctx, PhoneCandidates(rawPhone))
}

// List retrieves users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies a user's profile
func (s *Service) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	u, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetDocumentStatus transitions the document/license verification state
func (s *Service) SetDocumentStatus(ctx context.Context, id int64, req *SetDocumentStatusRequest) (*User, error) {
	if req.DocumentStatus != nil && !validStatuses[*req.DocumentStatus] {
		return nil, ErrInvalidStatus
	}
	if req.LicenseStatus != nil && !validStatuses[*req.LicenseStatus] {
		return nil, ErrInvalidStatus
	}

	u, err := s.repo.SetDocumentStatus(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
