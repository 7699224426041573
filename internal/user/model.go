package user

import "time"

// DocumentStatus tracks the review state of an uploaded document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pendente"
	DocumentStatusApproved DocumentStatus = "aprovado"
	DocumentStatusRejected DocumentStatus = "rejeitado"
	DocumentStatusNotSent  DocumentStatus = "nao_enviada"
)

// User represents a rider or driver identity (table usuarios)
type User struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	PasswordHash   string         `json:"-"`
	WhatsAppID     *string        `json:"whatsapp_id,omitempty"`
	DocumentStatus DocumentStatus `json:"document_status"`
	LicenseStatus  DocumentStatus `json:"license_status"`
	Neighborhood   *string        `json:"neighborhood,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
