package user

// CreateUserRequest represents the request to register a new user
type CreateUserRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Phone        string  `json:"phone" validate:"required"`
	Password     string  `json:"password" validate:"required,min=6"`
	Neighborhood *string `json:"neighborhood,omitempty"`
}

// UpdateUserRequest represents the request to update a user's profile
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
}

// SetDocumentStatusRequest changes the review state of a user's document or license
type SetDocumentStatusRequest struct {
	DocumentStatus *DocumentStatus `json:"document_status,omitempty"`
	LicenseStatus  *DocumentStatus `json:"license_status,omitempty"`
}
