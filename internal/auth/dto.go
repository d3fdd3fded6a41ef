package auth

import (
	"net/mail"
	"strings"

	"github.com/frahmantamala/user-management/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login
// requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	fields := internal.FieldErrors{}

	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" {
		fields.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		fields.Add("email", "email format is invalid")
	}

	if d.Password == "" {
		fields.Add("password", "password is required")
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}

// RegisterDTO is the transport shape for self-registration.
type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Validate() error {
	fields := internal.FieldErrors{}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		fields.Add("name", "name is required")
	} else if len(d.Name) > 255 {
		fields.Add("name", "name must be at most 255 characters")
	}

	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" {
		fields.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		fields.Add("email", "email format is invalid")
	}

	if d.Password == "" {
		fields.Add("password", "password is required")
	} else if len(d.Password) < 6 {
		fields.Add("password", "password must be at least 6 characters")
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}
