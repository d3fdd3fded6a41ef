package user

import (
	"net/mail"
	"strings"

	"github.com/frahmantamala/user-management/internal"
)

const minPasswordLength = 8

// CreateUserDTO is the payload for administrative user creation.
type CreateUserDTO struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Department           string  `json:"department"`
	Phone                *string `json:"phone,omitempty"`
	Status               string  `json:"status"`
}

func (d *CreateUserDTO) Validate() error {
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
	} else if len(d.Password) < minPasswordLength {
		fields.Add("password", "password must be at least 8 characters")
	} else if d.Password != d.PasswordConfirmation {
		fields.Add("password", "password confirmation does not match")
	}

	d.Department = strings.TrimSpace(d.Department)
	if d.Department == "" {
		fields.Add("department", "department is required")
	}

	if d.Phone != nil && len(*d.Phone) > 20 {
		fields.Add("phone", "phone must be at most 20 characters")
	}

	if d.Status != StatusActive && d.Status != StatusInactive {
		fields.Add("status", "status must be active or inactive")
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}

// UpdateUserDTO is the payload for updating a user. An empty password
// keeps the stored hash untouched.
type UpdateUserDTO struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Department           string  `json:"department"`
	Phone                *string `json:"phone,omitempty"`
	Status               string  `json:"status"`
}

func (d *UpdateUserDTO) Validate() error {
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

	if d.Password != "" {
		if len(d.Password) < minPasswordLength {
			fields.Add("password", "password must be at least 8 characters")
		} else if d.Password != d.PasswordConfirmation {
			fields.Add("password", "password confirmation does not match")
		}
	}

	d.Department = strings.TrimSpace(d.Department)
	if d.Department == "" {
		fields.Add("department", "department is required")
	}

	if d.Phone != nil && len(*d.Phone) > 20 {
		fields.Add("phone", "phone must be at most 20 characters")
	}

	if d.Status != StatusActive && d.Status != StatusInactive {
		fields.Add("status", "status must be active or inactive")
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}
