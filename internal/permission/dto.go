package permission

import (
	"strings"

	"github.com/frahmantamala/user-management/internal"
)

// UpsertPermissionDTO is the request payload for creating or renaming a
// permission.
type UpsertPermissionDTO struct {
	Name string `json:"name"`
}

func (d *UpsertPermissionDTO) Validate() error {
	fields := internal.FieldErrors{}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		fields.Add("name", "name is required")
	} else if len(d.Name) > 255 {
		fields.Add("name", "name must be at most 255 characters")
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}

// AssignUserDTO identifies the user for direct-grant edge mutations.
type AssignUserDTO struct {
	UserID int64 `json:"user_id"`
}

func (d *AssignUserDTO) Validate() error {
	if d.UserID <= 0 {
		fields := internal.FieldErrors{}
		fields.Add("user_id", "user_id is required")
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}
