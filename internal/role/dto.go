package role

import (
	"strings"

	"github.com/frahmantamala/user-management/internal"
)

// UpsertRoleDTO is the payload for creating or updating a role. The
// permission list replaces the role's whole set; omitting it on update
// empties the set.
type UpsertRoleDTO struct {
	Name          string  `json:"name"`
	PermissionIDs []int64 `json:"permissions"`
}

func (d *UpsertRoleDTO) Validate() error {
	fields := internal.FieldErrors{}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		fields.Add("name", "name is required")
	} else if len(d.Name) > 255 {
		fields.Add("name", "name must be at most 255 characters")
	}

	for _, id := range d.PermissionIDs {
		if id <= 0 {
			fields.Add("permissions", "permission ids must be positive integers")
			break
		}
	}

	if !fields.Empty() {
		return internal.NewValidationError("validation failed", fields)
	}
	return nil
}

// AssignUserDTO identifies the user for role assignment edges.
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
