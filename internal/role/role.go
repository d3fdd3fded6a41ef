package role

import (
	"time"

	"github.com/frahmantamala/user-management/internal/permission"
)

// Role owns an unordered set of permissions through the role_permissions
// junction. The set is always expanded explicitly via preload.
type Role struct {
	ID          int64                    `json:"id" gorm:"primaryKey"`
	Name        string                   `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Permissions []*permission.Permission `json:"permissions" gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time                `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time                `json:"updated_at" gorm:"column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// PermissionNames returns the names of the role's permission set.
func (r *Role) PermissionNames() []string {
	names := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		names[i] = p.Name
	}
	return names
}
