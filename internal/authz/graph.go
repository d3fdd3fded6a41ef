package authz

import (
	"github.com/frahmantamala/user-management/internal/permission"
)

// Graph is the assignment graph: user-role and user-permission edges plus
// the queries the rest of the system derives decisions from. Expansion is
// always explicit; nothing here lazy-loads behind the caller's back.
type Graph interface {
	AssignRoleToUser(userID, roleID int64) error
	RemoveRoleFromUser(userID, roleID int64) error
	GrantPermissionToUser(userID, permissionID int64) error
	RevokePermissionFromUser(userID, permissionID int64) error

	RoleNamesForUser(userID int64) ([]string, error)
	RolePermissionsForUser(userID int64) ([]*permission.Permission, error)
	DirectPermissionsForUser(userID int64) ([]*permission.Permission, error)

	CountUsersWithRole(roleID int64) (int64, error)
	CountUsersWithPermission(permissionID int64) (int64, error)
	CountRolesWithPermission(permissionID int64) (int64, error)

	UserExists(userID int64) (bool, error)
}
