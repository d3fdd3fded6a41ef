package postgres

import (
	"github.com/frahmantamala/user-management/internal/authz"
	"github.com/frahmantamala/user-management/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRole is the user-role junction row.
type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string { return "user_roles" }

// UserPermission is the direct-grant junction row.
type UserPermission struct {
	UserID       int64 `gorm:"column:user_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (UserPermission) TableName() string { return "user_permissions" }

// GraphRepository implements authz.Graph over the junction tables.
type GraphRepository struct {
	db *gorm.DB
}

func NewGraphRepository(db *gorm.DB) *GraphRepository {
	return &GraphRepository{db: db}
}

var _ authz.Graph = (*GraphRepository)(nil)

// AssignRoleToUser is idempotent: re-assigning an existing edge succeeds.
func (r *GraphRepository) AssignRoleToUser(userID, roleID int64) error {
	edge := UserRole{UserID: userID, RoleID: roleID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

// RemoveRoleFromUser is a no-op success when the edge does not exist.
func (r *GraphRepository) RemoveRoleFromUser(userID, roleID int64) error {
	return r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&UserRole{}).Error
}

func (r *GraphRepository) GrantPermissionToUser(userID, permissionID int64) error {
	edge := UserPermission{UserID: userID, PermissionID: permissionID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

func (r *GraphRepository) RevokePermissionFromUser(userID, permissionID int64) error {
	return r.db.Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&UserPermission{}).Error
}

func (r *GraphRepository) RoleNamesForUser(userID int64) ([]string, error) {
	var names []string
	err := r.db.Table("roles").
		Select("roles.name").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	return names, err
}

// RolePermissionsForUser collects the permissions reachable through every
// role the user holds. Duplicates across roles are collapsed by DISTINCT.
func (r *GraphRepository) RolePermissionsForUser(userID int64) ([]*permission.Permission, error) {
	var perms []*permission.Permission
	err := r.db.Table("permissions").
		Select("DISTINCT permissions.*").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Find(&perms).Error
	return perms, err
}

func (r *GraphRepository) DirectPermissionsForUser(userID int64) ([]*permission.Permission, error) {
	var perms []*permission.Permission
	err := r.db.Table("permissions").
		Select("permissions.*").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Find(&perms).Error
	return perms, err
}

func (r *GraphRepository) CountUsersWithRole(roleID int64) (int64, error) {
	var count int64
	err := r.db.Model(&UserRole{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

func (r *GraphRepository) CountUsersWithPermission(permissionID int64) (int64, error) {
	var count int64
	err := r.db.Model(&UserPermission{}).Where("permission_id = ?", permissionID).Count(&count).Error
	return count, err
}

func (r *GraphRepository) CountRolesWithPermission(permissionID int64) (int64, error) {
	var count int64
	err := r.db.Table("role_permissions").Where("permission_id = ?", permissionID).Count(&count).Error
	return count, err
}

func (r *GraphRepository) UserExists(userID int64) (bool, error) {
	var count int64
	err := r.db.Table("users").Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}
