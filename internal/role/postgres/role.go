package postgres

import (
	"errors"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
	"github.com/frahmantamala/user-management/internal/role"
	"gorm.io/gorm"
)

// RoleRepository implements the role.Repository interface using GORM.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(rl *role.Role) error {
	// permission set is managed separately via ReplacePermissions
	if err := r.db.Omit("Permissions").Create(rl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateEntry)
		}
		return err
	}
	return nil
}

func (r *RoleRepository) GetByID(id int64) (*role.Role, error) {
	var rl role.Role
	err := r.db.Preload("Permissions").Where("id = ?", id).First(&rl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRoleNotFound
		}
		return nil, err
	}
	if rl.Permissions == nil {
		rl.Permissions = []*permission.Permission{}
	}
	return &rl, nil
}

func (r *RoleRepository) GetByName(name string) (*role.Role, error) {
	var rl role.Role
	err := r.db.Where("name = ?", name).First(&rl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRoleNotFound
		}
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) Update(rl *role.Role) error {
	if err := r.db.Omit("Permissions").Save(rl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateEntry)
		}
		return err
	}
	return nil
}

// ReplacePermissions swaps the role's whole permission set.
func (r *RoleRepository) ReplacePermissions(rl *role.Role, perms []*permission.Permission) error {
	return r.db.Model(rl).Association("Permissions").Replace(perms)
}

func (r *RoleRepository) Delete(id int64) error {
	rl := &role.Role{ID: id}
	if err := r.db.Model(rl).Association("Permissions").Clear(); err != nil {
		return err
	}
	return r.db.Delete(rl).Error
}

func (r *RoleRepository) Search(search string, limit, offset int) ([]*role.Role, int64, error) {
	query := r.db.Model(&role.Role{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []*role.Role
	err := query.Preload("Permissions").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}

	for _, rl := range roles {
		if rl.Permissions == nil {
			rl.Permissions = []*permission.Permission{}
		}
	}
	return roles, total, nil
}

func (r *RoleRepository) PermissionsByIDs(ids []int64) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return []*permission.Permission{}, nil
	}
	var perms []*permission.Permission
	err := r.db.Where("id IN ?", ids).Find(&perms).Error
	return perms, err
}
