package postgres

import (
	"errors"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
	"gorm.io/gorm"
)

// PermissionRepository implements the permission.Repository interface using GORM.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.Repository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(p *permission.Permission) error {
	if err := r.db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("permission name already exists", internal.ErrCodeDuplicateEntry)
		}
		return err
	}
	return nil
}

func (r *PermissionRepository) GetByID(id int64) (*permission.Permission, error) {
	var p permission.Permission
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPermissionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) GetByName(name string) (*permission.Permission, error) {
	var p permission.Permission
	err := r.db.Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPermissionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) Update(p *permission.Permission) error {
	if err := r.db.Save(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("permission name already exists", internal.ErrCodeDuplicateEntry)
		}
		return err
	}
	return nil
}

func (r *PermissionRepository) Delete(id int64) error {
	return r.db.Delete(&permission.Permission{}, id).Error
}

// Search returns a name-ordered page of permissions matching the search
// substring, plus the total match count.
func (r *PermissionRepository) Search(search string, limit, offset int) ([]*permission.Permission, int64, error) {
	query := r.db.Model(&permission.Permission{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var perms []*permission.Permission
	err := query.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&perms).Error
	if err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

func (r *PermissionRepository) All() ([]*permission.Permission, error) {
	var perms []*permission.Permission
	err := r.db.Order("name ASC").Find(&perms).Error
	return perms, err
}
