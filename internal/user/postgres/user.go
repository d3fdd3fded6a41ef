package postgres

import (
	"errors"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *user.User) error {
	if err := r.db.Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete removes the user and their assignment edges in one transaction.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_permissions WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&user.User{}, id).Error
	})
}

func (r *UserRepository) Search(filter user.ListFilter, limit, offset int) ([]*user.User, int64, error) {
	query := r.db.Model(&user.User{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR department LIKE ?", pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Where("id IN (?)",
			r.db.Table("user_roles").
				Select("user_roles.user_id").
				Joins("JOIN roles ON roles.id = user_roles.role_id").
				Where("roles.name = ?", filter.Role))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) CountByStatus() (active, inactive int64, err error) {
	if err = r.db.Model(&user.User{}).Where("status = ?", user.StatusActive).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&user.User{}).Where("status = ?", user.StatusInactive).Count(&inactive).Error; err != nil {
		return 0, 0, err
	}
	return active, inactive, nil
}

func (r *UserRepository) CountPerRole() (map[string]int64, error) {
	type roleCount struct {
		Name  string
		Count int64
	}

	var rows []roleCount
	err := r.db.Table("roles").
		Select("roles.name AS name, COUNT(user_roles.user_id) AS count").
		Joins("LEFT JOIN user_roles ON user_roles.role_id = roles.id").
		Group("roles.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}
