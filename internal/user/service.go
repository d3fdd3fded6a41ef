package user

import (
	"log/slog"

	"github.com/frahmantamala/user-management/internal"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the identity storage contract. Delete removes the user's
// assignment edges along with the record.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(u *User) error
	Delete(id int64) error
	Search(filter ListFilter, limit, offset int) ([]*User, int64, error)
	CountByStatus() (active, inactive int64, err error)
	CountPerRole() (map[string]int64, error)
}

type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) Create(dto *CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		fields := internal.FieldErrors{}
		fields.Add("email", "email is already registered")
		return nil, internal.NewValidationError("validation failed", fields)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Department:   dto.Department,
		Phone:        dto.Phone,
		Status:       dto.Status,
	}

	if err := s.repo.Create(u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) Get(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

// Update re-validates email uniqueness excluding the record itself. An
// empty password in the payload preserves the existing hash.
func (s *Service) Update(id int64, dto *UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil && existing.ID != id {
		fields := internal.FieldErrors{}
		fields.Add("email", "email is already registered")
		return nil, internal.NewValidationError("validation failed", fields)
	}

	u.Name = dto.Name
	u.Email = dto.Email
	u.Department = dto.Department
	u.Phone = dto.Phone
	u.Status = dto.Status

	if dto.Password != "" {
		hash, err := s.HashPassword(dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Delete removes a user and their assignment edges. Deleting the acting
// identity itself is always forbidden, regardless of permissions held.
func (s *Service) Delete(id, actingUserID int64) error {
	if id == actingUserID {
		return internal.ErrSelfDelete
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", actingUserID)
	return nil
}

func (s *Service) List(filter ListFilter, page, perPage int) ([]*User, int64, error) {
	offset := (page - 1) * perPage
	return s.repo.Search(filter, perPage, offset)
}

func (s *Service) Stats() (*Stats, error) {
	active, inactive, err := s.repo.CountByStatus()
	if err != nil {
		return nil, err
	}

	perRole, err := s.repo.CountPerRole()
	if err != nil {
		return nil, err
	}

	return &Stats{
		Total:    active + inactive,
		Active:   active,
		Inactive: inactive,
		PerRole:  perRole,
	}, nil
}
