package permission

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/user-management/internal"
)

// Repository is the catalog storage contract.
type Repository interface {
	Create(p *Permission) error
	GetByID(id int64) (*Permission, error)
	GetByName(name string) (*Permission, error)
	Update(p *Permission) error
	Delete(id int64) error
	Search(search string, limit, offset int) ([]*Permission, int64, error)
	All() ([]*Permission, error)
}

// AssignmentGraph is the slice of the assignment graph the catalog needs:
// direct-grant edge mutation and reference counts for the delete guard.
type AssignmentGraph interface {
	GrantPermissionToUser(userID, permissionID int64) error
	RevokePermissionFromUser(userID, permissionID int64) error
	CountRolesWithPermission(permissionID int64) (int64, error)
	CountUsersWithPermission(permissionID int64) (int64, error)
	UserExists(userID int64) (bool, error)
}

type Service struct {
	repo   Repository
	graph  AssignmentGraph
	logger *slog.Logger
}

func NewService(repo Repository, graph AssignmentGraph, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		graph:  graph,
		logger: logger,
	}
}

func (s *Service) Create(dto *UpsertPermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("permission name already exists", internal.ErrCodeDuplicateEntry)
	}

	p := &Permission{Name: dto.Name}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}

	s.logger.Info("permission created", "permission_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Get(id int64) (*Permission, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id int64, dto *UpsertPermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// uniqueness check excludes the record itself
	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil && existing.ID != id {
		return nil, internal.NewConflictError("permission name already exists", internal.ErrCodeDuplicateEntry)
	}

	p.Name = dto.Name
	if err := s.repo.Update(p); err != nil {
		return nil, err
	}

	s.logger.Info("permission updated", "permission_id", p.ID, "name", p.Name)
	return p, nil
}

// Delete removes a permission unless some role or user still references it.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	roleRefs, err := s.graph.CountRolesWithPermission(id)
	if err != nil {
		return internal.NewInternalError("failed to check role references", err)
	}
	if roleRefs > 0 {
		return internal.NewConflictError("cannot delete permission that is assigned to roles", internal.ErrCodePermissionInUse)
	}

	userRefs, err := s.graph.CountUsersWithPermission(id)
	if err != nil {
		return internal.NewInternalError("failed to check user references", err)
	}
	if userRefs > 0 {
		return internal.NewConflictError("cannot delete permission that is assigned to users", internal.ErrCodePermissionInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("permission deleted", "permission_id", id)
	return nil
}

func (s *Service) List(search string, page, perPage int) ([]*Permission, int64, error) {
	offset := (page - 1) * perPage
	return s.repo.Search(search, perPage, offset)
}

func (s *Service) All() ([]*Permission, error) {
	return s.repo.All()
}

// Grouped partitions the whole catalog by display group.
func (s *Service) Grouped() (map[string][]*Permission, error) {
	perms, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*Permission)
	for _, p := range perms {
		key := p.GroupKey()
		grouped[key] = append(grouped[key], p)
	}
	return grouped, nil
}

func (s *Service) Stats() (*Stats, error) {
	perms, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: int64(len(perms))}
	cutoff := time.Now().Add(-RecentWindow)
	for _, p := range perms {
		if p.IsSystem() {
			stats.System++
		}
		if p.CreatedAt.After(cutoff) {
			stats.Recent++
		}
	}
	stats.Custom = stats.Total - stats.System
	return stats, nil
}

// AssignToUser adds a direct grant, bypassing roles. Idempotent.
func (s *Service) AssignToUser(permissionID int64, dto *AssignUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(permissionID); err != nil {
		return err
	}

	exists, err := s.graph.UserExists(dto.UserID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return internal.ErrUserNotFound
	}

	if err := s.graph.GrantPermissionToUser(dto.UserID, permissionID); err != nil {
		return err
	}

	s.logger.Info("direct permission granted", "permission_id", permissionID, "user_id", dto.UserID)
	return nil
}

// RemoveFromUser revokes a direct grant. Removing an absent edge is a
// no-op success.
func (s *Service) RemoveFromUser(permissionID int64, dto *AssignUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(permissionID); err != nil {
		return err
	}

	exists, err := s.graph.UserExists(dto.UserID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return internal.ErrUserNotFound
	}

	if err := s.graph.RevokePermissionFromUser(dto.UserID, permissionID); err != nil {
		return err
	}

	s.logger.Info("direct permission revoked", "permission_id", permissionID, "user_id", dto.UserID)
	return nil
}
