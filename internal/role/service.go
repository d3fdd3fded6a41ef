package role

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
)

// Repository is the role catalog storage contract. Reads expand the
// permission set; ReplacePermissions swaps the whole set atomically.
type Repository interface {
	Create(r *Role) error
	GetByID(id int64) (*Role, error)
	GetByName(name string) (*Role, error)
	Update(r *Role) error
	ReplacePermissions(r *Role, perms []*permission.Permission) error
	Delete(id int64) error
	Search(search string, limit, offset int) ([]*Role, int64, error)
	PermissionsByIDs(ids []int64) ([]*permission.Permission, error)
}

// AssignmentGraph is the slice of the graph the role catalog needs.
type AssignmentGraph interface {
	AssignRoleToUser(userID, roleID int64) error
	RemoveRoleFromUser(userID, roleID int64) error
	CountUsersWithRole(roleID int64) (int64, error)
	UserExists(userID int64) (bool, error)
}

type Service struct {
	repo   Repository
	graph  AssignmentGraph
	logger *slog.Logger

	// strict makes unknown permission ids a validation failure instead of
	// silently dropping them.
	strict bool
}

func NewService(repo Repository, graph AssignmentGraph, strict bool, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		graph:  graph,
		strict: strict,
		logger: logger,
	}
}

// resolvePermissions maps ids to catalog entries. Lenient mode drops ids
// that resolve to nothing; strict mode rejects them.
func (s *Service) resolvePermissions(ids []int64) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return []*permission.Permission{}, nil
	}

	perms, err := s.repo.PermissionsByIDs(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve permissions", err)
	}

	if s.strict && len(perms) != uniqueCount(ids) {
		found := make(map[int64]bool, len(perms))
		for _, p := range perms {
			found[p.ID] = true
		}
		fields := internal.FieldErrors{}
		for _, id := range ids {
			if !found[id] {
				fields.Add("permissions", fmt.Sprintf("unknown permission id %d", id))
			}
		}
		return nil, internal.NewValidationError("validation failed", fields)
	}

	return perms, nil
}

func uniqueCount(ids []int64) int {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return len(seen)
}

func (s *Service) Create(dto *UpsertRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateEntry)
	}

	perms, err := s.resolvePermissions(dto.PermissionIDs)
	if err != nil {
		return nil, err
	}

	r := &Role{Name: dto.Name}
	if err := s.repo.Create(r); err != nil {
		return nil, err
	}

	if err := s.repo.ReplacePermissions(r, perms); err != nil {
		return nil, internal.NewInternalError("failed to set role permissions", err)
	}

	s.logger.Info("role created", "role_id", r.ID, "name", r.Name, "permissions", len(perms))
	return s.repo.GetByID(r.ID)
}

func (s *Service) Get(id int64) (*Role, error) {
	return s.repo.GetByID(id)
}

// Update renames the role and replaces its permission set wholesale. A
// missing permission list empties the set; this is full replace, not merge.
func (s *Service) Update(id int64, dto *UpsertRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil && existing.ID != id {
		return nil, internal.NewConflictError("role name already exists", internal.ErrCodeDuplicateEntry)
	}

	perms, err := s.resolvePermissions(dto.PermissionIDs)
	if err != nil {
		return nil, err
	}

	r.Name = dto.Name
	if err := s.repo.Update(r); err != nil {
		return nil, err
	}

	if err := s.repo.ReplacePermissions(r, perms); err != nil {
		return nil, internal.NewInternalError("failed to replace role permissions", err)
	}

	s.logger.Info("role updated", "role_id", r.ID, "name", r.Name, "permissions", len(perms))
	return s.repo.GetByID(r.ID)
}

// Delete removes a role unless some user still holds it.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	holders, err := s.graph.CountUsersWithRole(id)
	if err != nil {
		return internal.NewInternalError("failed to check role holders", err)
	}
	if holders > 0 {
		return internal.NewConflictError("cannot delete role that is assigned to users", internal.ErrCodeRoleInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("role deleted", "role_id", id)
	return nil
}

func (s *Service) List(search string, page, perPage int) ([]*Role, int64, error) {
	offset := (page - 1) * perPage
	return s.repo.Search(search, perPage, offset)
}

// AssignToUser adds the user-role edge. Re-assigning is a no-op success.
func (s *Service) AssignToUser(roleID int64, dto *AssignUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(roleID); err != nil {
		return err
	}

	exists, err := s.graph.UserExists(dto.UserID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return internal.ErrUserNotFound
	}

	if err := s.graph.AssignRoleToUser(dto.UserID, roleID); err != nil {
		return err
	}

	s.logger.Info("role assigned", "role_id", roleID, "user_id", dto.UserID)
	return nil
}

// RemoveFromUser drops the user-role edge. Removing an absent edge is a
// no-op success.
func (s *Service) RemoveFromUser(roleID int64, dto *AssignUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(roleID); err != nil {
		return err
	}

	exists, err := s.graph.UserExists(dto.UserID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return internal.ErrUserNotFound
	}

	if err := s.graph.RemoveRoleFromUser(dto.UserID, roleID); err != nil {
		return err
	}

	s.logger.Info("role removed", "role_id", roleID, "user_id", dto.UserID)
	return nil
}
