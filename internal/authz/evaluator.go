package authz

import (
	"sort"

	"github.com/frahmantamala/user-management/internal/permission"
)

// Evaluator resolves a user's effective permission set: the union of the
// permission sets of every role the user holds and the user's direct
// grants. There is no cache; every call reads the graph, so a revoked edge
// is invisible on the very next check.
type Evaluator struct {
	graph Graph
}

func NewEvaluator(graph Graph) *Evaluator {
	return &Evaluator{graph: graph}
}

// EffectivePermissions returns the deduplicated union, ordered by name.
func (e *Evaluator) EffectivePermissions(userID int64) ([]*permission.Permission, error) {
	fromRoles, err := e.graph.RolePermissionsForUser(userID)
	if err != nil {
		return nil, err
	}

	direct, err := e.graph.DirectPermissionsForUser(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]*permission.Permission, len(fromRoles)+len(direct))
	for _, p := range fromRoles {
		seen[p.Name] = p
	}
	for _, p := range direct {
		seen[p.Name] = p
	}

	effective := make([]*permission.Permission, 0, len(seen))
	for _, p := range seen {
		effective = append(effective, p)
	}
	sort.Slice(effective, func(i, j int) bool { return effective[i].Name < effective[j].Name })
	return effective, nil
}

// RoleNamesForUser reports the names of the roles assigned to the user.
func (e *Evaluator) RoleNamesForUser(userID int64) ([]string, error) {
	return e.graph.RoleNamesForUser(userID)
}

// EffectivePermissionNames returns the flattened, deduplicated name set.
func (e *Evaluator) EffectivePermissionNames(userID int64) ([]string, error) {
	perms, err := e.EffectivePermissions(userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Name
	}
	return names, nil
}

// Authorize reports whether the user's effective permission set satisfies
// the requirement.
func (e *Evaluator) Authorize(userID int64, req Requirement) (bool, error) {
	names, err := e.EffectivePermissionNames(userID)
	if err != nil {
		return false, err
	}
	return req.Satisfied(names), nil
}
