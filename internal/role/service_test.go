package role_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
	"github.com/frahmantamala/user-management/internal/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRoleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Service Suite")
}

// MockRepository implements role.Repository for testing
type MockRepository struct {
	roles      map[int64]*role.Role
	catalog    map[int64]*permission.Permission
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		roles:   make(map[int64]*role.Role),
		catalog: make(map[int64]*permission.Permission),
		nextID:  1,
	}
}

func (m *MockRepository) Create(r *role.Role) error {
	if m.shouldFail {
		return m.failError
	}
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.nextID++
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) GetByID(id int64) (*role.Role, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.roles[id]
	if !ok {
		return nil, internal.ErrRoleNotFound
	}
	return r, nil
}

func (m *MockRepository) GetByName(name string) (*role.Role, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, internal.ErrRoleNotFound
}

func (m *MockRepository) Update(r *role.Role) error {
	if m.shouldFail {
		return m.failError
	}
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) ReplacePermissions(r *role.Role, perms []*permission.Permission) error {
	if m.shouldFail {
		return m.failError
	}
	r.Permissions = perms
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.roles, id)
	return nil
}

func (m *MockRepository) Search(search string, limit, offset int) ([]*role.Role, int64, error) {
	if m.shouldFail {
		return nil, 0, m.failError
	}
	result := make([]*role.Role, 0, len(m.roles))
	for _, r := range m.roles {
		result = append(result, r)
	}
	return result, int64(len(result)), nil
}

func (m *MockRepository) PermissionsByIDs(ids []int64) ([]*permission.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*permission.Permission
	for _, id := range ids {
		if p, ok := m.catalog[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockRepository) AddCatalogPermission(id int64, name string) {
	m.catalog[id] = &permission.Permission{ID: id, Name: name}
}

// MockGraph implements role.AssignmentGraph for testing
type MockGraph struct {
	holders map[int64]int64
	users   map[int64]bool
	edges   map[[2]int64]bool
}

func NewMockGraph() *MockGraph {
	return &MockGraph{
		holders: make(map[int64]int64),
		users:   make(map[int64]bool),
		edges:   make(map[[2]int64]bool),
	}
}

func (m *MockGraph) AssignRoleToUser(userID, roleID int64) error {
	m.edges[[2]int64{userID, roleID}] = true
	return nil
}

func (m *MockGraph) RemoveRoleFromUser(userID, roleID int64) error {
	delete(m.edges, [2]int64{userID, roleID})
	return nil
}

func (m *MockGraph) CountUsersWithRole(roleID int64) (int64, error) {
	return m.holders[roleID], nil
}

func (m *MockGraph) UserExists(userID int64) (bool, error) {
	return m.users[userID], nil
}

var _ = Describe("Role Service", func() {
	var (
		mockRepo  *MockRepository
		mockGraph *MockGraph
		service   *role.Service
		logger    *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockGraph = NewMockGraph()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(mockRepo, mockGraph, false, logger)
	})

	Describe("Create", func() {
		It("should create a role with resolved permissions", func() {
			mockRepo.AddCatalogPermission(1, "view news")
			mockRepo.AddCatalogPermission(2, "manage news")

			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1, 2}})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Name).To(Equal("editor"))
			Expect(r.PermissionNames()).To(ConsistOf("view news", "manage news"))
		})

		It("should create a role with an empty permission set", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "bare"})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Permissions).To(BeEmpty())
		})

		It("should reject a duplicate name", func() {
			_, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEntry))
		})

		Context("in lenient mode", func() {
			It("should drop unknown permission ids", func() {
				mockRepo.AddCatalogPermission(1, "view news")

				r, err := service.Create(&role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1, 999}})
				Expect(err).NotTo(HaveOccurred())
				Expect(r.PermissionNames()).To(ConsistOf("view news"))
			})
		})

		Context("in strict mode", func() {
			BeforeEach(func() {
				service = role.NewService(mockRepo, mockGraph, true, logger)
			})

			It("should reject unknown permission ids", func() {
				mockRepo.AddCatalogPermission(1, "view news")

				_, err := service.Create(&role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1, 999}})
				Expect(err).To(HaveOccurred())

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				Expect(appErr.Details.(internal.FieldErrors)["permissions"]).NotTo(BeEmpty())
			})
		})
	})

	Describe("Update", func() {
		It("should replace the permission set wholesale", func() {
			mockRepo.AddCatalogPermission(1, "view news")
			mockRepo.AddCatalogPermission(2, "manage news")
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1, 2}})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(r.ID, &role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1}})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.PermissionNames()).To(ConsistOf("view news"))
		})

		It("should empty the set when no permissions are sent", func() {
			mockRepo.AddCatalogPermission(1, "view news")
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor", PermissionIDs: []int64{1}})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(r.ID, &role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(BeEmpty())
		})

		It("should reject a name taken by another role", func() {
			_, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			r, err := service.Create(&role.UpsertRoleDTO{Name: "viewer"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(r.ID, &role.UpsertRoleDTO{Name: "editor"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEntry))
		})
	})

	Describe("Delete", func() {
		It("should delete an unassigned role", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(r.ID)).To(Succeed())
		})

		It("should refuse to delete a role users still hold", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			mockGraph.holders[r.ID] = 3

			err = service.Delete(r.ID)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleInUse))
		})

		It("should return not found for a missing role", func() {
			err := service.Delete(999)
			Expect(err).To(MatchError(internal.ErrRoleNotFound))
		})
	})

	Describe("AssignToUser", func() {
		It("should add the edge", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			mockGraph.users[7] = true

			err = service.AssignToUser(r.ID, &role.AssignUserDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockGraph.edges[[2]int64{7, r.ID}]).To(BeTrue())
		})

		It("should return not found for an unknown user", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())

			err = service.AssignToUser(r.ID, &role.AssignUserDTO{UserID: 7})
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("RemoveFromUser", func() {
		It("should drop the edge", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			mockGraph.users[7] = true
			mockGraph.edges[[2]int64{7, r.ID}] = true

			err = service.RemoveFromUser(r.ID, &role.AssignUserDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockGraph.edges).NotTo(HaveKey([2]int64{7, r.ID}))
		})

		It("should succeed when the edge does not exist", func() {
			r, err := service.Create(&role.UpsertRoleDTO{Name: "editor"})
			Expect(err).NotTo(HaveOccurred())
			mockGraph.users[7] = true

			err = service.RemoveFromUser(r.ID, &role.AssignUserDTO{UserID: 7})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
