package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/user"
	userPostgres "github.com/frahmantamala/user-management/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash"`
	Department   string    `gorm:"column:department"`
	Phone        *string   `gorm:"column:phone"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteRole struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (SQLiteRole) TableName() string { return "roles" }

type SQLiteUserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (SQLiteUserRole) TableName() string { return "user_roles" }

type SQLiteUserPermission struct {
	UserID       int64 `gorm:"column:user_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (SQLiteUserPermission) TableName() string { return "user_permissions" }

var _ = Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
	)

	newUser := func(name, email, department, status string) *user.User {
		return &user.User{
			Name:         name,
			Email:        email,
			PasswordHash: "hash",
			Department:   department,
			Status:       status,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteRole{}, &SQLiteUserRole{}, &SQLiteUserPermission{})
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
	})

	Describe("Create", func() {
		It("should create a user", func() {
			u := newUser("Ahmad Rizki", "ahmad@example.com", "IT", user.StatusActive)

			Expect(repo.Create(u)).To(Succeed())
			Expect(u.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate email", func() {
			Expect(repo.Create(newUser("A", "same@example.com", "IT", user.StatusActive))).To(Succeed())

			err := repo.Create(newUser("B", "same@example.com", "IT", user.StatusActive))
			Expect(err).To(MatchError(internal.ErrEmailTaken))
		})
	})

	Describe("GetByEmail", func() {
		It("should fetch the stored user", func() {
			u := newUser("Ahmad Rizki", "ahmad@example.com", "IT", user.StatusActive)
			Expect(repo.Create(u)).To(Succeed())

			fetched, err := repo.GetByEmail("ahmad@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.ID).To(Equal(u.ID))
		})

		It("should return not found for an unknown email", func() {
			_, err := repo.GetByEmail("nobody@example.com")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("should remove the user together with assignment edges", func() {
			u := newUser("Ahmad Rizki", "ahmad@example.com", "IT", user.StatusActive)
			Expect(repo.Create(u)).To(Succeed())
			Expect(db.Create(&SQLiteUserRole{UserID: u.ID, RoleID: 1}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteUserPermission{UserID: u.ID, PermissionID: 1}).Error).NotTo(HaveOccurred())

			Expect(repo.Delete(u.ID)).To(Succeed())

			_, err := repo.GetByID(u.ID)
			Expect(err).To(MatchError(internal.ErrUserNotFound))

			var roleEdges, permEdges int64
			Expect(db.Table("user_roles").Where("user_id = ?", u.ID).Count(&roleEdges).Error).NotTo(HaveOccurred())
			Expect(db.Table("user_permissions").Where("user_id = ?", u.ID).Count(&permEdges).Error).NotTo(HaveOccurred())
			Expect(roleEdges).To(BeZero())
			Expect(permEdges).To(BeZero())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			Expect(repo.Create(newUser("Ahmad Rizki", "ahmad@example.com", "Diskominfotik", user.StatusActive))).To(Succeed())
			Expect(repo.Create(newUser("Siti Nurhaliza", "siti@example.com", "Humas", user.StatusActive))).To(Succeed())
			Expect(repo.Create(newUser("Maya Sari", "maya@example.com", "Publikasi", user.StatusInactive))).To(Succeed())
		})

		It("should match name, email or department", func() {
			byName, total, err := repo.Search(user.ListFilter{Search: "Siti"}, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(byName[0].Email).To(Equal("siti@example.com"))

			byDept, total, err := repo.Search(user.ListFilter{Search: "Diskominfotik"}, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(byDept[0].Name).To(Equal("Ahmad Rizki"))
		})

		It("should filter by status", func() {
			users, total, err := repo.Search(user.ListFilter{Status: user.StatusInactive}, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(users[0].Name).To(Equal("Maya Sari"))
		})

		It("should filter by role name", func() {
			editor := SQLiteRole{Name: "editor"}
			Expect(db.Create(&editor).Error).NotTo(HaveOccurred())
			siti, err := repo.GetByEmail("siti@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteUserRole{UserID: siti.ID, RoleID: editor.ID}).Error).NotTo(HaveOccurred())

			users, total, err := repo.Search(user.ListFilter{Role: "editor"}, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(users[0].Email).To(Equal("siti@example.com"))
		})
	})

	Describe("CountByStatus and CountPerRole", func() {
		It("should aggregate the user population", func() {
			Expect(repo.Create(newUser("A", "a@example.com", "IT", user.StatusActive))).To(Succeed())
			Expect(repo.Create(newUser("B", "b@example.com", "IT", user.StatusInactive))).To(Succeed())

			active, inactive, err := repo.CountByStatus()
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(Equal(int64(1)))
			Expect(inactive).To(Equal(int64(1)))
		})

		It("should count holders per role, including empty roles", func() {
			editor := SQLiteRole{Name: "editor"}
			admin := SQLiteRole{Name: "super_admin"}
			Expect(db.Create(&editor).Error).NotTo(HaveOccurred())
			Expect(db.Create(&admin).Error).NotTo(HaveOccurred())

			u := newUser("A", "a@example.com", "IT", user.StatusActive)
			Expect(repo.Create(u)).To(Succeed())
			Expect(db.Create(&SQLiteUserRole{UserID: u.ID, RoleID: editor.ID}).Error).NotTo(HaveOccurred())

			counts, err := repo.CountPerRole()
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(HaveKeyWithValue("editor", int64(1)))
			Expect(counts).To(HaveKeyWithValue("super_admin", int64(0)))
		})
	})
})
