package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/user-management/internal/permission/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPermissionPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Postgres Suite")
}

// SQLitePermission is a SQLite-compatible model for testing
type SQLitePermission struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLitePermission) TableName() string {
	return "permissions"
}

var _ = Describe("Permission Repository", func() {
	var (
		db   *gorm.DB
		repo permission.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLitePermission{})
		Expect(err).NotTo(HaveOccurred())

		repo = permissionPostgres.NewPermissionRepository(db)
	})

	Describe("Create", func() {
		It("should create a permission", func() {
			p := &permission.Permission{Name: "view users"}

			err := repo.Create(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(BeNumerically(">", 0))
			Expect(p.CreatedAt).NotTo(BeZero())
		})

		It("should reject a duplicate name with a conflict", func() {
			Expect(repo.Create(&permission.Permission{Name: "view users"})).To(Succeed())

			err := repo.Create(&permission.Permission{Name: "view users"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEntry))
		})
	})

	Describe("GetByID and GetByName", func() {
		It("should fetch stored permissions", func() {
			p := &permission.Permission{Name: "edit users"}
			Expect(repo.Create(p)).To(Succeed())

			byID, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.Name).To(Equal("edit users"))

			byName, err := repo.GetByName("edit users")
			Expect(err).NotTo(HaveOccurred())
			Expect(byName.ID).To(Equal(p.ID))
		})

		It("should return not found for missing records", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(MatchError(internal.ErrPermissionNotFound))

			_, err = repo.GetByName("nothing")
			Expect(err).To(MatchError(internal.ErrPermissionNotFound))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			for _, name := range []string{"view users", "edit users", "view news"} {
				Expect(repo.Create(&permission.Permission{Name: name})).To(Succeed())
			}
		})

		It("should filter by substring and report the total", func() {
			perms, total, err := repo.Search("users", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(perms).To(HaveLen(2))
		})

		It("should order results by name", func() {
			perms, _, err := repo.Search("", 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms[0].Name).To(Equal("edit users"))
			Expect(perms[2].Name).To(Equal("view users"))
		})

		It("should paginate with the total unchanged", func() {
			perms, total, err := repo.Search("", 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(perms).To(HaveLen(1))
		})
	})

	Describe("Delete", func() {
		It("should remove the record", func() {
			p := &permission.Permission{Name: "temporary"}
			Expect(repo.Create(p)).To(Succeed())

			Expect(repo.Delete(p.ID)).To(Succeed())

			_, err := repo.GetByID(p.ID)
			Expect(err).To(MatchError(internal.ErrPermissionNotFound))
		})
	})
})
