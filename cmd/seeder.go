package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the permission catalog, baseline roles and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"user_permissions", "user_roles", "role_permissions", "users", "roles", "permissions"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		permissions := []string{
			"view users",
			"create users",
			"edit users",
			"delete users",
			"manage roles",
			"view roles",
			"manage permissions",
			"view permissions",
			"view dashboard",
			"manage news",
			"view news",
		}

		for _, name := range permissions {
			var pid int64
			if err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", name).Scan(&pid); err == sql.ErrNoRows {
				if _, err := db.Exec("INSERT INTO permissions (name, created_at, updated_at) VALUES ($1, now(), now())", name); err != nil {
					log.Fatalf("failed to insert permission %s: %v", name, err)
				}
			}
		}
		fmt.Println("Seeded permission catalog")

		superAdminID := ensureRole(db, "super_admin")
		editorID := ensureRole(db, "editor")

		// super_admin carries every permission in the catalog
		for _, name := range permissions {
			grantRolePermission(db, superAdminID, name)
		}

		for _, name := range []string{"view dashboard", "view news", "manage news"} {
			grantRolePermission(db, editorID, name)
		}
		fmt.Println("Seeded roles: super_admin, editor")

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		adminID := ensureUser(db, seedUser{
			Name:       "Super Administrator",
			Email:      "admin@example.com",
			Department: "IT",
			Phone:      "081234567890",
			Status:     "active",
		}, string(hash))
		assignUserRole(db, adminID, superAdminID)

		editorUserID := ensureUser(db, seedUser{
			Name:       "Editor User",
			Email:      "editor@example.com",
			Department: "Content",
			Phone:      "081234567891",
			Status:     "active",
		}, string(hash))
		assignUserRole(db, editorUserID, editorID)

		fmt.Println("Seeded users: admin@example.com, editor@example.com (password: password)")
	},
}

type seedUser struct {
	Name       string
	Email      string
	Department string
	Phone      string
	Status     string
}

func ensureRole(db *sqlx.DB, name string) int64 {
	var id int64
	err := db.QueryRow("SELECT id FROM roles WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("failed to lookup role %s: %v", name, err)
	}
	if err := db.QueryRow("INSERT INTO roles (name, created_at, updated_at) VALUES ($1, now(), now()) RETURNING id", name).Scan(&id); err != nil {
		log.Fatalf("failed to insert role %s: %v", name, err)
	}
	return id
}

func grantRolePermission(db *sqlx.DB, roleID int64, permissionName string) {
	var pid int64
	if err := db.QueryRow("SELECT id FROM permissions WHERE name = $1", permissionName).Scan(&pid); err != nil {
		log.Fatalf("permission not found %s: %v", permissionName, err)
	}
	if _, err := db.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", roleID, pid); err != nil {
		log.Fatalf("failed to grant %s to role %d: %v", permissionName, roleID, err)
	}
}

func ensureUser(db *sqlx.DB, u seedUser, passwordHash string) int64 {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE email = $1", u.Email).Scan(&id)
	if err == nil {
		fmt.Printf("user %s already exists\n", u.Email)
		return id
	}
	if err != sql.ErrNoRows {
		log.Fatalf("failed to lookup user %s: %v", u.Email, err)
	}
	if err := db.QueryRow(
		"INSERT INTO users (name, email, password_hash, department, phone, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, now(), now()) RETURNING id",
		u.Name, u.Email, passwordHash, u.Department, u.Phone, u.Status,
	).Scan(&id); err != nil {
		log.Fatalf("failed to insert user %s: %v", u.Email, err)
	}
	return id
}

func assignUserRole(db *sqlx.DB, userID, roleID int64) {
	if _, err := db.Exec("INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", userID, roleID); err != nil {
		log.Fatalf("failed to assign role %d to user %d: %v", roleID, userID, err)
	}
}
