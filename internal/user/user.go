package user

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the identity record. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Department   string    `json:"department" gorm:"column:department"`
	Phone        *string   `json:"phone,omitempty" gorm:"column:phone"`
	Status       string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Stats is the aggregate view served by the user stats endpoint.
type Stats struct {
	Total    int64            `json:"total_users"`
	Active   int64            `json:"active_users"`
	Inactive int64            `json:"inactive_users"`
	PerRole  map[string]int64 `json:"per_role"`
}

// ListFilter narrows the user listing.
type ListFilter struct {
	Search string // substring over name, email, department
	Status string
	Role   string // role name held by the user
}
