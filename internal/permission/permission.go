package permission

import (
	"strings"
	"time"
)

// Permission is a named action label, globally unique by name.
type Permission struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// GroupKey partitions permissions for display: the last whitespace-delimited
// token of the name ("edit users" -> "users"). Single-word names fall into
// "general". This is cosmetic grouping, not an authorization boundary.
func (p *Permission) GroupKey() string {
	parts := strings.Fields(p.Name)
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return "general"
}

// systemKeywords marks permissions that belong to the built-in CRUD set.
var systemKeywords = []string{"view", "create", "edit", "delete"}

// IsSystem reports whether the permission name contains one of the built-in
// action keywords.
func (p *Permission) IsSystem() bool {
	for _, kw := range systemKeywords {
		if strings.Contains(p.Name, kw) {
			return true
		}
	}
	return false
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	Total  int64 `json:"total"`
	System int64 `json:"system"`
	Custom int64 `json:"custom"`
	Recent int64 `json:"recent"`
}

// RecentWindow bounds the "recent" stat: permissions created within the
// last 7 days.
const RecentWindow = 7 * 24 * time.Hour
