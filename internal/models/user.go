package models

import (
	"time"
)

// User is a desk operator. Role is "mla" for the principal, "pa" for staff;
// other values are accepted and treated as staff without extra actions.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Phone     string    `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      string    `gorm:"size:20;not null;default:'pa'" json:"role"`
	OrgID     string    `gorm:"size:50;not null;index" json:"orgId"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	RolePrincipal = "mla"
	RoleStaff     = "pa"
	RoleAdmin     = "admin"
)
