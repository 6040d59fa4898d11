// File: internal/model/user.go
package model

import "time"

// Role 使用者角色
type Role string

const (
	RoleNormalUser Role = "Normal User"
	RoleStoreOwner Role = "Store Owner"
	RoleAdmin      Role = "Admin"
)

// Valid 回報角色是否為已知值
func (r Role) Valid() bool {
	switch r {
	case RoleNormalUser, RoleStoreOwner, RoleAdmin:
		return true
	}
	return false
}

// Status 帳號審核狀態
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Address      string    `db:"address" json:"address"`
	Role         Role      `db:"role" json:"role"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the public slice of a user embedded in store and rating views.
type UserSummary struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Role  Role   `db:"role" json:"role"`
}

// UserFilter 使用者列表的可選子字串條件（不分大小寫）
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    string
}
