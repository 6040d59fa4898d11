// File: internal/model/store.go
package model

import "time"

type Store struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	Image     *string   `db:"image" json:"image"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StoreView 商店連同擁有者與評分摘要
type StoreView struct {
	Store
	Owner  UserSummary
	Rating RatingSummary
}

// StoreFilter 商店列表的可選子字串條件（不分大小寫）
type StoreFilter struct {
	Name    string
	Address string
	OwnerID int
}
