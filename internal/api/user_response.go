// File: internal/api/user_response.go
package api

import (
	"time"

	"store-rating/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID        int       `json:"id" example:"1"`
	Name      string    `json:"name" example:"Alice"`
	Email     string    `json:"email" example:"alice@example.com"`
	Address   string    `json:"address" example:"1 Main Street"`
	Role      string    `json:"role" example:"Store Owner"`
	Status    string    `json:"status" example:"approved"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

// UserSummaryResponse 嵌入商店與評分中的使用者資訊
// swagger:model api.UserSummaryResponse
type UserSummaryResponse struct {
	ID    int    `json:"id" example:"2"`
	Name  string `json:"name" example:"Olga Owner"`
	Email string `json:"email" example:"olga@example.com"`
	Role  string `json:"role" example:"Store Owner"`
}

// swagger:model api.UserEnvelope
type UserEnvelope struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Registration successful"`
	User    UserResponse `json:"user"`
}

// swagger:model api.UsersResponse
type UsersResponse struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"Users fetched successfully"`
	Count   int            `json:"count" example:"1"`
	Users   []UserResponse `json:"users"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message" example:"Login successful"`
	Token     string       `json:"token" example:"eyJhbGciOi..."`
	ExpiresAt time.Time    `json:"expires_at" example:"2025-05-09T15:04:05Z"`
	User      UserResponse `json:"user"`
}

// OwnerRatingResponse 商店擁有者名下單一商店的評分摘要
// swagger:model api.OwnerRatingResponse
type OwnerRatingResponse struct {
	StoreID       int     `json:"store_id" example:"1"`
	StoreName     string  `json:"store_name" example:"Corner Cafe"`
	AverageRating *string `json:"average_rating" example:"4.00"`
	RatingsCount  int     `json:"ratings_count" example:"3"`
}

// swagger:model api.UserDetailResponse
type UserDetailResponse struct {
	Success      bool                  `json:"success" example:"true"`
	Message      string                `json:"message" example:"User details fetched successfully"`
	User         UserResponse          `json:"user"`
	OwnerRatings []OwnerRatingResponse `json:"owner_ratings"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func NewUsersResponse(message string, users []model.User) UsersResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return UsersResponse{Success: true, Message: message, Count: len(out), Users: out}
}

func NewUserSummaryResponse(u model.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

// NewOwnerRatings 非商店擁有者時回傳 nil，輸出為 JSON null
func NewOwnerRatings(stores []model.StoreView) []OwnerRatingResponse {
	if stores == nil {
		return nil
	}
	out := make([]OwnerRatingResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, OwnerRatingResponse{
			StoreID:       s.ID,
			StoreName:     s.Name,
			AverageRating: s.Rating.Formatted(),
			RatingsCount:  s.Rating.Count,
		})
	}
	return out
}
