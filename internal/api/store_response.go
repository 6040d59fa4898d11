// File: internal/api/store_response.go
package api

import (
	"time"

	"store-rating/internal/model"
)

// StoreResponse 商店與評分摘要；average_rating 無評分時為 null
// swagger:model api.StoreResponse
type StoreResponse struct {
	ID            int                 `json:"id" example:"1"`
	Name          string              `json:"name" example:"Corner Cafe"`
	Slug          string              `json:"slug" example:"corner-cafe"`
	Email         string              `json:"email" example:"hello@corner.cafe"`
	Address       string              `json:"address" example:"3 Main Street"`
	Image         *string             `json:"image"`
	Owner         UserSummaryResponse `json:"owner"`
	AverageRating *string             `json:"average_rating" example:"4.00"`
	RatingsCount  int                 `json:"ratings_count" example:"3"`
	MyRating      *int                `json:"my_rating,omitempty" example:"5"`
	CreatedAt     time.Time           `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

// swagger:model api.StoresResponse
type StoresResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message" example:"Stores fetched successfully"`
	Count   int             `json:"count" example:"1"`
	Stores  []StoreResponse `json:"stores"`
}

// swagger:model api.StoreEnvelope
type StoreEnvelope struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Store fetched successfully"`
	Store   StoreResponse `json:"store"`
}

func NewStoreResponse(v model.StoreView, myRating *int) StoreResponse {
	return StoreResponse{
		ID:            v.ID,
		Name:          v.Name,
		Slug:          v.Slug,
		Email:         v.Email,
		Address:       v.Address,
		Image:         v.Image,
		Owner:         NewUserSummaryResponse(v.Owner),
		AverageRating: v.Rating.Formatted(),
		RatingsCount:  v.Rating.Count,
		MyRating:      myRating,
		CreatedAt:     v.CreatedAt,
	}
}
