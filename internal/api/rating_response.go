// File: internal/api/rating_response.go
package api

import (
	"time"

	"store-rating/internal/model"
)

// swagger:model api.RatingResponse
type RatingResponse struct {
	ID        int       `json:"id" example:"1"`
	Rating    int       `json:"rating" example:"4"`
	UserID    int       `json:"user_id" example:"3"`
	StoreID   int       `json:"store_id" example:"1"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-05-02T15:04:05Z"`
}

// swagger:model api.RatingEnvelope
type RatingEnvelope struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"Rating submitted successfully"`
	Rating  RatingResponse `json:"rating"`
}

// RatingDetailResponse 評分連同評分者與商店名稱
// swagger:model api.RatingDetailResponse
type RatingDetailResponse struct {
	ID        int                 `json:"id" example:"1"`
	Rating    int                 `json:"rating" example:"4"`
	StoreID   int                 `json:"store_id" example:"1"`
	StoreName string              `json:"store_name" example:"Corner Cafe"`
	User      UserSummaryResponse `json:"user"`
	CreatedAt time.Time           `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt time.Time           `json:"updated_at" example:"2025-05-02T15:04:05Z"`
}

// swagger:model api.RatingsResponse
type RatingsResponse struct {
	Success bool                   `json:"success" example:"true"`
	Message string                 `json:"message" example:"Ratings fetched successfully"`
	Count   int                    `json:"count" example:"1"`
	Ratings []RatingDetailResponse `json:"ratings"`
}

// StoreRatingsResponse 商店摘要與其所有評分
// swagger:model api.StoreRatingsResponse
type StoreRatingsResponse struct {
	StoreResponse
	Ratings []RatingDetailResponse `json:"ratings"`
}

// swagger:model api.RatingsByStoreResponse
type RatingsByStoreResponse struct {
	Success bool                   `json:"success" example:"true"`
	Message string                 `json:"message" example:"Ratings by store fetched successfully"`
	Count   int                    `json:"count" example:"1"`
	Stores  []StoreRatingsResponse `json:"stores"`
}

func NewRatingResponse(r model.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		Rating:    r.Value,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewRatingDetails(views []model.RatingView) []RatingDetailResponse {
	out := make([]RatingDetailResponse, 0, len(views))
	for _, v := range views {
		out = append(out, RatingDetailResponse{
			ID:        v.ID,
			Rating:    v.Value,
			StoreID:   v.StoreID,
			StoreName: v.StoreName,
			User:      NewUserSummaryResponse(v.Rater),
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		})
	}
	return out
}
