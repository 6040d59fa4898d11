package api

// swagger:model api.SubmitRatingRequest
type SubmitRatingRequest struct {
	StoreID int `json:"store_id" form:"store_id" validate:"required,gt=0,max=2147483647" example:"1"`
	Rating  int `json:"rating" form:"rating" validate:"required,min=1,max=5" example:"4"`
}
