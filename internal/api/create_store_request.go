// File: internal/api/create_store_request.go
package api

// swagger:model api.CreateStoreRequest
type CreateStoreRequest struct {
	Name    string  `json:"name" form:"name" validate:"required,max=100" example:"Corner Cafe"`
	Email   string  `json:"email" form:"email" validate:"required,email" example:"hello@corner.cafe"`
	Address string  `json:"address" form:"address" validate:"required,max=400" example:"3 Main Street"`
	Image   *string `json:"image" form:"image" example:"https://img.example.com/cafe.png"`
	// 僅管理員使用，指定商店擁有者
	OwnerID int `json:"owner_id" form:"owner_id" validate:"gte=0,max=2147483647" example:"2"`
}
