package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=60" example:"Nina Normal"`
	Email    string `json:"email" form:"email" validate:"required,email" example:"nina@example.com"`
	Password string `json:"password" form:"password" validate:"required,max=72" example:"Secret123!"`
	Address  string `json:"address" form:"address" validate:"max=400" example:"1 Main Street"`
}

// RoleRegisterRequest 商店擁有者／管理員的註冊申請，以及管理員建立帳號
// swagger:model api.RoleRegisterRequest
type RoleRegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=60" example:"Olga Owner"`
	Email    string `json:"email" form:"email" validate:"required,email" example:"olga@example.com"`
	Password string `json:"password" form:"password" validate:"required,max=72" example:"Secret123!"`
	Address  string `json:"address" form:"address" validate:"max=400" example:"2 Market Road"`
	Role     string `json:"role" form:"role" validate:"required" example:"Store Owner"`
}
