// File: internal/handler/users/users.go
package users

import (
	"net/http"

	"store-rating/internal/api"
	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/handler"
	"store-rating/internal/middleware"
	"store-rating/internal/model"
	"store-rating/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listUsers         = service.ListUsers
	createUserByAdmin = service.CreateUserByAdmin
	getMe             = service.GetMe
	changePassword    = service.ChangePassword
	getUserDetail     = service.GetUserDetail
	deleteUser        = service.DeleteUser
)

var errNoRequester = common.NewError(common.ErrUnauthorized, "invalid or missing token")

// ListUsersHandler 管理員列出使用者
// @Summary     List users
// @Description 依姓名排序，各欄位為不分大小寫的子字串過濾
// @Tags        users
// @Produce     json
// @Param       name    query    string false "姓名"
// @Param       email   query    string false "Email"
// @Param       address query    string false "地址"
// @Param       role    query    string false "角色"
// @Success     200     {object} api.UsersResponse
// @Failure     401     {object} api.ErrorResponse
// @Failure     403     {object} api.ErrorResponse
// @Failure     500     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db, model.UserFilter{
			Name:    c.QueryParam("name"),
			Email:   c.QueryParam("email"),
			Address: c.QueryParam("address"),
			Role:    c.QueryParam("role"),
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUsersResponse("Users fetched successfully", users))
	}
}

// CreateUserHandler 管理員直接建立帳號
// @Summary     Create a user
// @Description 建立任一角色的帳號，立即核准
// @Tags        users
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.RoleRegisterRequest true "帳號資料"
// @Success     201  {object} api.UserEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RoleRegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.Error(c, err)
		}
		u, err := createUserByAdmin(c.Request().Context(), db, service.Registration{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Address:  req.Address,
			Role:     model.Role(req.Role),
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, api.UserEnvelope{
			Success: true,
			Message: "User created successfully",
			User:    api.NewUserResponse(*u),
		})
	}
}

// GetMeHandler 取得自己的資料
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserEnvelope
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		u, err := getMe(c.Request().Context(), db, req)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.UserEnvelope{
			Success: true,
			Message: "User fetched successfully",
			User:    api.NewUserResponse(*u),
		})
	}
}

// UpdateMyPasswordHandler 修改自己的密碼
// @Summary     Change own password
// @Description 需提供舊密碼；身分取自 token
// @Tags        users
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.UpdateMyPasswordRequest true "舊密碼與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/password [patch]
func UpdateMyPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		var body api.UpdateMyPasswordRequest
		if err := handler.BindAndValidate(c, &body); err != nil {
			return handler.Error(c, err)
		}
		if err := changePassword(c.Request().Context(), db, req, body.OldPassword, body.NewPassword); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.OK("Password updated successfully"))
	}
}

// GetUserHandler 管理員檢視使用者詳細資料
// @Summary     Get a user by ID
// @Description 商店擁有者另附 owner_ratings（名下各商店的評分摘要）
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.UserDetailResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		d, err := getUserDetail(c.Request().Context(), db, id)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.UserDetailResponse{
			Success:      true,
			Message:      "User details fetched successfully",
			User:         api.NewUserResponse(d.User),
			OwnerRatings: api.NewOwnerRatings(d.OwnerRatings),
		})
	}
}

// DeleteUserHandler 管理員刪除使用者，其商店與評分一併刪除
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(db database.DB, summaries *service.RatingSummaries) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		if err := deleteUser(c.Request().Context(), db, summaries, id); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.OK("User deleted successfully"))
	}
}
