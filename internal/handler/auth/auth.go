// File: internal/handler/auth/auth.go
package auth

import (
	"net/http"
	"time"

	"store-rating/internal/api"
	"store-rating/internal/database"
	"store-rating/internal/handler"
	"store-rating/internal/model"
	"store-rating/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	registerSelf        = service.RegisterSelf
	registerRequest     = service.RegisterRequest
	listPendingRequests = service.ListPendingRequests
	approveRequest      = service.ApproveRequest
	rejectRequest       = service.RejectRequest
	login               = service.Login
	tokenExpiry         = func() time.Time { return time.Now().Add(service.AccessTokenTTL) }
)

// RegisterHandler 一般使用者自行註冊
// @Summary     Register as a Normal User
// @Description 建立一般使用者帳號並立即核准 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.UserEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.Error(c, err)
		}
		u, err := registerSelf(c.Request().Context(), db, service.Registration{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Address:  req.Address,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, api.UserEnvelope{
			Success: true,
			Message: "Registration successful",
			User:    api.NewUserResponse(*u),
		})
	}
}

// RegisterRequestHandler 商店擁有者或管理員提出註冊申請
// @Summary     Request a Store Owner or Admin account
// @Description 建立待審核帳號，管理員核准後才能登入；Normal User 請直接註冊
// @Tags        auth
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.RoleRegisterRequest true "申請資料"
// @Success     201  {object} api.UserEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register-request [post]
func RegisterRequestHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RoleRegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.Error(c, err)
		}
		u, err := registerRequest(c.Request().Context(), db, service.Registration{
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
			Message: "Registration request submitted. Awaiting admin approval.",
			User:    api.NewUserResponse(*u),
		})
	}
}

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 驗證帳密，回傳存取令牌與使用者資料；帳號未核准時回傳 403
// @Tags        auth
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return handler.Error(c, err)
		}
		token, u, err := login(c.Request().Context(), db, req.Email, req.Password)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.LoginResponse{
			Success:   true,
			Message:   "Login successful",
			Token:     token,
			ExpiresAt: tokenExpiry(),
			User:      api.NewUserResponse(*u),
		})
	}
}

// ListPendingRequestsHandler 列出待審核的註冊申請
// @Summary     List pending registration requests
// @Description 依申請時間新到舊列出待審核帳號
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UsersResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/pending-requests [get]
func ListPendingRequestsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listPendingRequests(c.Request().Context(), db)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUsersResponse("Pending requests fetched successfully", users))
	}
}

// ApproveRequestHandler 核准註冊申請
// @Summary     Approve a registration request
// @Tags        auth
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "申請不存在或已處理"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/approve-request/{id} [post]
func ApproveRequestHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		if err := approveRequest(c.Request().Context(), db, id); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.OK("Request approved"))
	}
}

// RejectRequestHandler 拒絕並刪除註冊申請
// @Summary     Reject a registration request
// @Tags        auth
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "申請不存在或已處理"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/reject-request/{id} [post]
func RejectRequestHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		if err := rejectRequest(c.Request().Context(), db, id); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.OK("Request rejected and removed"))
	}
}
