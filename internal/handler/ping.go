// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"store-rating/internal/api"
	"store-rating/internal/cache"
	"store-rating/internal/database"

	"github.com/labstack/echo/v4"
)

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	Success bool `json:"success" example:"true"`
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查（需通過認證）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與快取連線是否正常
// @Tags        health
// @Accept      json
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler(db database.DB, c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := db.Ping(ctx.Request().Context()); err != nil {
			ctx.Logger().Errorf("ping database: %v", err)
			return ctx.JSON(http.StatusInternalServerError, api.Fail("database unhealthy"))
		}
		if err := c.Set(ctx.Request().Context(), "health:ping", "pong", time.Minute).Err(); err != nil {
			ctx.Logger().Errorf("ping cache: %v", err)
			return ctx.JSON(http.StatusInternalServerError, api.Fail("cache unhealthy"))
		}
		return ctx.JSON(http.StatusOK, PingResponse{Success: true, Message: "pong"})
	}
}
