// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"store-rating/internal/cache"
	"store-rating/internal/database"
	"store-rating/internal/handler"
	"store-rating/internal/handler/auth"
	"store-rating/internal/handler/ratings"
	"store-rating/internal/handler/stores"
	"store-rating/internal/handler/users"
	"store-rating/internal/middleware"
	"store-rating/internal/model"
	"store-rating/internal/service"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, c cache.Cache, summaries *service.RatingSummaries) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, c), middleware.RequireAuth)

	// 註冊與登入
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(db))
	apiAuth.POST("/register-request", auth.RegisterRequestHandler(db))
	apiAuth.POST("/login", auth.LoginHandler(db))

	// 管理員審核註冊申請
	apiAuth.GET("/pending-requests", auth.ListPendingRequestsHandler(db), middleware.RequireAdmin)
	apiAuth.POST("/approve-request/:id", auth.ApproveRequestHandler(db), middleware.RequireAdmin)
	apiAuth.POST("/reject-request/:id", auth.RejectRequestHandler(db), middleware.RequireAdmin)

	// 商店；刪除時是否為擁有者由 service 判斷
	ownerOrAdmin := middleware.RequireRoles(model.RoleAdmin, model.RoleStoreOwner)
	apiStores := api.Group("/stores")
	apiStores.GET("", stores.ListStoresHandler(db), middleware.RequireAuth)
	apiStores.GET("/:id", stores.GetStoreHandler(db, summaries), middleware.RequireAuth)
	apiStores.POST("", stores.CreateStoreHandler(db), ownerOrAdmin)
	apiStores.DELETE("/:id", stores.DeleteStoreHandler(db, summaries), ownerOrAdmin)

	// 評分
	apiRatings := api.Group("/ratings")
	apiRatings.GET("", ratings.ListRatingsHandler(db), middleware.RequireAdmin)
	apiRatings.GET("/by-store", ratings.RatingsByStoreHandler(db), ownerOrAdmin)
	apiRatings.POST("", ratings.SubmitRatingHandler(db, summaries), middleware.RequireRoles(model.RoleNormalUser))

	// 當前使用者，需在 /:id 之前註冊
	apiUsers := api.Group("/users")
	apiUsers.GET("/me", users.GetMeHandler(db), middleware.RequireAuth)
	apiUsers.PATCH("/password", users.UpdateMyPasswordHandler(db), middleware.RequireAuth)

	// 管理員專屬 Users 管理
	apiUsers.GET("", users.ListUsersHandler(db), middleware.RequireAdmin)
	apiUsers.POST("", users.CreateUserHandler(db), middleware.RequireAdmin)
	apiUsers.GET("/:id", users.GetUserHandler(db), middleware.RequireAdmin)
	apiUsers.DELETE("/:id", users.DeleteUserHandler(db, summaries), middleware.RequireAdmin)
}
