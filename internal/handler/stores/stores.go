// File: internal/handler/stores/stores.go
package stores

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
	listStores  = service.ListStores
	getStore    = service.GetStore
	createStore = service.CreateStore
	deleteStore = service.DeleteStore
)

var errNoRequester = common.NewError(common.ErrUnauthorized, "invalid or missing token")

// ListStoresHandler 列出商店，可依名稱與地址過濾
// @Summary     List stores
// @Description 依名稱排序列出所有商店（不分頁），含平均評分；一般使用者另附 my_rating
// @Tags        stores
// @Produce     json
// @Param       name    query    string false "名稱子字串（不分大小寫）"
// @Param       address query    string false "地址子字串（不分大小寫）"
// @Success     200     {object} api.StoresResponse
// @Failure     401     {object} api.ErrorResponse
// @Failure     500     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /stores [get]
func ListStoresHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		stores, err := listStores(c.Request().Context(), db, req, model.StoreFilter{
			Name:    c.QueryParam("name"),
			Address: c.QueryParam("address"),
		})
		if err != nil {
			return handler.Error(c, err)
		}
		out := make([]api.StoreResponse, 0, len(stores))
		for _, s := range stores {
			out = append(out, api.NewStoreResponse(s.StoreView, s.MyRating))
		}
		return c.JSON(http.StatusOK, api.StoresResponse{
			Success: true,
			Message: "Stores fetched successfully",
			Count:   len(out),
			Stores:  out,
		})
	}
}

// GetStoreHandler 取得單一商店
// @Summary     Get a store by ID
// @Tags        stores
// @Produce     json
// @Param       id  path     int true "商店 ID"
// @Success     200 {object} api.StoreEnvelope
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /stores/{id} [get]
func GetStoreHandler(db database.DB, summaries *service.RatingSummaries) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		s, err := getStore(c.Request().Context(), db, summaries, req, id)
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.StoreEnvelope{
			Success: true,
			Message: "Store fetched successfully",
			Store:   api.NewStoreResponse(s.StoreView, s.MyRating),
		})
	}
}

// CreateStoreHandler 建立商店
// @Summary     Create a store
// @Description 管理員需指定 owner_id（必須是 Store Owner）；商店擁有者建立的商店一律屬於自己
// @Tags        stores
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.CreateStoreRequest true "商店資料"
// @Success     201  {object} api.StoreEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse "owner 不存在"
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /stores [post]
func CreateStoreHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		var body api.CreateStoreRequest
		if err := handler.BindAndValidate(c, &body); err != nil {
			return handler.Error(c, err)
		}
		s, err := createStore(c.Request().Context(), db, req, service.NewStore{
			Name:    body.Name,
			Email:   body.Email,
			Address: body.Address,
			Image:   body.Image,
			OwnerID: body.OwnerID,
		})
		if err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusCreated, api.StoreEnvelope{
			Success: true,
			Message: "Store created successfully",
			Store:   api.NewStoreResponse(*s, nil),
		})
	}
}

// DeleteStoreHandler 刪除商店
// @Summary     Delete a store
// @Description 管理員可刪除任何商店，商店擁有者只能刪除自己的商店；評分一併刪除
// @Tags        stores
// @Produce     json
// @Param       id  path     int true "商店 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /stores/{id} [delete]
func DeleteStoreHandler(db database.DB, summaries *service.RatingSummaries) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return handler.Error(c, err)
		}
		if err := deleteStore(c.Request().Context(), db, summaries, req, id); err != nil {
			return handler.Error(c, err)
		}
		return c.JSON(http.StatusOK, api.OK("Store deleted successfully"))
	}
}
