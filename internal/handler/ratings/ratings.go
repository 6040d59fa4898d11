// File: internal/handler/ratings/ratings.go
package ratings

import (
	"net/http"

	"store-rating/internal/api"
	"store-rating/internal/common"
	"store-rating/internal/database"
	"store-rating/internal/handler"
	"store-rating/internal/middleware"
	"store-rating/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	submitRating   = service.SubmitRating
	listRatings    = service.ListRatings
	ratingsByStore = service.RatingsByStore
)

var errNoRequester = common.NewError(common.ErrUnauthorized, "invalid or missing token")

// SubmitRatingHandler 新增或更新呼叫者對商店的評分
// @Summary     Submit or update a rating
// @Description 同一使用者對同一商店只保留一筆評分，再次送出會覆寫；評分者取自 token
// @Tags        ratings
// @Accept      json,application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.SubmitRatingRequest true "評分 (1-5)"
// @Success     201  {object} api.RatingEnvelope "首次評分"
// @Success     200  {object} api.RatingEnvelope "覆寫既有評分"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ratings [post]
func SubmitRatingHandler(db database.DB, summaries *service.RatingSummaries) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		var body api.SubmitRatingRequest
		if err := handler.BindAndValidate(c, &body); err != nil {
			return handler.Error(c, err)
		}
		r, created, err := submitRating(c.Request().Context(), db, summaries, req, body.StoreID, body.Rating)
		if err != nil {
			return handler.Error(c, err)
		}

		status, msg := http.StatusOK, "Rating updated successfully"
		if created {
			status, msg = http.StatusCreated, "Rating submitted successfully"
		}
		return c.JSON(status, api.RatingEnvelope{
			Success: true,
			Message: msg,
			Rating:  api.NewRatingResponse(*r),
		})
	}
}

// ListRatingsHandler 管理員檢視所有評分
// @Summary     List all ratings
// @Tags        ratings
// @Produce     json
// @Success     200 {object} api.RatingsResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ratings [get]
func ListRatingsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		views, err := listRatings(c.Request().Context(), db)
		if err != nil {
			return handler.Error(c, err)
		}
		out := api.NewRatingDetails(views)
		return c.JSON(http.StatusOK, api.RatingsResponse{
			Success: true,
			Message: "Ratings fetched successfully",
			Count:   len(out),
			Ratings: out,
		})
	}
}

// RatingsByStoreHandler 依商店分組的評分；商店擁有者只看到自己的商店
// @Summary     Ratings grouped by store
// @Tags        ratings
// @Produce     json
// @Success     200 {object} api.RatingsByStoreResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ratings/by-store [get]
func RatingsByStoreHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, ok := middleware.CurrentRequester(c)
		if !ok {
			return handler.Error(c, errNoRequester)
		}
		groups, err := ratingsByStore(c.Request().Context(), db, req)
		if err != nil {
			return handler.Error(c, err)
		}
		stores := make([]api.StoreRatingsResponse, 0, len(groups))
		for _, g := range groups {
			stores = append(stores, api.StoreRatingsResponse{
				StoreResponse: api.NewStoreResponse(g.Store, nil),
				Ratings:       api.NewRatingDetails(g.Ratings),
			})
		}
		return c.JSON(http.StatusOK, api.RatingsByStoreResponse{
			Success: true,
			Message: "Ratings by store fetched successfully",
			Count:   len(stores),
			Stores:  stores,
		})
	}
}
