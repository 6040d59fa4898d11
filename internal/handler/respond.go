// File: internal/handler/respond.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"store-rating/internal/api"
	"store-rating/internal/common"

	"github.com/labstack/echo/v4"
)

// Error 依領域錯誤決定狀態碼並輸出 api.ErrorResponse；5xx 只回通用訊息並記錄原因
func Error(c echo.Context, err error) error {
	status := common.HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, api.Fail(common.MessageFromError(err)))
}

// HTTPErrorHandler 讓中介層與路由錯誤也使用相同的回應格式
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			c.Logger().Warnf("%s %s: %v", c.Request().Method, c.Path(), he.Internal)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, api.Fail(fmt.Sprint(he.Message)))
		}
	} else {
		err = Error(c, err)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// BindAndValidate 綁定 JSON 或表單內容後以 validator 驗證
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.NewError(common.ErrValidation, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return common.NewError(common.ErrValidation, err.Error())
	}
	return nil
}

// ParamID 解析正整數的 path 參數，上限與資料表的 INTEGER 主鍵相同
func ParamID(c echo.Context, name string) (int, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.ErrValidation, "invalid "+name)
	}
	return int(id), nil
}
