// File: internal/common/errors.go
package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("resource conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
)

// PostgreSQL SQLSTATE codes the store layer translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// HTTPStatusFromError 將領域錯誤對應為 HTTP 狀態碼
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// TranslatePgError maps constraint violations onto the sentinel errors and
// returns any other error unchanged.
func TranslatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return errors.Join(ErrConflict, err)
	case pgForeignKeyViolation:
		return errors.Join(ErrNotFound, err)
	case pgCheckViolation:
		return errors.Join(ErrValidation, err)
	}
	return err
}

// Error 攜帶可直接回傳給用戶端的訊息，Kind 為上述的 sentinel
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError 建立帶有對外訊息的領域錯誤
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// MessageFromError 取得可對外顯示的訊息；非預期錯誤只回傳通用訊息
func MessageFromError(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	for _, kind := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrForbidden, ErrNotFound} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
