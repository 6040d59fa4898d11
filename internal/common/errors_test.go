package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrValidation, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("GetUser: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, HTTPStatusFromError(tc.err), "err=%v", tc.err)
	}
}

func TestTranslatePgError(t *testing.T) {
	plain := errors.New("plain")
	require.Equal(t, plain, TranslatePgError(plain))

	err := TranslatePgError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, err, ErrConflict)

	err = TranslatePgError(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23503"}))
	require.ErrorIs(t, err, ErrNotFound)

	err = TranslatePgError(&pgconn.PgError{Code: "23514"})
	require.ErrorIs(t, err, ErrValidation)

	other := &pgconn.PgError{Code: "42P01"}
	require.Equal(t, error(other), TranslatePgError(other))
}

func TestMessageFromError(t *testing.T) {
	pending := NewError(ErrConflict, "already pending approval")
	require.ErrorIs(t, pending, ErrConflict)
	require.Equal(t, http.StatusConflict, HTTPStatusFromError(fmt.Errorf("RegisterRequest: %w", pending)))

	cases := []struct {
		err  error
		want string
	}{
		{pending, "already pending approval"},
		{fmt.Errorf("wrap: %w", pending), "already pending approval"},
		{fmt.Errorf("GetStore: %w", ErrNotFound), "resource not found"},
		{errors.Join(ErrConflict, errors.New("pg detail")), "resource conflict"},
		{errors.New("dial tcp: refused"), "internal server error"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MessageFromError(tc.err))
	}
}
