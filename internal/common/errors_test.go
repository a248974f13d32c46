package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrCapacityExceeded, http.StatusConflict},
		{errors.New("something else"), http.StatusInternalServerError},
		// Wrapped sentinels keep their mapping.
		{fmt.Errorf("team %q is full: %w", "x", ErrCapacityExceeded), http.StatusConflict},
		{fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrNotFound)), http.StatusNotFound},
		// Raw unique violations from the driver are conflicts.
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{&pgconn.PgError{Code: "23503"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatusFromError(tc.err); got != tc.want {
			t.Errorf("HTTPStatusFromError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
