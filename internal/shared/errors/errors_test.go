package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
		typ  ErrorType
	}{
		{NewValidationError("bad"), http.StatusBadRequest, ErrorTypeValidation},
		{NewNotFoundError("missing"), http.StatusNotFound, ErrorTypeNotFound},
		{NewConflictError("dup"), http.StatusConflict, ErrorTypeConflict},
		{NewUnauthorizedError("who"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden, ErrorTypeForbidden},
		{NewInternalError("boom"), http.StatusInternalServerError, ErrorTypeInternal},
		{NewRateLimitError("slow down", time.Unix(100, 0), 0), http.StatusTooManyRequests, ErrorTypeRateLimited},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.typ, tc.err.Type)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := fmt.Errorf("load ticket: %w", Wrap(cause, "failed to load ticket"))

	appErr := GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeInternal, appErr.Type)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal_error: failed to load ticket", appErr.Error())
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsNotFoundError(NewNotFoundError("x")))
	assert.False(t, IsNotFoundError(NewForbiddenError("x")))
	assert.True(t, IsRateLimitError(NewRateLimitError("x", time.Now(), 0)))
	assert.False(t, IsConflictError(stderrors.New("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, IsDuplicateError(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsDuplicateError(stderrors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsDuplicateError(nil))
}
