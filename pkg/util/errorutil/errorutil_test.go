package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"domain error passes through", NewAlreadyPurchased(cause), CodeAlreadyPurchased, http.StatusBadRequest, "you have already purchased this course"},
		{"wrapped domain error", fmt.Errorf("verify: %w", NewSignatureInvalid(nil)), CodeSignatureInvalid, http.StatusBadRequest, "payment verification failed: invalid signature"},
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound, "resource not found"},
		{"fiber bad request", fiber.NewError(http.StatusBadRequest, "invalid payload"), CodeValidation, http.StatusBadRequest, "invalid payload"},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound, "Not Found"},
		{"unknown error hides detail", cause, CodeInternal, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	sentinel := errors.New("already purchased")
	err := NewAlreadyPurchased(sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.True(t, HasCode(err, CodeAlreadyPurchased))
	assert.False(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(sentinel, CodeAlreadyPurchased))
}

func TestGatewayUnavailableMessageIsGeneric(t *testing.T) {
	err := NewGatewayUnavailable(errors.New("razorpay: 502 bad gateway"))
	de := ToDomainError(err)

	assert.Equal(t, "failed to create payment order", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}
