package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"ai-digest-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlerErr error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return handlerErr
	})
	return app
}

func TestErrorHandlerMiddlewareStatusMapping(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantErrorType string
	}{
		{
			name:          "validation error maps to 400",
			err:           &apperror.ValidationError{Field: "query", Message: "must not be empty"},
			wantStatus:    fiber.StatusBadRequest,
			wantErrorType: "validation_error",
		},
		{
			name:          "configuration error maps to 500",
			err:           &apperror.ConfigurationError{Setting: "OPENAI_API_KEY"},
			wantStatus:    fiber.StatusInternalServerError,
			wantErrorType: "configuration_error",
		},
		{
			name:          "upstream error maps to 502",
			err:           &apperror.UpstreamError{Provider: "openai", Err: errors.New("timeout")},
			wantStatus:    fiber.StatusBadGateway,
			wantErrorType: "upstream_error",
		},
		{
			name:          "search error maps to 500",
			err:           &apperror.SearchError{Err: errors.New("db down")},
			wantStatus:    fiber.StatusInternalServerError,
			wantErrorType: "search_error",
		},
		{
			name:          "unknown error maps to 500",
			err:           errors.New("surprise"),
			wantStatus:    fiber.StatusInternalServerError,
			wantErrorType: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.err)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var out ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantStatus, out.Code)
			assert.Equal(t, tt.wantErrorType, out.ErrorType)
		})
	}
}

func TestErrorHandlerMiddlewarePassesSuccessThrough(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/ok", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("all good", "payload"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	})

	t.Run("preserves caller-supplied id", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "trace-me-123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "trace-me-123", resp.Header.Get(RequestIDHeader))
	})
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Query string `validate:"required"`
		Limit int    `validate:"omitempty,min=1,max=50"`
	}

	t.Run("valid payload passes", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(payload{Query: "q", Limit: 10}))
	})

	t.Run("failure yields typed validation error", func(t *testing.T) {
		err := ValidateRequest(payload{Limit: 10})

		var validationErr *apperror.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "query", validationErr.Field)
	})

	t.Run("out of range limit rejected", func(t *testing.T) {
		err := ValidateRequest(payload{Query: "q", Limit: 99})

		var validationErr *apperror.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "limit", validationErr.Field)
	})
}
