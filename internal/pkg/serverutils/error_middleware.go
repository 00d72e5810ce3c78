package serverutils

import (
	"errors"

	"ai-digest-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into structured JSON responses.
// Every error is caught at the request boundary; nothing crashes the process.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return respond(ctx, fiber.StatusBadRequest, "validation_error", validationErr.Error())
		}

		var configErr *apperror.ConfigurationError
		if errors.As(err, &configErr) {
			return respond(ctx, fiber.StatusInternalServerError, "configuration_error", configErr.Error())
		}

		var upstreamErr *apperror.UpstreamError
		if errors.As(err, &upstreamErr) {
			return respond(ctx, fiber.StatusBadGateway, "upstream_error", upstreamErr.Error())
		}

		var searchErr *apperror.SearchError
		if errors.As(err, &searchErr) {
			return respond(ctx, fiber.StatusInternalServerError, "search_error", searchErr.Error())
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return respond(ctx, fiberErr.Code, "", fiberErr.Message)
		}

		return respond(ctx, fiber.StatusInternalServerError, "internal_error", err.Error())
	}
}

func respond(ctx *fiber.Ctx, code int, errorType, message string) error {
	return ctx.Status(code).JSON(ErrorResponse{
		Success:   false,
		Code:      code,
		Message:   message,
		ErrorType: errorType,
	})
}
