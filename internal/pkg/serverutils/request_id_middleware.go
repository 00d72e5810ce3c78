package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware tags every request with an id so log lines from one
// request can be correlated across services.
func RequestIDMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestId := ctx.Get(RequestIDHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		ctx.Locals("request_id", requestId)
		ctx.Set(RequestIDHeader, requestId)
		return ctx.Next()
	}
}
