package serverutils

import (
	"errors"

	"ai-tutoring-be/pkg/chat/chain"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts typed service errors into JSON responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": validationErr.Message})
		}

		var authErr *AuthorizationError
		if errors.As(err, &authErr) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": authErr.Message})
		}

		var notFoundErr *NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundErr.Error()})
		}

		var providerErr *chain.ExternalProviderError
		if errors.As(err, &providerErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "upstream model provider failed"})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
