package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nguyencaoquydieu/TelegramClient/internal/constants"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
)

// ErrorHandler is the catch-all boundary: any error the handlers did not
// turn into a response body themselves is mapped here, so no internal error
// ever reaches the caller raw.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": constants.GetErrorMessage(constants.ErrCodeInternalError),
			"code":  constants.ErrCodeInternalError,
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	code := err.Code

	status := constants.GetHTTPStatus(code)
	if status == 500 && code != constants.ErrCodeInternalError && code != constants.ErrCodeSendFailed {
		code = constants.ErrCodeInternalError
	}

	return c.Status(status).JSON(fiber.Map{
		"error": constants.GetErrorMessage(code),
		"code":  code,
	})
}
