package v1

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nguyencaoquydieu/TelegramClient/internal/bridge"
	"github.com/nguyencaoquydieu/TelegramClient/internal/config"
	"github.com/nguyencaoquydieu/TelegramClient/internal/constants"
	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	service    service.BridgeService
	registry   service.SessionRegistry
	controller *bridge.Controller
	retryAfter int
}

func NewHandler(logger *zap.Logger, svc service.BridgeService, registry service.SessionRegistry,
	controller *bridge.Controller, cfg *config.Config) *Handler {
	return &Handler{
		logger:     logger,
		service:    svc,
		registry:   registry,
		controller: controller,
		retryAfter: int(cfg.Telegram.ResponseTimeout.Seconds()),
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Running: h.controller.IsRunning(),
		Phones:  h.registry.Phones(),
	})
}

func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var request SendMessageRequest

	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse body",
			zap.Error(err),
			zap.String("body", string(c.Body())))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
			"code":  constants.ErrCodeInvalidRequestBody,
		})
	}

	if request.Destination == "" || request.Message == "" || request.Phone == "" {
		h.logger.Warn("Missing parameters in request",
			zap.String("destination", request.Destination),
			zap.String("phone", request.Phone))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    constants.ErrMsgMissingParameters,
			"required": []string{"destination", "message", "phone"},
		})
	}

	if !strings.HasPrefix(request.Phone, "+") {
		h.logger.Warn("Invalid phone format", zap.String("phone", request.Phone))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    constants.ErrMsgInvalidPhoneFormat,
			"expected": `Phone number must start with "+" (e.g. +84123456789)`,
		})
	}

	cmd := service.SendCommand{
		Destination: request.Destination,
		Message:     request.Message,
		Phone:       request.Phone,
	}

	result, err := h.service.SendAndWait(c.UserContext(), cmd)
	if err != nil {
		return h.sendError(c, request, err)
	}

	if !result.Success {
		return c.Status(fiber.StatusNotFound).JSON(SendMessageFailure{
			Success:   false,
			Error:     result.Error,
			Message:   result.Message,
			Phone:     result.Phone,
			Timestamp: result.Timestamp,
		})
	}

	h.logger.Info("Request completed",
		zap.String("phone", request.Phone),
		zap.String("destination", request.Destination),
		zap.Bool("gotResponse", result.Response != nil))

	return c.Status(fiber.StatusOK).JSON(SendMessageResponse{
		Success:      true,
		Message:      result.Message,
		Phone:        result.Phone,
		Timestamp:    result.Timestamp,
		ResponseTime: result.ResponseTime,
		Response:     result.Response,
	})
}

func (h *Handler) sendError(c *fiber.Ctx, request SendMessageRequest, err error) error {
	var serviceErr service.Error
	if !errors.As(err, &serviceErr) {
		h.logger.Error("Unexpected bridge error", zap.Error(err))
		return err
	}

	switch serviceErr.Code {
	case constants.ErrCodePhoneNotFound:
		phones := h.registry.Phones()
		h.logger.Warn("Unknown phone",
			zap.String("phone", request.Phone),
			zap.Strings("availablePhones", phones))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":            constants.ErrMsgPhoneNotFound,
			"message":          "Phone number " + request.Phone + " is not registered",
			"available_phones": phones,
		})

	case constants.ErrCodeAccountBusy:
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       constants.ErrMsgAccountBusy,
			"retry_after": h.retryAfter,
		})

	case constants.ErrCodeRequestTimeout:
		h.logger.Error("Request abandoned", zap.String("phone", request.Phone))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error":   "Request timed out",
			"message": constants.ErrMsgRequestTimeout,
		})

	default:
		h.logger.Error("Bridge request failed",
			zap.Error(err),
			zap.String("code", serviceErr.Code),
			zap.String("phone", request.Phone))
		return err
	}
}
