package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/nguyencaoquydieu/TelegramClient/internal/api/v1"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/status", handler.Status)
	app.Post("/send-message", handler.SendMessage)
}
