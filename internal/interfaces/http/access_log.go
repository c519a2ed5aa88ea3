package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pyme-erp/pkg/logger"
)

// AccessLog registra método, ruta, status, latencia y usuario de cada request.
// Resuelve el error de la cadena con el ErrorHandler de la app para loguear el status real.
func AccessLog(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetIdentity(c).UserID).
			Msg("http")
		return nil
	}
}
