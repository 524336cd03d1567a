package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/utils"
)

// statusOf returns the status the error handler will answer with.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// LoggingMiddleware logs HTTP requests in a structured format
func LoggingMiddleware(webApp *handlers.WebApp) fiber.Handler {
	trustProxy := webApp.Config.GetWebConfig().TrustProxy

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := statusOf(c, err)

		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger := slog.With(
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("duration", duration),
			slog.String("ip", utils.GetIPAddress(c, trustProxy)),
			slog.String("user_agent", utils.GetUserAgent(c)),
		)

		if query := c.Request().URI().QueryArgs().String(); query != "" {
			logger = logger.With(slog.String("query", query))
		}
		if requestID, ok := c.Locals("requestid").(string); ok && requestID != "" {
			logger = logger.With(slog.String("request_id", requestID))
		}
		if session, ok := utils.ExtractUserSession(c); ok {
			logger = logger.With(
				slog.String("user_id", session.UserID),
				slog.String("username", session.Username),
			)
		}
		if source := utils.DataSource(c); source != "" {
			logger = logger.With(slog.String("data_source", source))
		}

		message := "HTTP request processed"
		if err != nil {
			message = "HTTP request failed"
			logger = logger.With(slog.String("error", err.Error()))
		}

		logger.Log(c.UserContext(), logLevel, message)

		return err
	}
}
