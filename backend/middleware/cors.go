package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/utils"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
	"font-src 'self' https://fonts.gstatic.com; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self' https://discord.com; " +
	"frame-src 'none'; " +
	"object-src 'none'"

// CustomErrorHandler handles application errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		slog.Error("Unhandled request error",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}

	switch code {
	case fiber.StatusBadRequest:
		return utils.SendBadRequest(c, message, nil)
	case fiber.StatusNotFound:
		return utils.SendNotFound(c, message)
	case fiber.StatusTooManyRequests:
		return utils.SendTooManyRequests(c, message)
	case fiber.StatusInternalServerError:
		return utils.SendInternalServerError(c, message)
	default:
		return utils.SendError(c, code, strings.ToUpper(strings.ReplaceAll(message, " ", "_")), message, nil)
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Cross-Origin-Opener-Policy", "same-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Content-Security-Policy", contentSecurityPolicy)

		return c.Next()
	}
}

// CORS allows the configured dashboard origins to call the API with cookies
func CORS(webApp *handlers.WebApp) fiber.Handler {
	origins := webApp.Config.GetWebConfig().AllowedOrigins
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Requested-With,Cookie",
		ExposeHeaders:    "X-Data-Source,RateLimit-Limit,RateLimit-Remaining,RateLimit-Reset",
		AllowCredentials: len(origins) > 0,
	})
}
