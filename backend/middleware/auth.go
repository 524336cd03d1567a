package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/backend/services"
	"github.com/orbitalbot/dashboard/backend/utils"
)

// Decision is the outcome of the authorization gate for a mutating request.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	BotNotConfigured
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case BotNotConfigured:
		return "bot_not_configured"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize decides whether session may mutate bot data. Only the registered
// owner passes, and nobody does before an owner exists.
func Authorize(session *models.UserSession, ownerID string, ownerSet bool) Decision {
	if session == nil || session.UserID == "" {
		return Unauthenticated
	}
	if !ownerSet || ownerID == "" {
		return BotNotConfigured
	}
	if session.UserID != ownerID {
		return Forbidden
	}
	return Allow
}

// loadSession returns the request's session, or nil when there is none. Only
// storage failures come back as errors.
func loadSession(c *fiber.Ctx, webApp *handlers.WebApp) (*models.UserSession, error) {
	session, err := webApp.GetSession(c)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			slog.Debug("No valid session", slog.String("type", "auth"), slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func deny(c *fiber.Ctx, d Decision) error {
	switch d {
	case Unauthenticated:
		return utils.SendUnauthorized(c, "Authentication required")
	case BotNotConfigured:
		return utils.SendBotNotConfigured(c)
	default:
		return utils.SendForbidden(c, "Only the bot owner can do this")
	}
}

// AuthRequired middleware ensures the user is authenticated
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := loadSession(c, webApp)
		if err != nil {
			slog.Error("Failed to load session", slog.String("type", "auth"), slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to load session")
		}
		if session == nil {
			return deny(c, Unauthenticated)
		}

		utils.SetUserSession(c, session)
		return c.Next()
	}
}

// OwnerRequired lets only the bot owner through
func OwnerRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := loadSession(c, webApp)
		if err != nil {
			slog.Error("Failed to load session", slog.String("type", "auth"), slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to load session")
		}

		ownerID, ownerSet := webApp.Bot.Owner()
		if d := Authorize(session, ownerID, ownerSet); d != Allow {
			attrs := []any{
				slog.String("type", "auth"),
				slog.String("decision", d.String()),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
			}
			if session != nil {
				attrs = append(attrs, slog.String("user_id", session.UserID))
			}
			slog.Warn("Owner check denied request", attrs...)
			return deny(c, d)
		}

		utils.SetUserSession(c, session)
		return c.Next()
	}
}

// OptionalAuth middleware adds user info to context if authenticated, but doesn't require it
func OptionalAuth(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := loadSession(c, webApp)
		if err != nil {
			slog.Warn("Optional auth: session lookup failed", slog.String("type", "auth"), slog.Any("error", err))
		}
		if session != nil {
			utils.SetUserSession(c, session)
		}
		return c.Next()
	}
}

// ReadAccess guards the read endpoints. They are open unless web.public_reads
// is turned off.
func ReadAccess(webApp *handlers.WebApp) fiber.Handler {
	if webApp.Config.GetWebConfig().PublicReads {
		return OptionalAuth(webApp)
	}
	return AuthRequired(webApp)
}
