package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/config"
	webmodels "github.com/orbitalbot/dashboard/backend/models"
	webservices "github.com/orbitalbot/dashboard/backend/services"
	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/domain/bot"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/domain/servers"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
	"github.com/orbitalbot/dashboard/internal/domain/stats"
	"github.com/orbitalbot/dashboard/internal/gateways/sessions"
)

const healthTimeout = 2 * time.Second

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config         *config.WebAppConfig
	OAuthService   *webservices.OAuthService
	SessionService *webservices.SessionService
	SessionStorage sessions.Storage

	Commands *commands.Service
	Servers  *servers.Service
	Activity *activity.Service
	Settings *settings.Service
	Bot      *bot.Service
	Stats    *stats.Service

	Version string
	Commit  string
}

// GetSession gets the current user session
func (w *WebApp) GetSession(c *fiber.Ctx) (*webmodels.UserSession, error) {
	return w.SessionService.GetSession(c)
}

// HealthCheck reports the session backend and whether a bot is configured. A
// missing bot only degrades the dashboard.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version)

		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if webApp.SessionStorage != nil {
			if err := webApp.SessionStorage.Ping(ctx); err != nil {
				health.AddComponent("sessions", "unhealthy", err.Error(), nil)
			} else {
				health.AddComponent("sessions", "healthy", "", map[string]interface{}{
					"backend": webApp.Config.Config.Sessions.Backend,
				})
			}
		}

		status := webApp.Bot.Status()
		if status.Configured {
			health.AddComponent("discord", "healthy", "", nil)
		} else {
			health.AddComponent("discord", "degraded", "bot token not configured", nil)
		}

		code := fiber.StatusOK
		if health.Status == "unhealthy" {
			code = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, code, health)
	}
}

// NotFound answers for routes that do not exist
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendNotFound(c, "The requested endpoint does not exist")
	}
}
