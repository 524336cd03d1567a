package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/domain/bot"
	"github.com/orbitalbot/dashboard/internal/logger"
)

// BotStats returns the aggregate dashboard numbers
func BotStats(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, live, err := webApp.Stats.Stats(c.UserContext())
		if err != nil {
			logger.LogError("Failed to compute stats", err)
			return utils.SendInternalServerError(c, "Failed to fetch stats")
		}
		utils.SetDataSource(c, live)
		return c.JSON(result)
	}
}

// BotChart returns the 7-day activity series
func BotChart(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := webApp.Stats.Chart(c.UserContext())
		if err != nil {
			logger.LogError("Failed to compute chart", err)
			return utils.SendInternalServerError(c, "Failed to fetch chart data")
		}
		return c.JSON(points)
	}
}

// BotStatus reports whether a bot token is configured
func BotStatus(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(webApp.Bot.Status())
	}
}

// SetBotToken validates a bot token and makes its application owner the
// dashboard owner
func SetBotToken(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.BotTokenRequest
		if ok, err := utils.ParseAndValidate(c, &req); !ok {
			return err
		}

		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		result, err := webApp.Bot.SetToken(c.UserContext(), *session.Actor(), req.BotToken, req.Languages)
		switch {
		case err == nil:
			return c.JSON(result)
		case errors.Is(err, bot.ErrNotOwner):
			return utils.SendForbidden(c, "Only the bot owner can replace the token")
		case errors.Is(err, bot.ErrInvalidToken):
			slog.Warn("Bot token rejected",
				slog.String("type", "auth"),
				slog.String("user_id", session.UserID),
				slog.Any("error", err))
			return utils.SendError(c, fiber.StatusBadRequest, utils.CodeInvalidToken, "Invalid bot token", nil)
		default:
			logger.LogError("Failed to set bot token", err)
			return utils.SendInternalServerError(c, "Failed to configure bot token")
		}
	}
}

// BotLanguages returns the language badges
func BotLanguages(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		langs, err := webApp.Bot.Languages(c.UserContext())
		if err != nil {
			logger.LogError("Failed to load languages", err)
			return utils.SendInternalServerError(c, "Failed to fetch languages")
		}
		return c.JSON(webmodels.LanguagesResponse{Languages: langs})
	}
}

// UpdateBotLanguages replaces the language badges
func UpdateBotLanguages(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LanguagesRequest
		if ok, err := utils.ParseAndValidate(c, &req); !ok {
			return err
		}

		session, _ := utils.ExtractUserSession(c)
		langs, err := webApp.Bot.SetLanguages(c.UserContext(), session.Actor(), req.Languages)
		if err != nil {
			logger.LogError("Failed to update languages", err)
			return utils.SendInternalServerError(c, "Failed to update languages")
		}
		return c.JSON(webmodels.LanguagesResponse{Languages: langs})
	}
}

// CurrentUser returns the session user, else the bot identity, else a placeholder
func CurrentUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := utils.ExtractUserSession(c)
		return c.JSON(webApp.Bot.Identity(c.UserContext(), session.BotUser()))
	}
}
