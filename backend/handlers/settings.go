package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/domain/settings"
	"github.com/orbitalbot/dashboard/internal/logger"
)

func GetSettings(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := webApp.Settings.Get(c.UserContext())
		if err != nil {
			logger.LogError("Failed to load settings", err)
			return utils.SendInternalServerError(c, "Failed to fetch settings")
		}
		return c.JSON(current)
	}
}

// UpdateSettings merges the given fields into the stored settings
func UpdateSettings(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.SettingsUpdateRequest
		if ok, err := utils.ParseAndValidate(c, &req); !ok {
			return err
		}

		session, _ := utils.ExtractUserSession(c)
		updated, err := webApp.Settings.Update(c.UserContext(), session.Actor(), req.ToPatch())
		if err != nil {
			if errors.Is(err, settings.ErrInvalid) {
				return utils.SendValidationError(c, map[string]string{"settings": err.Error()})
			}
			logger.LogError("Failed to update settings", err)
			return utils.SendInternalServerError(c, "Failed to update settings")
		}
		return c.JSON(updated)
	}
}
