package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/domain/activity"
	"github.com/orbitalbot/dashboard/internal/logger"
)

const maxLogLimit = 500

// ListServers returns the guilds the bot is in
func ListServers(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, live, err := webApp.Servers.List(c.UserContext())
		if err != nil {
			logger.LogError("Failed to list servers", err)
			return utils.SendInternalServerError(c, "Failed to fetch servers")
		}
		utils.SetDataSource(c, live)
		return c.JSON(list)
	}
}

// ListLogs returns the audit log newest first, optionally filtered by type and
// capped by limit
func ListLogs(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter activity.Filter

		if t := c.Query("type"); t != "" {
			filter.Type = activity.Type(t)
			if !filter.Type.Valid() {
				return utils.SendValidationError(c, map[string]string{"type": "must be one of command, join, leave, error, config"})
			}
		}
		if l := c.Query("limit"); l != "" {
			limit, err := strconv.Atoi(l)
			if err != nil || limit < 1 || limit > maxLogLimit {
				return utils.SendValidationError(c, map[string]string{"limit": "must be a number between 1 and 500"})
			}
			filter.Limit = limit
		}

		logs, err := webApp.Activity.List(c.UserContext(), filter)
		if err != nil {
			logger.LogError("Failed to list logs", err)
			return utils.SendInternalServerError(c, "Failed to fetch logs")
		}
		return c.JSON(logs)
	}
}
