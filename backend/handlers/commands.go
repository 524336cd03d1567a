package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/backend/utils"
	"github.com/orbitalbot/dashboard/internal/domain/commands"
	"github.com/orbitalbot/dashboard/internal/logger"
)

// ListCommands returns the command list, synced with Discord when reachable.
// The q query parameter fuzzy filters by name.
func ListCommands(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cmds, live, err := webApp.Commands.List(c.UserContext(), c.Query("q"))
		if err != nil {
			logger.LogError("Failed to list commands", err)
			return utils.SendInternalServerError(c, "Failed to fetch commands")
		}
		utils.SetDataSource(c, live)
		return c.JSON(cmds)
	}
}

func CreateCommand(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.CommandCreateRequest
		if ok, err := utils.ParseAndValidate(c, &req); !ok {
			return err
		}

		session, _ := utils.ExtractUserSession(c)
		cmd, err := webApp.Commands.Create(c.UserContext(), session.Actor(), req.ToNewCommand())
		if err != nil {
			logger.LogError("Failed to create command", err)
			return utils.SendInternalServerError(c, "Failed to create command")
		}
		return c.Status(http.StatusCreated).JSON(cmd)
	}
}

func UpdateCommand(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.CommandUpdateRequest
		if ok, err := utils.ParseAndValidate(c, &req); !ok {
			return err
		}

		session, _ := utils.ExtractUserSession(c)
		cmd, err := webApp.Commands.Update(c.UserContext(), session.Actor(), c.Params("id"), req.ToPatch())
		if err != nil {
			if errors.Is(err, commands.ErrNotFound) {
				return utils.SendNotFound(c, "Command not found")
			}
			logger.LogError("Failed to update command", err)
			return utils.SendInternalServerError(c, "Failed to update command")
		}
		return c.JSON(cmd)
	}
}

// DeleteCommand answers {success:false} for unknown ids rather than 404
func DeleteCommand(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := utils.ExtractUserSession(c)
		deleted, err := webApp.Commands.Delete(c.UserContext(), session.Actor(), c.Params("id"))
		if err != nil {
			logger.LogError("Failed to delete command", err)
			return utils.SendInternalServerError(c, "Failed to delete command")
		}
		return c.JSON(webmodels.DeleteResponse{Success: deleted})
	}
}

// RecordCommandUsage counts one execution reported by the bot
func RecordCommandUsage(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.CommandUsageRequest
		if len(c.Body()) > 0 {
			if ok, err := utils.ParseAndValidate(c, &req); !ok {
				return err
			}
		}

		cmd, err := webApp.Commands.RecordUsage(c.UserContext(), c.Params("id"), req.ToUsage())
		if err != nil {
			if errors.Is(err, commands.ErrNotFound) {
				return utils.SendNotFound(c, "Command not found")
			}
			logger.LogError("Failed to record command usage", err)
			return utils.SendInternalServerError(c, "Failed to record usage")
		}
		return c.JSON(cmd)
	}
}
