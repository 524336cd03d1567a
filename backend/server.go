// Package backend assembles the dashboard HTTP API.
package backend

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitalbot/dashboard/backend/handlers"
	"github.com/orbitalbot/dashboard/backend/middleware"
)

// NewApp builds the Fiber app with global middleware and every route.
func NewApp(webApp *handlers.WebApp) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "OrbitalBot Dashboard API",
		ServerHeader: "OrbitalBot-Dashboard",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(middleware.CORS(webApp))
	app.Use(middleware.Metrics())
	app.Use(middleware.LoggingMiddleware(webApp))

	setupRoutes(app, webApp)
	return app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.APIRateLimit(webApp))

	// Only failed attempts count against the login limiter.
	authLimit := middleware.AuthRateLimit(webApp)
	auth := api.Group("/auth")
	auth.Get("/discord", authLimit, handlers.DiscordOAuth(webApp))
	auth.Get("/login", authLimit, handlers.DiscordOAuth(webApp))
	auth.Get("/callback", authLimit, handlers.OAuthCallback(webApp))
	auth.Get("/me", handlers.Me(webApp))
	auth.Get("/logout", handlers.Logout(webApp))
	auth.Post("/logout", handlers.Logout(webApp))

	read := middleware.ReadAccess(webApp)
	owner := middleware.OwnerRequired(webApp)

	api.Get("/user", middleware.OptionalAuth(webApp), handlers.CurrentUser(webApp))

	botGroup := api.Group("/bot")
	botGroup.Get("/stats", read, handlers.BotStats(webApp))
	botGroup.Get("/chart", read, handlers.BotChart(webApp))
	botGroup.Get("/status", read, handlers.BotStatus(webApp))
	botGroup.Post("/token", middleware.AuthRequired(webApp), handlers.SetBotToken(webApp))
	botGroup.Get("/languages", read, handlers.BotLanguages(webApp))
	botGroup.Post("/languages", owner, handlers.UpdateBotLanguages(webApp))

	api.Get("/servers", read, handlers.ListServers(webApp))

	commands := api.Group("/commands")
	commands.Get("/", read, handlers.ListCommands(webApp))
	commands.Post("/", owner, handlers.CreateCommand(webApp))
	commands.Patch("/:id", owner, handlers.UpdateCommand(webApp))
	commands.Delete("/:id", owner, handlers.DeleteCommand(webApp))
	commands.Post("/:id/usage", owner, handlers.RecordCommandUsage(webApp))

	api.Get("/logs", read, handlers.ListLogs(webApp))

	api.Get("/settings", read, handlers.GetSettings(webApp))
	api.Put("/settings", owner, handlers.UpdateSettings(webApp))

	app.Use(handlers.NotFound())
}
