package handlers

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	webservices "github.com/orbitalbot/dashboard/backend/services"
	"github.com/orbitalbot/dashboard/backend/utils"
)

// loginRedirect sends the browser back to the login page with a reason code.
func loginRedirect(c *fiber.Ctx, webApp *WebApp, reason webservices.AuthReason) error {
	target := webApp.Config.GetOAuthConfig().LoginPath + "?error=" + url.QueryEscape(string(reason))
	return c.Redirect(target)
}

// DiscordOAuth starts the authorization code flow
func DiscordOAuth(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := webApp.OAuthService.GenerateState()
		if err != nil {
			slog.Error("Failed to generate OAuth state", slog.String("type", "auth"), slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to initiate authentication")
		}

		if err := webApp.SessionService.SetState(c, state); err != nil {
			slog.Error("Failed to set OAuth state", slog.String("type", "auth"), slog.Any("error", err))
			return utils.SendInternalServerError(c, "Failed to initiate authentication")
		}

		callbackURL := webApp.OAuthService.CallbackURL(c.BaseURL())
		return c.Redirect(webApp.OAuthService.GenerateAuthURL(callbackURL, state))
	}
}

// OAuthCallback finishes the flow. Failures redirect to the login page and leave
// any existing session untouched.
func OAuthCallback(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expectedState, stateErr := webApp.SessionService.GetAndClearState(c)

		userSession, err := webApp.OAuthService.HandleCallback(c.UserContext(), webservices.CallbackInput{
			Code:          c.Query("code"),
			ProviderError: c.Query("error"),
			State:         c.Query("state"),
			ExpectedState: expectedState,
			StateErr:      stateErr,
			CallbackURL:   webApp.OAuthService.CallbackURL(c.BaseURL()),
		})
		if err != nil {
			utils.MarkAuthFailure(c)

			reason := webservices.ReasonExchangeFailed
			var authErr *webservices.AuthError
			if errors.As(err, &authErr) {
				reason = authErr.Reason
			}
			slog.Warn("OAuth callback failed",
				slog.String("type", "auth"),
				slog.String("reason", string(reason)),
				slog.String("description", c.Query("error_description")),
				slog.Any("error", err))
			return loginRedirect(c, webApp, reason)
		}

		if err := webApp.SessionService.CreateSession(c, userSession); err != nil {
			utils.MarkAuthFailure(c)
			slog.Error("OAuth callback: failed to create session",
				slog.String("type", "auth"),
				slog.String("user_id", userSession.UserID),
				slog.Any("error", err))
			return loginRedirect(c, webApp, "session_failed")
		}

		slog.Info("OAuth callback: user authenticated successfully",
			slog.String("type", "auth"),
			slog.String("user_id", userSession.UserID),
			slog.String("username", userSession.Username),
			slog.Bool("is_developer", userSession.IsDeveloper))

		return c.Redirect(webApp.Config.GetOAuthConfig().SuccessRedirect)
	}
}

// Me returns the logged in user or 401
func Me(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			if !errors.Is(err, webservices.ErrNoSession) {
				slog.Error("Failed to load session", slog.String("type", "auth"), slog.Any("error", err))
				return utils.SendInternalServerError(c, "Failed to load session")
			}
			return utils.SendUnauthorized(c, "Not authenticated")
		}
		return c.JSON(session.BotUser())
	}
}

// Logout destroys the session. It succeeds whether or not one existed.
func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := webApp.SessionService.DestroySession(c); err != nil {
			slog.Warn("Failed to delete session record", slog.String("type", "auth"), slog.Any("error", err))
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
