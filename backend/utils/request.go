package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/models"
)

const (
	localsUser        = "user"
	localsAuthFailure = "auth_failure"
	localsDataSource  = "data_source"
)

// SetUserSession stores the session on the request.
func SetUserSession(c *fiber.Ctx, session *models.UserSession) {
	c.Locals(localsUser, session)
}

// ExtractUserSession extracts user session from Fiber context
func ExtractUserSession(c *fiber.Ctx) (*models.UserSession, bool) {
	session := c.Locals(localsUser)
	if session == nil {
		return nil, false
	}

	userSession, ok := session.(*models.UserSession)
	return userSession, ok && userSession != nil
}

// MarkAuthFailure flags the request as a failed auth attempt. Failed OAuth callbacks
// answer with a redirect, so the status code alone cannot tell.
func MarkAuthFailure(c *fiber.Ctx) {
	c.Locals(localsAuthFailure, true)
}

// IsAuthFailure reports whether MarkAuthFailure was called or the status is an error.
func IsAuthFailure(c *fiber.Ctx) bool {
	if marked, _ := c.Locals(localsAuthFailure).(bool); marked {
		return true
	}
	return c.Response().StatusCode() >= fiber.StatusBadRequest
}

// SetDataSource records whether the response was served from Discord or local data
// and exposes it in the X-Data-Source header.
func SetDataSource(c *fiber.Ctx, live bool) {
	source := "local"
	if live {
		source = "live"
	}
	c.Locals(localsDataSource, source)
	c.Set("X-Data-Source", source)
}

// DataSource returns what SetDataSource recorded, or "".
func DataSource(c *fiber.Ctx) string {
	source, _ := c.Locals(localsDataSource).(string)
	return source
}

// GetIPAddress extracts the client IP address. Forwarded headers are honored only
// when the app trusts its proxy.
func GetIPAddress(c *fiber.Ctx, trustProxy bool) string {
	if trustProxy {
		if ips := c.IPs(); len(ips) > 0 {
			return ips[0]
		}
		if xri := c.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}
	return c.IP()
}

// GetUserAgent extracts the user agent
func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
