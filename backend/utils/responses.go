package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/models"
)

// Error codes used in the error envelope.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeBotNotConfigured = "BOT_NOT_CONFIGURED"
	CodeInvalidToken     = "INVALID_BOT_TOKEN"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

// SendValidationError sends a 400 listing the offending fields
func SendValidationError(c *fiber.Ctx, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, CodeValidation, "Validation failed", details)
}

// SendUnauthorized sends an unauthorized error response
func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// SendForbidden sends a forbidden error response
func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, CodeForbidden, message, nil)
}

// SendBotNotConfigured is the 403 for mutations attempted before a bot owner exists
func SendBotNotConfigured(c *fiber.Ctx) error {
	return SendError(c, http.StatusForbidden, CodeBotNotConfigured, "Bot token not configured", nil)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, CodeNotFound, message, nil)
}

// SendTooManyRequests sends a rate limit error response
func SendTooManyRequests(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, CodeInternal, message, nil)
}
