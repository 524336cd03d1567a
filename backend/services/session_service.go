package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orbitalbot/dashboard/backend/config"
	"github.com/orbitalbot/dashboard/backend/models"
	"github.com/orbitalbot/dashboard/internal/common/clock"
	"github.com/orbitalbot/dashboard/internal/common/ids"
	"github.com/orbitalbot/dashboard/internal/gateways/sessions"
)

const (
	StateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
	sessionIDBytes  = 32
)

// ErrNoSession is returned when the request carries no usable session.
var ErrNoSession = errors.New("no valid session")

// SessionService handles user session management. The cookie holds only a signed
// opaque id; the session record lives in the storage backend.
type SessionService struct {
	config  *config.WebAppConfig
	storage sessions.Storage
	clock   clock.Clock
}

// NewSessionService creates a new session service
func NewSessionService(cfg *config.WebAppConfig, storage sessions.Storage, clk clock.Clock) *SessionService {
	return &SessionService{
		config:  cfg,
		storage: storage,
		clock:   clk,
	}
}

func (s *SessionService) cookieName() string {
	return s.config.Config.Web.CookieName
}

func (s *SessionService) ttl() time.Duration {
	return s.config.Config.Web.SessionTTL.Duration
}

func (s *SessionService) secure() bool {
	return s.config.Config.IsProduction()
}

// CreateSession stores a fresh session and sets the session cookie. Any session the
// request already referenced is deleted first, so a login never inherits old state.
func (s *SessionService) CreateSession(c *fiber.Ctx, userSession *models.UserSession) error {
	if previous, err := s.sessionID(c); err == nil {
		if err := s.storage.Delete(c.UserContext(), previous); err != nil {
			slog.Warn("Failed to delete previous session",
				slog.String("type", "auth"),
				slog.Any("error", err))
		}
	}

	signedID, err := s.Issue(c.UserContext(), userSession)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName(),
		Value:    signedID,
		Path:     "/",
		MaxAge:   int(s.ttl() / time.Second),
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session created for user",
		slog.String("type", "auth"),
		slog.String("user_id", userSession.UserID),
		slog.String("username", userSession.Username),
		slog.Bool("is_developer", userSession.IsDeveloper))

	return nil
}

// GetSession retrieves and validates the user session from the request
func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	id, err := s.sessionID(c)
	if err != nil {
		return nil, err
	}

	sessionData, err := s.storage.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown session", ErrNoSession)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var userSession models.UserSession
	if err := json.Unmarshal(sessionData, &userSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	userSession.ID = id

	if !s.clock.Now().Before(userSession.ExpiresAt) {
		if err := s.storage.Delete(c.UserContext(), id); err != nil {
			slog.Warn("Failed to delete expired session", slog.String("type", "auth"), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%w: session expired", ErrNoSession)
	}

	return &userSession, nil
}

func (s *SessionService) sessionID(c *fiber.Ctx) (string, error) {
	sessionCookie := c.Cookies(s.cookieName())
	if sessionCookie == "" {
		return "", fmt.Errorf("%w: no session cookie", ErrNoSession)
	}

	id, err := s.verifyAndDecodeData(sessionCookie)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return string(id), nil
}

// DestroySession deletes the session record and clears the cookie
func (s *SessionService) DestroySession(c *fiber.Ctx) error {
	var err error
	if id, idErr := s.sessionID(c); idErr == nil {
		err = s.storage.Delete(c.UserContext(), id)
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session destroyed for request",
		slog.String("type", "auth"),
		slog.String("ip", c.IP()),
		slog.String("user_agent", c.Get("User-Agent")))

	return err
}

// SetState sets the OAuth state parameter in a secure cookie
func (s *SessionService) SetState(c *fiber.Ctx, state string) error {
	signedState, err := s.signData([]byte(state))
	if err != nil {
		return fmt.Errorf("failed to sign state: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    signedState,
		Path:     "/",
		MaxAge:   int(stateTTL / time.Second),
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return nil
}

// GetAndClearState retrieves and clears the OAuth state parameter
func (s *SessionService) GetAndClearState(c *fiber.Ctx) (string, error) {
	stateCookie := c.Cookies(StateCookieName)
	if stateCookie == "" {
		return "", fmt.Errorf("no state cookie found")
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	stateData, err := s.verifyAndDecodeData(stateCookie)
	if err != nil {
		return "", fmt.Errorf("invalid state signature: %w", err)
	}

	return string(stateData), nil
}

// Issue stores userSession under a fresh id and returns the signed cookie value
// for it. CreateSession is the browser path; Issue alone serves other clients.
func (s *SessionService) Issue(ctx context.Context, userSession *models.UserSession) (string, error) {
	id, err := ids.RandomToken(sessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	now := s.clock.Now()
	userSession.ID = id
	userSession.CreatedAt = now
	userSession.ExpiresAt = now.Add(s.ttl())

	sessionData, err := json.Marshal(userSession)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.storage.Set(ctx, id, sessionData, s.ttl()); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	signedID, err := s.signData([]byte(id))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signedID, nil
}

// signData signs data using HMAC-SHA256
func (s *SessionService) signData(data []byte) (string, error) {
	secret := s.config.Config.Web.SessionSecret
	if secret == "" {
		return "", fmt.Errorf("session secret not configured")
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	signature := h.Sum(nil)

	combined := make([]byte, 0, len(data)+len(signature))
	combined = append(combined, data...)
	combined = append(combined, signature...)

	return base64.RawURLEncoding.EncodeToString(combined), nil
}

// verifyAndDecodeData verifies the signature and returns the decoded payload
func (s *SessionService) verifyAndDecodeData(encodedData string) ([]byte, error) {
	secret := s.config.Config.Web.SessionSecret
	if secret == "" {
		return nil, fmt.Errorf("session secret not configured")
	}

	combined, err := base64.RawURLEncoding.DecodeString(encodedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	// signature is the last 32 bytes
	if len(combined) < sha256.Size {
		return nil, fmt.Errorf("invalid data length")
	}

	data := combined[:len(combined)-sha256.Size]
	receivedSignature := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	expectedSignature := h.Sum(nil)

	if !hmac.Equal(receivedSignature, expectedSignature) {
		return nil, fmt.Errorf("signature verification failed")
	}

	return data, nil
}
