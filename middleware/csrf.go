package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"outpost/utils"
)

// CSRFConfig holds CSRF protection configuration
type CSRFConfig struct {
	TokenLength  int
	CookieName   string
	HeaderName   string
	ContextKey   string
	CookieMaxAge int
}

// DefaultCSRFConfig returns default CSRF configuration
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		ContextKey:   "csrf",
		CookieMaxAge: 3600, // 1 hour
	}
}

// CSRFProtection creates CSRF protection middleware for mutating requests
func CSRFProtection(config ...CSRFConfig) fiber.Handler {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		// Safe methods pass through
		if c.Method() == fiber.MethodGet ||
			c.Method() == fiber.MethodHead ||
			c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		cookieToken := c.Cookies(cfg.CookieName)
		headerToken := c.Get(cfg.HeaderName)
		if headerToken == "" {
			headerToken = c.FormValue("csrf_token")
		}

		if cookieToken == "" || headerToken == "" {
			return utils.NewAppError(fiber.StatusForbidden, "CSRF token missing", nil)
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) != 1 {
			return utils.NewAppError(fiber.StatusForbidden, "CSRF token mismatch", nil)
		}

		return c.Next()
	}
}

// GenerateCSRFToken generates a new CSRF token and sets it in a cookie
func GenerateCSRFToken(c *fiber.Ctx, config ...CSRFConfig) string {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	b := make([]byte, cfg.TokenLength)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	token := base64.URLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		MaxAge:   cfg.CookieMaxAge,
		HTTPOnly: true,
		SameSite: "Strict",
		Secure:   false, // Set to true in production with HTTPS
	})

	c.Locals(cfg.ContextKey, token)

	return token
}
