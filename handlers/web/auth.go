// handlers/web/auth.go
package web

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"outpost/auth"
	"outpost/config"
	"outpost/handlers/api"
	"outpost/middleware"
	"outpost/models"
	"outpost/storage"
	"outpost/utils"
)

type AuthHandler struct {
	store    *session.Store
	config   *config.Config
	session  *auth.Session
	identity *storage.IdentityStore
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(store *session.Store, cfg *config.Config, authSession *auth.Session, identity *storage.IdentityStore) *AuthHandler {
	return &AuthHandler{
		store:    store,
		config:   cfg,
		session:  authSession,
		identity: identity,
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if h.session.Current() != nil {
		return c.Redirect("/labels")
	}
	return c.Render("login", fiber.Map{
		"CSRFToken": middleware.GenerateCSRFToken(c),
	})
}

// HandleLogin processes the login form
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return utils.InternalServerError("Session error", err)
	}

	email := strings.TrimSpace(c.FormValue("email"))
	password := strings.TrimSpace(c.FormValue("password"))

	if email == "" || password == "" {
		return c.Status(400).Render("login", fiber.Map{
			"Error":     "Email and password are required",
			"Email":     email,
			"CSRFToken": middleware.GenerateCSRFToken(c),
		})
	}

	var username string
	if h.config.Server.UsernameIsEmail {
		username = email
	} else {
		username = api.GetUsernameFromEmail(email)
	}
	if username == "" {
		return c.Status(400).Render("login", fiber.Map{
			"Error":     "Invalid email format",
			"Email":     email,
			"CSRFToken": middleware.GenerateCSRFToken(c),
		})
	}

	if err := api.VerifyIMAPCredentials(h.config.IMAP.Server, h.config.IMAP.Port, username, password); err != nil {
		// An unreachable server still allows re-login against the hash
		// from the previous successful login on this machine.
		if !errors.Is(err, api.ErrIMAPUnreachable) || !h.offlineLoginAllowed(email, password) {
			return c.Status(401).Render("login", fiber.Map{
				"Error":     "Invalid credentials or server error",
				"Email":     email,
				"CSRFToken": middleware.GenerateCSRFToken(c),
			})
		}
		utils.Log.Warn("IMAP unreachable, accepted offline login for %s", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError("Failed to secure credentials", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
		CreatedAt:    time.Now(),
		LastLoginAt:  time.Now(),
	}

	sess.Set("authenticated", true)
	sess.Set("username", username)
	if err := sess.Save(); err != nil {
		utils.Log.Error("Failed to save session: %v", err)
	}

	if err := h.identity.SaveIdentity(user); err != nil {
		utils.Log.Warn("Failed to persist identity: %v", err)
	}

	h.session.SetCurrent(user)
	utils.Log.Info("User %s logged in", username)

	return c.Redirect("/labels")
}

// offlineLoginAllowed checks the password against the hash persisted by
// the last successful login for the same address.
func (h *AuthHandler) offlineLoginAllowed(email, password string) bool {
	stored, err := h.identity.LoadIdentity()
	if err != nil || stored == nil || stored.Email != email || stored.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
}

// HandleLogout ends the session. Clearing the identity signal wipes the
// label cache through its subscription.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if sess, err := h.store.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			utils.Log.Warn("Failed to destroy session: %v", err)
		}
	}

	if err := h.identity.ClearIdentity(); err != nil {
		utils.Log.Warn("Failed to clear persisted identity: %v", err)
	}

	h.session.Clear()

	return c.Redirect("/")
}
