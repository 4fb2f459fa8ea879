package web

import (
	"fmt"
	"html/template"
	neturl "net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"outpost/utils"
)

// SenderAvatar renders a sender photo from an optional URL. An absent URL
// renders nothing at all, and a broken image hides itself; there is no
// fallback glyph.
func SenderAvatar(url string) template.HTML {
	if url == "" {
		return ""
	}
	escaped := neturl.QueryEscape(url)
	return template.HTML(fmt.Sprintf(
		`<img class="sender-avatar" src="/avatar?url=%s" alt="" onerror="this.style.display='none'">`,
		escaped))
}

// AvatarHandler proxies and downscales remote sender photos
type AvatarHandler struct {
	cache    *utils.MemoryCache
	maxWidth uint
	ttl      time.Duration
	timeout  time.Duration
}

// NewAvatarHandler creates a new avatar proxy handler
func NewAvatarHandler(maxWidth int, ttl time.Duration) *AvatarHandler {
	return &AvatarHandler{
		cache:    utils.NewMemoryCache(),
		maxWidth: uint(maxWidth),
		ttl:      ttl,
		timeout:  10 * time.Second,
	}
}

// HandleAvatar fetches, optimizes and serves a remote sender photo. Any
// failure answers 204 so the client-side img falls back to hiding itself.
func (h *AvatarHandler) HandleAvatar(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if cached, ok := h.cache.Get(url); ok {
		c.Set(fiber.HeaderContentType, "image/jpeg")
		return c.Send(cached.([]byte))
	}

	agent := fiber.Get(url)
	agent.Timeout(h.timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 || code != fiber.StatusOK {
		utils.Log.Debug("Avatar fetch failed for %s (status %d)", url, code)
		return c.SendStatus(fiber.StatusNoContent)
	}

	optimized, err := utils.OptimizeAvatar(body, h.maxWidth)
	if err != nil {
		utils.Log.Debug("Avatar optimize failed for %s: %v", url, err)
		return c.SendStatus(fiber.StatusNoContent)
	}

	h.cache.Set(url, optimized, h.ttl)

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(optimized)
}
