package web

import (
	"github.com/gofiber/fiber/v2"

	"outpost/auth"
	"outpost/cache"
	"outpost/middleware"
	"outpost/models"
)

// LabelsHandler renders the label pages off the cache
type LabelsHandler struct {
	provider auth.Provider
	cache    *cache.LabelCache
}

// NewLabelsHandler creates a new labels page handler
func NewLabelsHandler(provider auth.Provider, labelCache *cache.LabelCache) *LabelsHandler {
	return &LabelsHandler{
		provider: provider,
		cache:    labelCache,
	}
}

// HandleLabels renders the labels overview page
func (h *LabelsHandler) HandleLabels(c *fiber.Ctx) error {
	h.cache.FetchIfNeeded(c.UserContext())

	user, _ := c.Locals("user").(*models.User)

	return c.Render("labels", fiber.Map{
		"User":       user,
		"Labels":     h.cache.Labels(),
		"Loading":    h.cache.Loading(),
		"HasFetched": h.cache.HasFetched(),
		"CSRFToken":  middleware.GenerateCSRFToken(c),
	})
}

// HandleLabelList renders just the label list partial for HTMX refreshes
func (h *LabelsHandler) HandleLabelList(c *fiber.Ctx) error {
	h.cache.FetchIfNeeded(c.UserContext())

	return c.Render("partials/label_list", fiber.Map{
		"Labels": h.cache.Labels(),
	}, "")
}
