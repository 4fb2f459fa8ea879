package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"outpost/auth"
	"outpost/cache"
	"outpost/models"
	"outpost/utils"
)

// LabelHandler exposes the label collection to the UI. Reads are served
// from the cache; mutations go to the backend directly and the cache is
// reconciled optimistically or via a forced refresh.
type LabelHandler struct {
	provider auth.Provider
	cache    *cache.LabelCache
	client   *LabelClient
	events   *LabelEventHub
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(provider auth.Provider, labelCache *cache.LabelCache, client *LabelClient, events *LabelEventHub) *LabelHandler {
	return &LabelHandler{
		provider: provider,
		cache:    labelCache,
		client:   client,
		events:   events,
	}
}

// GetLabels returns the cached label collection, fetching it first if the
// cache cannot serve it yet. A backend failure is not surfaced here: the
// response simply carries whatever the cache holds.
func (h *LabelHandler) GetLabels(c *fiber.Ctx) error {
	h.cache.FetchIfNeeded(c.UserContext())

	return c.JSON(fiber.Map{
		"success":     true,
		"labels":      h.cache.Labels(),
		"loading":     h.cache.Loading(),
		"has_fetched": h.cache.HasFetched(),
	})
}

// RefreshLabels forces a reload from the backend, bypassing the cache.
func (h *LabelHandler) RefreshLabels(c *fiber.Ctx) error {
	h.cache.Refresh(c.UserContext())
	h.events.Publish(LabelEvent{Type: EventLabelsRefreshed})

	return c.JSON(fiber.Map{
		"success": true,
		"labels":  h.cache.Labels(),
	})
}

// CreateLabel creates a new label on the backend and reconciles the cache.
func (h *LabelHandler) CreateLabel(c *fiber.Ctx) error {
	var req models.Label
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError("Invalid request", err)
	}

	req.DisplayName = utils.SanitizeDisplayName(req.DisplayName)
	if req.DisplayName == "" {
		return utils.BadRequestError("Label name required", nil)
	}
	if req.Name == "" {
		req.Name = utils.SanitizeLabelName(req.DisplayName)
	}
	req.ID = uuid.New().String()
	req.Type = models.LabelTypeUser
	if req.Color == "" {
		req.Color = "#808080" // Default grey
	}

	token, err := h.provider.Token(c.UserContext())
	if err != nil {
		return utils.UnauthorizedError("No active session", err)
	}

	created, err := h.client.CreateLabel(c.UserContext(), token, req)
	if err != nil {
		return utils.BadGatewayError("Failed to create label", err)
	}

	// Authoritative state after a create comes from the backend.
	h.cache.Refresh(c.UserContext())
	h.events.Publish(LabelEvent{Type: EventLabelCreated, Label: &created})

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"label":   created,
	})
}

// UpdateLabel patches a label on the backend and applies the same patch
// to the cache optimistically.
func (h *LabelHandler) UpdateLabel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.BadRequestError("Label ID required", nil)
	}

	var patch models.LabelPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.BadRequestError("Invalid request", err)
	}
	if patch.Empty() {
		return utils.BadRequestError("No fields to update", nil)
	}
	if patch.DisplayName != nil {
		clean := utils.SanitizeDisplayName(*patch.DisplayName)
		if clean == "" {
			return utils.BadRequestError("Display name cannot be empty", nil)
		}
		patch.DisplayName = &clean
	}

	token, err := h.provider.Token(c.UserContext())
	if err != nil {
		return utils.UnauthorizedError("No active session", err)
	}

	updated, err := h.client.UpdateLabel(c.UserContext(), token, id, patch)
	if err != nil {
		return utils.BadGatewayError("Failed to update label", err)
	}

	h.cache.UpdateLocal(id, patch)
	h.events.Publish(LabelEvent{Type: EventLabelUpdated, Label: &updated})

	return c.JSON(fiber.Map{
		"success": true,
		"label":   updated,
	})
}

// DeleteLabel deletes a label on the backend and drops it from the cache
// without waiting for a refresh.
func (h *LabelHandler) DeleteLabel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.BadRequestError("Label ID required", nil)
	}

	token, err := h.provider.Token(c.UserContext())
	if err != nil {
		return utils.UnauthorizedError("No active session", err)
	}

	if err := h.client.DeleteLabel(c.UserContext(), token, id); err != nil {
		return utils.BadGatewayError("Failed to delete label", err)
	}

	h.cache.RemoveLocal(id)
	h.events.Publish(LabelEvent{Type: EventLabelDeleted, LabelID: id})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Label deleted",
	})
}
