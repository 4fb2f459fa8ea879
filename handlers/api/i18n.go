package api

import (
	"outpost/utils"

	"github.com/gofiber/fiber/v2"
)

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if lang == "" {
		lang = "en"
	}

	// Only allow supported languages
	if lang != "en" && lang != "ja" {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	// Common translation keys for client-side use
	translations := map[string]string{
		"labels_loading":       utils.T(localizer, "labels_loading"),
		"labels_empty":         utils.T(localizer, "labels_empty"),
		"label_created":        utils.T(localizer, "label_created"),
		"label_updated":        utils.T(localizer, "label_updated"),
		"label_deleted":        utils.T(localizer, "label_deleted"),
		"confirm_delete_label": utils.T(localizer, "confirm_delete_label"),
		"confirm_yes":          utils.T(localizer, "confirm_yes"),
		"confirm_no":           utils.T(localizer, "confirm_no"),
		"error_network":        utils.T(localizer, "error_network"),
		"error_404":            utils.T(localizer, "error_404"),
		"error_500":            utils.T(localizer, "error_500"),
	}

	return c.JSON(translations)
}
