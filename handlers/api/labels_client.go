package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"outpost/models"
)

// LabelClient talks to the Outpost backend's label collection endpoint.
type LabelClient struct {
	baseURL string
	timeout time.Duration
}

// NewLabelClient creates a client for the given backend base URL.
func NewLabelClient(baseURL string, timeout time.Duration) *LabelClient {
	return &LabelClient{
		baseURL: baseURL,
		timeout: timeout,
	}
}

type labelsResponse struct {
	Labels []models.Label `json:"labels"`
}

type labelResponse struct {
	Label models.Label `json:"label"`
}

func (lc *LabelClient) prepare(agent *fiber.Agent, ctx context.Context, token string) {
	agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	agent.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	timeout := lc.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	agent.Timeout(timeout)
}

// FetchLabels retrieves the full label collection.
// A response without a labels field is treated as an empty collection.
func (lc *LabelClient) FetchLabels(ctx context.Context, token string) ([]models.Label, error) {
	agent := fiber.Get(lc.baseURL + "/api/labels")
	lc.prepare(agent, ctx, token)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("label service request failed: %v", errs[0])
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("label service returned status %d", code)
	}

	var resp labelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed label response: %v", err)
	}
	if resp.Labels == nil {
		return []models.Label{}, nil
	}
	return resp.Labels, nil
}

// CreateLabel creates a label on the backend and returns the stored record.
func (lc *LabelClient) CreateLabel(ctx context.Context, token string, label models.Label) (models.Label, error) {
	agent := fiber.Post(lc.baseURL + "/api/labels")
	lc.prepare(agent, ctx, token)
	agent.JSON(label)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return models.Label{}, fmt.Errorf("label service request failed: %v", errs[0])
	}
	if code < 200 || code >= 300 {
		return models.Label{}, fmt.Errorf("label service returned status %d", code)
	}

	var resp labelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Label{}, fmt.Errorf("malformed label response: %v", err)
	}
	return resp.Label, nil
}

// UpdateLabel applies a partial update to a label on the backend.
func (lc *LabelClient) UpdateLabel(ctx context.Context, token, id string, patch models.LabelPatch) (models.Label, error) {
	agent := fiber.Patch(lc.baseURL + "/api/labels/" + id)
	lc.prepare(agent, ctx, token)
	agent.JSON(patch)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return models.Label{}, fmt.Errorf("label service request failed: %v", errs[0])
	}
	if code < 200 || code >= 300 {
		return models.Label{}, fmt.Errorf("label service returned status %d", code)
	}

	var resp labelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Label{}, fmt.Errorf("malformed label response: %v", err)
	}
	return resp.Label, nil
}

// DeleteLabel removes a label on the backend.
func (lc *LabelClient) DeleteLabel(ctx context.Context, token, id string) error {
	agent := fiber.Delete(lc.baseURL + "/api/labels/" + id)
	lc.prepare(agent, ctx, token)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("label service request failed: %v", errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("label service returned status %d", code)
	}
	return nil
}
