package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"outpost/auth"
	"outpost/cache"
	"outpost/handlers/api"
	"outpost/utils"
)

// DefaultModalExitDelay matches the modal's exit transition length.
const DefaultModalExitDelay = 200 * time.Millisecond

// ConfirmModal drives the delete-label confirmation dialog. Two booleans
// carry the enter/exit transition: the dialog stays visible for a fixed
// delay after the animation deactivates so the transition can play out.
// Escape/cancel is ignored while the delete request is pending. The modal
// only ever knows the target label's id and display name.
type ConfirmModal struct {
	mu        sync.Mutex
	visible   bool
	animating bool
	pending   bool
	labelID   string
	labelName string

	exitDelay time.Duration
	timer     *time.Timer
}

// ModalState is a snapshot of the dialog for rendering
type ModalState struct {
	Visible   bool
	Animating bool
	Pending   bool
	LabelID   string
	LabelName string
}

// NewConfirmModal creates a hidden modal with the given exit delay
func NewConfirmModal(exitDelay time.Duration) *ConfirmModal {
	return &ConfirmModal{exitDelay: exitDelay}
}

// Open shows the dialog for the given label
func (m *ConfirmModal) Open(labelID, labelName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.visible = true
	m.animating = true
	m.pending = false
	m.labelID = labelID
	m.labelName = labelName
}

// Cancel dismisses the dialog. Ignored while a delete is pending or when
// the dialog is not shown. The escape key routes here while the dialog
// is mounted.
func (m *ConfirmModal) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible || m.pending {
		return false
	}
	m.close()
	return true
}

// BeginDelete marks the delete request as in flight, disabling cancel,
// and returns the id of the label the dialog targets at that moment.
func (m *ConfirmModal) BeginDelete() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible || m.pending {
		return "", false
	}
	m.pending = true
	return m.labelID, true
}

// FinishDelete completes the pending delete and dismisses the dialog.
func (m *ConfirmModal) FinishDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = false
	if m.visible {
		m.close()
	}
}

// FailDelete clears the pending flag but keeps the dialog open so the
// user can retry or cancel.
func (m *ConfirmModal) FailDelete() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
}

// close deactivates the animation and schedules the visibility flip
// after the exit delay. Caller holds the lock.
func (m *ConfirmModal) close() {
	m.animating = false
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.exitDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Reopened during the delay; leave it visible.
		if m.animating {
			return
		}
		m.visible = false
		m.labelID = ""
		m.labelName = ""
	})
}

// State returns a snapshot for rendering
func (m *ConfirmModal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ModalState{
		Visible:   m.visible,
		Animating: m.animating,
		Pending:   m.pending,
		LabelID:   m.labelID,
		LabelName: m.labelName,
	}
}

// ModalHandler wires the confirmation dialog to the delete-label flow
type ModalHandler struct {
	modal    *ConfirmModal
	provider auth.Provider
	cache    *cache.LabelCache
	client   *api.LabelClient
	events   *api.LabelEventHub
}

// NewModalHandler creates a new modal handler
func NewModalHandler(modal *ConfirmModal, provider auth.Provider, labelCache *cache.LabelCache, client *api.LabelClient, events *api.LabelEventHub) *ModalHandler {
	return &ModalHandler{
		modal:    modal,
		provider: provider,
		cache:    labelCache,
		client:   client,
		events:   events,
	}
}

func (h *ModalHandler) render(c *fiber.Ctx) error {
	return c.Render("partials/confirm_modal", fiber.Map{
		"Modal": h.modal.State(),
	}, "")
}

// HandleOpen opens the confirmation dialog for a label
func (h *ModalHandler) HandleOpen(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.BadRequestError("Label ID required", nil)
	}

	name := id
	for _, l := range h.cache.Labels() {
		if l.ID == id {
			name = l.DisplayName
			break
		}
	}

	h.modal.Open(id, name)
	return h.render(c)
}

// HandleCancel dismisses the dialog (escape key or cancel button)
func (h *ModalHandler) HandleCancel(c *fiber.Ctx) error {
	h.modal.Cancel()
	return h.render(c)
}

// HandleConfirm performs the delete the dialog was opened for: backend
// delete, optimistic cache removal, then dismissal.
func (h *ModalHandler) HandleConfirm(c *fiber.Ctx) error {
	id, ok := h.modal.BeginDelete()
	if !ok {
		return h.render(c)
	}

	token, err := h.provider.Token(c.UserContext())
	if err != nil {
		h.modal.FailDelete()
		return utils.UnauthorizedError("No active session", err)
	}

	if err := h.client.DeleteLabel(c.UserContext(), token, id); err != nil {
		h.modal.FailDelete()
		utils.Log.Error("Delete label %s failed: %v", id, err)
		return utils.BadGatewayError("Failed to delete label", err)
	}

	h.cache.RemoveLocal(id)
	h.events.Publish(api.LabelEvent{Type: api.EventLabelDeleted, LabelID: id})
	h.modal.FinishDelete()

	return h.render(c)
}
