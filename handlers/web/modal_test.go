package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalOpen(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)

	m.Open("label-1", "Receipts")

	state := m.State()
	assert.True(t, state.Visible)
	assert.True(t, state.Animating)
	assert.False(t, state.Pending)
	assert.Equal(t, "label-1", state.LabelID)
	assert.Equal(t, "Receipts", state.LabelName)
}

func TestModalCancelKeepsVisibleDuringExitDelay(t *testing.T) {
	m := NewConfirmModal(50 * time.Millisecond)
	m.Open("label-1", "Receipts")

	require.True(t, m.Cancel())

	// Animation stops immediately, visibility holds for the delay.
	state := m.State()
	assert.False(t, state.Animating)
	assert.True(t, state.Visible)

	assert.Eventually(t, func() bool {
		return !m.State().Visible
	}, time.Second, 5*time.Millisecond)
}

func TestModalCancelWhenHidden(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)

	assert.False(t, m.Cancel())
}

func TestModalCancelIgnoredWhilePending(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)
	m.Open("label-1", "Receipts")

	_, ok := m.BeginDelete()
	require.True(t, ok)

	assert.False(t, m.Cancel())
	assert.True(t, m.State().Visible)
	assert.True(t, m.State().Pending)
}

func TestModalBeginDeleteOnlyOnce(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)
	m.Open("label-1", "Receipts")

	id, ok := m.BeginDelete()
	require.True(t, ok)
	assert.Equal(t, "label-1", id)

	_, ok = m.BeginDelete()
	assert.False(t, ok)
}

func TestModalBeginDeleteTargetsCurrentLabel(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)
	m.Open("label-1", "Receipts")
	stale := m.State()

	// Dialog retargeted before the delete started.
	m.Open("label-2", "Travel")

	id, ok := m.BeginDelete()
	require.True(t, ok)
	assert.Equal(t, "label-2", id)
	assert.NotEqual(t, stale.LabelID, id)
}

func TestModalFinishDeleteDismisses(t *testing.T) {
	m := NewConfirmModal(20 * time.Millisecond)
	m.Open("label-1", "Receipts")
	_, ok := m.BeginDelete()
	require.True(t, ok)

	m.FinishDelete()

	state := m.State()
	assert.False(t, state.Pending)
	assert.False(t, state.Animating)

	assert.Eventually(t, func() bool {
		return !m.State().Visible
	}, time.Second, 5*time.Millisecond)
}

func TestModalFailDeleteStaysOpen(t *testing.T) {
	m := NewConfirmModal(10 * time.Millisecond)
	m.Open("label-1", "Receipts")
	_, ok := m.BeginDelete()
	require.True(t, ok)

	m.FailDelete()

	state := m.State()
	assert.True(t, state.Visible)
	assert.True(t, state.Animating)
	assert.False(t, state.Pending)

	// Cancel works again after the failure.
	assert.True(t, m.Cancel())
}

func TestModalReopenDuringExitDelay(t *testing.T) {
	m := NewConfirmModal(50 * time.Millisecond)
	m.Open("label-1", "Receipts")
	require.True(t, m.Cancel())

	m.Open("label-2", "Travel")

	// The stale visibility flip must not fire against the new dialog.
	time.Sleep(100 * time.Millisecond)

	state := m.State()
	assert.True(t, state.Visible)
	assert.True(t, state.Animating)
	assert.Equal(t, "label-2", state.LabelID)
}
