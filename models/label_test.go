package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelPatchApply(t *testing.T) {
	count := 7
	label := Label{
		ID:          "l1",
		Name:        "work",
		DisplayName: "Work",
		Type:        LabelTypeUser,
		ThreadCount: &count,
		Color:       "#112233",
	}

	name := "Renamed"
	color := "#ff0000"
	patch := LabelPatch{DisplayName: &name, Color: &color}
	patch.Apply(&label)

	assert.Equal(t, "Renamed", label.DisplayName)
	assert.Equal(t, "#ff0000", label.Color)

	// Fields the patch does not carry stay put.
	assert.Equal(t, "work", label.Name)
	assert.Equal(t, LabelTypeUser, label.Type)
	assert.Equal(t, &count, label.ThreadCount)
}

func TestLabelPatchEmpty(t *testing.T) {
	assert.True(t, LabelPatch{}.Empty())

	name := "x"
	assert.False(t, LabelPatch{Name: &name}.Empty())
}
