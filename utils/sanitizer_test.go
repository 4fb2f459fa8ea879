package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDisplayName(t *testing.T) {
	assert.Equal(t, "Receipts", SanitizeDisplayName("  Receipts  "))
	assert.Equal(t, "Receipts", SanitizeDisplayName(`<script>alert(1)</script>Receipts`))
	assert.Equal(t, "bold", SanitizeDisplayName("<b>bold</b>"))
}

func TestSanitizeLabelName(t *testing.T) {
	assert.Equal(t, "tax-receipts", SanitizeLabelName("Tax Receipts"))
	assert.Equal(t, "tax-receipts", SanitizeLabelName("  TAX   receipts "))
	assert.Equal(t, "receipts", SanitizeLabelName("<i>Receipts</i>"))
}
