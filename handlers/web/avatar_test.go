package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderAvatarEmptyURL(t *testing.T) {
	assert.Empty(t, SenderAvatar(""))
}

func TestSenderAvatarRendersProxiedImage(t *testing.T) {
	html := string(SenderAvatar("https://photos.example.com/kaoru.jpg"))

	assert.True(t, strings.HasPrefix(html, `<img class="sender-avatar"`))
	assert.Contains(t, html, `src="/avatar?url=https%3A%2F%2Fphotos.example.com%2Fkaoru.jpg"`)
	assert.Contains(t, html, `onerror="this.style.display='none'"`)
}

func TestSenderAvatarEscapesQueryParams(t *testing.T) {
	html := string(SenderAvatar("https://photos.example.com/a.jpg?size=96&v=2"))

	// Inner query params must not leak into the proxy URL.
	assert.NotContains(t, html, "&v=2")
	assert.Contains(t, html, "%26v%3D2")
}
