package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outpost/models"
)

type fakeProvider struct {
	user    *models.User
	loading bool
}

func (p *fakeProvider) Current() *models.User { return p.user }
func (p *fakeProvider) Loading() bool         { return p.loading }
func (p *fakeProvider) Token(ctx context.Context) (string, error) {
	return "test-token", nil
}

func guardedApp(p *fakeProvider) *fiber.App {
	engine := html.New("../templates", ".html")
	engine.AddFunc("t", func(messageID string) string { return messageID })
	engine.AddFunc("avatar", func(url string) string { return "" })

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Get("/labels", RequireIdentity(p), func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		return c.SendString("hello " + user.Username)
	})
	return app
}

func TestRequireIdentityWhileLoading(t *testing.T) {
	app := guardedApp(&fakeProvider{loading: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/labels", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequireIdentityRedirectsWhenAbsent(t *testing.T) {
	app := guardedApp(&fakeProvider{})

	resp, err := app.Test(httptest.NewRequest("GET", "/labels", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRequireIdentityPassesThrough(t *testing.T) {
	app := guardedApp(&fakeProvider{user: &models.User{Username: "kaoru"}})

	resp, err := app.Test(httptest.NewRequest("GET", "/labels", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
