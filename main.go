package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"outpost/auth"
	"outpost/cache"
	"outpost/config"
	"outpost/handlers/api"
	"outpost/handlers/web"
	"outpost/middleware"
	"outpost/storage"
	"outpost/utils"
)

// Helper function to determine if request is an API request
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}

	// Check for HTMX request first
	if c.Get("HX-Request") != "" {
		return true
	}

	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		return
	}
	utils.Log.SetLevel(utils.ParseLevel(cfg.Log.Level))

	// Initialize i18n system
	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Session persistence
	sessionStorage, err := storage.NewSessionStorage(cfg.Sessions.Folder)
	if err != nil {
		utils.Log.Error("Failed to initialize session storage: %v", err)
		return
	}
	defer sessionStorage.Close()

	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     24 * time.Hour,
		CookieSecure:   false, // Set to true in production with HTTPS
		CookieHTTPOnly: true,
	})

	identityStore := storage.NewIdentityStore(sessionStorage.DB())

	// Identity session, restored from the last run
	authSession := auth.NewSession(cfg.JWT.Secret, cfg.JWTTTL())
	restored, err := identityStore.LoadIdentity()
	if err != nil {
		utils.Log.Warn("Failed to load persisted identity: %v", err)
	}
	authSession.Restore(restored)

	// Label cache over the backend client; wiped on logout
	labelClient := api.NewLabelClient(cfg.API.BaseURL, cfg.APITimeout())
	labelCache := cache.NewLabelCache(authSession, labelClient)
	labelCache.Bind(authSession)

	events := api.NewLabelEventHub()
	modal := web.NewConfirmModal(web.DefaultModalExitDelay)

	// Template engine with custom functions
	engine := html.New("./templates", ".html")
	engine.AddFunc("avatar", web.SenderAvatar)
	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})
	engine.AddFunc("t", func(messageID string) string {
		return utils.T(utils.Localizer, messageID)
	})

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main", // Default layout
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			if isAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			return c.Status(code).Render("error", fiber.Map{
				"Error": err.Error(),
				"Code":  code,
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))
	app.Use(middleware.LocaleMiddleware())

	// Rate limiting (100 requests per minute per IP)
	app.Use(middleware.RateLimiter(100, time.Minute))

	// CSRF protection for mutating requests; tokens are issued when the
	// login and labels pages render.
	app.Use(middleware.CSRFProtection())

	// Serve static files
	app.Static("/assets", "./assets", fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	// Handlers
	authHandler := web.NewAuthHandler(store, cfg, authSession, identityStore)
	labelsPage := web.NewLabelsHandler(authSession, labelCache)
	avatarHandler := web.NewAvatarHandler(cfg.Avatar.MaxWidth, cfg.AvatarCacheTTL())
	labelAPI := api.NewLabelHandler(authSession, labelCache, labelClient, events)
	modalHandler := web.NewModalHandler(modal, authSession, labelCache, labelClient, events)
	i18nHandler := &api.I18nHandler{}

	// Public routes
	app.Get("/", authHandler.ShowLogin)
	app.Post("/login", authHandler.HandleLogin)
	app.Get("/logout", authHandler.HandleLogout)
	app.Get("/api/i18n/:lang", i18nHandler.GetTranslations)

	// Protected routes; the route guard holds navigation while the
	// session restores and redirects to the root when there is none.
	requireIdentity := middleware.RequireIdentity(authSession)

	app.Get("/labels", requireIdentity, labelsPage.HandleLabels)
	app.Get("/avatar", requireIdentity, avatarHandler.HandleAvatar)

	// API routes (i18n above stays public)
	apiRoutes := app.Group("/api", requireIdentity)
	{
		apiRoutes.Get("/labels", labelAPI.GetLabels)
		apiRoutes.Post("/labels", labelAPI.CreateLabel)
		apiRoutes.Post("/labels/refresh", labelAPI.RefreshLabels)
		apiRoutes.Patch("/labels/:id", labelAPI.UpdateLabel)
		apiRoutes.Delete("/labels/:id", labelAPI.DeleteLabel)
		apiRoutes.Get("/events", events.HandleSSE)
	}

	// HTMX routes (partial template renders)
	htmx := app.Group("/htmx", requireIdentity)
	{
		htmx.Get("/labels", labelsPage.HandleLabelList)
		htmx.Post("/labels/:id/confirm", modalHandler.HandleOpen)
		htmx.Post("/modal/confirm", modalHandler.HandleConfirm)
		htmx.Post("/modal/cancel", modalHandler.HandleCancel)
	}

	// Websocket label events
	app.Use("/ws", requireIdentity, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/labels", events.HandleWebsocket())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer := c.Locals("localizer").(*i18n.Localizer)

		if isAPIRequest(c) {
			return c.Status(404).JSON(fiber.Map{
				"error": utils.T(localizer, "error_404"),
			})
		}
		return c.Status(404).Render("error", fiber.Map{
			"Error": utils.T(localizer, "error_404"),
			"Code":  404,
		})
	})

	// Start server
	utils.Log.Info("Starting Outpost shell on port %d (backend %s)...", cfg.Server.Port, cfg.API.BaseURL)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
