package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hydroapp/hydro-backend/internal/config"
	"github.com/hydroapp/hydro-backend/internal/handlers"
	"github.com/hydroapp/hydro-backend/internal/middleware"
	"github.com/hydroapp/hydro-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	profiles *services.ProfileService,
	webAppHandler *handlers.WebAppHandler,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Token exchange: stricter limit, initData-authenticated.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/token", middleware.WebAppAuth(cfg, profiles), authHandler.Token)

	// Mini App endpoints: initData in every body.
	webapp := api.Group("", middleware.WebAppAuth(cfg, profiles))
	webapp.Post("/state", webAppHandler.State)
	webapp.Post("/add", webAppHandler.Add)
	webapp.Post("/undo", webAppHandler.Undo)
	webapp.Post("/goal", webAppHandler.SetGoal)
	webapp.Post("/weight", webAppHandler.SetWeight)

	// Token-authenticated reads.
	v2 := api.Group("/v2", middleware.JWTProtected(cfg))
	v2.Get("/state", webAppHandler.StateV2)
	v2.Get("/calendar", reportHandler.Calendar)
	v2.Get("/export", reportHandler.Export)

	// Telegram webhook lives outside /api so the limiter never throttles it.
	app.Post(cfg.WebhookPath, webhookHandler.Telegram)
}
