package routes

import (
	"time"

	"github.com/casesync/casesync/internal/config"
	"github.com/casesync/casesync/internal/handlers"
	"github.com/casesync/casesync/internal/middleware"
	"github.com/casesync/casesync/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	resourceHandler *handlers.ResourceHandler,
	saveHandler *handlers.SaveHandler,
	importHandler *handlers.ImportHandler,
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

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	jwt := middleware.JWTProtected(cfg)
	staff := middleware.RequireRole(models.RoleCaseManager, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/auth/me", jwt, authHandler.Me)

	// Resources. Static paths must be registered before the :id routes
	// so "search", "updates", "saved", etc. are never captured as IDs.
	resources := api.Group("/resources")
	resources.Get("/", resourceHandler.List)
	resources.Get("/search", resourceHandler.Search)
	resources.Get("/updates", resourceHandler.Updates)
	resources.Get("/saved", jwt, saveHandler.ListSaved)
	resources.Post("/create", jwt, staff, resourceHandler.Create)
	resources.Post("/import", jwt, admin, importHandler.Import)
	resources.Post("/scrape", jwt, admin, importHandler.Scrape)
	resources.Get("/:id", resourceHandler.GetByID)
	resources.Put("/:id", jwt, staff, resourceHandler.Update)
	resources.Post("/:id/notes", jwt, staff, resourceHandler.AddNote)
	resources.Post("/:id/save", jwt, saveHandler.Save)
	resources.Delete("/:id/save", jwt, saveHandler.Unsave)

	api.Post("/admin/resources/normalize-categories", jwt, admin, resourceHandler.NormalizeCategories)
}
