package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aniwoo/aniwoo-api/internal/config"
	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/handlers"
	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	authmw "github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/oauth"
	"github.com/aniwoo/aniwoo-api/internal/pending"
	"github.com/aniwoo/aniwoo-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := pending.Dial(cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	idpClient := idp.NewHTTPClient(cfg.AuthURL, cfg.AuthKey)

	var google oauth.Provider
	if cfg.Google.ClientID != "" {
		google, err = oauth.NewGoogleProvider(ctx, cfg.Google)
		if err != nil {
			log.Fatalf("Failed to configure google oauth: %v", err)
		}
	}

	profileService := services.NewProfileService(db)
	vetService := services.NewVetService(db, profileService)
	healthCheckService := services.NewHealthCheckService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	bus := events.NewBus()
	go bus.Run()

	deps := identity.Deps{
		IDP:            idpClient,
		Profiles:       profileService,
		Pending:        pending.NewRedisStore(redisClient, cfg.PendingRoleTTL),
		Source:         bus,
		Google:         google,
		ResolveTimeout: cfg.ResolveTimeout,
	}

	authHandler := handlers.NewAuthHandler(cfg, deps, bus)
	eventsHandler := handlers.NewEventsHandler(deps)
	profileHandler := handlers.NewProfileHandler(profileService, cfg.ResolveTimeout)
	vetHandler := handlers.NewVetHandler(vetService)
	healthCheckHandler := handlers.NewHealthCheckHandler(healthCheckService)
	contactHandler := handlers.NewContactHandler(emailService)
	pagesHandler := handlers.NewPagesHandler()

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google/consent", authHandler.GoogleConsent)
	auth.Get("/google/callback", authHandler.GoogleCallback)

	api.Get("/vets", vetHandler.List)
	api.Get("/pages", pagesHandler.List)
	api.Get("/pages/:slug", pagesHandler.Get)
	api.Post("/contact", contactHandler.Submit)

	protected := api.Group("")
	protected.Use(authmw.Auth(cfg.JWTSecret))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/events", eventsHandler.Connect)

	protected.Get("/profile/me", profileHandler.GetMe)
	protected.Patch("/profile/me", profileHandler.UpdateMe)

	protected.Post("/health-checks", healthCheckHandler.Analyze)
	protected.Get("/health-checks", healthCheckHandler.History)

	vetOnly := api.Group("/vet")
	vetOnly.Use(authmw.Auth(cfg.JWTSecret))
	vetOnly.Use(authmw.RequireRole(models.RoleVet, profileService, cfg.ResolveTimeout))
	vetOnly.Get("/dashboard", vetHandler.GetMine)
	vetOnly.Put("/dashboard", vetHandler.UpsertMine)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
