package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/FurkanKirci/BeautySalon/internal/auth"
	"github.com/FurkanKirci/BeautySalon/internal/booking"
	"github.com/FurkanKirci/BeautySalon/internal/cache"
	"github.com/FurkanKirci/BeautySalon/internal/config"
	"github.com/FurkanKirci/BeautySalon/internal/db"
	"github.com/FurkanKirci/BeautySalon/internal/gallery"
	"github.com/FurkanKirci/BeautySalon/internal/handlers"
	"github.com/FurkanKirci/BeautySalon/internal/media"
	"github.com/FurkanKirci/BeautySalon/internal/middleware"
	"github.com/FurkanKirci/BeautySalon/internal/specialists"
	"github.com/FurkanKirci/BeautySalon/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	jwtManager := &auth.Manager{
		Secret: []byte(cfg.JWTSecret),
		TTL:    time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		Issuer: "beautysalon-api",
	}

	val := validation.New()

	bookingRepo := booking.NewRepository(cols.Appointments)
	bookingService := booking.NewService(bookingRepo, cfg.Timezone)

	server := &handlers.Server{
		Cfg:           cfg,
		Cols:          cols,
		Val:           val,
		Log:           logger,
		JWT:           jwtManager,
		Cache:         cacheStore,
		Bookings:      bookingService,
		ServicePhotos: media.NewStore(cfg.ServicePhotoDir),
		CompanyIcons:  media.NewStore(cfg.CompanyIconDir),
		GalleryImages: media.NewStore(cfg.GalleryDir),
	}

	specialistsRepo := specialists.NewRepository(cols.Specialists)
	specialistsService := specialists.NewService(specialistsRepo, cfg.Timezone)
	specialistsHandler := specialists.NewHandler(specialistsService, val, logger)

	galleryRepo := gallery.NewRepository(cols.Gallery)
	galleryService := gallery.NewService(galleryRepo, server.GalleryImages, cfg.Timezone)
	galleryHandler := gallery.NewHandler(galleryService, val, logger, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	appointmentsLimiter := middleware.NewRateLimiter(cfg.RateLimitAppointments, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	// Image serving stays outside /api so stored filenames map directly
	// onto the URLs the pages embed.
	r.Get("/service-image/{id}", server.ServeServiceImage)
	r.Get("/gallery/{id}", server.ServeGalleryImage)
	r.Get("/company-icon/{id}", server.ServeCompanyIcon)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", server.Register)
		api.Post("/auth/login", server.Login)
		api.Post("/auth/logout", server.Logout)
		api.Get("/auth/me", server.CurrentUser)
		api.Post("/auth/verify", server.VerifyToken)

		api.Get("/services", server.GetServices)
		api.Get("/services/by-category", server.GetServicesByCategory)
		api.Get("/services/{id}", server.GetService)

		api.Get("/specialists", specialistsHandler.PublicList)
		api.Get("/specialists/{id}", specialistsHandler.PublicGet)

		api.Get("/gallery", galleryHandler.PublicList)
		api.Get("/gallery/by-category", galleryHandler.PublicListByCategory)
		api.Get("/gallery/{id}", galleryHandler.PublicGet)

		api.Get("/settings/contact", server.GetContactInfo)
		api.Get("/settings/company", server.GetCompanyInfo)

		api.Get("/appointments/slots", server.GetAvailableSlots)
		api.With(appointmentsLimiter.Middleware).Post("/appointments", server.CreateAppointment)
		api.With(contactLimiter.Middleware).Post("/contact", server.CreateContactMessage)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Auth(jwtManager))

			admin.Get("/dashboard/stats", server.AdminDashboardStats)

			admin.Get("/appointments", server.AdminListAppointments)
			admin.Get("/appointments/recent", server.AdminRecentAppointments)
			admin.Patch("/appointments/{id}/status", server.AdminUpdateAppointmentStatus)

			admin.Get("/messages", server.AdminListMessages)
			admin.Get("/messages/recent", server.AdminRecentMessages)
			admin.Get("/messages/{id}", server.AdminViewMessage)
			admin.Patch("/messages/{id}/status", server.AdminUpdateMessageStatus)

			admin.Post("/services", server.AdminCreateService)
			admin.Put("/services/{id}", server.AdminUpdateService)
			admin.Delete("/services/{id}", server.AdminDeleteService)
			admin.Post("/services/{id}/image", server.AdminUploadServiceImage)
			admin.Delete("/services/{id}/image", server.AdminDeleteServiceImage)

			admin.Get("/specialists", specialistsHandler.AdminList)
			admin.Post("/specialists", specialistsHandler.AdminCreate)
			admin.Put("/specialists/{id}", specialistsHandler.AdminUpdate)
			admin.Delete("/specialists/{id}", specialistsHandler.AdminDelete)

			admin.Post("/gallery", galleryHandler.AdminAdd)
			admin.Put("/gallery/{id}", galleryHandler.AdminUpdate)
			admin.Delete("/gallery/{id}", galleryHandler.AdminDelete)
			admin.Post("/gallery/{id}/image", galleryHandler.AdminUploadImage)
			admin.Delete("/gallery/{id}/image", galleryHandler.AdminDeleteImage)

			admin.Get("/settings", server.GetSettings)
			admin.Put("/settings", server.AdminSaveSettings)
			admin.Post("/settings/{id}/icon", server.AdminUploadCompanyIcon)
			admin.Delete("/settings/{id}/icon", server.AdminDeleteCompanyIcon)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
