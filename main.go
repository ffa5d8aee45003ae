package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/routes"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := config.NewLogger(cfg.LogLevel, cfg.IsDevelopment(), os.Stdout)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := services.NewUserService(db)
	if cfg.AdminEmail != "" {
		created, err := users.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPhone)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create admin account")
		}
		if created {
			log.Info().Str("email", cfg.AdminEmail).Msg("admin account created")
		}
	}

	var sender services.SMSSender
	if cfg.SMSEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}
	reminders := services.NewReminderService(db, sender, log, time.Local)
	if err := reminders.EnsureDefaultTemplate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed reminder template")
	}
	scheduler, err := reminders.StartScheduler(cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder scheduler")
	}

	promotions := services.NewPromotionService(db)
	hours := services.BusinessHours{Open: cfg.BusinessOpenHour, Close: cfg.BusinessCloseHour}

	router := routes.SetupRouter(routes.Services{
		Users:        users,
		Catalog:      services.NewCatalogService(db),
		Appointments: services.NewAppointmentService(db, promotions, hours),
		Reviews:      services.NewReviewService(db),
		Promotions:   promotions,
		Reminders:    reminders,
		Dashboard:    services.NewDashboardService(db, time.Local),
	}, routes.Options{
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Tokens:         utils.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry()),
		SecureCookie:   cfg.CookieSecure,
		Location:       time.Local,
	})

	if cfg.IsDevelopment() {
		for _, route := range router.Routes() {
			log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("route")
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
