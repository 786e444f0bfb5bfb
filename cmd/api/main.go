package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/frontdesk/vms/internal/http/handlers"
	httpmw "github.com/frontdesk/vms/internal/http/middleware"
	"github.com/frontdesk/vms/internal/mailer"
	"github.com/frontdesk/vms/internal/notify"
	"github.com/frontdesk/vms/internal/repo/postgres"
	redisrepo "github.com/frontdesk/vms/internal/repo/redis"
	"github.com/frontdesk/vms/internal/service"
	"github.com/frontdesk/vms/pkg/config"
	"github.com/frontdesk/vms/pkg/database"
	"github.com/frontdesk/vms/pkg/events"
	"github.com/frontdesk/vms/pkg/logger"
	mw "github.com/frontdesk/vms/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Redis only backs idempotent registration replays; without it the
	// API still works, minus replay protection.
	var idem func(http.Handler) http.Handler
	if opts, err := goredis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid redis URL, idempotency disabled", "error", err)
	} else {
		idem = mw.IdempotencyMiddleware(redisrepo.NewIdempotencyStore(goredis.NewClient(opts)))
	}

	// Repositories
	usersRepo := postgres.NewUsersRepo(pool)
	visitorsRepo := postgres.NewVisitorsRepo(pool)
	visitsRepo := postgres.NewVisitsRepo(pool)
	departmentsRepo := postgres.NewDepartmentsRepo(pool)

	// Services
	visitService := service.NewVisitService(visitsRepo, visitorsRepo, usersRepo, eventBus)
	userService := service.NewUserService(usersRepo, departmentsRepo, cfg)
	departmentService := service.NewDepartmentService(departmentsRepo, usersRepo)

	// Host notification consumer (best-effort)
	notifier := notify.New(eventBus, buildMailer(cfg))
	if err := notifier.Start(); err != nil {
		logger.Error("Failed to start notifier", "error", err)
		os.Exit(1)
	}

	// HTTP plumbing
	sess := httpmw.NewSession(cfg.Auth.JWTSecret)
	loginLimiter := httpmw.NewRateLimiter(pool, httpmw.RateLimitConfig{
		Requests: cfg.RateLimit.LoginRequests,
		Window:   cfg.RateLimit.LoginWindow,
		KeyFunc:  httpmw.LoginRateLimitKeyFunc,
	}).Middleware()

	usersHandler := handlers.NewUsersHandler(userService, sess, loginLimiter)
	departmentsHandler := handlers.NewDepartmentsHandler(departmentService, sess)
	visitorsHandler := handlers.NewVisitorsHandler(visitService, sess, idem)
	visitsHandler := handlers.NewVisitsHandler(visitService, sess)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("vms-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/users", usersHandler.Routes())
		r.Mount("/departments", departmentsHandler.Routes())
		r.Mount("/visitors", visitorsHandler.Routes())
		r.Mount("/visits", visitsHandler.Routes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down vms-api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting vms-api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPass,
			cfg.Email.SMTPUseTLS,
		)
	}
}
