package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"herohub/internal/domain/assets"
	"herohub/internal/domain/attendance"
	"herohub/internal/domain/audit"
	"herohub/internal/domain/auth"
	"herohub/internal/domain/authz"
	"herohub/internal/domain/directory"
	"herohub/internal/domain/documents"
	"herohub/internal/domain/leave"
	"herohub/internal/domain/onboarding"
	"herohub/internal/platform/config"
	cryptoutil "herohub/internal/platform/crypto"
	"herohub/internal/platform/db"
	"herohub/internal/platform/email"
	"herohub/internal/platform/jobs"
	"herohub/internal/platform/metrics"
	adminhandler "herohub/internal/transport/http/handlers/admin"
	assetshandler "herohub/internal/transport/http/handlers/assets"
	attendancehandler "herohub/internal/transport/http/handlers/attendance"
	audithandler "herohub/internal/transport/http/handlers/audit"
	authhandler "herohub/internal/transport/http/handlers/auth"
	directoryhandler "herohub/internal/transport/http/handlers/directory"
	documentshandler "herohub/internal/transport/http/handlers/documents"
	leavehandler "herohub/internal/transport/http/handlers/leave"
	onboardinghandler "herohub/internal/transport/http/handlers/onboarding"
	"herohub/internal/transport/http/api"
	"herohub/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// New wires every service and route but does not listen; tests mount
// app.Router on httptest servers.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      pool,
		Redis:   redisClient,
		Metrics: metrics.New(),
	}

	authStore := auth.NewStore(pool)
	authSvc := auth.NewService(authStore)
	authzSvc := authz.NewService(authz.NewStore(pool))
	auditSvc := audit.New(pool)
	directorySvc := directory.NewService(directory.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool))
	assetsSvc := assets.NewService(assets.NewStore(pool))
	documentsSvc := documents.NewService(documents.NewStore(pool))
	onboardingStore := onboarding.NewStore(pool)
	onboardingSvc := onboarding.NewService(onboardingStore)
	mailer := email.New(cfg)

	var lockout *auth.Lockout
	if redisClient != nil {
		lockout = auth.NewLockout(redisClient, cfg.LockoutMaxAttempts, cfg.LockoutWindow)
	}

	app.Jobs = jobs.New(pool, cfg, mailer, authStore, onboardingStore)

	authHandler := &authhandler.Handler{
		Auth:     authSvc,
		Authz:    authzSvc,
		Lockout:  lockout,
		Crypto:   crypto,
		Mailer:   mailer,
		Audit:    auditSvc,
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.AccessTokenTTL,
	}
	directoryHandler := directoryhandler.NewHandler(directorySvc)
	leaveHandler := leavehandler.NewHandler(leaveSvc, directorySvc)
	attendanceHandler := attendancehandler.NewHandler(attendanceSvc, directorySvc)
	assetsHandler := assetshandler.NewHandler(assetsSvc, directorySvc, auditSvc)
	documentsHandler := documentshandler.NewHandler(documentsSvc, directorySvc, auditSvc)
	onboardingHandler := onboardinghandler.NewHandler(onboardingSvc, directorySvc)
	adminHandler := adminhandler.NewHandler(authzSvc, auditSvc)
	auditHandler := audithandler.NewHandler(auditSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(app.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authSvc))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, app.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))

		r.Group(func(r chi.Router) {
			// Credential endpoints get a much tighter per-IP budget.
			r.Use(httprate.LimitByIP(max(cfg.RateLimitPerMinute/6, 5), time.Minute))
			r.Post("/auth/login", authHandler.HandleLogin)
			r.Post("/auth/request-reset", authHandler.HandleRequestReset)
			r.Post("/auth/reset", authHandler.HandleResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Post("/auth/refresh", authHandler.HandleRefresh)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
			r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
			r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)

			// Self-service surface: scoped to the caller's own records.
			r.Get("/me/menu", adminHandler.HandleMyMenu)
			r.Get("/me/profile", directoryHandler.HandleMyProfile)
			r.Get("/me/leave-requests", leaveHandler.HandleMyRequests)
			r.Post("/me/leave-requests", leaveHandler.HandleSubmit)
			r.Post("/me/leave-requests/{id}/cancel", leaveHandler.HandleCancel)
			r.Get("/me/leave-balances", leaveHandler.HandleMyBalances)
			r.Post("/me/attendance/check-in", attendanceHandler.HandleCheckIn)
			r.Post("/me/attendance/check-out", attendanceHandler.HandleCheckOut)
			r.Get("/me/attendance", attendanceHandler.HandleMySummary)
			r.Get("/me/attendance/export.pdf", attendanceHandler.HandleExportPDF)
			r.Get("/me/assets", assetsHandler.HandleMyAssets)
			r.Get("/me/documents", documentsHandler.HandleMyDocuments)
			r.Get("/me/onboarding-tasks", onboardingHandler.HandleMyTasks)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequireModule(authzSvc, authz.ModuleEmployees, authz.ActionRead)).Get("/", directoryHandler.HandleList)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleEmployees, authz.ActionRead)).Get("/{id}", directoryHandler.HandleGet)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleEmployees, authz.ActionWrite)).Post("/", directoryHandler.HandleCreate)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleEmployees, authz.ActionWrite)).Put("/{id}", directoryHandler.HandleUpdate)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleEmployees, authz.ActionDelete)).Delete("/{id}", directoryHandler.HandleDeactivate)
				r.With(middleware.RequireModule(authzSvc, authz.ModulePDKS, authz.ActionRead)).Get("/{id}/attendance", attendanceHandler.HandleEmployeeSummary)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleDocuments, authz.ActionRead)).Get("/{id}/documents", documentsHandler.HandleListForEmployee)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionRead)).Get("/{id}/onboarding-tasks", onboardingHandler.HandleEmployeeTasks)
			})

			r.Route("/leave", func(r chi.Router) {
				r.With(middleware.RequireModule(authzSvc, authz.ModuleLeaveRequests, authz.ActionRead)).Get("/types", leaveHandler.HandleListTypes)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAdminPanel, authz.ActionWrite)).Post("/types", leaveHandler.HandleCreateType)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleLeaveRequests, authz.ActionRead)).Get("/requests", leaveHandler.HandleListRequests)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleLeaveRequests, authz.ActionWrite)).Post("/requests/{id}/approve", leaveHandler.HandleApprove)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleLeaveRequests, authz.ActionWrite)).Post("/requests/{id}/reject", leaveHandler.HandleReject)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleLeaveRequests, authz.ActionDelete)).Post("/balances/adjust", leaveHandler.HandleAdjustBalance)
			})

			r.Route("/assets", func(r chi.Router) {
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionRead)).Get("/", assetsHandler.HandleList)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionRead)).Get("/{id}", assetsHandler.HandleGet)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionWrite)).Post("/", assetsHandler.HandleCreate)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionWrite)).Post("/{id}/assign", assetsHandler.HandleAssign)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionWrite)).Post("/{id}/return", assetsHandler.HandleReturn)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleAssets, authz.ActionDelete)).Post("/{id}/retire", assetsHandler.HandleRetire)
			})

			r.Route("/documents", func(r chi.Router) {
				r.With(middleware.RequireModule(authzSvc, authz.ModuleDocuments, authz.ActionWrite)).Post("/", documentsHandler.HandleUpload)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleDocuments, authz.ActionRead)).Get("/{id}", documentsHandler.HandleDownload)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleDocuments, authz.ActionDelete)).Delete("/{id}", documentsHandler.HandleDelete)
			})

			r.Route("/onboarding", func(r chi.Router) {
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionRead)).Get("/templates", onboardingHandler.HandleListTemplates)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionRead)).Get("/templates/{id}", onboardingHandler.HandleGetTemplate)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionWrite)).Post("/templates", onboardingHandler.HandleCreateTemplate)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionWrite)).Post("/start", onboardingHandler.HandleStart)
				r.With(middleware.RequireModule(authzSvc, authz.ModuleOnboarding, authz.ActionWrite)).Put("/tasks/{id}", onboardingHandler.HandleSetTaskStatus)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireModule(authzSvc, authz.ModuleAdminPanel, authz.ActionWrite))
				r.Get("/roles/{role}/permissions", adminHandler.HandleRolePermissions)
				r.Put("/roles/{role}/permissions/{module}", adminHandler.HandleSetPermission)
				r.Delete("/roles/{role}/permissions/{module}", adminHandler.HandleClearPermission)
				r.Get("/users", adminHandler.HandleListUsers)
				r.Put("/users/{id}/role", adminHandler.HandleChangeUserRole)
			})

			r.With(middleware.RequireModule(authzSvc, authz.ModuleAdminPanel, authz.ActionRead)).Get("/audit", auditHandler.HandleList)
		})
	})

	app.Router = router
	return app, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run blocks serving HTTP until the listener fails or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.AppAddr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.AppReadTimeout,
		WriteTimeout: a.Config.AppWriteTimeout,
	}

	a.Jobs.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.AppAddr, "env", a.Config.AppEnv)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
