package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"salon-booking-backend/internal/config"
	"salon-booking-backend/internal/handlers"
	"salon-booking-backend/internal/middleware"
	"salon-booking-backend/internal/repository"
	"salon-booking-backend/internal/services"
	"salon-booking-backend/internal/sessions"
	"salon-booking-backend/internal/storage"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level, cfg.Server.Env)

	if cfg.Tracing.Enabled {
		setupTracing()
	}

	ctx := context.Background()

	// Open stores
	store, pinger, closeStore, err := openReservationStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open reservation store")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Database.Driver).Msg("Reservation store ready")

	attachments, uploadDir, err := openAttachmentStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open attachment store")
	}

	// Initialize services
	adminService, err := services.NewAdminService(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin service")
	}
	reservationService := services.NewReservationService(store, attachments, cfg.Upload.MaxPhotoBytes)

	sessionStore := sessions.NewStore(cfg.Session.TTL)
	sweeper, err := sessionStore.StartSweeper(cfg.Session.SweepInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start session sweeper")
	}
	sessionManager := sessions.NewManager(sessionStore, sessions.NewCodec(cfg.Session.Secret), sessions.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	})

	// Initialize handlers and router
	r := newRouter(routes{
		reservations: handlers.NewReservationHandler(reservationService, cfg.Upload.MaxPhotoBytes),
		admin:        handlers.NewAdminHandler(adminService, sessionManager),
		health:       handlers.NewHealthHandler(pinger),
		sessions:     sessionManager,
		uploadDir:    uploadDir,
		uploadPath:   cfg.Storage.PublicPath,
	})

	var handler http.Handler = r
	if cfg.Tracing.Enabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer(cfg.Tracing.Name), r)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-sweeper.Stop().Done()

	log.Info().Msg("Server exited")
}

// routes bundles what the router serves
type routes struct {
	reservations *handlers.ReservationHandler
	admin        *handlers.AdminHandler
	health       *handlers.HealthHandler
	sessions     middleware.SessionLoader
	uploadDir    string // empty when attachments are not on local disk
	uploadPath   string
}

func newRouter(rt routes) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", rt.health.Health)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/reservations", rt.reservations.CreateReservation)
		r.Post("/admin/login", rt.admin.Login)
		r.Post("/admin/logout", rt.admin.Logout)
		r.Get("/admin/session", rt.admin.Session)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(rt.sessions))
			r.Get("/reservations", rt.reservations.ListReservations)
		})
	})

	if rt.uploadDir != "" {
		prefix := strings.TrimSuffix(rt.uploadPath, "/")
		files := http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(rt.uploadDir))))
		r.Handle(prefix+"/*", gorillaHandlers.CORS(
			gorillaHandlers.AllowedOrigins([]string{"*"}),
			gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodHead}),
		)(files))
	}

	return r
}

// noDirListing hides directory indexes of the upload dir
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// openReservationStore opens the configured reservation store. The returned
// close func is always safe to call.
func openReservationStore(ctx context.Context, cfg config.DatabaseConfig) (services.ReservationStore, handlers.Pinger, func(), error) {
	switch cfg.Driver {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		poolCfg.MaxConns = 20
		poolCfg.MinConns = 2
		poolCfg.MaxConnLifetime = 30 * time.Minute
		poolCfg.MaxConnIdleTime = 5 * time.Minute

		db, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		repo := repository.NewReservationRepository(db)
		return repo, repo, db.Close, nil

	case "sqlite":
		repo, err := repository.NewSQLiteReservationRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return repo, repo, func() { repo.Close() }, nil

	case "memory":
		log.Warn().Msg("Using in-memory reservation store; data is lost on restart")
		return repository.NewMemoryReservationRepository(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openAttachmentStore opens the configured photo store. uploadDir is set only
// for the local driver, whose files this process serves itself.
func openAttachmentStore(ctx context.Context, cfg *config.Config) (services.AttachmentStore, string, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:        cfg.AWS.Region,
			Bucket:        cfg.AWS.S3Bucket,
			AccessKey:     cfg.AWS.AccessKey,
			SecretKey:     cfg.AWS.SecretKey,
			Endpoint:      cfg.AWS.Endpoint,
			PublicBaseURL: cfg.AWS.PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil

	default:
		local, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	}
}

// setupLogger configures zerolog logger
func setupLogger(level, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// setupTracing points the X-Ray recorder at the local daemon
func setupTracing() {
	if err := xray.Configure(xray.Config{
		DaemonAddr:     "127.0.0.1:2000",
		ServiceVersion: "1.0.0",
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to configure X-Ray, using defaults")
		if err := xray.Configure(xray.Config{}); err != nil {
			log.Error().Err(err).Msg("Failed to configure default X-Ray settings")
		}
	}
	os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
}
