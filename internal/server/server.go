package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"vetclinic/internal/config"
	custommiddleware "vetclinic/internal/middleware"
	"vetclinic/internal/repository"
	"vetclinic/internal/service"
	"vetclinic/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *goredis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis client for rate limiting
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	diagnosisRepo := repository.NewAnimalDiagnosisRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	saleService := service.NewSaleService(medicineRepo, saleRepo, logger)
	reportService := service.NewReportService(
		medicineRepo, saleRepo, animalRepo, appointmentRepo, contactRepo, userRepo,
	)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	medicineHandler := transport.NewMedicineHandler(medicineRepo, reportService, logger)
	saleHandler := transport.NewSaleHandler(saleService, reportService, logger)
	animalHandler := transport.NewAnimalHandler(animalRepo, logger)
	diagnosisHandler := transport.NewAnimalDiagnosisHandler(diagnosisRepo, logger)
	appointmentHandler := transport.NewAppointmentHandler(appointmentRepo, logger)
	contactHandler := transport.NewContactHandler(contactRepo, logger)

	// Middleware for protected and admin routes
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Rate limit the credential endpoints
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)

	// Register routes
	router.Route("/api", func(r chi.Router) {
		userHandler.RegisterRoutes(r, authMiddleware, adminMiddleware, authRateLimit)

		contactHandler.RegisterRoutes(r, authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			medicineHandler.RegisterRoutes(r)
			saleHandler.RegisterRoutes(r)
			animalHandler.RegisterRoutes(r)
			diagnosisHandler.RegisterRoutes(r)
			appointmentHandler.RegisterRoutes(r)
		})
	})

	var handler http.Handler = router
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(router, "vetclinic-api")
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      handler,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
