package server

import (
	"context"
	"net/http"
	"os"

	cachepackage "salon-booking/cache"
	"salon-booking/config"
	"salon-booking/database"
	"salon-booking/handlers"
	"salon-booking/metrics"
	"salon-booking/services"
	"salon-booking/sessions"
	"salon-booking/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitLogger sets up the process-wide logger
func InitLogger() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
}

// newSessionManager picks the session store and lock from config
func newSessionManager(cfg *config.Config) (*sessions.Manager, func()) {
	var closers []func()

	c := cachepackage.InitializeCache(cfg)
	closers = append(closers, func() { c.Close() })
	backend := sessions.NewCacheBackend(c)

	var locker sessions.Locker
	switch cfg.Session.Lock {
	case "redis":
		rdb := sessions.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err := sessions.Ping(context.Background(), rdb); err != nil {
			logger.Error("Failed to connect to Redis for session locks", zap.Error(err))
			os.Exit(1)
		}
		closers = append(closers, func() { rdb.Close() })
		locker = sessions.NewRedisLocker(rdb, cfg.Session.LockTTL, cfg.App.Name+":lock")
	default:
		locker = sessions.NewLocalLocker()
	}

	logger.Info("Sessions initialized",
		zap.String("store", cfg.Session.Store), zap.String("lock", cfg.Session.Lock), zap.Duration("ttl", cfg.Session.TTL))

	sm := sessions.NewManager(backend, locker, sessions.Options{
		TTL:          cfg.Session.TTL,
		SecureCookie: cfg.Session.SecureCookie,
	})
	return sm, func() {
		for _, c := range closers {
			c()
		}
	}
}

func StartServer(cfg *config.Config) {
	InitLogger()

	logger.Info("Starting Salon Booking Service...", zap.String("env", cfg.App.Environment))

	// Initialize database
	dbConn := database.InitializeDatabase(cfg.Database)
	defer dbConn.Close()

	// Initialize sessions
	sessionManager, closeSessions := newSessionManager(cfg)
	defer closeSessions()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	users := storage.NewUserRepository(dbConn)
	bookings := storage.NewBookingRepository(dbConn)

	creds, err := services.NewCredentialStore(users, services.PasswordCost)
	if err != nil {
		logger.Error("Failed to initialize credential store", zap.Error(err))
		os.Exit(1)
	}
	bookingService := services.NewBookingService(sessionManager, bookings)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(creds, sessionManager, m)
	pageHandler := handlers.NewPageHandler(sessionManager, bookings)
	bookingHandler := handlers.NewBookingHandler(bookingService, sessionManager, bookings, m)

	server := httpserver.New(cfg.Server.Port, handlers.SessionAuth(sessionManager))

	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "salon-booking"}`))
	}))

	if cfg.Server.MetricsEnabled {
		metricsHandler := promhttp.Handler()
		server.Register(httpserver.Route{
			Name:     "Metrics",
			Method:   "GET",
			Path:     "/metrics",
			AuthType: "none",
		}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			metricsHandler.ServeHTTP(w, r)
		}))
	}

	server.Register(httpserver.Route{
		Name:     "Index",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "index", pageHandler.Index)))

	server.Register(httpserver.Route{
		Name:     "RegisterPage",
		Method:   "GET",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "register_page", authHandler.RegisterPage)))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "register", authHandler.Register)))

	server.Register(httpserver.Route{
		Name:     "LoginPage",
		Method:   "GET",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "login_page", authHandler.LoginPage)))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "login", authHandler.Login)))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/logout",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "logout", authHandler.Logout)))

	// Pages below guard themselves and redirect to /login instead of a 401
	server.Register(httpserver.Route{
		Name:     "Dashboard",
		Method:   "GET",
		Path:     "/dashboard",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "dashboard", pageHandler.Dashboard)))

	server.Register(httpserver.Route{
		Name:     "Book",
		Method:   "POST",
		Path:     "/book",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "book", bookingHandler.Book)))

	server.Register(httpserver.Route{
		Name:     "PaymentPage",
		Method:   "GET",
		Path:     "/payment",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "payment_page", bookingHandler.PaymentPage)))

	server.Register(httpserver.Route{
		Name:     "Pay",
		Method:   "POST",
		Path:     "/payment",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "pay", bookingHandler.Pay)))

	server.Register(httpserver.Route{
		Name:     "BookingDetail",
		Method:   "GET",
		Path:     "/bookings/{id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(timed(m, "booking_detail", bookingHandler.BookingDetail)))

	server.Register(httpserver.Route{
		Name:     "ListBookings",
		Method:   "GET",
		Path:     "/api/bookings",
		AuthType: "session",
	}, httpserver.HandlerFunc(timed(m, "api_bookings", bookingHandler.ListBookings)))

	logger.Info("Salon Booking Service started on port " + cfg.Server.Port)
	logger.Info("Health check: GET /health")
	logger.Info("Pages: / /register /login /dashboard /logout /book /payment /bookings/{id}")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
