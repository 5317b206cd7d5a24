package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/gymstats/stats"
	"github.com/2beens/liftlog/internal/gymstats/templates"
	"github.com/2beens/liftlog/internal/gymstats/workouts"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/misc"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/users"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
	OtelServiceName         string
	RunMigrations           bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.RunMigrations {
		if err := db.RunMigrations(dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("liftlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	serviceName := params.OtelServiceName
	if serviceName == "" {
		serviceName = "liftlog-backend"
	}
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  auth.NewService(params.Config.SessionTTL.Duration, rdb),
		loginChecker: auth.NewLoginChecker(rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	usersRepo := users.NewRepo(s.dbPool)
	exercisesRepo := exercises.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)
	catalog := exercises.NewCatalog(exercisesRepo, s.config.ExerciseCacheSizeMB, s.metricsManager)

	misc.NewHandler(s.versionInfo).SetupRoutes(r)

	usersHandler := users.NewHandler(
		users.NewService(usersRepo, s.authService, s.metricsManager),
	)
	usersHandler.SetupRoutes(
		r,
		redis_rate.NewLimiter(s.redisClient),
		s.metricsManager,
		s.config.LoginRateLimitAllowedPerMin,
	)

	exercisesHandler := exercises.NewHandler(
		exercises.NewService(exercisesRepo, usersRepo, s.metricsManager),
	)
	exercisesHandler.SetupRoutes(r)

	workoutsHandler := workouts.NewHandler(
		workouts.NewService(workoutsRepo, catalog, s.metricsManager),
	)
	workoutsHandler.SetupRoutes(r)

	templatesHandler := templates.NewHandler(
		templates.NewService(templates.NewRepo(s.dbPool), catalog, usersRepo, s.metricsManager),
	)
	templatesHandler.SetupRoutes(r)

	statsHandler := stats.NewHandler(
		stats.NewService(workoutsRepo, catalog, s.metricsManager, s.config.StatsDefaultWeeks),
	)
	statsHandler.SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.DefaultMaxBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	// stop taking requests first, storage clients are closed after in-flight ones finish
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
