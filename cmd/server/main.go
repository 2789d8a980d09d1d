package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/storehub/backend/docs"
	appcontact "github.com/storehub/backend/internal/application/contact"
	appidentity "github.com/storehub/backend/internal/application/identity"
	appsetting "github.com/storehub/backend/internal/application/setting"
	apptenancy "github.com/storehub/backend/internal/application/tenancy"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/config"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/persistence"
	"github.com/storehub/backend/internal/infrastructure/storage"
	"github.com/storehub/backend/internal/infrastructure/telemetry"
	"github.com/storehub/backend/internal/interfaces/http/handler"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
	"github.com/storehub/backend/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	maxBodyBytes  = 10 << 20
	authAttempts  = 6
	authWindow    = time.Minute
	shutdownGrace = 30 * time.Second
)

//	@title			StoreHub Backend API
//	@version		1.0
//	@description	Multi-store back office API: accounts, roles, stores, contacts and per-store settings.

//	@contact.name	API Support

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog)
	defer func() { _ = log.Sync() }()

	log.Info("Starting StoreHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	metrics := telemetry.NewMetrics(cfg.Metrics)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
		log.Warn("Database pool metrics unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Token revocation and principal invalidation go through Redis when it is
	// configured so that every instance agrees; otherwise they stay in process.
	subCtx, stopSubscription := context.WithCancel(ctx)
	defer stopSubscription()

	var blacklist auth.TokenBlacklist = auth.NewMemoryTokenBlacklist()
	cacheOpts := []cache.Option{cache.WithLogger(log)}
	var invalidator *cache.RedisInvalidator
	if cfg.Redis.Enabled {
		redisClient, err := auth.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		invalidator = cache.NewRedisInvalidator(redisClient, cache.WithInvalidatorLogger(log))
		cacheOpts = append(cacheOpts, cache.WithPublisher(invalidator))
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled, token revocation is local to this instance")
	}
	principals := cache.NewPrincipalCache(cfg.Cache.PrincipalTTL, cacheOpts...)
	if invalidator != nil {
		go func() {
			if err := invalidator.Subscribe(subCtx, principals.Apply); err != nil {
				log.Error("Principal invalidation subscription stopped", zap.Error(err))
			}
		}()
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	permissionRepo := persistence.NewGormPermissionRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, storeRepo, jwtService, blacklist, principals, log)
	userService := appidentity.NewUserService(userRepo, storeRepo, blacklist, jwtService, principals, log)
	roleService := appidentity.NewRoleService(roleRepo, permissionRepo, principals, log)
	storeService := apptenancy.NewStoreService(storeRepo, userRepo, principals, log)
	membershipService := apptenancy.NewMembershipService(userRepo, storeRepo, principals, log)
	contactService := appcontact.NewService(contactRepo, log)
	settingService := appsetting.NewService(settingRepo, log)

	var avatarHandler *handler.AvatarHandler
	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewS3ObjectStorage(cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := objectStorage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Object storage bucket unavailable", zap.String("bucket", objectStorage.Bucket()), zap.Error(err))
		}
		cancel()
		avatarHandler = handler.NewAvatarHandler(
			appidentity.NewAvatarService(userRepo, storeRepo, objectStorage, principals, log),
		)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(maxBodyBytes),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.HTTPMetrics(metrics),
		middleware.SpanErrorMarker(),
	)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, sqlDB)
	engine.GET("/health", systemHandler.Health)
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	authCfg := middleware.AuthConfig{Authenticator: authService, Metrics: metrics, Logger: log}
	router.RegisterSwagger(engine, middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, middleware.Authenticate(authCfg)))

	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService, membershipService),
		Role:    handler.NewRoleHandler(roleService),
		Store:   handler.NewStoreHandler(storeService),
		Contact: handler.NewContactHandler(contactService),
		Setting: handler.NewSettingHandler(settingService),
		Avatar:  avatarHandler,
	}, router.Middleware{
		Public: []gin.HandlerFunc{
			middleware.RateLimit(middleware.NewRateLimiter(authAttempts, authWindow)),
		},
		Protected: router.ProtectedChain(
			authCfg,
			middleware.StoreContextConfig{Metrics: metrics, Logger: log},
			middleware.RoutePermissionConfig{
				Routes:   router.PermissionTable,
				BasePath: r.BasePath(),
				Metrics:  metrics,
				Logger:   log,
			},
			middleware.TracingAttributeInjector(),
			middleware.Profiling(profiler.IsEnabled()),
		),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopSubscription()
	if invalidator != nil {
		_ = invalidator.Close()
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log exporter shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
