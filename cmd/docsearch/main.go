package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docsearch/docsearch-api/internal/config"
	"github.com/docsearch/docsearch-api/internal/database"
	"github.com/docsearch/docsearch-api/internal/document/handler"
	"github.com/docsearch/docsearch-api/internal/document/repository"
	"github.com/docsearch/docsearch-api/internal/document/service"
	"github.com/docsearch/docsearch-api/internal/oidc"
	"github.com/docsearch/docsearch-api/internal/render"
	"github.com/docsearch/docsearch-api/internal/storage"
	"github.com/docsearch/docsearch-api/internal/tokens"
	"github.com/docsearch/docsearch-api/pkg/logger"
	"github.com/docsearch/docsearch-api/pkg/metrics"
	"github.com/docsearch/docsearch-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoConnectAttempts = 5

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s redis=%v minio=%v keycloak=%v jwt_secret_set=%v",
		cfg.Store.Backend, cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.Keycloak.URL != "", cfg.JWT.Secret != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, mongoClient := openStore(ctx, cfg)
	if mongoClient != nil {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(dctx)
		}()
	}

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
			defer redisClient.Close()
		}
	}

	if redisClient != nil && cfg.Search.CacheTTL > 0 {
		store = repository.NewCachedStore(store, redisClient, cfg.Search.CacheTTL)
		logger.Infof("search cache enabled (ttl=%s)", cfg.Search.CacheTTL)
	}

	svc := service.New(store, cfg.Search.Fields)
	h := handler.New(svc, render.NewRenderer(), nil)
	if cfg.MinIO.Endpoint != "" {
		objects, err := storage.NewMinIOStorage(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			logger.Warnf("render cache disabled: %v", err)
		} else {
			h = handler.New(svc, render.NewRenderer(), storage.NewRenderCache(objects))
			logger.Infof("render cache enabled (bucket=%s)", cfg.MinIO.Bucket)
		}
	}

	verifier := newVerifier(ctx, cfg)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors(), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// 200 only when the document store answers
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"store": svc.Ready(pctx) == nil}
		if cfg.Keycloak.URL != "" || cfg.JWT.Secret != "" {
			deps["auth"] = verifier != nil
		}
		uptime := time.Since(startTime).String()
		for _, ok := range deps {
			if !ok {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	handler.RegisterSwagger(r)

	handler.RegisterDocumentRoutes(r, h, apiMiddleware(cfg, verifier, redisClient)...)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting docsearch api on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// openStore returns the configured document store and, for the mongo
// backend, the client the caller must disconnect.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, *mongo.Client) {
	if cfg.Store.Backend == "memory" {
		if cfg.Store.SeedFile == "" {
			logger.Warnf("memory store without MEMORY_SEED_FILE: every search returns no results")
			return repository.NewMemoryStore(), nil
		}
		mem, err := repository.LoadMemoryStore(cfg.Store.SeedFile)
		if err != nil {
			logger.Fatalf("failed to load memory store: %v", err)
		}
		logger.Infof("memory store loaded from %s", cfg.Store.SeedFile)
		return mem, nil
	}

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.MaxPoolSize, mongoConnectAttempts)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	logger.Infof("connected to MongoDB (db=%s collection=%s)", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	return repository.NewMongoStore(client.Database(cfg.MongoDB.Database), cfg.MongoDB.Collection), client
}

// newVerifier prefers Keycloak OIDC and falls back to a shared HS256 secret.
// A nil result leaves the API unauthenticated.
func newVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err == nil {
			logger.Infof("OIDC verifier enabled for client %s", cfg.Keycloak.ClientID)
			return ver
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWT.Secret != "" {
		ver, err := tokens.NewHMACVerifier(cfg.JWT.Secret)
		if err != nil {
			logger.Warnf("failed to initialize JWT verifier: %v", err)
			return nil
		}
		logger.Infof("HS256 JWT verifier enabled")
		return ver
	}
	return nil
}

// apiMiddleware is the chain in front of the document routes. The limiter
// runs after auth so authenticated callers are keyed by subject, not by IP.
func apiMiddleware(cfg *config.Config, verifier middleware.Verifier, redisClient *redis.Client) []gin.HandlerFunc {
	mw := []gin.HandlerFunc{middleware.Timeout(cfg.Server.RequestTimeout)}
	if verifier != nil {
		mw = append(mw, middleware.AuthMiddleware(verifier))
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			mw = append(mw, middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			mw = append(mw, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	return mw
}

// cors sets permissive headers and answers preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
