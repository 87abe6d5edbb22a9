package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/wshotel/wshotel"
	"github.com/wshotel/wshotel/internal/auth"
	"github.com/wshotel/wshotel/internal/config"
	"github.com/wshotel/wshotel/internal/health"
	"github.com/wshotel/wshotel/internal/logging"
	"github.com/wshotel/wshotel/internal/lounge"
	"github.com/wshotel/wshotel/internal/metrics"
	"github.com/wshotel/wshotel/internal/middleware"
	"github.com/wshotel/wshotel/internal/ratelimit"
	"github.com/wshotel/wshotel/internal/tracing"
)

// tokenValidator is the subset of auth.Validator this server depends on,
// so a development deployment can run with SKIP_AUTH=true and no JWKS.
type tokenValidator interface {
	ValidateToken(tokenString string) (*auth.CustomClaims, error)
}

func main() {
	for _, path := range []string{".env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg, err := config.ValidateEnv()
	if err != nil {
		panic(err)
	}

	if err := logging.Initialize(cfg.GoEnv != "production"); err != nil {
		panic(err)
	}
	ctx := context.Background()

	if cfg.TracingCollectorAddr != "" {
		tp, err := tracing.InitTracer(ctx, "chatserver", cfg.TracingCollectorAddr)
		if err != nil {
			logging.Error(ctx, "tracing disabled: failed to initialize", zap.Error(err))
		} else {
			defer func() { _ = tp.Shutdown(ctx) }()
		}
	}

	var validator tokenValidator
	if !cfg.SkipAuth {
		v, err := auth.NewValidator(ctx, cfg.AuthDomain, cfg.AuthAudience)
		if err != nil {
			logging.Fatal(ctx, "failed to initialize auth validator", zap.Error(err))
		}
		validator = v
	} else {
		logging.Warn(ctx, "SKIP_AUTH=true: using MockValidator, do not use in production")
		validator = &auth.MockValidator{}
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
	}

	limiter, err := ratelimit.NewRateLimiter(cfg, redisClient)
	if err != nil {
		logging.Fatal(ctx, "failed to initialize rate limiter", zap.Error(err))
	}

	healthHandler := health.NewHandler(limiter)

	allowedOrigins := auth.GetAllowedOriginsFromEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	rooms := lounge.NewRegistry(wshotel.WeakRoomRef[*string]{})
	lobbyHandler := lounge.NewLobby(rooms)
	server := wshotel.NewServer[*string](lobbyHandler, nil,
		wshotel.WithCheckOrigin(allowedOriginChecker(allowedOrigins)),
	)
	lobbyHandler.BindSelf(server.Lobby().Downgrade())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(otelgin.Middleware("chatserver"))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	router.Use(cors.New(corsConfig))

	router.GET("/health/live", healthHandler.Liveness)
	router.GET("/health/ready", healthHandler.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", func(c *gin.Context) {
		if !limiter.CheckConnectIP(c) {
			return
		}

		claims, err := validator.ValidateToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if err := limiter.CheckConnectUser(c.Request.Context(), claims.Subject); err != nil {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}

		conn, err := server.Accept(c.Writer, c.Request)
		if err != nil {
			logging.Error(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
			return
		}

		metrics.IncConnection()
		go func() {
			defer metrics.DecConnection()
			conn.Serve()
		}()
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		logging.Info(ctx, "chatserver starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal(ctx, "server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(ctx, "server forced to shutdown", zap.Error(err))
	}
}

// allowedOriginChecker builds a websocket.Upgrader-compatible CheckOrigin
// function from a static allow-list, since gorilla/websocket's default
// same-origin policy doesn't know about the frontend's separate origin.
func allowedOriginChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
