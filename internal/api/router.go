package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"car-rental-backend/config"
	"car-rental-backend/internal/mw"
)

// RouterOptions carries the middleware dependencies of the router.
type RouterOptions struct {
	Server config.ServerConfig
	// Responses is the GET response cache, shared with the booking feed.
	Responses *cache.Cache
	// Redis, when set, backs a rate limit shared between instances.
	Redis  redis.Scripter
	Logger *zap.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(mw.RequestID(), mw.AccessLog(logger), mw.Recovery(logger))

	r.GET("/healthz", handler.Healthz)
	r.GET("/readyz", handler.Readyz)

	var rateLimiter gin.HandlerFunc
	if opts.Redis != nil {
		limiter := mw.NewRedisRateLimiter(opts.Redis, opts.Server.RedisLimitPerMinute, time.Minute, "rental:rl")
		rateLimiter = limiter.Middleware(opts.Server.RequestIPHeader, opts.Server.RedisFailOpen, logger)
	} else {
		rateLimiter = mw.RateLimiter(rate.Limit(opts.Server.RateLimitPerSec), opts.Server.RateLimitBurst,
			opts.Server.RequestIPHeader, logger)
	}

	responses := opts.Responses
	if responses == nil {
		responses = cache.New(opts.Server.CacheTTL, 2*opts.Server.CacheTTL)
	}
	caching := mw.Cache(responses, opts.Server.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/vehicles", caching, handler.GetVehicles)
		api.GET("/vehicles/:vehicle_id", caching, handler.GetVehicle)
		api.GET("/vehicles/:vehicle_id/availability", caching, handler.GetVehicleAvailability)
		api.GET("/availability", caching, handler.GetFleetAvailability)
		api.GET("/calendar/booked-dates", caching, handler.GetBookedDates)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
