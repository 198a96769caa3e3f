package middleware

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const limiterKeyPrefix = "lingsync_limiter"

// RateLimiterConfig rate limiting settings. Rates use the limiter format, e.g. "1000-M".
type RateLimiterConfig struct {
	Rate          string
	// Identifier is "ip" (default) or "header:<name>"
	Identifier    string
	AddHeaders    bool
	DenyStatus    int
	DenyMessage   string
	PerRouteRates map[string]string
	SkipPaths     []string
	// Store defaults to an in-process memory store
	Store         limiter.Store
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:        "1000-M",
		Identifier:  "ip",
		AddHeaders:  true,
		DenyStatus:  http.StatusTooManyRequests,
		DenyMessage: "Requests too frequent, please try again later",
		SkipPaths:   []string{"/health", "/metrics"},
	}
}

type routeLimiter struct {
	prefix  string
	limiter *limiter.Limiter
}

// RateLimiterMiddleware builds an in-memory limiter. The longest matching PerRouteRates prefix
// wins over the default rate; each route keeps its own counters.
func RateLimiterMiddleware(cfg RateLimiterConfig) (gin.HandlerFunc, error) {
	if cfg.Rate == "" {
		cfg.Rate = DefaultRateLimiterConfig().Rate
	}
	if cfg.DenyStatus == 0 {
		cfg.DenyStatus = http.StatusTooManyRequests
	}
	if cfg.DenyMessage == "" {
		cfg.DenyMessage = DefaultRateLimiterConfig().DenyMessage
	}

	store := cfg.Store
	if store == nil {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterKeyPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, err
	}
	defaultLimiter := limiter.New(store, rate)

	routes := make([]routeLimiter, 0, len(cfg.PerRouteRates))
	for prefix, formatted := range cfg.PerRouteRates {
		r, err := limiter.NewRateFromFormatted(formatted)
		if err != nil {
			return nil, err
		}
		routes = append(routes, routeLimiter{prefix: prefix, limiter: limiter.New(store, r)})
	}
	sort.Slice(routes, func(i, j int) bool { return len(routes[i].prefix) > len(routes[j].prefix) })

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		lim, scope := defaultLimiter, "*"
		for _, route := range routes {
			if strings.HasPrefix(path, route.prefix) {
				lim, scope = route.limiter, route.prefix
				break
			}
		}

		key := scope + "|" + identify(c, cfg.Identifier)
		result, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if cfg.AddHeaders {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset, 10))
		}

		if result.Reached {
			response.Fail(c, cfg.DenyStatus, cfg.DenyMessage, nil)
			return
		}
		c.Next()
	}, nil
}

// NewRedisStore shares limiter counters across instances through redis
func NewRedisStore(addr, password string, db int) (limiter.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   limiterKeyPrefix,
		MaxRetry: limiter.DefaultMaxRetry,
	})
}

func identify(c *gin.Context, identifier string) string {
	if name, ok := strings.CutPrefix(identifier, "header:"); ok {
		if v := c.GetHeader(name); v != "" {
			return v
		}
	}
	return c.ClientIP()
}
