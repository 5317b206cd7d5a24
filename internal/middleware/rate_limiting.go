package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/pkg"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per minute per client IP for the given router.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("rate:%s:%s", routerName, pkg.ReadUserIP(r))
			res, err := rateLimiter.Allow(r.Context(), key, redis_rate.PerMinute(allowedPerMin))
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", key, err)
				pkg.WriteJSONError(w, "internal error", http.StatusInternalServerError)
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}

			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			pkg.WriteJSONError(
				w,
				fmt.Sprintf("too many requests, retry after %d seconds", retryAfter),
				http.StatusTooManyRequests,
			)
		})
	}
}
