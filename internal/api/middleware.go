package api

import (
	"net/http"
	"time"

	"github.com/everyonewrite/writeguide/internal/logger"
)

// Auth travels in the Authorization header, not cookies, so the wildcard
// origin needs no Access-Control-Allow-Credentials (browsers reject that
// combination anyway).
const (
	corsAllowOrigin  = "Access-Control-Allow-Origin"
	corsAllowMethods = "Access-Control-Allow-Methods"
	corsAllowHeaders = "Access-Control-Allow-Headers"
	allowedOrigin    = "*"
	allowedMethods   = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders   = "Content-Type, Authorization"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Log.Info("request",
			"method", r.Method,
			"path", r.RequestURI,
			"duration", time.Since(start).String(),
		)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Log.Error("panic", "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error", "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(corsAllowOrigin, allowedOrigin)
		w.Header().Set(corsAllowMethods, allowedMethods)
		w.Header().Set(corsAllowHeaders, allowedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
