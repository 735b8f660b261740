package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}).Info("HTTP request")
	})
}

// recoveryMiddleware recovers from panics and returns 500 error
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithFields(logrus.Fields{
					"error": err,
					"stack": string(debug.Stack()),
					"path":  r.URL.Path,
				}).Error("Panic recovered in HTTP handler")

				writeErrorResponse(w, s.logger, "Internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authenticationMiddleware requires a valid HMAC-signed bearer token when a
// JWT secret is configured
func (s *Server) authenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.JWTSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := s.validateJWTAuth(r); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			}).Warn("Authentication failed")
			writeErrorResponse(w, s.logger, "Authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateJWTAuth validates the bearer token of the request. Browsers cannot
// set headers on websocket upgrades, so the token may also come from the
// access_token query parameter.
func (s *Server) validateJWTAuth(r *http.Request) error {
	tokenString := ""

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	} else {
		tokenString = r.URL.Query().Get("access_token")
	}

	if tokenString == "" {
		return fmt.Errorf("missing bearer token")
	}

	// Parse verifies exp and nbf when present
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	return nil
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the logging middleware
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		rw.statusCode = http.StatusSwitchingProtocols
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("ResponseWriter does not support hijacking")
}
