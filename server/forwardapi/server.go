// Package forwardapi exposes forward-rule management over HTTP.
package forwardapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corvomail/forwardd/logger"
	"github.com/corvomail/forwardd/pkg/metrics"
	"github.com/corvomail/forwardd/rewrite"
)

// DefaultShutdownTimeout bounds graceful shutdown when no timeout is
// configured.
const DefaultShutdownTimeout = 5 * time.Second

// Server represents the HTTP API server
type Server struct {
	addr            string
	apiKey          string
	allowedHosts    []string
	forwards        *rewrite.ForwardService
	server          *http.Server
	shutdownTimeout time.Duration
	tls             bool
	tlsCertFile     string
	tlsKeyFile      string
}

// ServerOptions holds configuration options for the HTTP API server
type ServerOptions struct {
	Addr            string
	APIKey          string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
	TLS             bool
	TLSCertFile     string
	TLSKeyFile      string
}

// New creates a new HTTP API server
func New(forwards *rewrite.ForwardService, options ServerOptions) (*Server, error) {
	if options.APIKey == "" {
		return nil, fmt.Errorf("API key is required for HTTP API server")
	}

	if options.TLS {
		if options.TLSCertFile == "" || options.TLSKeyFile == "" {
			return nil, fmt.Errorf("TLS certificate and key files are required when TLS is enabled")
		}
	}

	shutdownTimeout := options.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		addr:            options.Addr,
		apiKey:          options.APIKey,
		allowedHosts:    options.AllowedHosts,
		forwards:        forwards,
		shutdownTimeout: shutdownTimeout,
		tls:             options.TLS,
		tlsCertFile:     options.TLSCertFile,
		tlsKeyFile:      options.TLSKeyFile,
	}

	return s, nil
}

// Start starts the HTTP API server
func Start(ctx context.Context, forwards *rewrite.ForwardService, options ServerOptions, errChan chan error) {
	server, err := New(forwards, options)
	if err != nil {
		errChan <- fmt.Errorf("failed to create HTTP API server: %w", err)
		return
	}

	protocol := "HTTP"
	if options.TLS {
		protocol = "HTTPS"
	}
	logger.Info("HTTP API: Starting server", "protocol", protocol, "addr", options.Addr)
	if err := server.start(ctx); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		errChan <- fmt.Errorf("HTTP API server failed: %w", err)
	}
}

// start initializes and starts the HTTP server
func (s *Server) start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("HTTP API: Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP API: Error shutting down server", "error", err)
		}
	}()

	if s.tls {
		return s.server.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	}
	return s.server.ListenAndServe()
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Percent-encoded local parts (alice%2F@b.com) must survive routing, so
	// match on the encoded path and decode variables in the handlers.
	router.UseEncodedPath()

	// Add middleware
	router.Use(s.loggingMiddleware)
	router.Use(s.metricsMiddleware)
	router.Use(s.allowedHostsMiddleware)
	router.Use(s.authMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	forwards := router.PathPrefix("/address/forwards").Subrouter()
	forwards.HandleFunc("", s.handleListForwards).Methods("GET")
	forwards.HandleFunc("/{base}", s.handleGetForward).Methods("GET")
	forwards.HandleFunc("/{base}", s.handleMissingDestination).Methods("PUT", "DELETE")
	forwards.HandleFunc("/{base}/targets/{destination}", s.handleAddForward).Methods("PUT")
	forwards.HandleFunc("/{base}/targets/{destination}", s.handleRemoveForward).Methods("DELETE")

	return router
}

// Middleware functions

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.Debug("HTTP API: Request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
		logger.Debug("HTTP API: Request completed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) allowedHostsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.allowedHosts) == 0 {
			// No restrictions, allow all hosts
			next.ServeHTTP(w, r)
			return
		}

		clientIP := getClientIP(r)

		allowed := false
		for _, allowedHost := range s.allowedHosts {
			if allowedHost == clientIP {
				allowed = true
				break
			}
			// Check CIDR blocks
			if strings.Contains(allowedHost, "/") {
				if _, cidr, err := net.ParseCIDR(allowedHost); err == nil {
					if ip := net.ParseIP(clientIP); ip != nil {
						if cidr.Contains(ip) {
							allowed = true
							break
						}
					}
				}
			}
		}

		if !allowed {
			s.writeError(w, http.StatusForbidden, "Host not allowed")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			s.writeError(w, http.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.apiKey)) != 1 {
			s.writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Utility functions

func getClientIP(r *http.Request) string {
	// Try X-Forwarded-For header first (for proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	// Try X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

// pathVar returns the named, percent-decoded route variable. The router
// matches on encoded paths, so decoding happens here; an undecodable value is
// passed through verbatim and left to address validation.
func pathVar(r *http.Request, name string) string {
	value := mux.Vars(r)[name]
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("HTTP API: Error encoding JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
