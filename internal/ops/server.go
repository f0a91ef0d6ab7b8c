package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves /health, /status and /metrics.
type Server struct {
	server  *http.Server
	monitor *Monitor
	logger  *zap.Logger
}

func NewServer(addr string, monitor *Monitor, logger *zap.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		monitor: monitor,
		logger:  logger,
	}

	router.Use(s.loggingMiddleware)

	router.HandleFunc("/health", s.health).Methods("GET")
	router.HandleFunc("/status", s.status).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting ops server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down ops server")
	return s.server.Shutdown(ctx)
}

// responseWriter tracks status code and size for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", r.RemoteAddr),
			zap.Int("status", rw.statusCode),
			zap.Int("response_size", rw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if !s.monitor.Healthy() {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.monitor.Status()); err != nil {
		s.logger.Error("Failed to encode status response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
