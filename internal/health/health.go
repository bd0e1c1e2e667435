// Package health exposes the jukebox's liveness, readiness and playback
// status over HTTP, and the standard gRPC health service.
//
// Both servers are optional and only started when server.enabled is set.
// They serve readiness once the dispatcher is running and report
// NOT_SERVING while shutting down.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/nadzzz/jukebox/docs" // registers the OpenAPI description
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/player"
)

// ServiceName is the gRPC health service name reported for the dispatcher.
const ServiceName = "jukebox"

// StatusSource reports the current playback state.
type StatusSource interface {
	Snapshot() player.Snapshot
}

// Server serves /healthz, /readyz, /status and the gRPC health service.
type Server struct {
	port     int
	grpcPort int
	ready    atomic.Bool
	status   StatusSource
	server   *http.Server
	grpc     *grpchealth.Server
}

// New creates a health server. status may be nil, in which case /status
// reports an idle player.
func New(cfg config.ServerConfig, status StatusSource) *Server {
	s := &Server{
		port:     cfg.HealthPort,
		grpcPort: cfg.GRPCPort,
		status:   status,
		grpc:     grpchealth.NewServer(),
	}
	s.setServing(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetReady marks the jukebox as ready and updates the gRPC serving status.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
	if ready {
		s.setServing(healthpb.HealthCheckResponse_SERVING)
	} else {
		s.setServing(healthpb.HealthCheckResponse_NOT_SERVING)
	}
}

func (s *Server) setServing(st healthpb.HealthCheckResponse_ServingStatus) {
	s.grpc.SetServingStatus("", st)
	s.grpc.SetServingStatus(ServiceName, st)
}

type statusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return mux
}

// handleHealthz reports liveness.
//
// @Summary     Liveness probe
// @Tags        health
// @Produce     json
// @Success     200  {object}  statusResponse
// @Router      /healthz [get]
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleReadyz reports whether the dispatcher loop is running.
//
// @Summary     Readiness probe
// @Tags        health
// @Produce     json
// @Success     200  {object}  statusResponse
// @Failure     503  {object}  statusResponse
// @Router      /readyz [get]
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleStatus reports the playback flags.
//
// @Summary     Playback status
// @Description Whether a song or custom song is currently loading or playing.
// @Tags        player
// @Produce     json
// @Success     200  {object}  player.Snapshot
// @Router      /status [get]
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	var snap player.Snapshot
	if s.status != nil {
		snap = s.status.Snapshot()
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe starts the HTTP server. It blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

// ListenAndServeGRPC starts the gRPC health service on the configured port.
// It blocks until ctx is cancelled.
func (s *Server) ListenAndServeGRPC(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.grpcPort))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	slog.Info("grpc health listening", "port", s.grpcPort)
	return s.serveGRPC(ctx, lis)
}

func (s *Server) serveGRPC(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.grpc)

	go func() {
		<-ctx.Done()
		slog.Info("grpc health shutting down")
		s.grpc.Shutdown()
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc health serve: %w", err)
	}
	return nil
}
