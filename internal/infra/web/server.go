package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MyAirVault/BruhMCP-sub002/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the local admin/debug listener: health, prometheus metrics, and
// the landing page the payment gateway redirects the browser back to. The
// landing page is informational only; the poller decides the outcome.
type Server struct {
	port int
	log  *zerolog.Logger
	srv  *http.Server
}

func NewServer(port int, log *zerolog.Logger) *Server {
	return &Server{port: port, log: log}
}

// Start runs the listener until ctx is cancelled. A port of 0 disables the
// server entirely.
func (s *Server) Start(ctx context.Context) error {
	if s.port == 0 {
		return nil
	}
	metrics.MustRegister()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/checkout/return", s.handleCheckoutReturn)

	s.srv = &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", s.port), Handler: r}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutCtx)
	}()

	s.log.Info().Int("port", s.port).Msg("admin server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleCheckoutReturn(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	msg := "Payment submitted. You can close this tab and return to the console; it is verifying the payment now."
	if status == "cancelled" {
		msg = "Payment cancelled. You can close this tab and return to the console."
	}
	fmt.Fprintf(w, "<!doctype html><html><body><h3>MCP</h3><p>%s</p></body></html>", msg)
}
