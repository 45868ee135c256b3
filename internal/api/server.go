package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/livp123/vrcpresence/internal/logengine"
	"github.com/livp123/vrcpresence/internal/utils/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Presence is the read side of the engine served over HTTP.
// Presence 是通过 HTTP 提供的引擎只读视图。
type Presence interface {
	Snapshot() logengine.Snapshot
	Status() logengine.Status
	Lookup(identifier string) (logengine.Record, bool)
}

// Server is the local status API.
// Server 是本地状态 API。
type Server struct {
	presence Presence
	port     int
	log      *zap.SugaredLogger
	srv      *http.Server
}

// NewServer creates a new status API server.
// NewServer 创建状态 API 服务器。
func NewServer(presence Presence, port int, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Named(nil, "api")
	}
	s := &Server{
		presence: presence,
		port:     port,
		log:      log,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router with every route registered.
// Handler 返回注册了所有路由的路由器。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/users", s.handleUsers)
		r.Get("/users/{identifier}", s.handleUser)
	})
	return r
}

// Start serves until Shutdown is called. It blocks.
// Start 持续提供服务直到调用 Shutdown，该方法会阻塞。
func (s *Server) Start() error {
	s.log.Infof("🚀 Status API starting on http://%s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status API failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
// Shutdown 优雅地停止服务器。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
