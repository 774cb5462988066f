package web

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/nao1215/deepresearch/internal/app"
	drlog "github.com/nao1215/deepresearch/internal/log"
)

// Name is the service name reported to kratos.
const Name = "deepresearch"

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr    string
	Timeout time.Duration
}

// NewHTTPServer builds the kratos HTTP server serving ctrl.
func NewHTTPServer(c ServerConfig, ctrl *app.Controller, logger *slog.Logger, opts ...HandlerOption) *http.Server {
	klogger := drlog.NewKratosLogger(logger)

	var serverOpts = []http.ServerOption{
		http.Filter(
			middlewareFilter(recovery.Recovery()),
			middlewareFilter(logging.Server(klogger)),
		),
	}
	if c.Addr != "" {
		serverOpts = append(serverOpts, http.Address(c.Addr))
	}
	if c.Timeout > 0 {
		serverOpts = append(serverOpts, http.Timeout(c.Timeout))
	}

	srv := http.NewServer(serverOpts...)
	srv.HandlePrefix("/", NewHandler(ctrl, append([]HandlerOption{WithLogger(logger)}, opts...)...))
	return srv
}

// NewApp wraps srv in a kratos application. The application stops when ctx
// is cancelled or on SIGINT/SIGTERM.
func NewApp(ctx context.Context, srv *http.Server, version string, logger *slog.Logger) *kratos.App {
	return kratos.New(
		kratos.Context(ctx),
		kratos.Name(Name),
		kratos.Version(version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(drlog.NewKratosLogger(logger)),
		kratos.Server(srv),
	)
}

// middlewareFilter runs a kratos middleware around a plain net/http handler,
// so recovery and access logging also cover routes that are not generated
// from protobuf definitions.
func middlewareFilter(m middleware.Middleware) http.FilterFunc {
	return func(next nethttp.Handler) nethttp.Handler {
		return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			h := m(func(ctx context.Context, _ any) (any, error) {
				next.ServeHTTP(rec, r.WithContext(ctx))
				return nil, nil
			})
			if _, err := h(r.Context(), r); err != nil && !rec.wrote {
				writeJSON(w, nethttp.StatusInternalServerError, errorBody{Error: "internal server error"})
			}
		})
	}
}

type statusRecorder struct {
	nethttp.ResponseWriter
	wrote bool
}

func (s *statusRecorder) WriteHeader(code int) {
	s.wrote = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}
