package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/reugn/go-streams"
	"github.com/reugn/go-streams/flow"
)

const defaultHTTPSourcePath = "/records"

// HTTPSource accepts records over HTTP. A POST body becomes the record
// payload and query parameters become attributes.
type HTTPSource struct {
	ctx    context.Context
	cfg    config.HTTPSourceConfig
	out    chan any
	server *http.Server
}

// NewHTTPSource starts listening on cfg.Addr. With an empty Addr nothing
// listens and records arrive only through Handler.
func NewHTTPSource(ctx context.Context, cfg config.HTTPSourceConfig) (*HTTPSource, error) {
	if cfg.Path == "" {
		cfg.Path = defaultHTTPSourcePath
	}
	source := &HTTPSource{ctx: ctx, cfg: cfg, out: make(chan any)}
	if cfg.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Path, source.Handler())
		source.server = &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go source.listen()
	}
	go source.closeOnDone()
	return source, nil
}

func (s *HTTPSource) listen() {
	slog.Info("http source: listening", "addr", s.cfg.Addr, "path", s.cfg.Path)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http source: server failed", "addr", s.cfg.Addr, "error", err)
	}
}

func (s *HTTPSource) closeOnDone() {
	<-s.ctx.Done()
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http source: shutdown failed", "error", err)
		}
	}
}

func (s *HTTPSource) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		attrs := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				attrs[key] = values[0]
			}
		}

		select {
		case s.out <- records.NewRecord(body, attrs):
			w.WriteHeader(http.StatusAccepted)
		case <-r.Context().Done():
		case <-s.ctx.Done():
			http.Error(w, "source stopped", http.StatusServiceUnavailable)
		}
	})
}

func (s *HTTPSource) Via(operator streams.Flow) streams.Flow {
	flow.DoStream(s, operator)
	return operator
}

func (s *HTTPSource) Out() <-chan any {
	return s.out
}
