// Package server is the headless HTTP surface: the body catalog, exported
// scenes per date, health and Prometheus metrics.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/observability"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/version"
)

// Server answers scene requests from an ephemeris source.
type Server struct {
	src     ephem.Source
	metrics *observability.Collector
	log     *logging.Logger
	router  *mux.Router
	now     func() time.Time
}

// New builds a server. metrics and log may be nil.
func New(src ephem.Source, metrics *observability.Collector, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		src:     src,
		metrics: metrics,
		log:     log,
		now:     astro.Today,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.metricsMiddleware)

	router.HandleFunc("/healthz", s.getHealth).Methods(http.MethodGet)
	router.HandleFunc("/planets", s.getPlanets).Methods(http.MethodGet)
	router.HandleFunc("/scene", s.getScene).Methods(http.MethodGet)
	router.HandleFunc("/scene/{date}", s.getScene).Methods(http.MethodGet)
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	return router
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getHealth(w http.ResponseWriter, req *http.Request) {
	s.write(w, req, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) getPlanets(w http.ResponseWriter, req *http.Request) {
	names, err := s.src.Planets(req.Context())
	if err != nil {
		s.log.Error("planets: %v", err)
		s.fail(w, req, http.StatusBadGateway, "error fetching planets")
		return
	}
	s.write(w, req, http.StatusOK, map[string][]string{"planets": names})
}

func (s *Server) getScene(w http.ResponseWriter, req *http.Request) {
	date := s.now()
	if raw, ok := mux.Vars(req)["date"]; ok {
		d, err := astro.ParseDate(raw)
		if err != nil {
			s.fail(w, req, http.StatusBadRequest, "invalid date, want yyyy-MM-dd")
			return
		}
		date = d
	}

	obs, err := s.src.Positions(req.Context(), date)
	if err != nil {
		s.log.Error("positions %s: %v", astro.FormatDate(date), err)
		s.fail(w, req, http.StatusBadGateway, "error fetching positions")
		return
	}

	sc := scene.New()
	sc.Rebuild(obs)
	s.metrics.SetSceneMeshes(sc.Len())

	s.write(w, req, http.StatusOK, scene.ExportScene(sc, scene.DefaultCamera(), astro.FormatDate(date)))
}

func (s *Server) fail(w http.ResponseWriter, req *http.Request, code int, msg string) {
	s.write(w, req, code, map[string]string{"error": msg})
}

// write encodes data as JSON, or MessagePack when format=msgpack is given.
// Encoding happens before the status line so a failure can still be
// reported as a 500.
func (s *Server) write(w http.ResponseWriter, req *http.Request, code int, data any) {
	var (
		body        []byte
		err         error
		contentType string
	)
	if req.URL.Query().Get("format") == "msgpack" {
		body, err = encodeMsgPack(data)
		contentType = "application/msgpack"
	} else {
		body, err = json.Marshal(data)
		contentType = "application/json"
	}
	if err != nil {
		s.log.Error("encode response for %s: %v", req.URL.Path, err)
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	w.Write(body)
}

func encodeMsgPack(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)

		route := req.URL.Path
		if r := mux.CurrentRoute(req); r != nil {
			if tmpl, err := r.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.ObserveHTTP(route, rec.code)
		s.log.Debug("%s %s %d %s", req.Method, req.URL.Path, rec.code, time.Since(start))
	})
}
