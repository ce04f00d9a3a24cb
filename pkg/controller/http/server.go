package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/BrianJenney/brian-clone/pkg/agent"
	"github.com/BrianJenney/brian-clone/pkg/usecase"
	"github.com/BrianJenney/brian-clone/pkg/utils/errutil"
	"github.com/BrianJenney/brian-clone/pkg/utils/logging"
	"github.com/BrianJenney/brian-clone/pkg/utils/safe"
)

type Server struct {
	router     *chi.Mux
	uc         *usecase.UseCases
	registry   *agent.Registry
	authSecret []byte
}

type Options func(*Server)

// WithAuthSecret enables session-cookie authentication on the API routes
func WithAuthSecret(secret []byte) Options {
	return func(s *Server) {
		s.authSecret = secret
	}
}

func New(uc *usecase.UseCases, registry *agent.Registry, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		if len(s.authSecret) > 0 {
			r.Use(sessionAuth(s.authSecret))
		}
		r.Post("/chat", chatHandler(s.uc))
		r.Get("/agents", agentsHandler(s.registry))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs one line per HTTP request
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// agentsHandler serves the static agent catalog
func agentsHandler(registry *agent.Registry) http.HandlerFunc {
	type agentResponse struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
	}
	type response struct {
		Agents []agentResponse `json:"agents"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		defs := registry.All()
		resp := response{
			Agents: make([]agentResponse, len(defs)),
		}
		for i, def := range defs {
			resp.Agents[i] = agentResponse{
				Name:        def.Name.String(),
				DisplayName: def.DisplayName,
				Description: def.Description,
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal agents response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		safe.Write(r.Context(), w, data)
	}
}
