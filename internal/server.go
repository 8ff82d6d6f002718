package internal

import (
	"embed"
	"net/http"

	"asset-tracking-api/internal/config"
	"asset-tracking-api/internal/logger"
	"asset-tracking-api/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

//go:embed openapi
var openapiFS embed.FS

type Server struct {
	Store   *store.Store
	Router  *chi.Mux
	Metrics *Metrics
	Log     *logger.Logger
	cfg     *config.Config
}

// NewServer wires the router for the configured data model. The store must
// already be migrated.
func NewServer(cfg *config.Config, st *store.Store, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		Store:   st,
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
		Log:     log,
		cfg:     cfg,
	}

	// chi requires every middleware before the first route
	s.Router.Use(requestID)
	s.Router.Use(requestLogger(s.Log))
	s.Router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Public routes
	s.Router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Asset Tracking API is running"})
	})
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	if cfg.EnableMetrics {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}
	s.mountDocs(s.Router)

	s.Router.Route("/api", func(r chi.Router) {
		r.Use(s.withConn)

		switch cfg.DataModel {
		case config.DataModelEntries:
			s.mountEntryRoutes(r)
		default:
			s.mountRecordRoutes(r)
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// withConn gives each API request its own database connection, released
// when the handler returns
func (s *Server) withConn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, ctx, err := store.Acquire(r.Context(), s.Store.DB())
		if err != nil {
			s.Log.Error("db acquire failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
			writeError(w, http.StatusInternalServerError, codeInternal, "db acquire: "+err.Error())
			return
		}
		defer conn.Close()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) mountRecordRoutes(r chi.Router) {
	r.Get("/assets", s.listAssets)
	r.Post("/assets", s.createAsset)
	r.Get("/assets/export", s.exportAssets)
	r.Post("/assets/import", s.importAssets)
	r.Get("/assets/{id}", s.getAsset)
	r.Put("/assets/{id}", s.updateAsset)
	r.Delete("/assets/{id}", s.deleteAsset)
}

func (s *Server) mountEntryRoutes(r chi.Router) {
	r.Post("/entries", s.createEntry)
	r.Get("/assets", s.listAssetGroups)
	r.Get("/assets/export", s.exportEntries)
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	if !s.cfg.EnableSwagger {
		return
	}

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Asset Tracking API - Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
    <style>
        body { margin: 0; background: #f7f7f7; }
        .swagger-ui .topbar { display: none; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`))
	})
}
