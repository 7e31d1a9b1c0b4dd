package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
	"github.com/Spok95/obraz-stock/internal/infra/metrics"
)

// Store — операции склада, которые нужны API.
type Store interface {
	List(ctx context.Context) []materials.Material
	ListTypes(ctx context.Context) []materials.Type
	UsedIn(ctx context.Context, materialID int64) []materials.Usage
	Add(ctx context.Context, in materials.Input) (int64, error)
	Update(ctx context.Context, id int64, in materials.Input) error
	Delete(ctx context.Context, id int64) error
}

type Handlers struct {
	store Store
	log   *slog.Logger
}

// NewRouter возвращает chi-роутер API склада.
func NewRouter(store Store, log *slog.Logger) http.Handler {
	h := &Handlers{store: store, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/material-types", h.listTypes)

		r.Get("/materials", h.listMaterials)
		r.Post("/materials", h.createMaterial)
		r.Get("/materials/export.xlsx", h.exportMaterials)
		r.Put("/materials/{id}", h.updateMaterial)
		r.Delete("/materials/{id}", h.deleteMaterial)
		r.Get("/materials/{id}/usage", h.materialUsage)
		r.Get("/materials/{id}/usage.xlsx", h.exportUsage)
	})
	return r
}

const requestIDHeader = "X-Request-ID"

// requestLog проставляет X-Request-ID, пишет строку лога и метрику на каждый запрос.
func (h *Handlers) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		h.log.Info("http request",
			"request_id", reqID,
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(started),
		)
	})
}
