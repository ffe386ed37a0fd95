package reminder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/service/reminder"
)

// Service abstracts the engine operations the HTTP layer depends on.
type Service interface {
	CreateAlarm(ctx context.Context, req reminder.CreateRequest) (*domain.Alarm, error)
	GetPersonalAlarms(ctx context.Context, patientID int64) ([]*domain.Alarm, error)
	GetAlarmByID(ctx context.Context, alarmID, patientID int64) (*domain.Alarm, error)
	UpdateAlarm(ctx context.Context, alarmID, patientID int64, patch domain.Patch) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, alarmID, patientID int64) (bool, error)
	ToggleAlarmStatus(ctx context.Context, alarmID int64, isActive bool, patientID int64) (bool, error)
	ProcessDueAlarms(ctx context.Context) reminder.SweepReport
}

// NewRouter builds the HTTP handler. A nil gatherer serves the default registry.
func NewRouter(service Service, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &handler{service: service}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Post("/api/sweeps", h.sweep)

	r.Route("/api/medication-alarms", func(r chi.Router) {
		r.Use(requirePatient)

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{alarmID}", h.get)
		r.Patch("/{alarmID}", h.update)
		r.Delete("/{alarmID}", h.remove)
		r.Put("/{alarmID}/status", h.toggle)
	})

	return r
}
