package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shipping/estimator/internal/domain"
	"shipping/estimator/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const maxRequestBytes = 1 << 20

// Estimator is the estimation pipeline the handler drives.
type Estimator interface {
	Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimationResult, error)
}

// Info describes the running service for the index and health endpoints.
type Info struct {
	Model   string
	Port    int
	Version string
}

type Handler struct {
	estimator Estimator
	info      Info
}

func NewHandler(estimator Estimator, info Info) *Handler {
	return &Handler{estimator: estimator, info: info}
}

// NewRouter wires the estimation endpoints and middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(recoverJSON)

	r.Get("/", h.Index)
	r.Get("/health", h.Health)
	r.Post("/predict", h.Predict)

	return r
}

// Predict handles POST /predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := decodeEstimateRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A client disconnect must not abort an in-flight predictor call.
	result, err := h.estimator.Estimate(context.WithoutCancel(r.Context()), req)
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) && derr.Kind == domain.KindInput {
			writeError(w, http.StatusBadRequest, derr.Error())
			return
		}
		log.WithField("request_id", chimiddleware.GetReqID(r.Context())).Errorf("❌ Estimation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, service.Normalize(result))
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"model":  h.info.Model,
	})
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Weight/Volume Prediction API",
		"version": h.info.Version,
		"port":    h.info.Port,
		"endpoints": map[string]string{
			"POST /predict": "Predict weight and volume",
			"GET /health":   "Health check",
		},
	})
}

// writeJSON encodes v before any header is sent, so an unencodable value
// becomes a 500 instead of an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("❌ Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
