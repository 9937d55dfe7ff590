// Package api - Thin, stateless HTTP layer over the evaluation engine.
// The API is ONLY responsible for: input decoding, engine orchestration,
// output serialization. The API NEVER performs photonics math.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"photonic-sparam/adapters/storage"
	"photonic-sparam/core/eval"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
	"photonic-sparam/internal/logging"
)

// Server is the API server
type Server struct {
	engine  *eval.Engine
	mux     *http.ServeMux
	metrics *metrics
	log     *zap.Logger
}

// NewServer creates an API server around an evaluation engine
func NewServer(engine *eval.Engine) *Server {
	s := &Server{
		engine:  engine,
		mux:     http.NewServeMux(),
		metrics: newMetrics(),
		log:     logging.Named("api"),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	s.mux.HandleFunc("POST /response", s.handleResponse)

	// Listings
	s.mux.HandleFunc("GET /devices", s.handleDevices)
	s.mux.HandleFunc("GET /models", s.handleModels)
	s.mux.HandleFunc("GET /runs", s.handleRuns)
	s.mux.HandleFunc("GET /runs/{id}", s.handleRun)
	s.mux.HandleFunc("DELETE /runs/{id}", s.handleRunDelete)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.Handle("GET /metrics", s.metrics.handler())
}

// handleEvaluate handles POST /evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req eval.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	result, err := s.engine.Evaluate(ctx, &req)
	seconds := time.Since(start).Seconds()
	if err != nil {
		s.metrics.observe(string(req.Device), "error", seconds)
		s.log.Warn("evaluation failed", zap.Error(err))
		code, status := errorStatus(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	s.metrics.observe(string(req.Device), "ok", seconds)
	s.writeJSON(w, result, http.StatusOK)
}

// handleResponse handles POST /response
func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req eval.ResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	result, err := s.engine.Response(ctx, &req)
	seconds := time.Since(start).Seconds()
	if err != nil {
		s.metrics.observe("mode_response", "error", seconds)
		s.log.Warn("mode response failed", zap.Error(err))
		code, status := errorStatus(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	s.metrics.observe("mode_response", "ok", seconds)
	s.writeJSON(w, result, http.StatusOK)
}

// handleDevices handles GET /devices
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	catalog := s.engine.Catalog()

	resp := DevicesResponse{}
	for _, kind := range catalog.Kinds() {
		if spec, ok := catalog.Get(kind); ok {
			resp.Devices = append(resp.Devices, *spec)
		}
	}
	resp.Count = len(resp.Devices)

	s.writeJSON(w, resp, http.StatusOK)
}

// handleModels handles GET /models
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	names := s.engine.Registry().Names()
	s.writeJSON(w, ModelsResponse{Models: names, Count: len(names)}, http.StatusOK)
}

// handleRuns handles GET /runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.writeError(w, "STORAGE_ERROR", "run store is not configured", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	filter := &storage.ListFilter{}
	if device := query.Get("device"); device != "" {
		filter.Device = types.DeviceKind(device)
	}
	if limit := query.Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}
	if offset := query.Get("offset"); offset != "" {
		filter.Offset, _ = strconv.Atoi(offset)
	}

	runs, err := store.List(r.Context(), filter)
	if err != nil {
		code, status := errorStatus(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	resp := RunsResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, RunSummary{
			ID:        run.ID,
			Device:    run.Device,
			Name:      run.Name,
			Points:    run.Points,
			Ports:     run.Ports,
			CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	resp.Count = len(resp.Runs)

	s.writeJSON(w, resp, http.StatusOK)
}

// handleRun handles GET /runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.writeError(w, "STORAGE_ERROR", "run store is not configured", http.StatusServiceUnavailable)
		return
	}

	run, err := store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		code, status := errorStatus(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	s.writeJSON(w, run, http.StatusOK)
}

// handleRunDelete handles DELETE /runs/{id}
func (s *Server) handleRunDelete(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.writeError(w, "STORAGE_ERROR", "run store is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := store.Delete(r.Context(), r.PathValue("id")); err != nil {
		code, status := errorStatus(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: s.engine.Version(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, VersionResponse{
		Version:    s.engine.Version(),
		Engine:     "photonic-sparam",
		APIVersion: "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("starting API server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}

// errorStatus maps a taxonomy error to a wire code and HTTP status
func errorStatus(err error) (string, int) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		switch e.Type {
		case errors.TypeInvalidInput, errors.TypeDimension, errors.TypePortIndex,
			errors.TypeParsing, errors.TypeUnsupported:
			return string(e.Type), http.StatusBadRequest
		case errors.TypeNotFound:
			return string(e.Type), http.StatusNotFound
		default:
			return string(e.Type), http.StatusInternalServerError
		}
	}
	return string(errors.TypeInternal), http.StatusInternalServerError
}
