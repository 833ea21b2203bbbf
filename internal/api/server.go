// Package api serves the smart-home store and its analytics over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jgoulah/smarthome/internal/analytics"
	"github.com/jgoulah/smarthome/internal/database"
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	db      *database.DB
	reports *analytics.Service
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates the handlers for db
func NewServer(db *database.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{db: db, reports: analytics.New(db), metrics: NewMetrics(), logger: logger}
}

// NewRouter registers every route
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)
	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/users", s.listUsers).Methods("GET")
	v1.HandleFunc("/users", s.createUser).Methods("POST")
	v1.HandleFunc("/users/{id:[0-9]+}", s.getUser).Methods("GET")
	v1.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods("PUT")
	v1.HandleFunc("/users/{id:[0-9]+}", s.deleteUser).Methods("DELETE")

	v1.HandleFunc("/devices", s.listDevices).Methods("GET")
	v1.HandleFunc("/devices", s.createDevice).Methods("POST")
	v1.HandleFunc("/devices/{id:[0-9]+}", s.getDevice).Methods("GET")
	v1.HandleFunc("/devices/{id:[0-9]+}", s.updateDevice).Methods("PUT")
	v1.HandleFunc("/devices/{id:[0-9]+}", s.deleteDevice).Methods("DELETE")

	v1.HandleFunc("/usage", s.listUsage).Methods("GET")
	v1.HandleFunc("/usage", s.createUsage).Methods("POST")
	v1.HandleFunc("/usage/{id:[0-9]+}", s.getUsage).Methods("GET")
	v1.HandleFunc("/usage/{id:[0-9]+}", s.updateUsage).Methods("PUT")
	v1.HandleFunc("/usage/{id:[0-9]+}", s.deleteUsage).Methods("DELETE")

	v1.HandleFunc("/security", s.listEvents).Methods("GET")
	v1.HandleFunc("/security", s.createEvent).Methods("POST")
	v1.HandleFunc("/security/{id:[0-9]+}", s.getEvent).Methods("GET")
	v1.HandleFunc("/security/{id:[0-9]+}", s.updateEvent).Methods("PUT")
	v1.HandleFunc("/security/{id:[0-9]+}", s.deleteEvent).Methods("DELETE")

	v1.HandleFunc("/feedback", s.listFeedback).Methods("GET")
	v1.HandleFunc("/feedback", s.createFeedback).Methods("POST")
	v1.HandleFunc("/feedback/{id:[0-9]+}", s.getFeedback).Methods("GET")
	v1.HandleFunc("/feedback/{id:[0-9]+}", s.updateFeedback).Methods("PUT")
	v1.HandleFunc("/feedback/{id:[0-9]+}", s.deleteFeedback).Methods("DELETE")

	for _, name := range analytics.Reports() {
		v1.HandleFunc("/analytics/"+name, s.analyticsHandler(name)).Methods("GET")
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// storeError maps store sentinels onto status codes; anything else is a 500
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, database.ErrReference):
		writeError(w, http.StatusBadRequest, "referenced user or device does not exist")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", mux.Vars(r)["id"])
	}
	return id, nil
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func pageParams(r *http.Request) (skip, limit int, err error) {
	if skip, err = queryInt(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit", 100); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
