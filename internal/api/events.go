package api

import (
	"net/http"
	"strings"

	"github.com/jgoulah/smarthome/pkg/models"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.db.ListEvents(skip, limit)
	if err != nil {
		s.storeError(w, r, "security event", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.db.GetEvent(id)
	if err != nil {
		s.storeError(w, r, "security event", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// decodeEvent reads and checks an event body
func decodeEvent(w http.ResponseWriter, r *http.Request) (*models.SecurityEvent, bool) {
	var e models.SecurityEvent
	if err := decode(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if e.DeviceID <= 0 || strings.TrimSpace(e.EventType) == "" || strings.TrimSpace(e.Severity) == "" {
		writeError(w, http.StatusBadRequest, "device_id, event_type and severity are required")
		return nil, false
	}
	return &e, true
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	e.ID = 0
	if err := s.db.CreateEvent(e); err != nil {
		s.storeError(w, r, "security event", err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	if err := s.db.UpdateEvent(id, e); err != nil {
		s.storeError(w, r, "security event", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteEvent(id); err != nil {
		s.storeError(w, r, "security event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
