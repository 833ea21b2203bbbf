package api

import (
	"net/http"
	"strings"

	"github.com/jgoulah/smarthome/pkg/models"
)

func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	feedback, err := s.db.ListFeedback(skip, limit)
	if err != nil {
		s.storeError(w, r, "feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (s *Server) getFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := s.db.GetFeedback(id)
	if err != nil {
		s.storeError(w, r, "feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func decodeFeedback(w http.ResponseWriter, r *http.Request) (*models.Feedback, bool) {
	var f models.Feedback
	if err := decode(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if f.UserID <= 0 || f.DeviceID <= 0 || strings.TrimSpace(f.FeedbackType) == "" {
		writeError(w, http.StatusBadRequest, "user_id, device_id and feedback_type are required")
		return nil, false
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return nil, false
	}
	return &f, true
}

func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFeedback(w, r)
	if !ok {
		return
	}

	f.ID = 0
	if err := s.db.CreateFeedback(f); err != nil {
		s.storeError(w, r, "feedback", err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) updateFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, ok := decodeFeedback(w, r)
	if !ok {
		return
	}

	if err := s.db.UpdateFeedback(id, f); err != nil {
		s.storeError(w, r, "feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteFeedback(id); err != nil {
		s.storeError(w, r, "feedback", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
