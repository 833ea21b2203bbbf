package api

import (
	"errors"
	"net/http"

	"github.com/jgoulah/smarthome/internal/analytics"
)

func (s *Server) analyticsHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := queryInt(r, "user_id", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := s.reports.Run(name, userID)
		if errors.Is(err, analytics.ErrInsufficientData) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			s.logger.Error("report failed", "report", name, "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"report": name, "data": data})
	}
}
