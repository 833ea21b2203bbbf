package api

import (
	"errors"
	"net/http"

	"github.com/jgoulah/smarthome/internal/database"
	"github.com/jgoulah/smarthome/pkg/models"
)

func validateUsage(u *models.DeviceUsage) error {
	if u.DeviceID <= 0 || u.UserID <= 0 {
		return errors.New("device_id and user_id are required")
	}
	if !u.StartTime.Before(u.EndTime) {
		return errors.New("start_time must be before end_time")
	}
	if u.EnergyConsumption != nil && *u.EnergyConsumption < 0 {
		return errors.New("energy_consumption must not be negative")
	}
	return nil
}

func (s *Server) listUsage(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deviceID, err := queryInt(r, "device_id", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.db.ListUsage(database.UsageFilter{DeviceID: deviceID, UserID: userID, Skip: skip, Limit: limit})
	if err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.db.GetUsage(id)
	if err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) createUsage(w http.ResponseWriter, r *http.Request) {
	var u models.DeviceUsage
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateUsage(&u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u.ID = 0
	if err := s.db.CreateUsage(&u); err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) updateUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var u models.DeviceUsage
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateUsage(&u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.UpdateUsage(id, &u); err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}

	updated, err := s.db.GetUsage(id)
	if err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteUsage(id); err != nil {
		s.storeError(w, r, "usage record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
