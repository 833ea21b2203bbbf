package api

import (
	"net/http"
	"strings"

	"github.com/jgoulah/smarthome/pkg/models"
)

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	devices, err := s.db.ListDevices(skip, limit, userID)
	if err != nil {
		s.storeError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.db.GetDevice(id)
	if err != nil {
		s.storeError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) createDevice(w http.ResponseWriter, r *http.Request) {
	var d models.Device
	if err := decode(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Type) == "" || d.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "name, type and user_id are required")
		return
	}

	d.ID = 0
	if err := s.db.CreateDevice(&d); err != nil {
		s.storeError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) updateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var upd models.DeviceUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.db.UpdateDevice(id, upd)
	if err != nil {
		s.storeError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteDevice(id); err != nil {
		s.storeError(w, r, "device", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
