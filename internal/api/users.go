package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/jgoulah/smarthome/pkg/models"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := s.db.ListUsers(skip, limit)
	if err != nil {
		s.storeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.db.GetUser(id)
	if err != nil {
		s.storeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(u.Name) == "" || !strings.Contains(u.Email, "@") {
		writeError(w, http.StatusBadRequest, "name and a valid email are required")
		return
	}

	u.ID = 0
	u.CreatedAt = time.Time{}
	if err := s.db.CreateUser(&u); err != nil {
		s.storeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var upd models.UserUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if upd.Email != nil && !strings.Contains(*upd.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	u, err := s.db.UpdateUser(id, upd)
	if err != nil {
		s.storeError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteUser(id); err != nil {
		s.storeError(w, r, "user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
