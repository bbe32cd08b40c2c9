package api

import (
	"net/http"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID int64 `json:"deck_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.Sessions.StartSession(r.Context(), userFromContext(r.Context()), req.DeckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		Correct bool `json:"correct"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Sessions.RecordAnswer(r.Context(), userFromContext(r.Context()), id, req.Correct); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.Sessions.EndSession(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Sessions.GetStats(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
