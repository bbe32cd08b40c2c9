package api

import (
	"net/http"
)

func (s *Server) handleGetUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.Usage.GetUsage(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, usage)
}

func (s *Server) handleUsageMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageCount int `json:"image_count"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Usage.RecordMessage(r.Context(), userFromContext(r.Context()), req.ImageCount); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUsageToolCalls(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Usage.RecordToolCalls(r.Context(), userFromContext(r.Context()), req.Count); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
