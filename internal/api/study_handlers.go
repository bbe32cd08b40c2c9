package api

import (
	"net/http"
	"strconv"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/srs"
)

func (s *Server) handleDueQueue(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	var deckID *int64
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handleError(w, r, errors.NewInvalidArgumentError("deck_id", "must be a positive integer id"))
			return
		}
		deckID = &id
	}
	limit := queryInt(r, "limit", 0)

	due, err := s.Study.DueQueue(r.Context(), userID, deckID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if due == nil {
		due = []models.DueCard{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"due": due})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID    int64     `json:"card_id"`
		Grade     srs.Grade `json:"grade"`
		SessionID *int64    `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.Study.Grade(r.Context(), userFromContext(r.Context()), req.CardID, req.Grade, req.SessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
