package api

import (
	"net/http"
	"strconv"

	"github.com/mkotas/flashdeck/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	// ?public=true lists the shared catalog instead of the caller's decks.
	if r.URL.Query().Get("public") == "true" {
		decks, err := s.Decks.ListPublicDecks(r.Context(), limit, offset)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"decks": decks})
		return
	}

	var folderID *int64
	if raw := r.URL.Query().Get("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			folderID = &id
		}
	}

	decks, err := s.Decks.ListDecks(r.Context(), userID, folderID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		FolderID    *int64 `json:"folder_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), userFromContext(r.Context()), req.Name, req.Description, req.FolderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.Decks.GetDeck(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
		FolderID    *int64  `json:"folder_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.UpdateDeck(r.Context(), userFromContext(r.Context()), id, models.DeckUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		FolderID:    req.FolderID,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Decks.DeleteDeck(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleForkDeck(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	fork, err := s.Decks.ForkDeck(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, fork)
}
