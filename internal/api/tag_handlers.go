package api

import (
	"net/http"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.Tags.ListTags(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	tag, err := s.Tags.CreateTag(r.Context(), userFromContext(r.Context()), req.Name, req.Color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleListDeckTags(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	tags, err := s.Tags.ListDeckTags(r.Context(), userFromContext(r.Context()), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (s *Server) handleTagDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	tagID, err := urlID(r, "tagID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Tags.TagDeck(r.Context(), userFromContext(r.Context()), deckID, tagID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUntagDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	tagID, err := urlID(r, "tagID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Tags.UntagDeck(r.Context(), userFromContext(r.Context()), deckID, tagID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
