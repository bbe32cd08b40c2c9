package api

import (
	"net/http"

	"github.com/mkotas/flashdeck/internal/models"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.Cards.ListCards(r.Context(), userFromContext(r.Context()), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		FrontText     string `json:"front_text"`
		FrontImageURL string `json:"front_image_url"`
		BackText      string `json:"back_text"`
		BackImageURL  string `json:"back_image_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.CreateCard(r.Context(), userFromContext(r.Context()), models.Card{
		DeckID:        deckID,
		FrontText:     req.FrontText,
		FrontImageURL: req.FrontImageURL,
		BackText:      req.BackText,
		BackImageURL:  req.BackImageURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		FrontText     *string `json:"front_text"`
		FrontImageURL *string `json:"front_image_url"`
		BackText      *string `json:"back_text"`
		BackImageURL  *string `json:"back_image_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Cards.UpdateCard(r.Context(), userFromContext(r.Context()), id, models.CardUpdate{
		FrontText:     req.FrontText,
		FrontImageURL: req.FrontImageURL,
		BackText:      req.BackText,
		BackImageURL:  req.BackImageURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Cards.DeleteCard(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleReorderCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		CardIDs []int64 `json:"card_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Cards.ReorderCards(r.Context(), userFromContext(r.Context()), deckID, req.CardIDs); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleImportCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer r.Body.Close()

	accepted, err := s.Cards.ImportCSV(r.Context(), userFromContext(r.Context()), deckID, r.Body)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]any{"accepted": accepted})
}
