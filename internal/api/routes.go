package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Patch("/decks/{id}", s.handleUpdateDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Post("/decks/{id}/fork", s.handleForkDeck)
		r.Post("/decks/{id}/import", s.handleImportCards)
		r.Get("/decks/{id}/cards", s.handleListCards)
		r.Post("/decks/{id}/cards", s.handleCreateCard)
		r.Post("/decks/{id}/reorder", s.handleReorderCards)
		r.Get("/decks/{id}/tags", s.handleListDeckTags)
		r.Put("/decks/{id}/tags/{tagID}", s.handleTagDeck)
		r.Delete("/decks/{id}/tags/{tagID}", s.handleUntagDeck)

		r.Patch("/cards/{id}", s.handleUpdateCard)
		r.Delete("/cards/{id}", s.handleDeleteCard)

		r.Get("/study/queue", s.handleDueQueue)
		r.Post("/study/grade", s.handleGrade)

		r.Post("/sessions", s.handleStartSession)
		r.Post("/sessions/{id}/answers", s.handleSessionAnswer)
		r.Post("/sessions/{id}/end", s.handleEndSession)

		r.Get("/stats", s.handleGetStats)

		r.Get("/tags", s.handleListTags)
		r.Post("/tags", s.handleCreateTag)

		r.Get("/folders", s.handleListFolders)
		r.Post("/folders", s.handleCreateFolder)
		r.Delete("/folders/{id}", s.handleDeleteFolder)

		r.Get("/usage", s.handleGetUsage)
		r.Post("/usage/messages", s.handleUsageMessage)
		r.Post("/usage/tool-calls", s.handleUsageToolCalls)
	})

	return r
}
