package api

import (
	"github.com/mkotas/flashdeck/internal/services"
)

// Server wires the HTTP handlers to the service layer.
type Server struct {
	Decks    services.DeckService
	Cards    services.CardService
	Study    services.StudyService
	Sessions services.SessionService
	Tags     services.TagService
	Folders  services.FolderService
	Usage    services.UsageService
}
