package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fivesgame-go/internal/api/middleware"
	"github.com/mcoot/fivesgame-go/internal/api/sse"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/game"
)

// EventsHandler streams game events over SSE
type EventsHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(gameController *game.Controller, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		gameController: gameController,
		hubManager:     hubManager,
	}
}

// Stream handles GET /api/v1/games/{game_id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	// Reject streams for unknown games up front so clients get a JSON
	// error instead of a hung connection
	if _, err := h.gameController.GetGame(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	watcher := middleware.GetCaller(r.Context())
	hub := h.hubManager.GetOrCreateHub(gameID)
	sse.ServeSSE(w, r, hub, watcher)
}
