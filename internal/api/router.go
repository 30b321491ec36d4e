package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fivesgame-go/internal/api/handler"
	"github.com/mcoot/fivesgame-go/internal/api/middleware"
	"github.com/mcoot/fivesgame-go/internal/api/sse"
	"github.com/mcoot/fivesgame-go/internal/services/auth"
	"github.com/mcoot/fivesgame-go/internal/services/board"
	"github.com/mcoot/fivesgame-go/internal/services/game"
	"github.com/mcoot/fivesgame-go/internal/services/scoring"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	BoardService   *board.Service
	ScoringService *scoring.Service
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BoardService, cfg.ScoringService, cfg.Broadcaster)
	relayerHandler := handler.NewRelayerHandler(cfg.AuthService)
	eventsHandler := handler.NewEventsHandler(cfg.GameController, cfg.HubManager)

	// Create middleware
	callerMiddleware := middleware.Caller()
	optionalCallerMiddleware := middleware.OptionalCaller()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Mutations require a caller address
	games := api.PathPrefix("/games").Subrouter()
	games.Use(callerMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/play", gameHandler.Play).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/skip", gameHandler.Skip).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}", gameHandler.Cancel).Methods(http.MethodDelete)

	// Reads are open; the caller header is optional
	reads := api.PathPrefix("/games").Subrouter()
	reads.Use(optionalCallerMiddleware)
	reads.HandleFunc("/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/board", gameHandler.GetBoard).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/board/{x}/{y}", gameHandler.GetTile).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/players/{address}", gameHandler.GetPlayer).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/players/{address}/pool", gameHandler.GetPool).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/players/{address}/controller", relayerHandler.GetController).Methods(http.MethodGet)
	reads.HandleFunc("/{game_id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Relayer allowlist
	relayers := api.PathPrefix("/relayers").Subrouter()
	relayers.HandleFunc("", relayerHandler.List).Methods(http.MethodGet)
	relayers.HandleFunc("/{address}", relayerHandler.Check).Methods(http.MethodGet)
	relayerWrites := api.PathPrefix("/relayers").Subrouter()
	relayerWrites.Use(callerMiddleware)
	relayerWrites.HandleFunc("", relayerHandler.Authorize).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
