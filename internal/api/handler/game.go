package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fivesgame-go/internal/api/middleware"
	"github.com/mcoot/fivesgame-go/internal/api/request"
	"github.com/mcoot/fivesgame-go/internal/api/response"
	"github.com/mcoot/fivesgame-go/internal/api/sse"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/board"
	"github.com/mcoot/fivesgame-go/internal/services/game"
	"github.com/mcoot/fivesgame-go/internal/services/scoring"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	boardService   *board.Service
	scoringService *scoring.Service
	broadcaster    *sse.Broadcaster
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	gameController *game.Controller,
	boardService *board.Service,
	scoringService *scoring.Service,
	broadcaster *sse.Broadcaster,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		boardService:   boardService,
		scoringService: scoringService,
		broadcaster:    broadcaster,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerAddress == "" {
		WriteError(w, NewInvalidRequestError("player_address is required"))
		return
	}

	cfg := game.CreateConfig{
		MaxPlayers:   req.MaxPlayers,
		AllowIslands: req.AllowIslands,
		WinningScore: req.WinningScore,
	}
	g, err := h.gameController.CreateGame(r.Context(), caller, model.Address(req.PlayerAddress), req.PlayerName, cfg)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.GameCreated(g)
		if g.State == model.GameStateInProgress {
			h.broadcaster.GameStarted(g)
		}
	}

	resp := response.GameFromView(&game.View{Game: g, TilesRemaining: h.tilesRemaining(r, g)})
	response.JSON(w, http.StatusCreated, resp)
}

// Join handles POST /api/v1/games/{game_id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerAddress == "" {
		WriteError(w, NewInvalidRequestError("player_address is required"))
		return
	}

	player := model.Address(req.PlayerAddress)
	g, err := h.gameController.JoinGame(r.Context(), gameID, caller, player, req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.PlayerJoined(g, player, req.PlayerName)
		if g.State == model.GameStateInProgress {
			h.broadcaster.GameStarted(g)
		}
	}

	resp := response.GameFromView(&game.View{Game: g, TilesRemaining: h.tilesRemaining(r, g)})
	response.JSON(w, http.StatusOK, resp)
}

// Start handles POST /api/v1/games/{game_id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, err := h.gameController.StartGame(r.Context(), gameID, caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.GameStarted(g)
	}

	resp := response.GameFromView(&game.View{Game: g, TilesRemaining: h.tilesRemaining(r, g)})
	response.JSON(w, http.StatusOK, resp)
}

// Play handles POST /api/v1/games/{game_id}/play
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.PlayTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerAddress == "" {
		WriteError(w, NewInvalidRequestError("player_address is required"))
		return
	}

	batch := make(model.Batch, len(req.Tiles))
	for i, t := range req.Tiles {
		batch[i] = model.Placement{
			Number: model.Tile(t.Number),
			Pos:    model.Position{X: t.X, Y: t.Y},
		}
	}

	player := model.Address(req.PlayerAddress)
	result, err := h.gameController.PlayTurn(r.Context(), gameID, caller, player, batch)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		placed := make([]model.PlacedTileAt, len(batch))
		for i, p := range batch {
			placed[i] = model.PlacedTileAt{Pos: p.Pos, Number: p.Number, TurnPlaced: result.Game.TurnNumber - 1}
		}
		h.broadcaster.TurnPlayed(result.Game, player, placed, result.TurnScore, result.Player.Score)
		if result.Game.State == model.GameStateCompleted {
			h.broadcaster.GameCompleted(result.Game, h.winner(result.Game))
		}
	}

	resp := response.TurnResultFromModel(result, h.tilesRemaining(r, result.Game), scoring.PointsPerSum)
	response.JSON(w, http.StatusOK, resp)
}

// Skip handles POST /api/v1/games/{game_id}/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.SkipTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerAddress == "" {
		WriteError(w, NewInvalidRequestError("player_address is required"))
		return
	}

	player := model.Address(req.PlayerAddress)
	g, err := h.gameController.SkipTurn(r.Context(), gameID, caller, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.TurnSkipped(g, player)
		if g.State == model.GameStateCompleted {
			h.broadcaster.GameCompleted(g, h.winner(g))
		}
	}

	resp := response.GameFromView(&game.View{Game: g, TilesRemaining: h.tilesRemaining(r, g)})
	response.JSON(w, http.StatusOK, resp)
}

// Cancel handles DELETE /api/v1/games/{game_id}
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	if _, err := h.gameController.CancelGame(r.Context(), gameID, caller); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	view, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromView(view))
}

// GetPlayer handles GET /api/v1/games/{game_id}/players/{address}
func (h *GameHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	address := model.Address(vars["address"])

	ps, err := h.gameController.GetPlayer(r.Context(), gameID, address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(ps))
}

// GetPool handles GET /api/v1/games/{game_id}/players/{address}/pool
func (h *GameHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	address := model.Address(vars["address"])

	ps, err := h.gameController.GetPlayer(r.Context(), gameID, address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TilePoolFromModel(ps.Pool))
}

// GetTile handles GET /api/v1/games/{game_id}/board/{x}/{y}
func (h *GameHandler) GetTile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])

	x, err := strconv.Atoi(vars["x"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("x must be an integer"))
		return
	}
	y, err := strconv.Atoi(vars["y"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("y must be an integer"))
		return
	}

	pos := model.Position{X: x, Y: y}
	tile, exists, err := h.boardService.GetTileAt(r.Context(), gameID, pos)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.Tile{Exists: exists, X: x, Y: y}
	if exists {
		resp.Number = int(tile.Number)
		resp.TurnPlaced = tile.TurnPlaced
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetBoard handles GET /api/v1/games/{game_id}/board
func (h *GameHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	tiles, err := h.boardService.Snapshot(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlacedTilesFromSnapshot(tiles))
}

// tilesRemaining recomputes total pool mass for responses built from
// mutation results, which carry the game but not the other seats
func (h *GameHandler) tilesRemaining(r *http.Request, g *model.Game) int {
	view, err := h.gameController.GetGame(r.Context(), g.ID)
	if err != nil {
		return 0
	}
	return view.TilesRemaining
}

// winner returns the leading player of a completed game, or empty on a tie
func (h *GameHandler) winner(g *model.Game) model.Address {
	return h.scoringService.Leader(g.Players, g.Scores)
}
