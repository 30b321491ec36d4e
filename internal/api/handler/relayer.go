package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/fivesgame-go/internal/api/middleware"
	"github.com/mcoot/fivesgame-go/internal/api/request"
	"github.com/mcoot/fivesgame-go/internal/api/response"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/auth"
)

// RelayerHandler handles relayer allowlist and controller binding endpoints
type RelayerHandler struct {
	authService *auth.Service
}

// NewRelayerHandler creates a new relayer handler
func NewRelayerHandler(authService *auth.Service) *RelayerHandler {
	return &RelayerHandler{authService: authService}
}

// Authorize handles POST /api/v1/relayers
func (h *RelayerHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	var req request.AuthorizeRelayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	relayer := model.Address(req.Address)
	if err := h.authService.AuthorizeRelayer(r.Context(), caller, relayer); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Relayer{
		Address:    req.Address,
		Authorized: true,
	})
}

// List handles GET /api/v1/relayers
func (h *RelayerHandler) List(w http.ResponseWriter, r *http.Request) {
	relayers, err := h.authService.ListRelayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	addrs := make([]string, len(relayers))
	for i, a := range relayers {
		addrs[i] = string(a)
	}
	response.JSON(w, http.StatusOK, map[string][]string{"relayers": addrs})
}

// Check handles GET /api/v1/relayers/{address}
func (h *RelayerHandler) Check(w http.ResponseWriter, r *http.Request) {
	address := model.Address(mux.Vars(r)["address"])

	authorized, err := h.authService.IsRelayer(r.Context(), address)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Relayer{
		Address:    string(address),
		Authorized: authorized,
	})
}

// GetController handles GET /api/v1/games/{game_id}/players/{address}/controller
func (h *RelayerHandler) GetController(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	player := model.Address(vars["address"])

	controller, err := h.authService.GetController(r.Context(), gameID, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Controller{
		Player:     string(player),
		Controller: string(controller),
	})
}
