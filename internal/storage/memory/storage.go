package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are cloned on both save and get so callers can stage mutations
// on fetched copies and abandon them without touching stored state.
type Storage struct {
	mu sync.RWMutex

	games       map[model.GameID]*model.Game
	players     map[playerKey]*model.PlayerState
	boards      map[model.GameID]*model.Board
	relayers    map[model.Address]bool
	controllers map[playerKey]model.Address
}

type playerKey struct {
	gameID  model.GameID
	address model.Address
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:       make(map[model.GameID]*model.Game),
		players:     make(map[playerKey]*model.PlayerState),
		boards:      make(map[model.GameID]*model.Board),
		relayers:    make(map[model.Address]bool),
		controllers: make(map[playerKey]model.Address),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

// Player operations

func (s *Storage) SavePlayerState(ctx context.Context, ps *model.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerKey{ps.GameID, ps.Address}] = ps.Clone()
	return nil
}

func (s *Storage) GetPlayerState(ctx context.Context, gameID model.GameID, address model.Address) (*model.PlayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ps, ok := s.players[playerKey{gameID, address}]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return ps.Clone(), nil
}

func (s *Storage) GetPlayerStatesForGame(ctx context.Context, gameID model.GameID) ([]*model.PlayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var states []*model.PlayerState
	for key, ps := range s.players {
		if key.gameID == gameID {
			states = append(states, ps.Clone())
		}
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].JoinedAt.Before(states[j].JoinedAt)
	})
	return states, nil
}

// Board operations

func (s *Storage) SaveBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[board.GameID] = board.Clone()
	return nil
}

func (s *Storage) GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[gameID]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	return board.Clone(), nil
}

// CommitTurn saves the turn outcome under a single lock acquisition
func (s *Storage) CommitTurn(ctx context.Context, game *model.Game, ps *model.PlayerState, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	s.players[playerKey{ps.GameID, ps.Address}] = ps.Clone()
	s.boards[board.GameID] = board.Clone()
	return nil
}

// Relayer operations

func (s *Storage) AddRelayer(ctx context.Context, address model.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relayers[address] = true
	return nil
}

func (s *Storage) IsRelayer(ctx context.Context, address model.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relayers[address], nil
}

func (s *Storage) ListRelayers(ctx context.Context) ([]model.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relayers := make([]model.Address, 0, len(s.relayers))
	for addr := range s.relayers {
		relayers = append(relayers, addr)
	}
	sort.Slice(relayers, func(i, j int) bool { return relayers[i] < relayers[j] })
	return relayers, nil
}

// Controller operations

func (s *Storage) SetController(ctx context.Context, gameID model.GameID, player, controller model.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllers[playerKey{gameID, player}] = controller
	return nil
}

func (s *Storage) GetController(ctx context.Context, gameID model.GameID, player model.Address) (model.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controllers[playerKey{gameID, player}], nil
}
