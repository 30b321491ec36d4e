package storage

import (
	"context"

	"github.com/mcoot/fivesgame-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations must not leak partial writes from CommitTurn, and must
// return records that callers can mutate freely without affecting stored
// state; a rejected operation leaves storage exactly as it found it.
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// Player operations
	SavePlayerState(ctx context.Context, ps *model.PlayerState) error
	GetPlayerState(ctx context.Context, gameID model.GameID, address model.Address) (*model.PlayerState, error)
	GetPlayerStatesForGame(ctx context.Context, gameID model.GameID) ([]*model.PlayerState, error)

	// Board operations
	SaveBoard(ctx context.Context, board *model.Board) error
	GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, error)

	// CommitTurn persists the outcome of one committed turn atomically
	CommitTurn(ctx context.Context, game *model.Game, ps *model.PlayerState, board *model.Board) error

	// Relayer allowlist operations (append-only)
	AddRelayer(ctx context.Context, address model.Address) error
	IsRelayer(ctx context.Context, address model.Address) (bool, error)
	ListRelayers(ctx context.Context) ([]model.Address, error)

	// Controller bindings, scoped per game
	SetController(ctx context.Context, gameID model.GameID, player, controller model.Address) error
	GetController(ctx context.Context, gameID model.GameID, player model.Address) (model.Address, error)
}
