package board

import (
	"context"
	"log/slog"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/storage"
)

// Service provides board persistence and lookup operations.
// No placement rules live here; the placement service validates batches
// before this service ever writes a cell.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new board service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CreateBoard creates and persists an empty board for a game
func (s *Service) CreateBoard(ctx context.Context, gameID model.GameID) (*model.Board, error) {
	board := model.NewBoard(gameID)
	if err := s.storage.SaveBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// GetBoard retrieves the board for a game
func (s *Service) GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, error) {
	return s.storage.GetBoard(ctx, gameID)
}

// GetTileAt returns the tile at the given position, if one exists
func (s *Service) GetTileAt(ctx context.Context, gameID model.GameID, pos model.Position) (model.PlacedTile, bool, error) {
	board, err := s.storage.GetBoard(ctx, gameID)
	if err != nil {
		return model.PlacedTile{}, false, err
	}
	tile, ok := board.Get(pos)
	return tile, ok, nil
}

// Snapshot returns every placed tile on the board in deterministic order
func (s *Service) Snapshot(ctx context.Context, gameID model.GameID) ([]model.PlacedTileAt, error) {
	board, err := s.storage.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return board.Snapshot(), nil
}

// ApplyBatch writes a validated batch onto the board in place.
// The occupancy re-check is defensive; the validator has already rejected
// batches targeting occupied cells.
func (s *Service) ApplyBatch(board *model.Board, batch model.Batch, turn int) error {
	for _, p := range batch {
		if err := board.Place(p.Pos, p.Number, turn); err != nil {
			s.logger.Error("validated batch hit an occupied cell",
				slog.String("game_id", string(board.GameID)),
				slog.Int("x", p.Pos.X),
				slog.Int("y", p.Pos.Y),
			)
			return err
		}
	}
	return nil
}
