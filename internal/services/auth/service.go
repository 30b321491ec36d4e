package auth

import (
	"context"
	"log/slog"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/storage"
)

// Service is the authorization and delegation layer.
//
// A mutating call names a caller (the submitting identity) and a player
// (the identity acted for). The call is allowed when they are the same
// address or when the caller is an allowlisted relayer; on success the
// player's controller binding for that game is updated to the caller.
// Only the service owner may extend the allowlist, and entries are never
// removed.
type Service struct {
	storage storage.Storage
	owner   model.Address
	logger  *slog.Logger
}

// Config holds configuration for the auth service
type Config struct {
	// Owner is the only address allowed to authorize relayers
	Owner model.Address
}

// New creates a new auth service
func New(storage storage.Storage, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		owner:   cfg.Owner,
		logger:  logger,
	}
}

// Check verifies that caller may act for player: the same address, or an
// allowlisted relayer. Check writes nothing; callers record the controller
// binding with BindController only once the whole operation will commit,
// so a rejected call leaves no trace.
func (s *Service) Check(ctx context.Context, caller, player model.Address) error {
	if caller == "" || player == "" {
		return model.ErrUnauthorized
	}

	if caller != player {
		isRelayer, err := s.storage.IsRelayer(ctx, caller)
		if err != nil {
			return err
		}
		if !isRelayer {
			s.logger.Warn("unauthorized call rejected",
				slog.String("caller", string(caller)),
				slog.String("player", string(player)),
			)
			return model.ErrUnauthorized
		}
	}
	return nil
}

// BindController records caller as the controller acting for player in the
// given game
func (s *Service) BindController(ctx context.Context, gameID model.GameID, player, caller model.Address) error {
	return s.storage.SetController(ctx, gameID, player, caller)
}

// AuthorizeCreator checks that caller may act as the game's creator:
// either the creator address itself or the creator's recorded controller
func (s *Service) AuthorizeCreator(ctx context.Context, game *model.Game, caller model.Address) error {
	if caller == game.Creator {
		return nil
	}
	controller, err := s.storage.GetController(ctx, game.ID, game.Creator)
	if err != nil {
		return err
	}
	if controller != "" && caller == controller {
		return nil
	}
	return model.ErrUnauthorized
}

// AuthorizeRelayer appends an address to the relayer allowlist.
// Owner-gated; there is no removal operation.
func (s *Service) AuthorizeRelayer(ctx context.Context, caller, relayer model.Address) error {
	if s.owner == "" || caller != s.owner {
		return model.ErrNotOwner
	}
	if relayer == "" {
		return model.ErrInvalidConfig
	}

	if err := s.storage.AddRelayer(ctx, relayer); err != nil {
		return err
	}

	s.logger.Info("relayer authorized",
		slog.String("relayer", string(relayer)),
	)
	return nil
}

// IsRelayer reports whether an address is on the relayer allowlist
func (s *Service) IsRelayer(ctx context.Context, address model.Address) (bool, error) {
	return s.storage.IsRelayer(ctx, address)
}

// ListRelayers returns the full relayer allowlist
func (s *Service) ListRelayers(ctx context.Context) ([]model.Address, error) {
	return s.storage.ListRelayers(ctx)
}

// GetController returns the controller currently bound to a player in a
// game, or the empty address if none has acted yet
func (s *Service) GetController(ctx context.Context, gameID model.GameID, player model.Address) (model.Address, error) {
	return s.storage.GetController(ctx, gameID, player)
}
