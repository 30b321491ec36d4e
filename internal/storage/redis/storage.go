package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// gameTTL returns the TTL to apply to records of a finished game
func (s *Storage) gameTTL(game *model.Game) time.Duration {
	if game != nil && game.IsTerminal() {
		return s.cfg.GameTTL
	}
	return 0
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(game.ID), data, s.gameTTL(game)).Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Player operations

func (s *Storage) SavePlayerState(ctx context.Context, ps *model.PlayerState) error {
	data, err := json.Marshal(ps)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(ps.GameID, ps.Address), data, 0)
	pipe.SAdd(ctx, playersForGameIndexKey(ps.GameID), string(ps.Address))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerState(ctx context.Context, gameID model.GameID, address model.Address) (*model.PlayerState, error) {
	data, err := s.client.Get(ctx, playerKey(gameID, address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var ps model.PlayerState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

func (s *Storage) GetPlayerStatesForGame(ctx context.Context, gameID model.GameID) ([]*model.PlayerState, error) {
	addresses, err := s.client.SMembers(ctx, playersForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	states := make([]*model.PlayerState, 0, len(addresses))
	for _, addr := range addresses {
		ps, err := s.GetPlayerState(ctx, gameID, model.Address(addr))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // Index entry outlived the record
			}
			return nil, err
		}
		states = append(states, ps)
	}

	// Stable seat order
	sort.Slice(states, func(i, j int) bool {
		return states[i].JoinedAt.Before(states[j].JoinedAt)
	})
	return states, nil
}

// Board operations

func (s *Storage) SaveBoard(ctx context.Context, board *model.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, boardKey(board.GameID), data, 0).Err()
}

func (s *Storage) GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, error) {
	data, err := s.client.Get(ctx, boardKey(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// CommitTurn persists a turn's game, player and board records in one
// transactional pipeline so a partial turn can never be observed
func (s *Storage) CommitTurn(ctx context.Context, game *model.Game, ps *model.PlayerState, board *model.Board) error {
	gameData, err := json.Marshal(game)
	if err != nil {
		return err
	}
	playerData, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	boardData, err := json.Marshal(board)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), gameData, s.gameTTL(game))
	pipe.Set(ctx, playerKey(ps.GameID, ps.Address), playerData, 0)
	pipe.Set(ctx, boardKey(board.GameID), boardData, 0)
	_, err = pipe.Exec(ctx)
	return err
}

// Relayer operations

func (s *Storage) AddRelayer(ctx context.Context, address model.Address) error {
	return s.client.SAdd(ctx, relayersKey(), string(address)).Err()
}

func (s *Storage) IsRelayer(ctx context.Context, address model.Address) (bool, error) {
	return s.client.SIsMember(ctx, relayersKey(), string(address)).Result()
}

func (s *Storage) ListRelayers(ctx context.Context) ([]model.Address, error) {
	members, err := s.client.SMembers(ctx, relayersKey()).Result()
	if err != nil {
		return nil, err
	}
	relayers := make([]model.Address, len(members))
	for i, m := range members {
		relayers[i] = model.Address(m)
	}
	sort.Slice(relayers, func(i, j int) bool { return relayers[i] < relayers[j] })
	return relayers, nil
}

// Controller operations

func (s *Storage) SetController(ctx context.Context, gameID model.GameID, player, controller model.Address) error {
	return s.client.Set(ctx, controllerKey(gameID, player), string(controller), 0).Err()
}

func (s *Storage) GetController(ctx context.Context, gameID model.GameID, player model.Address) (model.Address, error) {
	val, err := s.client.Get(ctx, controllerKey(gameID, player)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return model.Address(val), nil
}
