package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/fivesgame-go/internal/dependencies/clock"
	"github.com/mcoot/fivesgame-go/internal/dependencies/random"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/auth"
	"github.com/mcoot/fivesgame-go/internal/services/board"
	"github.com/mcoot/fivesgame-go/internal/services/placement"
	"github.com/mcoot/fivesgame-go/internal/services/scoring"
	"github.com/mcoot/fivesgame-go/internal/services/tilepool"
	"github.com/mcoot/fivesgame-go/internal/storage"
)

const (
	// GameIDLength is the length of generated game identifiers
	GameIDLength = 12
	// GameIDAlphabet is the characters used in game identifiers
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller orchestrates the game lifecycle state machine and turn flow.
// Every mutating operation runs its authorization, lifecycle and placement
// checks before any state is written, so a rejected call leaves all stored
// records exactly as they were.
type Controller struct {
	storage     storage.Storage
	authService *auth.Service
	boardSvc    *board.Service
	validator   *placement.Service
	scoringSvc  *scoring.Service
	tilepoolSvc *tilepool.Service
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	authService *auth.Service,
	boardSvc *board.Service,
	validator *placement.Service,
	scoringSvc *scoring.Service,
	tilepoolSvc *tilepool.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		authService: authService,
		boardSvc:    boardSvc,
		validator:   validator,
		scoringSvc:  scoringSvc,
		tilepoolSvc: tilepoolSvc,
		clock:       clock,
		random:      random,
		logger:      logger,
	}
}

// CreateConfig carries the caller-chosen settings for a new game
type CreateConfig struct {
	MaxPlayers   int
	AllowIslands bool
	WinningScore int
}

// TurnResult is the outcome of a committed playTurn
type TurnResult struct {
	Game      *model.Game
	Player    *model.PlayerState
	Lines     []model.Line
	TurnScore int
}

// CreateGame creates a game in Setup and seats the creating player.
// Single-seat games start immediately.
func (c *Controller) CreateGame(ctx context.Context, caller, player model.Address, name string, cfg CreateConfig) (*model.Game, error) {
	if err := c.authService.Check(ctx, caller, player); err != nil {
		return nil, err
	}

	if cfg.MaxPlayers < model.MinPlayers || cfg.MaxPlayers > model.MaxPlayers {
		return nil, model.ErrInvalidConfig
	}
	if cfg.WinningScore < 1 {
		return nil, model.ErrInvalidConfig
	}

	gameID, err := c.newGameID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:           gameID,
		State:        model.GameStateSetup,
		Creator:      player,
		MaxPlayers:   cfg.MaxPlayers,
		AllowIslands: cfg.AllowIslands,
		WinningScore: cfg.WinningScore,
		Players:      []model.Address{player},
		Scores:       []int{0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := c.boardSvc.CreateBoard(ctx, gameID); err != nil {
		return nil, err
	}
	if err := c.storage.SavePlayerState(ctx, model.NewPlayerState(gameID, player, name, now)); err != nil {
		return nil, err
	}
	if err := c.authService.BindController(ctx, gameID, player, caller); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("creator", string(player)),
		slog.Int("max_players", cfg.MaxPlayers),
		slog.Int("winning_score", cfg.WinningScore),
		slog.Bool("allow_islands", cfg.AllowIslands),
	)

	if game.IsFull() {
		if err := c.begin(ctx, game); err != nil {
			return nil, err
		}
	}

	return game, nil
}

// newGameID generates an identifier not already in use
func (c *Controller) newGameID(ctx context.Context) (model.GameID, error) {
	for {
		id := model.GameID(c.random.String(GameIDLength, GameIDAlphabet))
		_, err := c.storage.GetGame(ctx, id)
		if errors.Is(err, model.ErrGameNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// JoinGame seats a player in a Setup game. The game starts automatically
// once the roster fills.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, caller, player model.Address, name string) (*model.Game, error) {
	if err := c.authService.Check(ctx, caller, player); err != nil {
		return nil, err
	}

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.State != model.GameStateSetup {
		return nil, model.ErrGameNotInSetup
	}
	if game.HasJoined(player) {
		return nil, model.ErrAlreadyJoined
	}
	if game.IsFull() {
		// A full roster auto-starts out of Setup, so the state check above
		// already excludes this; hitting it indicates a bug upstream.
		return nil, model.ErrGameFull
	}

	now := c.clock.Now()
	game.Players = append(game.Players, player)
	game.Scores = append(game.Scores, 0)
	game.UpdatedAt = now

	if err := c.storage.SavePlayerState(ctx, model.NewPlayerState(gameID, player, name, now)); err != nil {
		return nil, err
	}
	if err := c.authService.BindController(ctx, gameID, player, caller); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(player)),
		slog.Int("seat", len(game.Players)-1),
	)

	if game.IsFull() {
		if err := c.begin(ctx, game); err != nil {
			return nil, err
		}
	}

	return game, nil
}

// StartGame explicitly starts a Setup game. Restricted to the creator or
// the creator's recorded controller.
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, caller model.Address) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.State != model.GameStateSetup {
		return nil, model.ErrGameNotInSetup
	}
	if err := c.authService.AuthorizeCreator(ctx, game, caller); err != nil {
		return nil, err
	}

	if err := c.begin(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// begin transitions Setup -> InProgress and deals every player's hand
func (c *Controller) begin(ctx context.Context, game *model.Game) error {
	game.State = model.GameStateInProgress
	game.TurnNumber = 0
	game.CurrentPlayerIndex = 0
	game.UpdatedAt = c.clock.Now()

	for _, addr := range game.Players {
		ps, err := c.storage.GetPlayerState(ctx, game.ID, addr)
		if err != nil {
			return err
		}
		c.tilepoolSvc.DrawToFill(game.ID, 0, ps)
		if err := c.storage.SavePlayerState(ctx, ps); err != nil {
			return err
		}
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", game.PlayerCount()),
	)
	return nil
}

// PlayTurn validates, scores and commits one placement batch for the
// player whose turn it is. The batch applies in full or not at all.
func (c *Controller) PlayTurn(ctx context.Context, gameID model.GameID, caller, player model.Address, batch model.Batch) (*TurnResult, error) {
	if err := c.authService.Check(ctx, caller, player); err != nil {
		return nil, err
	}

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.State != model.GameStateInProgress {
		return nil, model.ErrGameNotInProgress
	}
	if game.CurrentPlayer() != player {
		return nil, model.ErrNotYourTurn
	}

	ps, err := c.storage.GetPlayerState(ctx, gameID, player)
	if err != nil {
		return nil, err
	}
	gameBoard, err := c.storage.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}

	// All five placement rules run against the proposed view before any
	// mutation below
	result, err := c.validator.Validate(gameBoard, ps, batch, game.AllowIslands)
	if err != nil {
		return nil, err
	}

	if err := c.boardSvc.ApplyBatch(gameBoard, batch, game.TurnNumber); err != nil {
		return nil, err
	}
	if !ps.RemoveFromHand(batch.Numbers()) {
		// Validator already proved ownership
		return nil, model.NewPlacementError(model.ReasonTileNotInHand, "hand changed during validation")
	}
	ps.PlacedCount += len(batch)

	turnScore := c.scoringSvc.TurnScore(result.Lines)
	ps.Score += turnScore
	seat, _ := game.SeatOf(player)
	game.Scores[seat] = ps.Score

	if c.scoringSvc.ReachedWinningScore(ps.Score, game.WinningScore) {
		game.State = model.GameStateCompleted
	}

	game.TurnNumber++
	game.CurrentPlayerIndex = (game.CurrentPlayerIndex + 1) % game.PlayerCount()
	game.UpdatedAt = c.clock.Now()

	c.tilepoolSvc.DrawToFill(gameID, game.TurnNumber, ps)

	if game.State == model.GameStateInProgress {
		if err := c.completeIfExhausted(ctx, game, ps); err != nil {
			return nil, err
		}
	}

	if err := c.authService.BindController(ctx, gameID, player, caller); err != nil {
		return nil, err
	}
	if err := c.storage.CommitTurn(ctx, game, ps, gameBoard); err != nil {
		return nil, err
	}

	c.logger.Info("turn played",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(player)),
		slog.Int("turn", game.TurnNumber-1),
		slog.Int("tiles", len(batch)),
		slog.Int("turn_score", turnScore),
		slog.Int("score", ps.Score),
	)
	if game.State == model.GameStateCompleted {
		c.logger.Info("game completed",
			slog.String("game_id", string(gameID)),
			slog.String("winner", string(c.scoringSvc.Leader(game.Players, game.Scores))),
		)
	}

	return &TurnResult{
		Game:      game,
		Player:    ps,
		Lines:     result.Lines,
		TurnScore: turnScore,
	}, nil
}

// SkipTurn advances the turn without a board mutation or score change.
// The skipping player's hand is returned to their pool and redrawn.
func (c *Controller) SkipTurn(ctx context.Context, gameID model.GameID, caller, player model.Address) (*model.Game, error) {
	if err := c.authService.Check(ctx, caller, player); err != nil {
		return nil, err
	}

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.State != model.GameStateInProgress {
		return nil, model.ErrGameNotInProgress
	}
	if game.CurrentPlayer() != player {
		return nil, model.ErrNotYourTurn
	}

	ps, err := c.storage.GetPlayerState(ctx, gameID, player)
	if err != nil {
		return nil, err
	}
	gameBoard, err := c.storage.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}

	game.TurnNumber++
	game.CurrentPlayerIndex = (game.CurrentPlayerIndex + 1) % game.PlayerCount()
	game.UpdatedAt = c.clock.Now()

	c.tilepoolSvc.Redraw(gameID, game.TurnNumber, ps)

	if err := c.completeIfExhausted(ctx, game, ps); err != nil {
		return nil, err
	}

	if err := c.authService.BindController(ctx, gameID, player, caller); err != nil {
		return nil, err
	}
	if err := c.storage.CommitTurn(ctx, game, ps, gameBoard); err != nil {
		return nil, err
	}

	c.logger.Info("turn skipped",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(player)),
		slog.Int("turn", game.TurnNumber-1),
	)

	return game, nil
}

// completeIfExhausted ends the game when no seat can ever act again:
// every player's hand and pool are empty
func (c *Controller) completeIfExhausted(ctx context.Context, game *model.Game, acting *model.PlayerState) error {
	if !c.tilepoolSvc.IsExhausted(acting) {
		return nil
	}

	states, err := c.storage.GetPlayerStatesForGame(ctx, game.ID)
	if err != nil {
		return err
	}
	for _, ps := range states {
		if ps.Address == acting.Address {
			continue
		}
		if !c.tilepoolSvc.IsExhausted(ps) {
			return nil
		}
	}

	game.State = model.GameStateCompleted
	c.logger.Info("game completed with pools exhausted",
		slog.String("game_id", string(game.ID)),
	)
	return nil
}

// CancelGame cancels a game that has not completed. Restricted to the
// creator or the creator's controller.
func (c *Controller) CancelGame(ctx context.Context, gameID model.GameID, caller model.Address) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsTerminal() {
		return nil, model.ErrGameNotInProgress
	}
	if err := c.authService.AuthorizeCreator(ctx, game, caller); err != nil {
		return nil, err
	}

	game.State = model.GameStateCancelled
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game cancelled",
		slog.String("game_id", string(gameID)),
	)
	return game, nil
}

// View is a read-model of a game for external callers
type View struct {
	Game *model.Game
	// TilesRemaining is the total undrawn pool mass across all seats
	TilesRemaining int
}

// GetGame returns the game plus derived read-only fields
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*View, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	states, err := c.storage.GetPlayerStatesForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	remaining := 0
	for _, ps := range states {
		remaining += ps.Pool.Remaining()
	}

	return &View{Game: game, TilesRemaining: remaining}, nil
}

// GetPlayer returns one player's standing in a game
func (c *Controller) GetPlayer(ctx context.Context, gameID model.GameID, address model.Address) (*model.PlayerState, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetPlayerState(ctx, gameID, address)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, caller, player model.Address, name string, cfg CreateConfig) (*model.Game, error)
	JoinGame(ctx context.Context, gameID model.GameID, caller, player model.Address, name string) (*model.Game, error)
	StartGame(ctx context.Context, gameID model.GameID, caller model.Address) (*model.Game, error)
	PlayTurn(ctx context.Context, gameID model.GameID, caller, player model.Address, batch model.Batch) (*TurnResult, error)
	SkipTurn(ctx context.Context, gameID model.GameID, caller, player model.Address) (*model.Game, error)
	CancelGame(ctx context.Context, gameID model.GameID, caller model.Address) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*View, error)
	GetPlayer(ctx context.Context, gameID model.GameID, address model.Address) (*model.PlayerState, error)
}

var _ ControllerInterface = (*Controller)(nil)
