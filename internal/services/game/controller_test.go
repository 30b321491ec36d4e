package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivesgame-go/internal/dependencies/mocks"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/auth"
	"github.com/mcoot/fivesgame-go/internal/services/board"
	"github.com/mcoot/fivesgame-go/internal/services/placement"
	"github.com/mcoot/fivesgame-go/internal/services/scoring"
	"github.com/mcoot/fivesgame-go/internal/services/tilepool"
	"github.com/mcoot/fivesgame-go/internal/storage/memory"
	"github.com/mcoot/fivesgame-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage     *memory.Storage
	authService *auth.Service
	controller  *Controller
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	ctx         context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.authService = auth.New(s.storage, auth.Config{Owner: "owner"}, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(
		s.storage,
		s.authService,
		board.New(s.storage, logger),
		placement.New(),
		scoring.New(),
		tilepool.New(logger),
		s.clock,
		s.random,
		logger,
	)
	s.ctx = context.Background()
}

func (s *ControllerSuite) defaultConfig() CreateConfig {
	return CreateConfig{MaxPlayers: 2, WinningScore: 100}
}

// createStartedGame creates a 2-player game with alice and bob seated,
// started, and alice to act
func (s *ControllerSuite) createStartedGame() *model.Game {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)

	game, err := s.controller.JoinGame(s.ctx, "GAME12345678", "bob", "bob", "Bob")
	s.Require().NoError(err)
	s.Require().Equal(model.GameStateInProgress, game.State)
	return game
}

// setHand overwrites a player's stored hand with known tiles, keeping the
// conservation invariant intact by rebuilding the pool
func (s *ControllerSuite) setHand(gameID model.GameID, player model.Address, tiles ...model.Tile) {
	ps, err := s.storage.GetPlayerState(s.ctx, gameID, player)
	s.Require().NoError(err)

	pool := model.NewTilePool()
	for _, t := range tiles {
		s.Require().True(pool[t] > 0, "too many copies of %d requested", t)
		pool[t]--
	}
	for burned := 0; burned < ps.PlacedCount; burned++ {
		for v := range pool {
			if pool[v] > 0 {
				pool[v]--
				break
			}
		}
	}

	ps.Hand = append([]model.Tile(nil), tiles...)
	ps.Pool = pool
	s.Require().NoError(s.storage.SavePlayerState(s.ctx, ps))
}

func play(tiles ...model.Placement) model.Batch {
	return model.Batch(tiles)
}

func tile(number model.Tile, x, y int) model.Placement {
	return model.Placement{Number: number, Pos: model.Position{X: x, Y: y}}
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	s.random.QueueString("GAME12345678")

	game, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)

	s.Equal(model.GameID("GAME12345678"), game.ID)
	s.Equal(model.GameStateSetup, game.State)
	s.Equal(model.Address("alice"), game.Creator)
	s.Equal([]model.Address{"alice"}, game.Players)
	s.Equal([]int{0}, game.Scores)
	s.Equal(0, game.TurnNumber)
	s.Equal(s.clock.Now(), game.CreatedAt)
}

func (s *ControllerSuite) TestCreateGameSeatsCreatorWithFullPool() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)

	ps, err := s.storage.GetPlayerState(s.ctx, "GAME12345678", "alice")
	s.Require().NoError(err)
	s.Empty(ps.Hand)
	s.Equal(model.PoolTotal, ps.Pool.Remaining())
	s.Equal("Alice", ps.Name)
}

func (s *ControllerSuite) TestCreateGameCreatesEmptyBoard() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)

	b, err := s.storage.GetBoard(s.ctx, "GAME12345678")
	s.Require().NoError(err)
	s.True(b.IsEmpty())
}

func (s *ControllerSuite) TestCreateGameValidatesConfig() {
	cases := []CreateConfig{
		{MaxPlayers: 0, WinningScore: 100},
		{MaxPlayers: 5, WinningScore: 100},
		{MaxPlayers: 2, WinningScore: 0},
		{MaxPlayers: 2, WinningScore: -10},
	}
	for _, cfg := range cases {
		_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", cfg)
		s.ErrorIs(err, model.ErrInvalidConfig)
	}
}

func (s *ControllerSuite) TestCreateGameRetriesCollidingIDs() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)

	s.random.QueueString("GAME12345678", "GAMEABCDEFGH")
	game, err := s.controller.CreateGame(s.ctx, "bob", "bob", "Bob", s.defaultConfig())
	s.Require().NoError(err)
	s.Equal(model.GameID("GAMEABCDEFGH"), game.ID)
}

func (s *ControllerSuite) TestCreateSingleSeatGameStartsImmediately() {
	s.random.QueueString("GAME12345678")

	game, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice",
		CreateConfig{MaxPlayers: 1, WinningScore: 100})
	s.Require().NoError(err)

	s.Equal(model.GameStateInProgress, game.State)

	// Hand dealt immediately: 45 tiles left of the original 50
	ps, err := s.storage.GetPlayerState(s.ctx, "GAME12345678", "alice")
	s.Require().NoError(err)
	s.Len(ps.Hand, model.HandSize)
	s.Equal(model.PoolTotal-model.HandSize, ps.Pool.Remaining())

	view, err := s.controller.GetGame(s.ctx, "GAME12345678")
	s.Require().NoError(err)
	s.Equal(45, view.TilesRemaining)
}

func (s *ControllerSuite) TestCreateGameByUnknownRelayerRejected() {
	_, err := s.controller.CreateGame(s.ctx, "mallory", "alice", "Alice", s.defaultConfig())
	s.ErrorIs(err, model.ErrUnauthorized)

	// Nothing was written
	_, err = s.controller.GetGame(s.ctx, "GAME12345678")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestCreateGameByRelayerRecordsController() {
	s.Require().NoError(s.authService.AuthorizeRelayer(s.ctx, "owner", "relay-1"))
	s.random.QueueString("GAME12345678")

	game, err := s.controller.CreateGame(s.ctx, "relay-1", "alice", "Alice", s.defaultConfig())
	s.Require().NoError(err)
	s.Equal(model.Address("alice"), game.Creator)

	controller, err := s.authService.GetController(s.ctx, "GAME12345678", "alice")
	s.Require().NoError(err)
	s.Equal(model.Address("relay-1"), controller)
}

// JoinGame tests

func (s *ControllerSuite) TestJoinGameAutoStartsWhenFull() {
	game := s.createStartedGame()

	s.Equal(model.GameStateInProgress, game.State)
	s.Equal([]model.Address{"alice", "bob"}, game.Players)
	s.Equal(model.Address("alice"), game.CurrentPlayer())

	for _, addr := range game.Players {
		ps, err := s.storage.GetPlayerState(s.ctx, game.ID, addr)
		s.Require().NoError(err)
		s.Len(ps.Hand, model.HandSize)
	}
}

func (s *ControllerSuite) TestJoinGameRejectsDuplicates() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice",
		CreateConfig{MaxPlayers: 3, WinningScore: 100})
	s.Require().NoError(err)

	_, err = s.controller.JoinGame(s.ctx, "GAME12345678", "alice", "alice", "Alice")
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *ControllerSuite) TestJoinGameRejectsWhenNotInSetup() {
	game := s.createStartedGame()

	_, err := s.controller.JoinGame(s.ctx, game.ID, "carol", "carol", "Carol")
	s.ErrorIs(err, model.ErrGameNotInSetup)
}

func (s *ControllerSuite) TestJoinUnknownGame() {
	_, err := s.controller.JoinGame(s.ctx, "NOSUCHGAME00", "bob", "bob", "Bob")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameBeforeRosterFills() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice",
		CreateConfig{MaxPlayers: 4, WinningScore: 100})
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, "GAME12345678", "bob", "bob", "Bob")
	s.Require().NoError(err)

	game, err := s.controller.StartGame(s.ctx, "GAME12345678", "alice")
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, game.State)
	s.Equal(2, game.PlayerCount())
}

func (s *ControllerSuite) TestStartGameRestrictedToCreator() {
	s.random.QueueString("GAME12345678")
	_, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice",
		CreateConfig{MaxPlayers: 4, WinningScore: 100})
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, "GAME12345678", "bob", "bob", "Bob")
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, "GAME12345678", "bob")
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestStartGameTwiceRejected() {
	game := s.createStartedGame()

	_, err := s.controller.StartGame(s.ctx, game.ID, "alice")
	s.ErrorIs(err, model.ErrGameNotInSetup)
}

// PlayTurn tests

func (s *ControllerSuite) TestOpeningMoveThenScoringMove() {
	game := s.createStartedGame()

	// Player 1 opens with a lone tile: no line, no score
	s.setHand(game.ID, "alice", 2, 9, 9, 9, 9)
	result, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(2, 7, 7)))
	s.Require().NoError(err)
	s.Equal(0, result.TurnScore)
	s.Empty(result.Lines)
	s.Equal(model.Address("bob"), result.Game.CurrentPlayer())
	s.Equal(1, result.Game.TurnNumber)

	// Player 2 completes a line summing to 5: 50 points
	s.setHand(game.ID, "bob", 3, 9, 9, 9, 9)
	result, err = s.controller.PlayTurn(s.ctx, game.ID, "bob", "bob", play(tile(3, 8, 7)))
	s.Require().NoError(err)
	s.Equal(50, result.TurnScore)
	s.Equal(50, result.Player.Score)
	s.Equal([]int{0, 50}, result.Game.Scores)
}

func (s *ControllerSuite) TestPlayTurnRefillsHand() {
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 2, 9, 9, 9, 9)
	result, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(2, 7, 7)))
	s.Require().NoError(err)

	s.Len(result.Player.Hand, model.HandSize)
	s.Equal(1, result.Player.PlacedCount)
	s.Equal(model.PoolTotal,
		result.Player.PlacedCount+len(result.Player.Hand)+result.Player.Pool.Remaining())
}

func (s *ControllerSuite) TestPlayTurnOutOfTurnRejected() {
	game := s.createStartedGame()

	s.setHand(game.ID, "bob", 2, 9, 9, 9, 9)
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "bob", "bob", play(tile(2, 7, 7)))
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestPlayTurnByNonPlayerRejected() {
	game := s.createStartedGame()

	_, err := s.controller.PlayTurn(s.ctx, game.ID, "carol", "carol", play(tile(2, 7, 7)))
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestRejectedPlayLeavesStateUntouched() {
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 2, 9, 9, 9, 9)
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(2, 7, 7)))
	s.Require().NoError(err)

	s.setHand(game.ID, "bob", 4, 9, 9, 9, 9)

	before, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	psBefore, err := s.storage.GetPlayerState(s.ctx, game.ID, "bob")
	s.Require().NoError(err)
	boardBefore, err := s.storage.GetBoard(s.ctx, game.ID)
	s.Require().NoError(err)

	// Line sum 2+4=6 violates the fives rule
	_, err = s.controller.PlayTurn(s.ctx, game.ID, "bob", "bob", play(tile(4, 8, 7)))
	s.ErrorIs(err, model.ErrInvalidPlacement)

	after, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(before.Game, after.Game)

	psAfter, err := s.storage.GetPlayerState(s.ctx, game.ID, "bob")
	s.Require().NoError(err)
	s.Equal(psBefore, psAfter)

	boardAfter, err := s.storage.GetBoard(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(boardBefore, boardAfter)
}

func (s *ControllerSuite) TestBoardTilesAreImmutableAcrossTurns() {
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 2, 9, 9, 9, 9)
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(2, 7, 7)))
	s.Require().NoError(err)

	s.setHand(game.ID, "bob", 3, 9, 9, 9, 9)
	_, err = s.controller.PlayTurn(s.ctx, game.ID, "bob", "bob", play(tile(3, 8, 7)))
	s.Require().NoError(err)

	b, err := s.storage.GetBoard(s.ctx, game.ID)
	s.Require().NoError(err)
	placed, ok := b.Get(model.Position{X: 7, Y: 7})
	s.Require().True(ok)
	s.Equal(model.Tile(2), placed.Number)
	s.Equal(0, placed.TurnPlaced)
}

func (s *ControllerSuite) TestWinningScoreCompletesGame() {
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 5, 5, 9, 9, 9)
	// One line of 5+5=10 scores 100, meeting the threshold
	result, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice",
		play(tile(5, 0, 0), tile(5, 1, 0)))
	s.Require().NoError(err)

	s.Equal(100, result.TurnScore)
	s.Equal(model.GameStateCompleted, result.Game.State)
	// The turn counter and rotation both advance even on the winning turn
	s.Equal(1, result.Game.TurnNumber)
	s.Equal(1, result.Game.CurrentPlayerIndex)

	// No further turns are accepted
	s.setHand(game.ID, "bob", 5, 9, 9, 9, 9)
	_, err = s.controller.PlayTurn(s.ctx, game.ID, "bob", "bob", play(tile(5, 0, 1)))
	s.ErrorIs(err, model.ErrGameNotInProgress)
}

func (s *ControllerSuite) TestPlayTurnBindsController() {
	s.Require().NoError(s.authService.AuthorizeRelayer(s.ctx, "owner", "relay-1"))
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 2, 9, 9, 9, 9)
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "relay-1", "alice", play(tile(2, 7, 7)))
	s.Require().NoError(err)

	controller, err := s.authService.GetController(s.ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(model.Address("relay-1"), controller)
}

func (s *ControllerSuite) TestRejectedPlayDoesNotRebindController() {
	s.Require().NoError(s.authService.AuthorizeRelayer(s.ctx, "owner", "relay-1"))
	game := s.createStartedGame()

	// Out of turn: bob is not the current player
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "relay-1", "bob", play(tile(2, 7, 7)))
	s.ErrorIs(err, model.ErrNotYourTurn)

	controller, err := s.authService.GetController(s.ctx, game.ID, "bob")
	s.Require().NoError(err)
	s.Equal(model.Address("bob"), controller)
}

// SkipTurn tests

func (s *ControllerSuite) TestSkipTurnAdvancesRotation() {
	game := s.createStartedGame()

	updated, err := s.controller.SkipTurn(s.ctx, game.ID, "alice", "alice")
	s.Require().NoError(err)

	s.Equal(1, updated.TurnNumber)
	s.Equal(model.Address("bob"), updated.CurrentPlayer())
	s.Equal([]int{0, 0}, updated.Scores)
}

func (s *ControllerSuite) TestSkipTurnRedrawsHand() {
	game := s.createStartedGame()

	before, err := s.storage.GetPlayerState(s.ctx, game.ID, "alice")
	s.Require().NoError(err)

	_, err = s.controller.SkipTurn(s.ctx, game.ID, "alice", "alice")
	s.Require().NoError(err)

	after, err := s.storage.GetPlayerState(s.ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Len(after.Hand, model.HandSize)
	s.Equal(before.Pool.Remaining(), after.Pool.Remaining())
	s.Equal(0, after.PlacedCount)
}

func (s *ControllerSuite) TestSkipTurnOutOfTurnRejected() {
	game := s.createStartedGame()

	_, err := s.controller.SkipTurn(s.ctx, game.ID, "bob", "bob")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

// Exhaustion tests

func (s *ControllerSuite) TestGameCompletesWhenAllPoolsExhaust() {
	s.random.QueueString("GAME12345678")
	game, err := s.controller.CreateGame(s.ctx, "alice", "alice", "Alice",
		CreateConfig{MaxPlayers: 1, WinningScore: 1000000})
	s.Require().NoError(err)

	// Drain to a single playable tile
	ps, err := s.storage.GetPlayerState(s.ctx, game.ID, "alice")
	s.Require().NoError(err)
	ps.Hand = []model.Tile{5}
	ps.Pool = model.TilePool{}
	ps.PlacedCount = model.PoolTotal - 1
	s.Require().NoError(s.storage.SavePlayerState(s.ctx, ps))

	result, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(5, 0, 0)))
	s.Require().NoError(err)
	s.Equal(model.GameStateCompleted, result.Game.State)
}

func (s *ControllerSuite) TestGameContinuesWhileAnySeatHasTiles() {
	game := s.createStartedGame()

	ps, err := s.storage.GetPlayerState(s.ctx, game.ID, "alice")
	s.Require().NoError(err)
	ps.Hand = []model.Tile{5}
	ps.Pool = model.TilePool{}
	ps.PlacedCount = model.PoolTotal - 1
	s.Require().NoError(s.storage.SavePlayerState(s.ctx, ps))

	// Alice plays her last tile but bob still has a full pool
	result, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice", play(tile(5, 0, 0)))
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, result.Game.State)
	s.Equal(model.Address("bob"), result.Game.CurrentPlayer())
}

// CancelGame tests

func (s *ControllerSuite) TestCancelGame() {
	game := s.createStartedGame()

	cancelled, err := s.controller.CancelGame(s.ctx, game.ID, "alice")
	s.Require().NoError(err)
	s.Equal(model.GameStateCancelled, cancelled.State)

	_, err = s.controller.SkipTurn(s.ctx, game.ID, "alice", "alice")
	s.ErrorIs(err, model.ErrGameNotInProgress)
}

func (s *ControllerSuite) TestCancelGameRestrictedToCreator() {
	game := s.createStartedGame()

	_, err := s.controller.CancelGame(s.ctx, game.ID, "bob")
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestCancelCompletedGameRejected() {
	game := s.createStartedGame()

	s.setHand(game.ID, "alice", 5, 5, 9, 9, 9)
	_, err := s.controller.PlayTurn(s.ctx, game.ID, "alice", "alice",
		play(tile(5, 0, 0), tile(5, 1, 0)))
	s.Require().NoError(err)

	_, err = s.controller.CancelGame(s.ctx, game.ID, "alice")
	s.ErrorIs(err, model.ErrGameNotInProgress)
}

// Read tests

func (s *ControllerSuite) TestGetGameReportsTilesRemaining() {
	game := s.createStartedGame()

	view, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	// Two seats dealt five tiles each from 50-tile pools
	s.Equal(90, view.TilesRemaining)
}

func (s *ControllerSuite) TestGetPlayerNotInGame() {
	game := s.createStartedGame()

	_, err := s.controller.GetPlayer(s.ctx, game.ID, "carol")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
