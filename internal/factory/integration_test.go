package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/game"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// setHand forces a player's hand to known tiles so turns can be scripted
func (s *IntegrationSuite) setHand(gameID model.GameID, player model.Address, tiles ...model.Tile) {
	ps, err := s.app.Storage.GetPlayerState(s.ctx, gameID, player)
	s.Require().NoError(err)

	pool := model.NewTilePool()
	for _, t := range tiles {
		s.Require().True(pool[t] > 0)
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
	s.Require().NoError(s.app.Storage.SavePlayerState(s.ctx, ps))
}

// Test: complete game flow from creation to a threshold win
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("GAME12345678")

	// Step 1: Alice creates a 2-player game to 100 points
	cfg := game.CreateConfig{MaxPlayers: 2, WinningScore: 100}
	g, err := s.app.GameController.CreateGame(s.ctx, "alice", "alice", "Alice", cfg)
	s.Require().NoError(err)
	s.Equal(model.GameID("GAME12345678"), g.ID)
	s.Equal(model.GameStateSetup, g.State)

	// Step 2: Bob joins; the roster fills and the game starts
	g, err = s.app.GameController.JoinGame(s.ctx, g.ID, "bob", "bob", "Bob")
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, g.State)
	s.Equal(model.Address("alice"), g.CurrentPlayer())

	view, err := s.app.GameController.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(90, view.TilesRemaining)

	// Step 3: Alice opens with a lone 2 at the origin; no line, no score
	s.setHand(g.ID, "alice", 2, 9, 9, 9, 9)
	result, err := s.app.GameController.PlayTurn(s.ctx, g.ID, "alice", "alice",
		model.Batch{{Number: 2, Pos: model.Position{X: 0, Y: 0}}})
	s.Require().NoError(err)
	s.Equal(0, result.TurnScore)

	// Step 4: Bob extends the row to 2+3=5 and scores 50
	s.setHand(g.ID, "bob", 3, 9, 9, 9, 9)
	result, err = s.app.GameController.PlayTurn(s.ctx, g.ID, "bob", "bob",
		model.Batch{{Number: 3, Pos: model.Position{X: 1, Y: 0}}})
	s.Require().NoError(err)
	s.Equal(50, result.TurnScore)
	s.Equal([]int{0, 50}, result.Game.Scores)

	// Step 5: Alice skips; bob extends the row to 2+3+5+5=15 and the
	// 150 points carry him past the threshold
	_, err = s.app.GameController.SkipTurn(s.ctx, g.ID, "alice", "alice")
	s.Require().NoError(err)

	s.setHand(g.ID, "bob", 5, 5, 9, 9, 9)
	result, err = s.app.GameController.PlayTurn(s.ctx, g.ID, "bob", "bob", model.Batch{
		{Number: 5, Pos: model.Position{X: 2, Y: 0}},
		{Number: 5, Pos: model.Position{X: 3, Y: 0}},
	})
	s.Require().NoError(err)
	s.Equal(150, result.TurnScore)
	s.Equal(200, result.Player.Score)
	s.Equal(model.GameStateCompleted, result.Game.State)

	// Step 6: Bob leads the final standings
	winner := s.app.ScoringService.Leader(result.Game.Players, result.Game.Scores)
	s.Equal(model.Address("bob"), winner)

	// Step 7: The board carries all four committed tiles
	tiles, err := s.app.BoardService.Snapshot(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(tiles, 4)
}

// Test: islands allowed - batches may open anywhere
func (s *IntegrationSuite) TestAllowIslandsFlow() {
	s.app.MockRandom.QueueString("GAME12345678")

	cfg := game.CreateConfig{MaxPlayers: 1, AllowIslands: true, WinningScore: 1000}
	g, err := s.app.GameController.CreateGame(s.ctx, "alice", "alice", "Alice", cfg)
	s.Require().NoError(err)
	s.Equal(model.GameStateInProgress, g.State)

	s.setHand(g.ID, "alice", 0, 9, 9, 9, 9)
	_, err = s.app.GameController.PlayTurn(s.ctx, g.ID, "alice", "alice",
		model.Batch{{Number: 0, Pos: model.Position{X: 0, Y: 0}}})
	s.Require().NoError(err)

	// Far from the opening tile; legal only because islands are allowed
	s.setHand(g.ID, "alice", 5, 9, 9, 9, 9)
	_, err = s.app.GameController.PlayTurn(s.ctx, g.ID, "alice", "alice",
		model.Batch{{Number: 5, Pos: model.Position{X: 100, Y: -100}}})
	s.Require().NoError(err)
}

// Test: relayer authorization through the wired auth service
func (s *IntegrationSuite) TestRelayerFlow() {
	// Only the owner can extend the allowlist
	err := s.app.AuthService.AuthorizeRelayer(s.ctx, "mallory", "relay-1")
	s.ErrorIs(err, model.ErrNotOwner)

	err = s.app.AuthService.AuthorizeRelayer(s.ctx, TestOwner, "relay-1")
	s.Require().NoError(err)

	// The relayer can now create games for any player
	s.app.MockRandom.QueueString("GAME12345678")
	cfg := game.CreateConfig{MaxPlayers: 1, WinningScore: 100}
	g, err := s.app.GameController.CreateGame(s.ctx, "relay-1", "carol", "Carol", cfg)
	s.Require().NoError(err)
	s.Equal(model.Address("carol"), g.Creator)

	controller, err := s.app.AuthService.GetController(s.ctx, g.ID, "carol")
	s.Require().NoError(err)
	s.Equal(model.Address("relay-1"), controller)

	// Unlisted callers still cannot act for carol
	_, err = s.app.GameController.SkipTurn(s.ctx, g.ID, "mallory", "carol")
	s.ErrorIs(err, model.ErrUnauthorized)
}

// Test: the mock clock drives record timestamps
func (s *IntegrationSuite) TestClockDrivesTimestamps() {
	s.app.MockRandom.QueueString("GAME12345678")

	cfg := game.CreateConfig{MaxPlayers: 2, WinningScore: 100}
	g, err := s.app.GameController.CreateGame(s.ctx, "alice", "alice", "Alice", cfg)
	s.Require().NoError(err)
	s.Equal(s.app.MockClock.Now(), g.CreatedAt)
}
