package tilepool

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"

	"github.com/mcoot/fivesgame-go/internal/model"
)

// Service owns each player's private tile pool and hand top-up logic.
//
// Draws are deterministic: the RNG for each call is seeded from the game ID,
// turn number, player address and remaining pool size, so a draw is
// reproducible given those inputs but changes from turn to turn.
type Service struct {
	logger *slog.Logger
}

// New creates a new tile pool service
func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// drawSeed derives the deterministic seed for one draw call
func drawSeed(gameID model.GameID, turn int, address model.Address, poolRemaining int) int64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%d|%s|%d", gameID, turn, address, poolRemaining)
	return int64(h.Sum64())
}

// DrawToFill tops up the player's hand from their pool until the hand holds
// HandSize tiles or the pool is exhausted. An exhausted pool is not an
// error; the hand simply stays short.
func (s *Service) DrawToFill(gameID model.GameID, turn int, ps *model.PlayerState) {
	remaining := ps.Pool.Remaining()
	if remaining == 0 || len(ps.Hand) >= model.HandSize {
		return
	}

	rng := rand.New(rand.NewSource(drawSeed(gameID, turn, ps.Address, remaining)))

	for len(ps.Hand) < model.HandSize {
		remaining = ps.Pool.Remaining()
		if remaining == 0 {
			break
		}
		tile, ok := ps.Pool.Take(rng.Intn(remaining))
		if !ok {
			break
		}
		ps.Hand = append(ps.Hand, tile)
	}

	s.logger.Debug("hand filled",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(ps.Address)),
		slog.Int("hand_size", len(ps.Hand)),
		slog.Int("pool_remaining", ps.Pool.Remaining()),
	)
}

// Redraw returns the player's entire hand to the pool and draws a fresh one.
// Used on skipped turns so a hand with no legal move can cycle.
func (s *Service) Redraw(gameID model.GameID, turn int, ps *model.PlayerState) {
	for _, t := range ps.Hand {
		ps.Pool.Return(t)
	}
	ps.Hand = ps.Hand[:0]
	s.DrawToFill(gameID, turn, ps)
}

// IsExhausted reports whether the player has no tiles left anywhere to play
func (s *Service) IsExhausted(ps *model.PlayerState) bool {
	return len(ps.Hand) == 0 && ps.Pool.Remaining() == 0
}
