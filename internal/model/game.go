package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Address is a player or relayer identity
type Address string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateSetup      GameState = "setup"       // Waiting for players to join
	GameStateInProgress GameState = "in_progress" // Turns being played
	GameStateCompleted  GameState = "completed"   // A player reached the winning score
	GameStateCancelled  GameState = "cancelled"   // Game was cancelled before completion
)

// Game configuration bounds
const (
	MinPlayers = 1
	MaxPlayers = 4
)

// Game represents a single instance of the fives game
type Game struct {
	ID    GameID
	State GameState

	// Configuration, fixed at creation
	Creator      Address
	MaxPlayers   int
	AllowIslands bool // Permit batches with no adjacency to the existing board
	WinningScore int

	// Seat roster: index is seat order, Scores is parallel to Players
	Players []Address
	Scores  []int

	// Turn management
	TurnNumber         int // Monotonic, starts at 0 when the game begins
	CurrentPlayerIndex int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerCount returns the number of joined players
func (g *Game) PlayerCount() int {
	return len(g.Players)
}

// IsFull returns true once every seat is taken
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// CurrentPlayer returns the address whose turn it is
func (g *Game) CurrentPlayer() Address {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[g.CurrentPlayerIndex]
}

// SeatOf returns the seat index for the given address
func (g *Game) SeatOf(address Address) (int, bool) {
	for i, p := range g.Players {
		if p == address {
			return i, true
		}
	}
	return -1, false
}

// HasJoined returns true if the address holds a seat
func (g *Game) HasJoined(address Address) bool {
	_, ok := g.SeatOf(address)
	return ok
}

// IsTerminal returns true once no further mutations are accepted
func (g *Game) IsTerminal() bool {
	return g.State == GameStateCompleted || g.State == GameStateCancelled
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	clone := *g
	clone.Players = append([]Address(nil), g.Players...)
	clone.Scores = append([]int(nil), g.Scores...)
	return &clone
}
