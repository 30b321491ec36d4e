package model

import "time"

// Tile is a digit tile value in [0, 9]
type Tile int

// Tile and inventory constants
const (
	TileValues = 10 // Digits 0-9
	PoolCopies = 5  // Copies of each digit in a fresh pool
	HandSize   = 5  // Maximum tiles held in hand
	PoolTotal  = TileValues * PoolCopies
)

// IsValidTile reports whether t is a legal tile value
func IsValidTile(t Tile) bool {
	return t >= 0 && t < TileValues
}

// TilePool is a player's private remaining inventory, indexed by tile value
type TilePool [TileValues]int

// NewTilePool returns a full pool: PoolCopies of each digit
func NewTilePool() TilePool {
	var p TilePool
	for i := range p {
		p[i] = PoolCopies
	}
	return p
}

// Remaining returns the number of undrawn tiles left in the pool
func (p *TilePool) Remaining() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Take removes one copy of the tile at the given mass offset.
// The offset indexes the remaining multiset in value order, so a uniform
// offset over Remaining() draws uniformly over remaining mass.
func (p *TilePool) Take(offset int) (Tile, bool) {
	if offset < 0 {
		return 0, false
	}
	for value, count := range p {
		if offset < count {
			p[value]--
			return Tile(value), true
		}
		offset -= count
	}
	return 0, false
}

// Return puts one copy of the tile back into the pool
func (p *TilePool) Return(t Tile) {
	if IsValidTile(t) {
		p[t]++
	}
}

// PlayerState is one player's standing within a single game
type PlayerState struct {
	GameID  GameID
	Address Address

	Name  string
	Score int

	Hand []Tile
	Pool TilePool

	// PlacedCount tracks tiles this player has committed to the board,
	// so PlacedCount + len(Hand) + Pool.Remaining() == PoolTotal always
	PlacedCount int

	JoinedAt time.Time
}

// NewPlayerState returns a fresh player record with a full pool and empty hand
func NewPlayerState(gameID GameID, address Address, name string, joinedAt time.Time) *PlayerState {
	return &PlayerState{
		GameID:   gameID,
		Address:  address,
		Name:     name,
		Hand:     []Tile{},
		Pool:     NewTilePool(),
		JoinedAt: joinedAt,
	}
}

// HandContains reports whether the hand holds all tiles in the batch,
// respecting multiplicity
func (ps *PlayerState) HandContains(tiles []Tile) bool {
	var counts [TileValues]int
	for _, t := range ps.Hand {
		counts[t]++
	}
	for _, t := range tiles {
		if !IsValidTile(t) {
			return false
		}
		counts[t]--
		if counts[t] < 0 {
			return false
		}
	}
	return true
}

// RemoveFromHand removes one copy of each given tile from the hand.
// Returns false without modifying the hand if any tile is missing.
func (ps *PlayerState) RemoveFromHand(tiles []Tile) bool {
	if !ps.HandContains(tiles) {
		return false
	}
	for _, t := range tiles {
		for i, h := range ps.Hand {
			if h == t {
				ps.Hand = append(ps.Hand[:i], ps.Hand[i+1:]...)
				break
			}
		}
	}
	return true
}

// Clone returns a deep copy of the player state
func (ps *PlayerState) Clone() *PlayerState {
	clone := *ps
	clone.Hand = append([]Tile(nil), ps.Hand...)
	return &clone
}
