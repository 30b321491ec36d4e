package model

import (
	"encoding/json"
	"sort"
)

// Position identifies a cell on the unbounded board
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbors returns the four orthogonally adjacent positions
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
		{p.X + 1, p.Y},
	}
}

// PlacedTile is the immutable contents of an occupied cell
type PlacedTile struct {
	Number     Tile `json:"number"`
	TurnPlaced int  `json:"turn_placed"`
}

// Placement is one proposed tile in a batch
type Placement struct {
	Number Tile `json:"number"`
	Pos    Position
}

// Batch is the ordered set of placements submitted as one turn
type Batch []Placement

// Numbers returns the tile values of the batch in submission order
func (b Batch) Numbers() []Tile {
	numbers := make([]Tile, len(b))
	for i, p := range b {
		numbers[i] = p.Number
	}
	return numbers
}

// Line is a maximal contiguous run of tiles sharing one row or column
type Line struct {
	Positions  []Position
	Numbers    []Tile
	Horizontal bool
}

// Sum returns the total tile value of the line
func (l *Line) Sum() int {
	total := 0
	for _, n := range l.Numbers {
		total += int(n)
	}
	return total
}

// Board is the shared sparse grid for one game.
// Cells are write-once: a placed tile is never removed or overwritten.
type Board struct {
	GameID GameID
	Cells  map[Position]PlacedTile
}

// NewBoard creates an empty board for the given game
func NewBoard(gameID GameID) *Board {
	return &Board{
		GameID: gameID,
		Cells:  make(map[Position]PlacedTile),
	}
}

// Exists reports whether the cell at pos is occupied
func (b *Board) Exists(pos Position) bool {
	_, ok := b.Cells[pos]
	return ok
}

// Get returns the tile at pos, if any
func (b *Board) Get(pos Position) (PlacedTile, bool) {
	t, ok := b.Cells[pos]
	return t, ok
}

// Place writes a tile into an empty cell.
// Returns ErrCellOccupied if the cell is already taken; the validator
// pre-checks occupancy so hitting this indicates a bug upstream.
func (b *Board) Place(pos Position, number Tile, turn int) error {
	if b.Exists(pos) {
		return ErrCellOccupied
	}
	b.Cells[pos] = PlacedTile{Number: number, TurnPlaced: turn}
	return nil
}

// IsEmpty reports whether no tile has been placed yet
func (b *Board) IsEmpty() bool {
	return len(b.Cells) == 0
}

// Size returns the number of placed tiles
func (b *Board) Size() int {
	return len(b.Cells)
}

// PlacedTileAt pairs a position with its cell contents for snapshots
type PlacedTileAt struct {
	Pos        Position `json:"pos"`
	Number     Tile     `json:"number"`
	TurnPlaced int      `json:"turn_placed"`
}

// Snapshot returns every placed tile in deterministic (y, then x) order
func (b *Board) Snapshot() []PlacedTileAt {
	tiles := make([]PlacedTileAt, 0, len(b.Cells))
	for pos, cell := range b.Cells {
		tiles = append(tiles, PlacedTileAt{Pos: pos, Number: cell.Number, TurnPlaced: cell.TurnPlaced})
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Pos.Y != tiles[j].Pos.Y {
			return tiles[i].Pos.Y < tiles[j].Pos.Y
		}
		return tiles[i].Pos.X < tiles[j].Pos.X
	})
	return tiles
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make(map[Position]PlacedTile, len(b.Cells))
	for pos, cell := range b.Cells {
		cells[pos] = cell
	}
	return &Board{GameID: b.GameID, Cells: cells}
}

// boardJSON is the wire form of a board; the cell map has a struct key
// and cannot round-trip through encoding/json directly
type boardJSON struct {
	GameID GameID         `json:"game_id"`
	Tiles  []PlacedTileAt `json:"tiles"`
}

// MarshalJSON implements json.Marshaler
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{
		GameID: b.GameID,
		Tiles:  b.Snapshot(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Board) UnmarshalJSON(data []byte) error {
	var wire boardJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	b.GameID = wire.GameID
	b.Cells = make(map[Position]PlacedTile, len(wire.Tiles))
	for _, t := range wire.Tiles {
		b.Cells[t.Pos] = PlacedTile{Number: t.Number, TurnPlaced: t.TurnPlaced}
	}
	return nil
}
