package placement

import (
	"sort"

	"github.com/mcoot/fivesgame-go/internal/model"
)

// Service validates proposed placement batches against a board.
//
// All rules are checked against an overlay of the proposed batch on the
// current board, before any cell is written. The rules, in order:
// ownership, overlap/occupancy, single-line shape, contiguity, adjacency,
// and the fives-sum rule for every maximal line a new tile touches.
//
// Batches must be colinear, but a newly placed tile may also complete
// perpendicular lines; every maximal line of length two or more that
// contains a new tile must sum to a positive multiple of five, and each
// such line is a scoring line. A lone tile with no neighbors forms no
// line at all, which is what makes the opening move legal.
type Service struct{}

// New creates a new placement validator
func New() *Service {
	return &Service{}
}

// Result is the outcome of a successful validation
type Result struct {
	// Lines are the scoring lines the batch completes or extends
	Lines []model.Line
}

// Validate checks a proposed batch. On success it returns the scoring
// lines the batch touches; on failure it returns a PlacementError and the
// board must remain untouched.
func (s *Service) Validate(board *model.Board, ps *model.PlayerState, batch model.Batch, allowIslands bool) (*Result, error) {
	if len(batch) == 0 {
		return nil, model.NewPlacementError(model.ReasonEmptyBatch, "batch contains no tiles")
	}

	// Rule 1: every tile must come from the player's hand
	if !ps.HandContains(batch.Numbers()) {
		return nil, model.NewPlacementError(model.ReasonTileNotInHand, "batch tiles are not all present in hand")
	}

	// Rule 2: no duplicate targets, no occupied targets
	seen := make(map[model.Position]bool, len(batch))
	for _, p := range batch {
		if seen[p.Pos] {
			return nil, model.NewPlacementError(model.ReasonOverlap, "two tiles target (%d,%d)", p.Pos.X, p.Pos.Y)
		}
		seen[p.Pos] = true
		if board.Exists(p.Pos) {
			return nil, model.NewPlacementError(model.ReasonOccupied, "cell (%d,%d) is already occupied", p.Pos.X, p.Pos.Y)
		}
	}

	// Rule 3: all batch coordinates on one axis
	horizontal, vertical := true, true
	for _, p := range batch[1:] {
		if p.Pos.Y != batch[0].Pos.Y {
			horizontal = false
		}
		if p.Pos.X != batch[0].Pos.X {
			vertical = false
		}
	}
	if !horizontal && !vertical {
		return nil, model.NewPlacementError(model.ReasonNotALine, "batch tiles do not share a row or column")
	}

	view := newOverlay(board, batch)

	// Rule 3 continued: the batch plus any tiles between its ends must form
	// one contiguous run
	if err := checkContiguous(view, batch, horizontal); err != nil {
		return nil, err
	}

	// Rule 4: connection to the existing board, unless this is the opening
	// move or islands are allowed
	if !board.IsEmpty() && !allowIslands {
		if !touchesBoard(board, batch) {
			return nil, model.NewPlacementError(model.ReasonNotAdjacent, "batch does not touch any existing tile")
		}
	}

	// Rule 5: every maximal line through a new tile must sum to a positive
	// multiple of five
	lines := collectLines(view, batch)
	for _, line := range lines {
		sum := line.Sum()
		if sum <= 0 || sum%5 != 0 {
			return nil, model.NewPlacementError(model.ReasonBadLineSum, "line sum %d is not a positive multiple of 5", sum)
		}
	}

	return &Result{Lines: lines}, nil
}

// overlay is a read-only view of the board with the batch applied
type overlay struct {
	board *model.Board
	batch map[model.Position]model.Tile
}

func newOverlay(board *model.Board, batch model.Batch) overlay {
	cells := make(map[model.Position]model.Tile, len(batch))
	for _, p := range batch {
		cells[p.Pos] = p.Number
	}
	return overlay{board: board, batch: cells}
}

func (o overlay) get(pos model.Position) (model.Tile, bool) {
	if t, ok := o.batch[pos]; ok {
		return t, true
	}
	if cell, ok := o.board.Get(pos); ok {
		return cell.Number, true
	}
	return 0, false
}

// checkContiguous verifies the batch span has no holes in the overlay
func checkContiguous(view overlay, batch model.Batch, horizontal bool) error {
	lo, hi := axisBounds(batch, horizontal)
	for i := lo; i <= hi; i++ {
		pos := batch[0].Pos
		if horizontal {
			pos.X = i
		} else {
			pos.Y = i
		}
		if _, ok := view.get(pos); !ok {
			return model.NewPlacementError(model.ReasonGap, "run is broken at (%d,%d)", pos.X, pos.Y)
		}
	}
	return nil
}

// axisBounds returns the min and max coordinate of the batch along its axis
func axisBounds(batch model.Batch, horizontal bool) (int, int) {
	coord := func(p model.Placement) int {
		if horizontal {
			return p.Pos.X
		}
		return p.Pos.Y
	}
	lo, hi := coord(batch[0]), coord(batch[0])
	for _, p := range batch[1:] {
		if c := coord(p); c < lo {
			lo = c
		} else if c > hi {
			hi = c
		}
	}
	return lo, hi
}

// touchesBoard reports whether any batch tile is orthogonally adjacent to a
// pre-existing board tile. Combined with contiguity this connects the whole
// batch to the board.
func touchesBoard(board *model.Board, batch model.Batch) bool {
	for _, p := range batch {
		for _, n := range p.Pos.Neighbors() {
			if board.Exists(n) {
				return true
			}
		}
	}
	return false
}

// lineKey dedupes maximal lines by orientation and start cell
type lineKey struct {
	start      model.Position
	horizontal bool
}

// collectLines gathers every distinct maximal line of length >= 2 that
// passes through a newly placed tile, in both orientations
func collectLines(view overlay, batch model.Batch) []model.Line {
	found := make(map[lineKey]model.Line)
	for _, p := range batch {
		for _, horizontal := range []bool{true, false} {
			line, start := walkLine(view, p.Pos, horizontal)
			if len(line.Positions) < 2 {
				continue
			}
			found[lineKey{start: start, horizontal: horizontal}] = line
		}
	}

	lines := make([]model.Line, 0, len(found))
	for _, line := range found {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i].Positions[0], lines[j].Positions[0]
		if lines[i].Horizontal != lines[j].Horizontal {
			return lines[i].Horizontal
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return lines
}

// walkLine returns the maximal contiguous line through pos in the given
// orientation, along with its start position
func walkLine(view overlay, pos model.Position, horizontal bool) (model.Line, model.Position) {
	step := func(p model.Position, delta int) model.Position {
		if horizontal {
			p.X += delta
		} else {
			p.Y += delta
		}
		return p
	}

	start := pos
	for {
		prev := step(start, -1)
		if _, ok := view.get(prev); !ok {
			break
		}
		start = prev
	}

	line := model.Line{Horizontal: horizontal}
	for p := start; ; p = step(p, 1) {
		t, ok := view.get(p)
		if !ok {
			break
		}
		line.Positions = append(line.Positions, p)
		line.Numbers = append(line.Numbers, t)
	}
	return line, start
}
