package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Authorization errors
	ErrUnauthorized = errors.New("caller is not the player or an authorized relayer")
	ErrNotOwner     = errors.New("caller is not the service owner")

	// Lifecycle errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameNotInSetup    = errors.New("game is not in setup")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrGameFull          = errors.New("game is full")
	ErrAlreadyJoined     = errors.New("player has already joined")
	ErrInvalidConfig     = errors.New("invalid game configuration")

	// Turn errors
	ErrNotYourTurn = errors.New("not this player's turn")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found in game")

	// Board errors
	ErrBoardNotFound = errors.New("board not found")
	ErrCellOccupied  = errors.New("cell is already occupied")

	// Placement errors; PlacementError carries the specific reason
	ErrInvalidPlacement = errors.New("invalid placement")
)

// PlacementReason identifies which placement rule a batch violated
type PlacementReason string

const (
	ReasonEmptyBatch    PlacementReason = "empty_batch"
	ReasonTileNotInHand PlacementReason = "tile_not_in_hand"
	ReasonOverlap       PlacementReason = "overlap"
	ReasonOccupied      PlacementReason = "occupied"
	ReasonNotALine      PlacementReason = "not_a_line"
	ReasonGap           PlacementReason = "gap"
	ReasonNotAdjacent   PlacementReason = "not_adjacent"
	ReasonBadLineSum    PlacementReason = "bad_line_sum"
)

// PlacementError is a placement rejection with a structured reason
type PlacementError struct {
	Reason PlacementReason
	Detail string
}

// Error implements the error interface
func (e *PlacementError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid placement: %s", e.Reason)
	}
	return fmt.Sprintf("invalid placement: %s: %s", e.Reason, e.Detail)
}

// Unwrap lets callers match ErrInvalidPlacement with errors.Is
func (e *PlacementError) Unwrap() error {
	return ErrInvalidPlacement
}

// NewPlacementError creates a PlacementError with a formatted detail
func NewPlacementError(reason PlacementReason, format string, args ...any) *PlacementError {
	return &PlacementError{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
}
