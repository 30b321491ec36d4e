package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/fivesgame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Reason carries the placement sub-cause for invalid placements
	Reason string `json:"reason,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotOwner          = "NOT_OWNER"
	CodeNotYourTurn       = "NOT_YOUR_TURN"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeGameNotInSetup    = "GAME_NOT_IN_SETUP"
	CodeGameNotInProgress = "GAME_NOT_IN_PROGRESS"
	CodeGameFull          = "GAME_FULL"
	CodeAlreadyJoined     = "ALREADY_JOINED"
	CodeInvalidPlacement  = "INVALID_PLACEMENT"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Placement rejections carry a structured reason
	var pe *model.PlacementError
	if errors.As(err, &pe) {
		return &httpError{http.StatusUnprocessableEntity, APIError{
			Code:    CodeInvalidPlacement,
			Message: pe.Error(),
			Reason:  string(pe.Reason),
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, APIError{Code: CodeUnauthorized, Message: "Caller may not act for this player"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotOwner, Message: "Only the service owner can perform this action"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeGameNotFound, Message: "Game not found"}}
	case errors.Is(err, model.ErrBoardNotFound):
		// A board exists exactly when its game does
		return &httpError{http.StatusNotFound, APIError{Code: CodeGameNotFound, Message: "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found in game"}}
	case errors.Is(err, model.ErrGameNotInSetup):
		return &httpError{http.StatusConflict, APIError{Code: CodeGameNotInSetup, Message: "Game is not accepting joins or starts"}}
	case errors.Is(err, model.ErrGameNotInProgress):
		return &httpError{http.StatusConflict, APIError{Code: CodeGameNotInProgress, Message: "Game is not in progress"}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{Code: CodeGameFull, Message: "Game is full"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyJoined, Message: "Player has already joined this game"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotYourTurn, Message: "Not your turn"}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidConfig, Message: "Invalid game configuration"}}
	case errors.Is(err, model.ErrInvalidPlacement):
		return &httpError{http.StatusUnprocessableEntity, APIError{Code: CodeInvalidPlacement, Message: "Invalid placement"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Caller address required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
