package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated   EventType = "game_created"
	EventPlayerJoined  EventType = "player_joined"
	EventGameStarted   EventType = "game_started"
	EventTurnPlayed    EventType = "turn_played"
	EventTurnSkipped   EventType = "turn_skipped"
	EventGameCompleted EventType = "game_completed"
)

// Event is the base structure for all engine events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id"`
	Player    Address   `json:"player,omitempty"` // The player the event concerns
	Payload   any       `json:"payload,omitempty"`
}

// GameCreatedPayload contains data for game created events
type GameCreatedPayload struct {
	Creator      Address `json:"creator"`
	MaxPlayers   int     `json:"max_players"`
	AllowIslands bool    `json:"allow_islands"`
	WinningScore int     `json:"winning_score"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Players []Address `json:"players"`
}

// TurnPlayedPayload contains data for turn played events
type TurnPlayedPayload struct {
	TurnNumber int            `json:"turn_number"`
	Tiles      []PlacedTileAt `json:"tiles"`
	TurnScore  int            `json:"turn_score"`
	NewScore   int            `json:"new_score"`
	NextPlayer Address        `json:"next_player,omitempty"`
}

// TurnSkippedPayload contains data for turn skipped events
type TurnSkippedPayload struct {
	TurnNumber int     `json:"turn_number"`
	NextPlayer Address `json:"next_player,omitempty"`
}

// GameCompletedPayload contains data for game completed events
type GameCompletedPayload struct {
	Winner Address `json:"winner,omitempty"` // Empty when the pools ran dry with no threshold reached
	Scores []int   `json:"scores"`
}
