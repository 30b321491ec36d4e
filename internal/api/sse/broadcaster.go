package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/fivesgame-go/internal/dependencies/clock"
	"github.com/mcoot/fivesgame-go/internal/model"
)

// Broadcaster publishes engine events to the SSE clients of a game.
// Events are serialized as JSON under their event type name; delivery is
// best effort and never blocks the publishing call.
type Broadcaster struct {
	hubManager *HubManager
	clock      clock.Clock
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, clock clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		clock:      clock,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends one event to every client watching its game
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}

// event builds the common envelope for a game event
func (b *Broadcaster) event(eventType model.EventType, gameID model.GameID, player model.Address, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: b.clock.Now(),
		GameID:    gameID,
		Player:    player,
		Payload:   payload,
	}
}

// GameCreated publishes a game created event
func (b *Broadcaster) GameCreated(game *model.Game) {
	b.Publish(b.event(model.EventGameCreated, game.ID, game.Creator, model.GameCreatedPayload{
		Creator:      game.Creator,
		MaxPlayers:   game.MaxPlayers,
		AllowIslands: game.AllowIslands,
		WinningScore: game.WinningScore,
	}))
}

// PlayerJoined publishes a player joined event
func (b *Broadcaster) PlayerJoined(game *model.Game, player model.Address, name string) {
	seat, _ := game.SeatOf(player)
	b.Publish(b.event(model.EventPlayerJoined, game.ID, player, model.PlayerJoinedPayload{
		Name: name,
		Seat: seat,
	}))
}

// GameStarted publishes a game started event
func (b *Broadcaster) GameStarted(game *model.Game) {
	b.Publish(b.event(model.EventGameStarted, game.ID, "", model.GameStartedPayload{
		Players: game.Players,
	}))
}

// TurnPlayed publishes a turn played event
func (b *Broadcaster) TurnPlayed(game *model.Game, player model.Address, tiles []model.PlacedTileAt, turnScore, newScore int) {
	payload := model.TurnPlayedPayload{
		TurnNumber: game.TurnNumber - 1,
		Tiles:      tiles,
		TurnScore:  turnScore,
		NewScore:   newScore,
	}
	if game.State == model.GameStateInProgress {
		payload.NextPlayer = game.CurrentPlayer()
	}
	b.Publish(b.event(model.EventTurnPlayed, game.ID, player, payload))
}

// TurnSkipped publishes a turn skipped event
func (b *Broadcaster) TurnSkipped(game *model.Game, player model.Address) {
	payload := model.TurnSkippedPayload{
		TurnNumber: game.TurnNumber - 1,
	}
	if game.State == model.GameStateInProgress {
		payload.NextPlayer = game.CurrentPlayer()
	}
	b.Publish(b.event(model.EventTurnSkipped, game.ID, player, payload))
}

// GameCompleted publishes a game completed event
func (b *Broadcaster) GameCompleted(game *model.Game, winner model.Address) {
	b.Publish(b.event(model.EventGameCompleted, game.ID, "", model.GameCompletedPayload{
		Winner: winner,
		Scores: game.Scores,
	}))
}
