package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/fivesgame-go/internal/dependencies/mocks"
	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/testutil"
)

func newTestBroadcaster() (*HubManager, *Broadcaster) {
	logger := testutil.NopLogger()
	manager := NewHubManager(logger)
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return manager, NewBroadcaster(manager, clk, logger)
}

// receive waits for one message on the client's channel
func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

// eventData extracts and decodes the JSON payload of an SSE message
func eventData(t *testing.T, msg string) model.Event {
	t.Helper()
	var data string
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "data: ") {
			data += strings.TrimPrefix(line, "data: ")
		}
	}
	var event model.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		t.Fatalf("failed to decode event %q: %v", data, err)
	}
	return event
}

func TestBroadcaster_TurnPlayed(t *testing.T) {
	manager, broadcaster := newTestBroadcaster()

	game := &model.Game{
		ID:                 "GAME12345678",
		State:              model.GameStateInProgress,
		Players:            []model.Address{"alice", "bob"},
		Scores:             []int{50, 0},
		TurnNumber:         1,
		CurrentPlayerIndex: 1,
	}

	hub := manager.GetOrCreateHub(game.ID)
	client := NewClient(hub, "bob")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	tiles := []model.PlacedTileAt{
		{Pos: model.Position{X: 7, Y: 7}, Number: 2, TurnPlaced: 0},
	}
	broadcaster.TurnPlayed(game, "alice", tiles, 50, 50)

	msg := receive(t, client)
	if !strings.Contains(msg, "event: turn_played") {
		t.Errorf("message does not carry the event name: %s", msg)
	}

	event := eventData(t, msg)
	if event.Type != model.EventTurnPlayed {
		t.Errorf("event type = %q, want %q", event.Type, model.EventTurnPlayed)
	}
	if event.GameID != game.ID {
		t.Errorf("event game id = %q, want %q", event.GameID, game.ID)
	}
	if event.Player != "alice" {
		t.Errorf("event player = %q, want alice", event.Player)
	}
	if !strings.Contains(msg, `"next_player":"bob"`) {
		t.Errorf("payload missing next player: %s", msg)
	}
	if !strings.Contains(msg, `"turn_score":50`) {
		t.Errorf("payload missing turn score: %s", msg)
	}

	manager.RemoveHub(game.ID)
}

func TestBroadcaster_GameCompletedOmitsNextPlayer(t *testing.T) {
	manager, broadcaster := newTestBroadcaster()

	game := &model.Game{
		ID:         "GAME12345678",
		State:      model.GameStateCompleted,
		Players:    []model.Address{"alice", "bob"},
		Scores:     []int{100, 30},
		TurnNumber: 6,
	}

	hub := manager.GetOrCreateHub(game.ID)
	client := NewClient(hub, "")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// The winning turn does not rotate; no next player is announced
	broadcaster.TurnPlayed(game, "alice", nil, 100, 100)
	msg := receive(t, client)
	if strings.Contains(msg, "next_player") {
		t.Errorf("completed game should not announce a next player: %s", msg)
	}

	broadcaster.GameCompleted(game, "alice")
	msg = receive(t, client)
	if !strings.Contains(msg, "event: game_completed") {
		t.Errorf("message does not carry the event name: %s", msg)
	}
	if !strings.Contains(msg, `"winner":"alice"`) {
		t.Errorf("payload missing winner: %s", msg)
	}
	if !strings.Contains(msg, `"scores":[100,30]`) {
		t.Errorf("payload missing scores: %s", msg)
	}

	manager.RemoveHub(game.ID)
}

func TestBroadcaster_NoHubIsANoop(t *testing.T) {
	_, broadcaster := newTestBroadcaster()

	game := &model.Game{
		ID:      "GAMENOBODY00",
		State:   model.GameStateSetup,
		Players: []model.Address{"alice"},
	}

	// Nobody is watching; publishing must not panic or block
	broadcaster.GameCreated(game)
}

func TestBroadcaster_PlayerJoined(t *testing.T) {
	manager, broadcaster := newTestBroadcaster()

	game := &model.Game{
		ID:      "GAME12345678",
		State:   model.GameStateSetup,
		Players: []model.Address{"alice", "bob"},
		Scores:  []int{0, 0},
	}

	hub := manager.GetOrCreateHub(game.ID)
	client := NewClient(hub, "alice")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster.PlayerJoined(game, "bob", "Bob")

	msg := receive(t, client)
	if !strings.Contains(msg, "event: player_joined") {
		t.Errorf("message does not carry the event name: %s", msg)
	}
	if !strings.Contains(msg, `"seat":1`) {
		t.Errorf("payload missing seat: %s", msg)
	}
	if !strings.Contains(msg, `"name":"Bob"`) {
		t.Errorf("payload missing name: %s", msg)
	}

	manager.RemoveHub(game.ID)
}
