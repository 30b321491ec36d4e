package redis

import (
	"fmt"

	"github.com/mcoot/fivesgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "fives"

// Key generation functions for each entity type

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a PlayerState
func playerKey(gameID model.GameID, address model.Address) string {
	return fmt.Sprintf("%s:player:%s:%s", keyPrefix, gameID, address)
}

// playersForGameIndexKey returns the Redis key for the SET of player addresses in a game
func playersForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:players_for_game:%s", keyPrefix, gameID)
}

// boardKey returns the Redis key for a Board
func boardKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:board:%s", keyPrefix, gameID)
}

// relayersKey returns the Redis key for the relayer allowlist SET
func relayersKey() string {
	return fmt.Sprintf("%s:relayers", keyPrefix)
}

// controllerKey returns the Redis key for a player's controller binding
func controllerKey(gameID model.GameID, player model.Address) string {
	return fmt.Sprintf("%s:controller:%s:%s", keyPrefix, gameID, player)
}
