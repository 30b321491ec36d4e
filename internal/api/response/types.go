package response

import (
	"time"

	"github.com/mcoot/fivesgame-go/internal/model"
	"github.com/mcoot/fivesgame-go/internal/services/game"
)

// Game represents a game in API responses
type Game struct {
	ID                 string    `json:"id"`
	State              string    `json:"state"`
	Creator            string    `json:"creator"`
	MaxPlayers         int       `json:"max_players"`
	AllowIslands       bool      `json:"allow_islands"`
	WinningScore       int       `json:"winning_score"`
	TurnNumber         int       `json:"turn_number"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	CurrentPlayer      string    `json:"current_player,omitempty"`
	PlayerAddresses    []string  `json:"player_addresses"`
	PlayerScores       []int     `json:"player_scores"`
	TilesRemaining     int       `json:"tiles_remaining"`
	CreatedAt          time.Time `json:"created_at"`
}

// GameFromView converts a game read-model to a response Game
func GameFromView(v *game.View) Game {
	g := v.Game
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}

	resp := Game{
		ID:                 string(g.ID),
		State:              string(g.State),
		Creator:            string(g.Creator),
		MaxPlayers:         g.MaxPlayers,
		AllowIslands:       g.AllowIslands,
		WinningScore:       g.WinningScore,
		TurnNumber:         g.TurnNumber,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		PlayerAddresses:    players,
		PlayerScores:       append([]int(nil), g.Scores...),
		TilesRemaining:     v.TilesRemaining,
		CreatedAt:          g.CreatedAt,
	}
	if g.State == model.GameStateInProgress {
		resp.CurrentPlayer = string(g.CurrentPlayer())
	}
	return resp
}

// Player represents a player's standing in API responses
type Player struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Hand      []int  `json:"hand"`
	HasJoined bool   `json:"has_joined"`
}

// PlayerFromModel converts a model.PlayerState to a response Player
func PlayerFromModel(ps *model.PlayerState) Player {
	hand := make([]int, len(ps.Hand))
	for i, t := range ps.Hand {
		hand[i] = int(t)
	}
	return Player{
		Address:   string(ps.Address),
		Name:      ps.Name,
		Score:     ps.Score,
		Hand:      hand,
		HasJoined: true,
	}
}

// Tile represents one board cell in API responses
type Tile struct {
	Exists     bool `json:"exists"`
	Number     int  `json:"number,omitempty"`
	TurnPlaced int  `json:"turn_placed,omitempty"`
	X          int  `json:"x"`
	Y          int  `json:"y"`
}

// PlacedTiles is a bulk board snapshot as parallel arrays, the layout
// external renderers consume
type PlacedTiles struct {
	X          []int `json:"x"`
	Y          []int `json:"y"`
	Number     []int `json:"number"`
	TurnPlaced []int `json:"turn_placed"`
}

// PlacedTilesFromSnapshot converts a board snapshot to parallel arrays
func PlacedTilesFromSnapshot(tiles []model.PlacedTileAt) PlacedTiles {
	resp := PlacedTiles{
		X:          make([]int, len(tiles)),
		Y:          make([]int, len(tiles)),
		Number:     make([]int, len(tiles)),
		TurnPlaced: make([]int, len(tiles)),
	}
	for i, t := range tiles {
		resp.X[i] = t.Pos.X
		resp.Y[i] = t.Pos.Y
		resp.Number[i] = int(t.Number)
		resp.TurnPlaced[i] = t.TurnPlaced
	}
	return resp
}

// TilePool is a player's remaining pool composition indexed by tile value
type TilePool struct {
	Counts    []int `json:"counts"`
	Remaining int   `json:"remaining"`
}

// TilePoolFromModel converts a model.TilePool
func TilePoolFromModel(pool model.TilePool) TilePool {
	counts := make([]int, len(pool))
	for i, n := range pool {
		counts[i] = n
	}
	return TilePool{
		Counts:    counts,
		Remaining: pool.Remaining(),
	}
}

// ScoringLine represents one scored line in a turn result
type ScoringLine struct {
	Horizontal bool  `json:"horizontal"`
	Sum        int   `json:"sum"`
	Score      int   `json:"score"`
	X          []int `json:"x"`
	Y          []int `json:"y"`
}

// TurnResult is the response after a committed turn
type TurnResult struct {
	Game      Game          `json:"game"`
	TurnScore int           `json:"turn_score"`
	NewScore  int           `json:"new_score"`
	Hand      []int         `json:"hand"`
	Lines     []ScoringLine `json:"lines"`
}

// TurnResultFromModel converts a controller turn result
func TurnResultFromModel(r *game.TurnResult, tilesRemaining, pointsPerSum int) TurnResult {
	lines := make([]ScoringLine, len(r.Lines))
	for i, line := range r.Lines {
		sl := ScoringLine{
			Horizontal: line.Horizontal,
			Sum:        line.Sum(),
			X:          make([]int, len(line.Positions)),
			Y:          make([]int, len(line.Positions)),
		}
		sl.Score = pointsPerSum * sl.Sum
		for j, pos := range line.Positions {
			sl.X[j] = pos.X
			sl.Y[j] = pos.Y
		}
		lines[i] = sl
	}

	hand := make([]int, len(r.Player.Hand))
	for i, t := range r.Player.Hand {
		hand[i] = int(t)
	}

	return TurnResult{
		Game:      GameFromView(&game.View{Game: r.Game, TilesRemaining: tilesRemaining}),
		TurnScore: r.TurnScore,
		NewScore:  r.Player.Score,
		Hand:      hand,
		Lines:     lines,
	}
}

// Relayer is the response for relayer allowlist checks
type Relayer struct {
	Address    string `json:"address"`
	Authorized bool   `json:"authorized"`
}

// Controller is the response for controller binding reads
type Controller struct {
	Player     string `json:"player"`
	Controller string `json:"controller,omitempty"`
}
