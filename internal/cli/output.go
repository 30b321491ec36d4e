package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case Player:
		o.printPlayer(v)
	case PlacedTiles:
		o.printPlacedTiles(v)
	case TilePool:
		o.printTilePool(v)
	case TurnResult:
		o.printTurnResult(v)
	case Relayer:
		o.printRelayer(v)
	case RelayerList:
		o.printRelayerList(v)
	case Controller:
		o.printController(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Game response type (matches API)
type Game struct {
	ID                 string   `json:"id"`
	State              string   `json:"state"`
	Creator            string   `json:"creator"`
	MaxPlayers         int      `json:"max_players"`
	AllowIslands       bool     `json:"allow_islands"`
	WinningScore       int      `json:"winning_score"`
	TurnNumber         int      `json:"turn_number"`
	CurrentPlayerIndex int      `json:"current_player_index"`
	CurrentPlayer      string   `json:"current_player,omitempty"`
	PlayerAddresses    []string `json:"player_addresses"`
	PlayerScores       []int    `json:"player_scores"`
	TilesRemaining     int      `json:"tiles_remaining"`
}

// Player response type
type Player struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Hand    []int  `json:"hand"`
}

// PlacedTiles response type, a board snapshot as parallel arrays
type PlacedTiles struct {
	X          []int `json:"x"`
	Y          []int `json:"y"`
	Number     []int `json:"number"`
	TurnPlaced []int `json:"turn_placed"`
}

// TilePool response type
type TilePool struct {
	Counts    []int `json:"counts"`
	Remaining int   `json:"remaining"`
}

// ScoringLine response type
type ScoringLine struct {
	Horizontal bool  `json:"horizontal"`
	Sum        int   `json:"sum"`
	Score      int   `json:"score"`
	X          []int `json:"x"`
	Y          []int `json:"y"`
}

// TurnResult response type
type TurnResult struct {
	Game      Game          `json:"game"`
	TurnScore int           `json:"turn_score"`
	NewScore  int           `json:"new_score"`
	Hand      []int         `json:"hand"`
	Lines     []ScoringLine `json:"lines"`
}

// Relayer response type
type Relayer struct {
	Address    string `json:"address"`
	Authorized bool   `json:"authorized"`
}

// RelayerList response type
type RelayerList struct {
	Relayers []string `json:"relayers"`
}

// Controller response type
type Controller struct {
	Player     string `json:"player"`
	Controller string `json:"controller,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Creator: %s\n", g.Creator)
	fmt.Printf("Turn: %d\n", g.TurnNumber)
	if g.CurrentPlayer != "" {
		fmt.Printf("Current Player: %s\n", g.CurrentPlayer)
	}
	fmt.Printf("Tiles Remaining: %d\n", g.TilesRemaining)
	if g.WinningScore > 0 {
		fmt.Printf("Winning Score: %d\n", g.WinningScore)
	}
	fmt.Printf("Players (%d/%d):\n", len(g.PlayerAddresses), g.MaxPlayers)
	for i, addr := range g.PlayerAddresses {
		score := 0
		if i < len(g.PlayerScores) {
			score = g.PlayerScores[i]
		}
		marker := ""
		if g.State == "in_progress" && i == g.CurrentPlayerIndex {
			marker = " *"
		}
		fmt.Printf("  - %s: %d points%s\n", addr, score, marker)
	}
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s", p.Address)
	if p.Name != "" {
		fmt.Printf(" (%s)", p.Name)
	}
	fmt.Println()
	fmt.Printf("Score: %d\n", p.Score)
	fmt.Printf("Hand: %s\n", formatTiles(p.Hand))
}

func (o *Output) printPlacedTiles(t PlacedTiles) {
	if len(t.X) == 0 {
		fmt.Println("Board is empty")
		return
	}

	minX, maxX := t.X[0], t.X[0]
	minY, maxY := t.Y[0], t.Y[0]
	for i := range t.X {
		if t.X[i] < minX {
			minX = t.X[i]
		}
		if t.X[i] > maxX {
			maxX = t.X[i]
		}
		if t.Y[i] < minY {
			minY = t.Y[i]
		}
		if t.Y[i] > maxY {
			maxY = t.Y[i]
		}
	}

	cells := make(map[[2]int]int, len(t.X))
	for i := range t.X {
		cells[[2]int{t.X[i], t.Y[i]}] = t.Number[i]
	}

	fmt.Printf("Board (%d tiles, x %d..%d, y %d..%d):\n", len(t.X), minX, maxX, minY, maxY)
	for y := minY; y <= maxY; y++ {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%4d |", y))
		for x := minX; x <= maxX; x++ {
			if n, ok := cells[[2]int{x, y}]; ok {
				sb.WriteString(fmt.Sprintf(" %d ", n))
			} else {
				sb.WriteString(" . ")
			}
		}
		fmt.Println(sb.String())
	}
}

func (o *Output) printTilePool(p TilePool) {
	fmt.Printf("Remaining: %d\n", p.Remaining)
	for number, count := range p.Counts {
		fmt.Printf("  %d: %d\n", number, count)
	}
}

func (o *Output) printTurnResult(r TurnResult) {
	fmt.Printf("Turn score: %d\n", r.TurnScore)
	for _, line := range r.Lines {
		dir := "vertical"
		if line.Horizontal {
			dir = "horizontal"
		}
		fmt.Printf("  - %s line, sum %d: %d points\n", dir, line.Sum, line.Score)
	}
	fmt.Printf("Total score: %d\n", r.NewScore)
	fmt.Printf("New hand: %s\n", formatTiles(r.Hand))
	fmt.Printf("Game state: %s\n", r.Game.State)
	if r.Game.CurrentPlayer != "" {
		fmt.Printf("Next player: %s\n", r.Game.CurrentPlayer)
	}
}

func (o *Output) printRelayer(r Relayer) {
	status := "not authorized"
	if r.Authorized {
		status = "authorized"
	}
	fmt.Printf("Relayer %s: %s\n", r.Address, status)
}

func (o *Output) printRelayerList(l RelayerList) {
	fmt.Printf("Relayers (%d):\n", len(l.Relayers))
	for _, addr := range l.Relayers {
		fmt.Printf("  - %s\n", addr)
	}
}

func (o *Output) printController(c Controller) {
	if c.Controller == "" {
		fmt.Printf("Player %s has no bound controller\n", c.Player)
		return
	}
	fmt.Printf("Player %s is controlled by %s\n", c.Player, c.Controller)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func formatTiles(tiles []int) string {
	if len(tiles) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, " ")
}
