package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameSkipCmd())
	cmd.AddCommand(newGameCancelCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameBoardCmd())
	cmd.AddCommand(newGamePlayerCmd())
	cmd.AddCommand(newGamePoolCmd())
	cmd.AddCommand(newGameControllerCmd())

	return cmd
}

// playerFlag resolves the acting player address: the --player flag when a
// relayer submits for someone else, otherwise the caller itself
func playerFlag(cmd *cobra.Command) string {
	player, _ := cmd.Flags().GetString("player")
	if player == "" {
		player = cfg.Caller
	}
	return player
}

func newGameCreateCmd() *cobra.Command {
	var maxPlayers, winningScore int
	var allowIslands bool
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"max_players":    maxPlayers,
				"allow_islands":  allowIslands,
				"winning_score":  winningScore,
				"player_name":    name,
				"player_address": playerFlag(cmd),
			}

			var result Game
			if err := client.Post("/api/v1/games", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPlayers, "max-players", 2, "Number of seats")
	cmd.Flags().IntVar(&winningScore, "winning-score", 500, "Score that ends the game")
	cmd.Flags().BoolVar(&allowIslands, "allow-islands", false, "Allow placements detached from existing tiles")
	cmd.Flags().StringVar(&name, "name", "", "Display name for the creating player")
	cmd.Flags().String("player", "", "Player address (defaults to caller)")

	return cmd
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a game in setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"player_name":    name,
				"player_address": playerFlag(cmd),
			}

			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/join", args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the joining player")
	cmd.Flags().String("player", "", "Player address (defaults to caller)")

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game-id>",
		Short: "Start a game before all seats fill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// parseTile parses "number@x,y" into its components
func parseTile(s string) (number, x, y int, err error) {
	at := strings.SplitN(s, "@", 2)
	if len(at) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid tile %q: expected number@x,y", s)
	}
	coords := strings.SplitN(at[1], ",", 2)
	if len(coords) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid tile %q: expected number@x,y", s)
	}
	if number, err = strconv.Atoi(at[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid tile number %q", at[0])
	}
	if x, err = strconv.Atoi(coords[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid x coordinate %q", coords[0])
	}
	if y, err = strconv.Atoi(coords[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid y coordinate %q", coords[1])
	}
	return number, x, y, nil
}

func newGamePlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <game-id> <tile>...",
		Short: "Play a turn, placing tiles as number@x,y",
		Long: `Play a turn by placing one or more tiles from your hand.

Each tile is given as number@x,y, for example:

  fives game play ABC123XYZ000 5@0,0 0@1,0 5@2,0`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tiles := make([]map[string]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				number, x, y, err := parseTile(arg)
				if err != nil {
					return err
				}
				tiles = append(tiles, map[string]int{"number": number, "x": x, "y": y})
			}

			body := map[string]any{
				"player_address": playerFlag(cmd),
				"tiles":          tiles,
			}

			var result TurnResult
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/play", args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().String("player", "", "Player address (defaults to caller)")

	return cmd
}

func newGameSkipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skip <game-id>",
		Short: "Skip your turn and redraw your hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"player_address": playerFlag(cmd),
			}

			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/skip", args[0]), body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().String("player", "", "Player address (defaults to caller)")

	return cmd
}

func newGameCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <game-id>",
		Short: "Cancel a game (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game cancelled")
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <game-id>",
		Short: "Show the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlacedTiles
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/board", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player <game-id> [address]",
		Short: "Show a player's standing and hand",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := cfg.Caller
			if len(args) == 2 {
				address = args[1]
			}
			if address == "" {
				return fmt.Errorf("no player address: pass one or set --caller")
			}

			var result Player
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players/%s", args[0], address), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}

func newGamePoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool <game-id> [address]",
		Short: "Show a player's remaining tile pool",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := cfg.Caller
			if len(args) == 2 {
				address = args[1]
			}
			if address == "" {
				return fmt.Errorf("no player address: pass one or set --caller")
			}

			var result TilePool
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players/%s/pool", args[0], address), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameControllerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "controller <game-id> <address>",
		Short: "Show the controller bound to a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Controller
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/players/%s/controller", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
