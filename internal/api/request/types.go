package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	MaxPlayers    int    `json:"max_players"`
	AllowIslands  bool   `json:"allow_islands,omitempty"`
	WinningScore  int    `json:"winning_score"`
	PlayerName    string `json:"player_name"`
	PlayerAddress string `json:"player_address"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	PlayerName    string `json:"player_name"`
	PlayerAddress string `json:"player_address"`
}

// TilePlacement is one proposed tile in a play request
type TilePlacement struct {
	Number int `json:"number"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// PlayTurnRequest is the request body for playing a turn
type PlayTurnRequest struct {
	PlayerAddress string          `json:"player_address"`
	Tiles         []TilePlacement `json:"tiles"`
}

// SkipTurnRequest is the request body for skipping a turn
type SkipTurnRequest struct {
	PlayerAddress string `json:"player_address"`
}

// AuthorizeRelayerRequest is the request body for extending the relayer allowlist
type AuthorizeRelayerRequest struct {
	Address string `json:"address"`
}
