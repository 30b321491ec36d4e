package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/fivesgame-go/internal/api/sse"
	"github.com/mcoot/fivesgame-go/internal/dependencies/clock"
	"github.com/mcoot/fivesgame-go/internal/dependencies/random"
	"github.com/mcoot/fivesgame-go/internal/services/auth"
	"github.com/mcoot/fivesgame-go/internal/services/board"
	"github.com/mcoot/fivesgame-go/internal/services/game"
	"github.com/mcoot/fivesgame-go/internal/services/placement"
	"github.com/mcoot/fivesgame-go/internal/services/scoring"
	"github.com/mcoot/fivesgame-go/internal/services/tilepool"
	"github.com/mcoot/fivesgame-go/internal/storage"
	"github.com/mcoot/fivesgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/fivesgame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService     *board.Service
	PlacementService *placement.Service
	ScoringService   *scoring.Service
	TilePoolService  *tilepool.Service
	AuthService      *auth.Service
	GameController   *game.Controller
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service; the zero value
	// disables the owner-gated relayer endpoint
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AuthConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	boardService := board.New(store, logger)
	placementService := placement.New()
	scoringService := scoring.New()
	tilepoolService := tilepool.New(logger)
	authService := auth.New(store, authCfg, logger)
	gameController := game.NewController(
		store,
		authService,
		boardService,
		placementService,
		scoringService,
		tilepoolService,
		clk,
		rnd,
		logger,
	)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, clk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		BoardService:     boardService,
		PlacementService: placementService,
		ScoringService:   scoringService,
		TilePoolService:  tilepoolService,
		AuthService:      authService,
		GameController:   gameController,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}
