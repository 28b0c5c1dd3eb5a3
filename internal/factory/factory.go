package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/pegjump/internal/api/stream"
	"github.com/mcoot/pegjump/internal/dependencies/clock"
	"github.com/mcoot/pegjump/internal/dependencies/random"
	"github.com/mcoot/pegjump/internal/services/advisory"
	"github.com/mcoot/pegjump/internal/services/session"
	"github.com/mcoot/pegjump/internal/storage"
	"github.com/mcoot/pegjump/internal/storage/memory"
	redisstorage "github.com/mcoot/pegjump/internal/storage/redis"
	"github.com/mcoot/pegjump/internal/web/sse"
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
	SessionController *session.Controller
	AdvisoryScheduler *advisory.Scheduler

	// Live update fan-out
	StreamHub   *stream.Hub
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	closeStorage func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AdvisoryDuration is how long milestone messages stay up
	// If zero, defaults to advisory.DefaultDuration
	AdvisoryDuration time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	closeStorage := func() error { return nil }

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
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
		closeStorage = redisStore.Close
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be %q or %q", storageType, StorageTypeMemory, StorageTypeRedis)
	}

	app := newWithDependencies(store, clock.New(), random.New(), cfg.AdvisoryDuration, logger)
	app.closeStorage = closeStorage
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, advisoryDuration time.Duration, logger *slog.Logger) *App {
	sessionController := session.NewController(store, clk, rnd, logger)
	scheduler := advisory.New(sessionController, clk, advisoryDuration, logger)
	streamHub := stream.NewHub(logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	sessionController.Subscribe(scheduler.HandleUpdate)
	sessionController.Subscribe(streamHub.HandleUpdate)
	sessionController.Subscribe(broadcaster.HandleUpdate)
	sessionController.OnLoad(scheduler.Resume)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		SessionController: sessionController,
		AdvisoryScheduler: scheduler,
		StreamHub:         streamHub,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		closeStorage:      func() error { return nil },
	}
}

// CloseStreams disconnects every websocket and SSE client
func (a *App) CloseStreams() {
	a.StreamHub.Close()
	a.HubManager.Close()
}

// Close stops pending advisory timers, disconnects streams and releases storage
func (a *App) Close() error {
	a.AdvisoryScheduler.Close()
	a.CloseStreams()
	return a.closeStorage()
}
