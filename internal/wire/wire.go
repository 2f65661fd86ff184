// Package wire provides dependency injection for the sage application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/example/sage/internal/adapters/openai"
	"github.com/example/sage/internal/adapters/sqlite"
	"github.com/example/sage/internal/app"
	"github.com/example/sage/internal/config"
	"github.com/example/sage/internal/core/curator"
	"github.com/example/sage/internal/db"
	"github.com/example/sage/internal/ports/primary"
)

var (
	cfg             *config.Config
	eventService    primary.EventService
	policyService   primary.PolicyService
	safetyService   primary.SafetyService
	reviewService   primary.ReviewService
	contextService  primary.ContextService
	learningService primary.LearningService
	signalObserver  primary.SignalObserver
	once            sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// EventService returns the singleton EventService instance.
func EventService() primary.EventService {
	once.Do(initServices)
	return eventService
}

// PolicyService returns the singleton PolicyService instance.
func PolicyService() primary.PolicyService {
	once.Do(initServices)
	return policyService
}

// SafetyService returns the singleton SafetyService instance.
func SafetyService() primary.SafetyService {
	once.Do(initServices)
	return safetyService
}

// ReviewService returns the singleton ReviewService instance.
func ReviewService() primary.ReviewService {
	once.Do(initServices)
	return reviewService
}

// ContextService returns the singleton ContextService instance.
func ContextService() primary.ContextService {
	once.Do(initServices)
	return contextService
}

// LearningService returns the singleton LearningService instance.
func LearningService() primary.LearningService {
	once.Do(initServices)
	return learningService
}

// SignalObserver returns the singleton SignalObserver instance.
func SignalObserver() primary.SignalObserver {
	once.Do(initServices)
	return signalObserver
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.LoadOrDefault(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	eventRepo := sqlite.NewEventRepository(database)
	policyRepo := sqlite.NewPolicyRepository(database)
	safetyRepo := sqlite.NewSafetyRepository(database)
	reviewRepo := sqlite.NewReviewRepository(database)
	checkpointRepo := sqlite.NewCheckpointRepository(database)
	patternRepo := sqlite.NewSignalPatternRepository(database)

	// Oracle adapters share one client. A missing API key is tolerated:
	// calls fail and the loop falls back to its fail-safe paths.
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Warn("OPENAI_API_KEY not set, oracle calls will fail over to fail-safe scoring")
	}
	oracle := openai.NewClient(apiKey, cfg.OracleModel,
		time.Duration(cfg.OracleTimeoutSeconds)*time.Second)

	var sampler *curator.Sampler
	if cfg.Capabilities.Sampling {
		sampler = curator.NewSampler(cfg.SampleRate, rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	// Create services (primary ports implementation)
	eventService = app.NewEventService(eventRepo)
	policyService = app.NewPolicyService(policyRepo)
	safetyService = app.NewSafetyService(safetyRepo)
	reviewService = app.NewReviewService(reviewRepo)
	contextService = app.NewContextService(policyRepo, safetyService, cfg.WindowHours)
	learningService = app.NewLearningService(
		eventRepo, policyRepo, safetyRepo, reviewRepo, checkpointRepo,
		oracle, oracle,
		app.LearningConfig{
			ScoreThreshold: cfg.ScoreThreshold,
			CuratorEnabled: cfg.Capabilities.Curator,
			Sampler:        sampler,
		},
	)
	signalObserver = app.NewSignalObserver(eventRepo, patternRepo, app.DefaultPollInterval, nil)
}
