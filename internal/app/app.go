// Package app wires configuration, clients and services into a single
// application core shared by the server binary and tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shiradev/kabuto/internal/clients/jquants"
	"github.com/shiradev/kabuto/internal/clients/yahoo"
	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/interfaces"
	"github.com/shiradev/kabuto/internal/ratelimit"
	"github.com/shiradev/kabuto/internal/services/directory"
	"github.com/shiradev/kabuto/internal/services/quote"
	"github.com/shiradev/kabuto/internal/services/ranking"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	YahooClient      interfaces.YahooClient
	JQuantsClient    interfaces.JQuantsClient
	Gate             *ratelimit.Gate
	QuoteService     interfaces.QuoteService
	DirectoryService interfaces.DirectoryService
	RankingService   interfaces.RankingService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Load configuration - check provided path, KABUTO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("KABUTO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "kabuto.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/kabuto.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	gate := ratelimit.New(config.RateLimit.GetMinInterval())

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	var jquantsClient interfaces.JQuantsClient
	if config.Clients.JQuants.RefreshToken != "" {
		jquantsClient = jquants.NewClient(config.Clients.JQuants.RefreshToken,
			jquants.WithBaseURL(config.Clients.JQuants.BaseURL),
			jquants.WithLogger(logger),
			jquants.WithTimeout(config.Clients.JQuants.GetTimeout()),
			jquants.WithMaxPages(config.Clients.JQuants.MaxPages),
		)
	} else {
		logger.Warn().Msg("J-Quants refresh token not configured - secondary provider and directory will be unavailable")
	}

	quoteService := quote.NewService(yahooClient, jquantsClient, gate,
		config.Fallback.Quotes, config.Cache.GetQuoteTTL(), logger)

	directoryService := directory.NewService(jquantsClient,
		config.Cache.GetDirectoryTTL(), logger)

	rankingService := ranking.NewService(quoteService, jquantsClient,
		config.PopularSymbols, config.Cache.GetRankingTTL(), logger)

	logger.Info().
		Str("environment", config.Environment).
		Int("popular_symbols", len(config.PopularSymbols)).
		Bool("jquants", jquantsClient != nil).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		YahooClient:      yahooClient,
		JQuantsClient:    jquantsClient,
		Gate:             gate,
		QuoteService:     quoteService,
		DirectoryService: directoryService,
		RankingService:   rankingService,
		StartupTime:      time.Now(),
	}, nil
}
