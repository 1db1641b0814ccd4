package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Alexandre220990/profitum-engine/internal/api"
	"github.com/Alexandre220990/profitum-engine/internal/catalog"
	"github.com/Alexandre220990/profitum-engine/internal/engine"
	"github.com/Alexandre220990/profitum-engine/internal/genai"
	"github.com/Alexandre220990/profitum-engine/internal/store"
	"github.com/Alexandre220990/profitum-engine/internal/util"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Build module options
	storeOpts := buildStoreOptions(flags)
	genaiOpts := buildGenAIOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping Profitum engine with configured modules")
	slog.Debug("Module options counts", "store", len(storeOpts), "genai", len(genaiOpts), "api", len(apiOpts))

	if err := run(flags, storeOpts, genaiOpts, apiOpts); err != nil {
		slog.Error("Profitum engine failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Profitum engine exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	OpenAIKey   string
	APIAddr     string
}

// Flags holds command line flag values
type Flags struct {
	dbDSN     *string
	openaiKey *string
	apiAddr   *string
	debug     *bool
}

// initializeLogger sets up structured logging. The PROFITUM_DEBUG environment
// variable raises the level to debug.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("PROFITUM_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		APIAddr:     os.Getenv("API_ADDR"),
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dbDSN:     flag.String("db-dsn", config.DatabaseURL, "database DSN: PostgreSQL URL, Redis URL, or SQLite file path (overrides $DATABASE_URL)"),
		openaiKey: flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		apiAddr:   flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		debug:     flag.Bool("debug", false, "enable debug logging"),
	}

	flag.Parse()

	if *flags.debug {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	slog.Debug("flags parsed",
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr)

	return flags
}

// buildStoreOptions constructs store configuration options
func buildStoreOptions(flags Flags) []store.Option {
	var storeOpts []store.Option
	if *flags.dbDSN != "" {
		switch store.DetectDSNType(*flags.dbDSN) {
		case "postgres":
			slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_type", "postgresql", "dsn_set", true)
			storeOpts = append(storeOpts, store.WithPostgresDSN(*flags.dbDSN))
		case "redis":
			slog.Debug("Detected Redis DSN, configuring Redis store", "dsn_type", "redis", "dsn_set", true)
			storeOpts = append(storeOpts, store.WithRedisDSN(*flags.dbDSN))
		default:
			slog.Debug("Detected SQLite DSN, configuring SQLite store", "dsn_type", "sqlite", "db_path", *flags.dbDSN)
			storeOpts = append(storeOpts, store.WithSQLiteDSN(*flags.dbDSN))
		}
	} else {
		slog.Debug("No database DSN provided, will use in-memory store")
	}
	return storeOpts
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	return genaiOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}

// openStore selects the store backend from the configured options.
func openStore(flags Flags, storeOpts []store.Option) (store.Store, error) {
	if *flags.dbDSN == "" {
		return store.NewInMemoryStore(), nil
	}
	switch store.DetectDSNType(*flags.dbDSN) {
	case "postgres":
		return store.NewPostgresStore(storeOpts...)
	case "redis":
		return store.NewRedisStore(storeOpts...)
	default:
		return store.NewSQLiteStore(storeOpts...)
	}
}

// run wires the modules together and serves until interrupted.
func run(flags Flags, storeOpts []store.Option, genaiOpts []genai.Option, apiOpts []api.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(flags, storeOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	products := catalog.Load(ctx, st)
	slog.Info("Product catalog loaded", "products", len(products))

	engineOpts := []engine.Option{
		engine.WithStore(st),
		engine.WithProducts(products),
		engine.WithInactivityTTL(util.ParseDurationEnv("SESSION_TTL", engine.DefaultInactivityTTL)),
	}

	genaiClient, err := genai.NewClient(genaiOpts...)
	if err != nil {
		slog.Warn("GenAI client unavailable, replies will use canned phrasing", "error", err)
	} else {
		engineOpts = append(engineOpts, engine.WithPhraser(genaiClient))
	}

	eng := engine.New(engineOpts...)
	eng.StartJanitor(ctx)

	server := api.NewServer(eng, apiOpts...)
	return server.Run(ctx)
}
