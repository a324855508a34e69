package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"crossexam/internal/ai"
	"crossexam/internal/envstruct"
	"crossexam/internal/errors"
	"crossexam/internal/interview"
	"crossexam/internal/logging"
	"crossexam/internal/pprofserver"

	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
)

type config struct {
	// Addr is the listen address, e.g. "localhost:4000". Use port 0 to let the
	// OS allocate one, which the tests rely on.
	Addr      string `env:"CROSSEXAM_ADDR" envDefault:"localhost:4000"`
	PprofPort string `env:"CROSSEXAM_PPROF_PORT" envDefault:":6060"`
	APIKey    string `env:"OPENAI_API_KEY"`
	// AIBaseURL overrides the OpenAI-compatible endpoint. Tests point it at a
	// stub server; empty means the real API.
	AIBaseURL string `env:"CROSSEXAM_AI_BASE_URL" envDefault:""`
	AIModel   string `env:"CROSSEXAM_AI_MODEL" envDefault:"gpt-4o-mini"`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	sessions       *interview.Registry
	htmx           *htmx.HTMX
}

// run wires the application and serves HTTP until ctx is cancelled or the
// server fails. Dependencies on the environment come in through lookupEnv so
// tests can inject their own configuration.
func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	oracle := ai.NewClient(cfg.APIKey, cfg.AIBaseURL, cfg.AIModel)

	// The session cookie only carries an opaque ID into the in-memory
	// registry; scs's default store keeps everything in process memory.
	sessionManager := scs.New()
	sessionManager.Lifetime = 12 * time.Hour

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		sessions:       interview.NewRegistry(oracle, logger),
		htmx:           htmx.New(),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	// The .env file is a development convenience; deployments set real
	// environment variables.
	if err := godotenv.Load(); err != nil {
		logger.LogAttrs(ctx, slog.LevelDebug, "no .env file loaded")
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofPort, ok := os.LookupEnv("CROSSEXAM_PPROF_PORT")
	if !ok {
		pprofPort = ":6060"
	}
	pprofserver.Launch(pprofPort, logger)

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
