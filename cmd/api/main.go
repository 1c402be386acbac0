package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/planfit/planfit/internal/catalog"
	"github.com/planfit/planfit/internal/envstruct"
	"github.com/planfit/planfit/internal/errors"
	"github.com/planfit/planfit/internal/flightrecorder"
	"github.com/planfit/planfit/internal/logging"
	"github.com/planfit/planfit/internal/plan"
	"github.com/planfit/planfit/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	planService    *plan.Service
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"PLANFIT_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PLANFIT_SQLITE_URL" envDefault:"./planfit.sqlite3"`
	// OpenAIAPIKey enables LLM-generated coaching tips. Empty means curated static tips.
	OpenAIAPIKey string `env:"PLANFIT_OPENAI_API_KEY" envDefault:""`
	// RequestTimeoutMs bounds request handling before the server gives up.
	RequestTimeoutMs int `env:"PLANFIT_REQUEST_TIMEOUT_MS" envDefault:"5000"`
	// CORSAllowedOrigin is the origin allowed to call the API from a browser.
	CORSAllowedOrigin string `env:"PLANFIT_CORS_ALLOWED_ORIGIN" envDefault:"*"`
	// TracesDirectory enables runtime trace capture for slow requests when set.
	TracesDirectory string `env:"PLANFIT_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	exercises := catalog.NewCachedExerciseCatalog(catalog.NewSQLiteExerciseCatalog(db))
	ingredients := catalog.NewSQLiteIngredientCatalog(db)

	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger:         logger,
		planService:    plan.NewService(exercises, ingredients, logger, cfg.OpenAIAPIKey),
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	// Missing .env is fine; the environment may be set by other means.
	_ = godotenv.Load()

	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
