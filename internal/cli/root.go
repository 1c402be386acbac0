// Package cli implements the planctl CLI commands. Requests are read as JSON
// from a file argument or stdin and results are printed as JSON to stdout.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/planfit/planfit/internal/catalog"
	"github.com/planfit/planfit/internal/logging"
	"github.com/planfit/planfit/internal/plan"
	"github.com/planfit/planfit/internal/sqlite"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	seed    uint64
	verbose bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Generate and adapt fitness and nutrition plans",
	Long:  "A CLI for the plan generation engine. JSON in, JSON out. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PLANFIT_DB or ./planfit.sqlite3)")
	RootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed for reproducible meal allocation (0 means random)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("PLANFIT_DB"); env != "" {
		return env
	}
	return "./planfit.sqlite3"
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

// openService wires the engine against the SQLite catalogs. The returned
// close function releases the database.
func openService(ctx context.Context) (*plan.Service, func(), error) {
	logger := newLogger()
	db, err := sqlite.NewDatabase(ctx, getDBPath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	var opts []plan.Option
	if seed != 0 {
		opts = append(opts, plan.WithSeed(seed))
	}
	svc := plan.NewService(
		catalog.NewCachedExerciseCatalog(catalog.NewSQLiteExerciseCatalog(db)),
		catalog.NewSQLiteIngredientCatalog(db),
		logger,
		os.Getenv("PLANFIT_OPENAI_API_KEY"),
		opts...,
	)
	closeFn := func() {
		_ = db.Close()
	}
	return svc, closeFn, nil
}

// readRequest decodes JSON from the first positional argument or stdin into dst.
func readRequest(args []string, dst any) error {
	var reader io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open request file: %w", err)
		}
		defer func() {
			_ = file.Close()
		}()
		reader = file
	}
	if err := json.NewDecoder(reader).Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
