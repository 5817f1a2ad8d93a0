package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/database"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/pantry"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/receipt"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/recipe"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/scanning"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/server"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("fresh-fridge")
	var (
		port          = fs.IntLong("port", 3000, "HTTP server port")
		dbPath        = fs.StringLong("db", "fresh-fridge.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./receipts", "Receipt image directory")
		recipesDriver = fs.StringLong("recipes-driver", "", "Recipe database driver: 'postgres' or 'sqlite' (empty disables suggestions)")
		recipesDSN    = fs.StringLong("recipes-dsn", "", "Recipe database connection string or sqlite file path")
		scannerType   = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini' or 'ollama'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		workers       = fs.IntLong("workers", 2, "Receipt processing goroutines")
		queueSize     = fs.IntLong("queue-size", 100, "Maximum receipts waiting to be processed")
		threshold     = fs.Float64Long("resolve-threshold", 1.0, "Similarity (0-1) at which an added name merges into an existing item")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat     = fs.StringLong("log-format", "text", "Log format: 'text' or 'json'")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FRESH_FRIDGE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logger, err := newLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *threshold <= 0 || *threshold > 1 {
		slog.Error("Resolve threshold must be in (0, 1]", "threshold", *threshold)
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Initializing database...", "path", *dbPath)
	bolt, err := database.Open(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer bolt.Close()

	pantryDB, err := pantry.NewBoltDB(bolt)
	if err != nil {
		slog.Error("Failed to initialize fridge store", "error", err)
		os.Exit(1)
	}
	receiptDB, err := receipt.NewBoltDB(bolt)
	if err != nil {
		slog.Error("Failed to initialize receipt store", "error", err)
		os.Exit(1)
	}

	scanner, err := newScanner(*scannerType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
	if err != nil {
		slog.Error("Failed to initialize scanner", "type", *scannerType, "error", err)
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	slog.Info("Initializing storage...", "path", *storagePath)
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var source recipe.Source
	if *recipesDriver != "" {
		slog.Info("Connecting to recipe database...", "driver", *recipesDriver)
		sqlSource, err := recipe.OpenSQLSource(recipe.Dialect(*recipesDriver), *recipesDSN)
		if err != nil {
			slog.Error("Failed to open recipe database", "error", err)
			os.Exit(1)
		}
		defer sqlSource.Close()

		if recipe.Dialect(*recipesDriver) == recipe.SQLite {
			if err := sqlSource.EnsureSchema(context.Background()); err != nil {
				slog.Error("Failed to create recipe tables", "error", err)
				os.Exit(1)
			}
		}
		source = sqlSource
	} else {
		slog.Info("No recipe database configured, suggestions will be empty")
	}

	// Initialize services
	pantryService := pantry.NewService(pantryDB, *threshold)
	recipeService := recipe.NewService(pantryService, source)
	worker := receipt.NewWorker(*queueSize, *workers)
	receiptService := receipt.NewService(receiptDB, store, scanner, pantryService, worker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	worker.Start(workerCtx, receiptService)

	if n, err := receiptService.Resume(); err != nil {
		slog.Warn("Failed to resume pending receipts", "queued", n, "error", err)
	} else if n > 0 {
		slog.Info("Resumed pending receipts", "queued", n)
	}

	// Initialize server
	basicAuth := server.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	srv := server.NewServer(server.Services{
		Pantry:   pantryService,
		Recipes:  recipeService,
		Receipts: receiptService,
		Queue:    worker,
	}, basicAuth)

	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Fresh from the Fridge running", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	runErr := srv.Run(ctx, addr)

	slog.Info("Shutting down...")
	stopWorkers(worker, cancelWorkers)

	if runErr != nil {
		slog.Error("Server error", "error", runErr)
		os.Exit(1)
	}
}

// stopWorkers lets the workers finish every queued receipt, then cancels the
// context they run under
func stopWorkers(worker *receipt.Worker, cancel context.CancelFunc) {
	worker.Stop()
	cancel()
}

// newScanner builds the OCR backend named by scannerType
func newScanner(scannerType, geminiKey, geminiModel, ollamaURL, ollamaModel string) (scanning.Scanner, error) {
	switch scannerType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", geminiModel)
		return scanning.NewGemini(apiKey, geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", ollamaURL, "model", ollamaModel)
		return scanning.NewOllama(ollamaURL, ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q: want gemini or ollama", scannerType)
	}
}

// newLogger builds the process logger from the --log-level and --log-format
// flags
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", format)
	}
}
