// Rolodex - natural-language person query server over MCP.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/matiasleandrokruk/rolodex/internal/domain/audit"
	"github.com/matiasleandrokruk/rolodex/internal/domain/people"
	"github.com/matiasleandrokruk/rolodex/internal/infra/config"
	"github.com/matiasleandrokruk/rolodex/internal/infra/eventbus"
	"github.com/matiasleandrokruk/rolodex/internal/infra/sqlite"
	"github.com/matiasleandrokruk/rolodex/internal/mcpserver"
	"github.com/matiasleandrokruk/rolodex/internal/version"
	pkgauth "github.com/matiasleandrokruk/rolodex/pkg/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printHelp(out)
		return 0
	}

	switch rest[0] {
	case "serve":
		return cmdServe(rest[1:], out)
	case "migrate":
		return cmdMigrate(rest[1:], out)
	case "add":
		return cmdAdd(rest[1:], out)
	case "log":
		return cmdLog(rest[1:], out)
	case "token":
		return cmdToken(rest[1:], out)
	case "hash-key":
		return cmdHashKey(rest[1:], out)
	default:
		fmt.Fprintf(out, "unknown command: %s\n\n", rest[0]) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

// newLogger builds the process logger. Logs always go to stderr: in stdio
// transport mode stdout carries the protocol stream.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// openDB opens the configured database and brings the schema up to date.
func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func cmdServe(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading configuration failed", "error", err)
		return 1
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Error("opening database failed", "db", cfg.DBPath, "error", err)
		return 1
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	recorder := audit.NewRecorder(audit.NewService(db), bus, logger)
	go recorder.Run(ctx)

	svc := people.NewService(sqlite.NewPersonStore(db), logger)
	dispatcher := mcpserver.NewDispatcher(svc, bus, logger)
	server := mcpserver.New(dispatcher, logger)

	switch cfg.Transport {
	case "stdio":
		if err := server.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("stdio transport failed", "error", err)
			return 1
		}
		return 0
	case "http":
		return serveHTTP(ctx, cfg, server, logger)
	default:
		logger.Error("unsupported transport", "transport", cfg.Transport)
		return 1
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, server *mcpserver.Server, logger *slog.Logger) int {
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.HTTPHandler(cfg.APIKeyHash),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over HTTP", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http transport failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}

func cmdMigrate(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	v, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintf(out, "database %s at schema version %d\n", cfg.DBPath, v) //nolint:errcheck
	return 0
}

func cmdAdd(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	email := fs.String("email", "", "Email address (required)")
	name := fs.String("name", "", "Full name")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company")
	title := fs.String("title", "", "Job title")
	location := fs.String("location", "", "Location")
	dataFile := fs.String("data", "", "Path to a JSON file with the extended profile payload")
	imageFile := fs.String("image", "", "Path to an image file to store for this person")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *email == "" {
		fmt.Fprintln(out, "error: -email is required") //nolint:errcheck
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	rec := people.PersonRecord{
		Email:    *email,
		Name:     *name,
		Phone:    *phone,
		Company:  *company,
		Title:    *title,
		Location: *location,
	}

	if *dataFile != "" {
		raw, readErr := os.ReadFile(*dataFile)
		if readErr != nil {
			fmt.Fprintf(out, "error: reading %s: %v\n", *dataFile, readErr) //nolint:errcheck
			return 1
		}
		if !json.Valid(raw) {
			fmt.Fprintf(out, "error: %s is not valid JSON\n", *dataFile) //nolint:errcheck
			return 1
		}
		rec.Data = string(raw)
	}

	ctx := context.Background()
	store := sqlite.NewPersonStore(db)

	if err := store.UpsertPerson(ctx, rec); err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}

	if *imageFile != "" {
		content, readErr := os.ReadFile(*imageFile)
		if readErr != nil {
			fmt.Fprintf(out, "error: reading %s: %v\n", *imageFile, readErr) //nolint:errcheck
			return 1
		}
		img := people.ImageRecord{
			Email:       *email,
			Content:     content,
			ContentType: imageContentType(*imageFile),
		}
		if err := store.PutImage(ctx, img); err != nil {
			fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	fmt.Fprintf(out, "stored %s\n", *email) //nolint:errcheck
	return 0
}

// imageContentType maps the file extension to a MIME type; unknown
// extensions fall back to PNG, the storage default.
func imageContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func cmdLog(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex log", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	limit := fs.Int("limit", 20, "Number of events to show")
	tool := fs.String("tool", "", "Only show events for this tool")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	svc := audit.NewService(db)
	ctx := context.Background()

	var events []*audit.QueryEvent
	if *tool != "" {
		events, err = svc.ByTool(ctx, *tool, *limit)
	} else {
		events, err = svc.Recent(ctx, *limit)
	}
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "no query events recorded") //nolint:errcheck
		return 0
	}
	for _, evt := range events {
		fmt.Fprintf(out, "%s  %-20s %-8s %4dms  %s\n", //nolint:errcheck
			evt.CreatedAt.Format(time.RFC3339),
			evt.Tool,
			evt.Outcome,
			evt.DurationMS,
			evt.Detail,
		)
	}
	return 0
}

func cmdToken(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	subject := fs.String("subject", "", "Subject the token is issued to (required)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *subject == "" {
		fmt.Fprintln(out, "error: -subject is required") //nolint:errcheck
		return 2
	}
	if !pkgauth.SecretConfigured() {
		fmt.Fprintln(out, "error: JWT_SECRET is not set") //nolint:errcheck
		return 1
	}

	token, err := pkgauth.GenerateToken(*subject)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintln(out, token) //nolint:errcheck
	return 0
}

func cmdHashKey(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("rolodex hash-key", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	key := fs.String("key", "", "API key to hash (required)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *key == "" {
		fmt.Fprintln(out, "error: -key is required") //nolint:errcheck
		return 2
	}

	hash, err := pkgauth.HashAPIKey(*key)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintln(out, hash) //nolint:errcheck
	return 0
}

func printHelp(out io.Writer) {
	helpText := `Rolodex - natural-language person query server over MCP

Usage:
  rolodex [options] <command>

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the MCP server (stdio or http, per configuration)
  migrate      Apply pending schema migrations and show the version
  add          Insert or update a person (and optionally their image)
  log          Show recent query events
  token        Issue a bearer token for the HTTP transport
  hash-key     Hash an API key for ROLODEX_API_KEY_HASH

Configuration (environment, or a YAML file named by ROLODEX_CONFIG):
  ROLODEX_DB             Database path (default rolodex.db)
  ROLODEX_TRANSPORT      stdio or http (default stdio)
  ROLODEX_ADDR           HTTP listen address (default 127.0.0.1:8765)
  ROLODEX_API_KEY_HASH   bcrypt hash accepted by the HTTP transport
  JWT_SECRET             Signing secret for bearer tokens

Examples:
  rolodex --version
  rolodex add -email john@example.com -name "John Doe" -company "Tech Corp"
  ROLODEX_TRANSPORT=http rolodex serve`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
