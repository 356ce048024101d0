// Command pulseplay serves mood-based music recommendations.
//
// Usage:
//
//	pulseplay [serve]              run the web application
//	pulseplay recommend <mood> [k] print recommendations as Markdown
//	pulseplay import               load the CSV catalog into PostgreSQL
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/justestif/pulseplay/internal/catalog"
	"github.com/justestif/pulseplay/internal/config"
	"github.com/justestif/pulseplay/internal/db"
	"github.com/justestif/pulseplay/internal/display"
	"github.com/justestif/pulseplay/internal/recommend"
	"github.com/justestif/pulseplay/internal/spotify"
	"github.com/justestif/pulseplay/internal/tiers"
	"github.com/justestif/pulseplay/internal/web"
	webfs "github.com/justestif/pulseplay/web"
)

// startupTimeout bounds catalog loading and other startup I/O.
const startupTimeout = 30 * time.Second

// defaultTopK is the recommend subcommand's k when none is given.
const defaultTopK = 5

var errUsage = errors.New("usage: pulseplay [serve | recommend <mood> [k] | import]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(cfg, logger)
	case "recommend":
		return recommendCmd(cfg, logger, args, stdout)
	case "import":
		return importCmd(cfg, logger)
	default:
		return errUsage
	}
}

// serve loads the catalog and runs the web server until interrupted.
func serve(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cat, database, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	scale, err := tiers.Build(cat.Tracks())
	if err != nil {
		logger.Warn("Popularity tiers unavailable", slog.Any("error", err))
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	selector := newSelector(cat, cfg)
	logger.Info("Selector ready", slog.Int("pool_size", selector.PoolSize()))

	serverCfg := web.ServerConfig{
		Addr:        cfg.Addr,
		TemplatesFS: templates,
		StaticFS:    static,
		Catalog:     cat,
		Selector:    selector,
		Tiers:       scale,
		Logger:      logger,
	}
	if database != nil {
		serverCfg.DB = database
	}

	if cfg.SpotifyEnabled() {
		client, err := spotify.NewFromCredentials(context.Background(), cfg.SpotifyID, cfg.SpotifySecret)
		if err != nil {
			logger.Warn("Spotify enrichment disabled", slog.Any("error", err))
		} else {
			serverCfg.Artwork = client
		}
	}

	server, err := web.NewServer(serverCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

// recommendCmd prints one set of recommendations to stdout.
func recommendCmd(cfg config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	moodName := args[0]
	k := defaultTopK
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("k must be a positive integer, got %q", args[1])
		}
		k = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	cat, database, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if database != nil {
		database.Close()
	}

	tracks := newSelector(cat, cfg).Recommend(moodName, k)
	_, err = io.WriteString(stdout, display.Document(moodName, k, tracks))
	return err
}

// importCmd replaces the PostgreSQL catalog with the contents of the CSV file.
func importCmd(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := database.Tracks().ReplaceAll(ctx, cat.Tracks()); err != nil {
		return err
	}

	stored, err := database.Tracks().Count(ctx)
	if err != nil {
		return err
	}
	if stored != cat.Len() {
		return fmt.Errorf("imported %d tracks but %d are stored", cat.Len(), stored)
	}

	logger.Info("Imported catalog", slog.String("path", cfg.CatalogPath), slog.Int("tracks", stored))
	return nil
}

// loadCatalog reads the catalog from PostgreSQL when DATABASE_URL is set,
// otherwise from the CSV file. The returned DB is nil for CSV catalogs.
func loadCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (*catalog.Catalog, *db.DB, error) {
	if cfg.DatabaseURL == "" {
		cat, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Loaded catalog", slog.String("source", cfg.CatalogPath), slog.Int("tracks", cat.Len()))
		return cat, nil, nil
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	cat, err := database.LoadCatalog(ctx)
	if err != nil {
		database.Close()
		return nil, nil, err
	}

	logger.Info("Loaded catalog", slog.String("source", "postgres"), slog.Int("tracks", cat.Len()))
	return cat, database, nil
}

func newSelector(cat *catalog.Catalog, cfg config.Config) *recommend.Selector {
	return recommend.New(cat, recommend.Options{
		PoolSize: cfg.PoolSize,
		Seed:     cfg.Seed,
	})
}
