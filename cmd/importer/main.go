package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/meraki-backend/internal/data/db"
	"github.com/yungbote/meraki-backend/internal/legacyimport"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/envutil"
)

func main() {
	var (
		tables        string
		mappingPath   string
		dryRun        bool
		limit         int
		progressEvery int
	)
	flag.StringVar(&tables, "tables", "all", "comma separated tables to import (users,topics,content,images,videos,questions,matching)")
	flag.StringVar(&mappingPath, "mapping", "", "column mapping YAML (defaults to the built-in mapping)")
	flag.BoolVar(&dryRun, "dry-run", false, "convert rows without writing them")
	flag.IntVar(&limit, "limit", 0, "max rows read per table")
	flag.IntVar(&progressEvery, "progress-every", 100, "log progress every N rows")
	flag.Parse()

	if err := run(tables, mappingPath, legacyimport.Options{DryRun: dryRun, Limit: limit, ProgressEvery: progressEvery}); err != nil {
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}
}

func run(tableList, mappingPath string, opts legacyimport.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(envutil.GetEnv("LOG_MODE", "development", nil))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	envutil.LoadDotEnv(log)

	tables, err := legacyimport.ParseTables(tableList)
	if err != nil {
		return err
	}
	mapping, err := legacyimport.LoadMapping(mappingPath)
	if err != nil {
		return err
	}

	src, err := legacyimport.NewPgxSource(ctx, envutil.GetEnv("LEGACY_DATABASE_URL", "", nil))
	if err != nil {
		return err
	}
	defer src.Close()

	pg, err := db.NewPostgresServiceWithDSN(log, db.DSN(log))
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pg.Close()
	if err := pg.AutoMigrateAll(); err != nil {
		return fmt.Errorf("postgres automigrate: %w", err)
	}

	results, runErr := legacyimport.New(log, pg.DB(), src, mapping, opts).Run(ctx, tables)

	summary, err := json.MarshalIndent(results, "", "  ")
	if err == nil {
		fmt.Println(string(summary))
	}
	return runErr
}
