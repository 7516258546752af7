package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/agalitsyn/sqlite"
	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/tasklist/internal/app"
	"github.com/agalitsyn/tasklist/internal/config"
	storage "github.com/agalitsyn/tasklist/internal/storage/sqlite"
	"github.com/agalitsyn/tasklist/internal/storage/sqlite/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flags := ParseFlags()
	setupLog(flags.Debug)

	cfgPath := flags.ConfigPath
	if cfgPath == "" {
		cfgPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		lgr.Printf("FATAL could not load config %s: %v", cfgPath, err)
	}
	if flags.DBPath != "" {
		cfg.DBPath = flags.DBPath
	}

	db, err := sqlite.Connect(cfg.DBPath)
	if err != nil {
		lgr.Printf("FATAL could not open database %s: %v", cfg.DBPath, err)
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db, migrations.FS); err != nil {
		lgr.Printf("FATAL could not migrate database: %v", err)
	}

	store := app.NewTaskStore(storage.NewTaskStorage(db))
	if err := store.Init(ctx); err != nil {
		lgr.Printf("FATAL could not init task store: %v", err)
	}
	if err := store.SetSort(cfg.DefaultSort); err != nil {
		lgr.Printf("WARN bad default_sort in config: %v", err)
	}

	if err := run(ctx, store, flags.Args); err != nil {
		lgr.Printf("FATAL %v", err)
	}
}

func setupLog(debug bool) {
	opts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if debug {
		opts = append(opts, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)
	}
	lgr.Setup(opts...)
}
