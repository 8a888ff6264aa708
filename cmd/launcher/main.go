package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pysugar/launcher-accounts/internal/auth/azauth"
	"github.com/pysugar/launcher-accounts/internal/auth/mojang"
	"github.com/pysugar/launcher-accounts/internal/auth/provider"
	"github.com/pysugar/launcher-accounts/internal/auth/xbox"
	"github.com/pysugar/launcher-accounts/internal/config"
	"github.com/pysugar/launcher-accounts/internal/db"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"github.com/pysugar/launcher-accounts/internal/launcher"
	"github.com/pysugar/launcher-accounts/internal/monitor"
	"github.com/pysugar/launcher-accounts/internal/reconcile"
	"github.com/pysugar/launcher-accounts/internal/version"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, dbPath, listen string
	var serve, showVersion bool

	flagSet := pflag.NewFlagSet("launcher", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "launcher settings file (.yaml or .jsonc)")
	flagSet.StringVar(&dbPath, "db", "", "account database path (overrides settings)")
	flagSet.StringVar(&listen, "listen", "", "API listen address (overrides settings)")
	flagSet.BoolVar(&serve, "serve", false, "keep running and serve the launcher API after startup")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Println("launcher", version.String())
		return nil
	}

	// Without settings there is nothing to authenticate against; fail before
	// touching the account store.
	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load launcher settings: %w", err)
	}
	if dbPath != "" {
		settings.DBPath = dbPath
	}
	if listen != "" {
		settings.Listen = listen
	}
	if settings.Source != "" {
		log.Printf("📦 Loaded launcher settings from %s", settings.Source)
	}

	database, err := db.InitDB(settings.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	store := db.NewStore(database)

	ctx := context.Background()
	if err := db.EnsureLauncherConfig(ctx, store); err != nil {
		return err
	}

	httpClient := provider.NewHTTPClient()
	registry := provider.NewRegistry().
		Register(models.AccountTypeXbox, xbox.New(settings.ClientID, xbox.WithHTTPClient(httpClient))).
		Register(models.AccountTypeTokenAuth, azauth.New(settings.Online, httpClient)).
		Register(models.AccountTypeSimpleLogin, mojang.New(settings.AuthServer, httpClient))

	passMonitor, err := monitor.NewPassMonitor(database)
	if err != nil {
		return err
	}

	svc := launcher.NewService(store, registry, reconcile.Options{AdapterTimeout: settings.AdapterTimeout}).
		WithMonitor(passMonitor).
		WithAPIKey(settings.APIKey)
	result, err := svc.Reconcile(ctx)
	if err != nil {
		return err
	}

	if result.Active != nil {
		log.Printf("🚀 Launcher ready: screen=%s account=%s", result.Screen, result.Active.Name)
	} else {
		log.Printf("🚀 Launcher ready: screen=%s", result.Screen)
	}

	if !serve {
		return nil
	}
	svc.StartRefreshLoop(ctx, settings.Interval)
	log.Printf("📊 Launcher API: http://%s/api/state", settings.Listen)
	if settings.APIKey == "" {
		log.Printf("⚠️ No api_key configured; write endpoints are open to local clients")
	}
	return http.ListenAndServe(settings.Listen, svc.Router())
}
