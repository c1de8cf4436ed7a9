package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"newsdigest/app/api"
	"newsdigest/app/archive"
	"newsdigest/app/cfg"
	"newsdigest/app/config"
	"newsdigest/app/database"
	"newsdigest/app/digest"
	"newsdigest/app/discovery"
	"newsdigest/app/extractor"
	"newsdigest/app/library"
	"newsdigest/app/pipeline"
	"newsdigest/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting News Digest server (version %s)...", appCfg.Version)

	// Run history database
	log.Println("Opening run history database...")
	db, err := database.NewDB(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	schemaVersion, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run database migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %t)", schemaVersion, dirty)

	runRepo := database.NewRunRepository(db)

	// Load source configurations
	log.Printf("Loading source configurations from %s...", appCfg.SourcesDir)
	loader := config.NewLoader(appCfg.SourcesDir)
	sourceConfigs, err := loader.LoadAll()
	if err != nil {
		log.Fatal("Failed to load source configurations:", err)
	}
	log.Printf("Loaded %d source configurations", len(sourceConfigs))

	// Initialize core components
	httpClient := &http.Client{}
	discoverer := discovery.NewDiscoverer(httpClient, appCfg.UserAgent)
	articleExtractor := extractor.NewExtractor(httpClient, appCfg.UserAgent)
	compiler := digest.NewCompiler(httpClient, appCfg.OutputDir, appCfg.UserAgent)

	importer := library.NewImporter(appCfg.CalibredbPath, appCfg.CalibreLibrary)
	if importer.Enabled() {
		log.Printf("Calibre import enabled (library: %s)", appCfg.CalibreLibrary)
	}

	// Build one article store and pipeline per source
	location := appCfg.Location()
	stores := make(map[string]*archive.Store, len(sourceConfigs))
	pipelines := make(map[string]*pipeline.Pipeline, len(sourceConfigs))
	for name, sourceConfig := range sourceConfigs {
		store := archive.NewStore(filepath.Join(appCfg.DataDir, name, "articles.json"))
		stores[name] = store
		pipelines[name] = pipeline.NewPipeline(sourceConfig, store, discoverer,
			articleExtractor, compiler, importer, appCfg.WorkerCount, location)
		log.Printf("Registered source: %s (mode: %s, enabled: %t)",
			name, sourceConfig.Discovery.Mode, sourceConfig.Settings.Enabled)
	}

	// Initialize and start scheduler
	log.Printf("Starting background scheduler (interval: %ds)...", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(sourceConfigs, pipelines, runRepo)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(sourceConfigs, stores, pipelines, runRepo, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)
		log.Printf("  Latest digest: http://localhost:%s/digest/latest", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  Run history:   http://localhost:%s/api/runs (requires API key)", appCfg.Port)
			log.Printf("  Run errors:    http://localhost:%s/api/runs/<id>/errors (requires API key)", appCfg.Port)
			log.Printf("  Trigger run:   http://localhost:%s/api/run?source=<name> (POST, requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("News Digest server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("News Digest server shutdown complete")
}
