package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/config"
	"github.com/finsight-io/finsight-engine/pkg/handlers"
	"github.com/finsight-io/finsight-engine/pkg/logging"
	"github.com/finsight-io/finsight-engine/pkg/patterns"
	"github.com/finsight-io/finsight-engine/pkg/safeaccess"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/translate"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("pattern_file", cfg.PatternFile),
		zap.String("schema_file", cfg.SchemaFile),
		zap.Bool("database_configured", cfg.Database.Configured()))

	registry := schema.NewRegistry(cfg.SchemaFile, logger)
	registry.Load()
	if registry.Empty() {
		logger.Info("No schema cache found, seeding canonical financial schema")
		registry = schema.DefaultRegistry(cfg.SchemaFile, logger)
		if err := registry.Save(); err != nil {
			logger.Warn("Failed to persist seeded schema", zap.Error(err))
		}
	}

	library := patterns.NewLibrary(cfg.PatternFile, logger)
	library.Load()
	logger.Info("Pattern library ready", zap.Int("patterns", library.Len()))

	// The safe data-access provider is optional. Without it, intent routing
	// reports no match and translation falls through to the SQL strategies.
	var access translate.SafeAccess
	if cfg.Database.Configured() {
		connStr := cfg.Database.ConnectionString()
		logger.Info("Connecting to financial database",
			zap.String("dsn", logging.SanitizeConnectionString(connStr)))
		pool, err := safeaccess.NewPool(context.Background(), &safeaccess.PoolConfig{
			ConnString:     connStr,
			MaxConnections: cfg.Database.MaxConnections,
		})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		access = safeaccess.NewPGProvider(pool, registry, logger)
	}

	translator := translate.New(registry, library, translate.DefaultMappings(), access, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(translator, library, registry, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting finsight-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
