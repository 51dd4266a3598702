package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/phanthanhphu/e-procurement-export/internal/config"
	"github.com/phanthanhphu/e-procurement-export/internal/exporter"
	httpapi "github.com/phanthanhphu/e-procurement-export/internal/interfaces/http"
	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/phanthanhphu/e-procurement-export/internal/repository"
	"github.com/phanthanhphu/e-procurement-export/internal/storage"
	"github.com/phanthanhphu/e-procurement-export/pkg/database"
	"github.com/phanthanhphu/e-procurement-export/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
	logger.Info("Server exited successfully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting procurement export service",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("output_dir", cfg.Export.OutputDir))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).RunMigrations(ctx, database.Migrations()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	exportRepo := repository.NewExportRepository(db.DB, logger)
	files := storage.NewLocalFileStorage(cfg.Export.OutputDir, logger)
	folders := storage.NewFolderManager(cfg.Export.OutputDir, logger)

	exp := exporter.New(
		exporter.Config{
			Roles:           cfg.Export.SignatureRoles,
			RoleWidth:       cfg.Export.RoleWidth,
			TimestampFormat: cfg.Export.TimestampFormat,
		},
		report.NewExcelWriter(cfg.Export.FontFamily, logger),
		files,
		folders,
		exporter.NewLogNotifier(logger),
		logger,
		exporter.WithHistory(exportRepo),
	)

	handlers := httpapi.NewHandlers(exp, exportRepo, files, cfg.Export.MaxPayloadBytes, logger)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Debug:           cfg.Logger.Level == "debug",
	}, handlers, logger)

	return server.Start(ctx)
}
