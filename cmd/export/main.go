// Command export renders a requisition dataset JSON file into xlsx workbooks
// without running the HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanthanhphu/e-procurement-export/internal/config"
	"github.com/phanthanhphu/e-procurement-export/internal/exporter"
	"github.com/phanthanhphu/e-procurement-export/internal/report"
	"github.com/phanthanhphu/e-procurement-export/internal/repository"
	"github.com/phanthanhphu/e-procurement-export/internal/storage"
	"github.com/phanthanhphu/e-procurement-export/pkg/database"
	"github.com/phanthanhphu/e-procurement-export/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	kinds      []report.Kind
	identifier string
	input      string
	outputDir  string
	configPath string
	dbPath     string
	title      string
	signers    []report.SignatureRole
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	kinds := fs.String("kind", string(report.KindComparison), "Comma-separated report kinds")
	fs.StringVar(&opts.identifier, "id", "", "Group or report identifier used in the file name")
	fs.StringVar(&opts.input, "in", "-", "Dataset JSON file, - for stdin")
	fs.StringVar(&opts.outputDir, "out", "", "Output directory (default export.output_dir)")
	fs.StringVar(&opts.configPath, "config", "", "Path to config.yaml (optional)")
	fs.StringVar(&opts.dbPath, "db", "", "Record exports in this sqlite database")
	fs.StringVar(&opts.title, "title", "", "Override the sheet title")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.Func("signer", "Signer as Title=Name (repeatable)", func(v string) error {
		title, name, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(title) == "" {
			return fmt.Errorf("expected Title=Name, got %q", v)
		}
		opts.signers = append(opts.signers, report.SignatureRole{
			Title: strings.TrimSpace(title),
			Name:  strings.TrimSpace(name),
		})
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for _, k := range strings.Split(*kinds, ",") {
		kind := report.Kind(strings.TrimSpace(k))
		if _, ok := report.LookupVariant(kind); !ok {
			return nil, fmt.Errorf("%w: %q", exporter.ErrUnknownReport, kind)
		}
		opts.kinds = append(opts.kinds, kind)
	}
	if err := utils.ValidateIdentifier(opts.identifier); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.Export.OutputDir = opts.outputDir
	}

	logger, err := utils.NewCLILogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	payload, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	var exporterOpts []exporter.Option
	if opts.dbPath != "" {
		db, err := database.New(database.Config{Path: opts.dbPath, MaxOpenConns: 1, MaxIdleConns: 1}, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.NewMigrator(db, logger).RunMigrations(ctx, database.Migrations()); err != nil {
			return err
		}
		exporterOpts = append(exporterOpts, exporter.WithHistory(repository.NewExportRepository(db.DB, logger)))
	}

	exp := exporter.New(
		exporter.Config{
			Roles:           cfg.Export.SignatureRoles,
			RoleWidth:       cfg.Export.RoleWidth,
			TimestampFormat: cfg.Export.TimestampFormat,
		},
		report.NewExcelWriter(cfg.Export.FontFamily, logger),
		storage.NewLocalFileStorage(cfg.Export.OutputDir, logger),
		storage.NewFolderManager(cfg.Export.OutputDir, logger),
		exporter.NewLogNotifier(logger),
		logger,
		exporterOpts...,
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range opts.kinds {
		kind := kind
		g.Go(func() error {
			res, err := exp.Export(gctx, exporter.Request{
				Kind:       kind,
				Identifier: opts.identifier,
				Payload:    payload,
				Title:      opts.title,
				Signers:    opts.signers,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if res.Status == exporter.StatusEmpty {
				fmt.Fprintf(stdout, "%s\tno data to export\n", kind)
				return nil
			}
			fmt.Fprintf(stdout, "%s\t%s\n", kind, res.Record.FilePath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Export failed", zap.Error(err))
		return err
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return data, nil
}
