package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/ordersight/backend-go/internal/repository/postgres"
	"github.com/ordersight/backend-go/internal/service"
)

// shared by Before/After hooks across commands
var db *postgres.DB

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	var err error
	db, err = postgres.NewDBFromURL(c.String("db-url"), config.Load().Database.QueryTimeoutSeconds)
	if err != nil {
		return err
	}
	if err := postgres.EnsureSchema(c.Context, db); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func closeDB(c *cli.Context) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "importer",
		Usage: "Bulk-load order spreadsheets into the analytics store",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import one or more CSV/XLSX order exports",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringSliceFlag{
						Name:     "file",
						Usage:    "Spreadsheet file to import (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove all existing orders before the first file",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per insert transaction (0 uses the configured default)",
					},
					&cli.BoolFlag{
						Name:  "keep-duplicates",
						Usage: "Insert rows even when their order id already exists",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImport,
			},
			{
				Name:   "clear",
				Usage:  "Remove all stored orders",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runClear,
			},
			{
				Name:  "jobs",
				Usage: "List recent import jobs",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of jobs to show",
						Value: 20,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runJobs,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newImportService() *service.ImportService {
	cfg := config.Load()
	return service.NewImportService(
		postgres.NewOrderRepository(db),
		postgres.NewImportJobRepository(db),
		cache.NewNoopReportCache(),
		nil,
		cfg.Import,
	)
}

func runImport(c *cli.Context) error {
	svc := newImportService()
	ctx := context.Background()

	skip := !c.Bool("keep-duplicates")
	for i, path := range c.StringSlice("file") {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}

		opts := service.ImportOptions{
			ClearExisting:  c.Bool("clear") && i == 0,
			SkipDuplicates: &skip,
			BatchSize:      c.Int("batch-size"),
		}

		result, err := svc.Import(ctx, f, filepath.Base(path), opts)
		f.Close()
		if err != nil {
			return fmt.Errorf("import of %s failed: %w", path, err)
		}

		log.Printf("%s: %d rows, %d inserted, %d skipped, %d errors (%s, %dms)",
			path, result.TotalRows, result.Inserted, result.Skipped,
			result.Errors, result.Status, result.DurationMs)
	}

	return nil
}

func runClear(c *cli.Context) error {
	if err := newImportService().ClearOrders(context.Background()); err != nil {
		return err
	}
	log.Println("All orders cleared")
	return nil
}

func runJobs(c *cli.Context) error {
	jobs, err := newImportService().Jobs(context.Background(), c.Int("limit"), 0)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		finished := "running"
		if job.FinishedAt != nil {
			finished = job.FinishedAt.Format("2006-01-02 15:04:05")
		}
		log.Printf("#%d %s rows=%d inserted=%d skipped=%d errors=%d status=%s finished=%s",
			job.ID, job.FileName, job.TotalRows, job.Inserted, job.Skipped,
			job.Errors, job.Status, finished)
	}
	return nil
}
