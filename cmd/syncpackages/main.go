package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/roamline/roamline/app/repository"
	"github.com/roamline/roamline/internal/pkg/catalogsync"
	"github.com/roamline/roamline/internal/pkg/database"
	"github.com/roamline/roamline/internal/pkg/env"
	"github.com/roamline/roamline/internal/pkg/metrics/counter"
	"github.com/roamline/roamline/internal/pkg/roamify"
)

// One-shot catalog sync for cron jobs and manual runs. Prints the sync report
// as JSON on stdout; exits non-zero when the run could not complete.
func main() {
	noClear := flag.Bool("no-clear", false, "upsert into the existing catalog instead of clear-and-replace")
	batchSize := flag.Int("batch-size", 0, "rows per write batch (0 = default)")
	validateMappings := flag.Bool("validate-mappings", false, "validate and repair curated package mappings after the sync")
	flag.Parse()

	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.GetGlobalRepositories()
	svc := catalogsync.NewService(roamify.NewClientFromEnv(), repos.Package, repos.MyPackage, repos.SyncRun)

	report, err := svc.Run(ctx, catalogsync.SyncOptions{
		ClearExisting:    !*noClear,
		BatchSize:        *batchSize,
		ValidateMappings: *validateMappings,
	})
	if err != nil {
		log.Fatalf("sync failed: %v", err)
	}

	// Piggyback on the cron run to drain buffered view counters.
	if err := counter.FlushAll(); err != nil {
		log.Printf("view counter flush failed: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("could not render report: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))

	if report.FailedToSync > 0 {
		os.Exit(1)
	}
}
