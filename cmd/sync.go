package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feed-sync/core/config"
	"feed-sync/core/database"
	"feed-sync/core/logger"
	"feed-sync/core/storage"
	"feed-sync/feature/catalog"
	"feed-sync/feature/catalog/models"
	"feed-sync/feature/feed"
	"feed-sync/feature/reconcile"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	feedLocation       string
	insertNew          bool
	updatePrice        bool
	updateAvailability bool
	markMissing        bool
	chunkSize          int
	pageSize           int
	quiet              bool
)

// syncCmd performs one feed synchronization run.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize a supplier feed into the product catalog",
	Long: `Parse a supplier product feed and reconcile it against the catalog.

Each kind of write is gated by its own flag. With no write flags set the run
is a dry run: it still reports how many products would be inserted or changed.

Examples:
  # Dry run: parse the feed and report would-be changes
  feed-sync sync --feed hubber.xml

  # Insert new products and update prices
  feed-sync sync --feed hubber.xml --insert-new --update-price

  # Full sync including availability and the missing-products sweep
  feed-sync sync --feed hubber.xml --insert-new --update-price \
    --update-availability --mark-missing

  # Feed delivered to object storage
  feed-sync sync --feed s3://feeds/hubber.xml --insert-new`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&feedLocation, "feed", "", "Feed location: local path or s3://bucket/object (required)")
	syncCmd.Flags().BoolVar(&insertNew, "insert-new", false, "Insert products that are not in the catalog yet")
	syncCmd.Flags().BoolVar(&updatePrice, "update-price", false, "Update price, old price and currency of changed products")
	syncCmd.Flags().BoolVar(&updateAvailability, "update-availability", false, "Update availability of changed products")
	syncCmd.Flags().BoolVar(&markMissing, "mark-missing", false, "Mark available products absent from the feed as unavailable")
	syncCmd.Flags().IntVar(&chunkSize, "chunk-size", reconcile.DefaultChunkSize, "Number of offers reconciled per database batch")
	syncCmd.Flags().IntVar(&pageSize, "page-size", reconcile.DefaultChunkSize, "Page size of the missing-products catalog scan")
	syncCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress periodic progress output")
	_ = syncCmd.MarkFlagRequired("feed")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	runID := uuid.NewString()
	l = l.With(zap.String("run_id", runID))

	l.Info("Starting feed synchronization",
		zap.String("feed", feedLocation),
		zap.Bool("insert_new", insertNew),
		zap.Bool("update_price", updatePrice),
		zap.Bool("update_availability", updateAvailability),
		zap.Bool("mark_missing", markMissing))

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Object storage client is only needed for s3:// feed locations
	var client storage.Client
	if strings.HasPrefix(feedLocation, "s3://") {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	stream, feedSize, err := feed.Open(ctx, client, feedLocation)
	if err != nil {
		return err
	}
	defer stream.Close()

	repo := catalog.NewRepository(db)
	opts := reconcile.Options{
		InsertNew:          insertNew,
		UpdatePrice:        updatePrice,
		UpdateAvailability: updateAvailability,
		MarkMissing:        markMissing,
		ChunkSize:          chunkSize,
		PageSize:           pageSize,
	}

	runner := reconcile.NewRunner(repo, opts, l)
	if !quiet {
		runner.OnProgress(func(stage string, done, total int64) {
			l.Info("Progress",
				zap.String("stage", stage),
				zap.Int64("done", done),
				zap.Int64("total", total))
		})
	}

	startedAt := time.Now()
	stats, err := runner.Run(ctx, stream, feedSize)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	// Record the completed run; written only on full success.
	run := models.SyncRun{
		ID:                  runID,
		StartedAt:           startedAt,
		FinishedAt:          time.Now(),
		TotalOffers:         stats.TotalOffers,
		ParsedOffers:        stats.ParsedOffers,
		IgnoredOffers:       stats.IgnoredOffers,
		PriceChanged:        stats.PriceChanged,
		AvailabilityChanged: stats.AvailabilityChanged,
		Inserted:            stats.Inserted,
		MarkedUnavailable:   stats.MarkedUnavailable,
	}
	if err := repo.RecordRun(ctx, run); err != nil {
		return err
	}

	l.Info("Synchronization finished",
		zap.Int("total_offers", stats.TotalOffers),
		zap.Int("parsed_offers", stats.ParsedOffers),
		zap.Int("ignored_offers", stats.IgnoredOffers),
		zap.Int("price_changed", stats.PriceChanged),
		zap.Int("availability_changed", stats.AvailabilityChanged),
		zap.Int("inserted", stats.Inserted),
		zap.Int("marked_unavailable", stats.MarkedUnavailable),
		zap.Duration("parse_duration", stats.ParseDuration),
		zap.Duration("store_duration", stats.StoreDuration),
		zap.Duration("sweep_duration", stats.SweepDuration),
		zap.Duration("total_duration", stats.TotalDuration))

	return nil
}
