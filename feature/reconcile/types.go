package reconcile

import (
	"context"
	"time"

	"feed-sync/feature/catalog/models"
)

// Repository is the catalog access capability the engine consumes.
// The production implementation lives in feature/catalog.
type Repository interface {
	// FindByExternalIDs loads all products whose external id is in ids.
	FindByExternalIDs(ctx context.Context, ids []string) ([]models.Product, error)
	// BatchUpdate applies the given patches as one batched operation.
	BatchUpdate(ctx context.Context, patches []models.ProductPatch) error
	// BatchInsert inserts the given rows as one batched operation.
	BatchInsert(ctx context.Context, rows []models.Product) error
	// ScanAvailableAfter pages available products by ascending id,
	// starting strictly after cursorID.
	ScanAvailableAfter(ctx context.Context, cursorID uint, pageSize int) ([]models.ProductRef, error)
	// MarkUnavailable flips the given products to not-available and
	// returns the number of rows touched.
	MarkUnavailable(ctx context.Context, ids []uint) (int64, error)
}

// Options are the independent write-enable policies of a run.
// Change detection and counting are never gated by these flags; only the
// physical writes are, so a run with everything disabled is a dry run that
// still reports accurate would-change statistics.
type Options struct {
	// InsertNew enables insertion of candidates with no matching record.
	InsertNew bool
	// UpdatePrice enables writes of the price field group
	// (price, old price, currency).
	UpdatePrice bool
	// UpdateAvailability enables writes of the availability field.
	UpdateAvailability bool
	// MarkMissing enables the post-ingestion sweep that marks available
	// records absent from the feed as not-available.
	MarkMissing bool
	// ChunkSize is how many candidates are reconciled per batch.
	ChunkSize int
	// PageSize is the page size of the missing sweep's catalog scan.
	PageSize int
}

// DefaultChunkSize is the number of candidates reconciled per batch when
// the caller does not override it. It also serves as the default sweep
// page size.
const DefaultChunkSize = 1000

// Stats aggregates the counters of one synchronization run.
// Fields are purely additive; nothing reads them mid-run.
type Stats struct {
	// TotalOffers is how many identified offers the feed contained.
	TotalOffers int
	// ParsedOffers is how many offers passed validation.
	ParsedOffers int
	// IgnoredOffers is how many offers were rejected at validation.
	IgnoredOffers int
	// PriceChanged counts candidates whose price group differs from the
	// stored record, whether or not the price-update flag was set.
	PriceChanged int
	// AvailabilityChanged counts candidates whose availability differs
	// from the stored record, whether or not the flag was set.
	AvailabilityChanged int
	// Inserted counts candidates with no matching record, whether or not
	// the insert flag was set.
	Inserted int
	// MarkedUnavailable is how many records the missing sweep flipped.
	MarkedUnavailable int

	ParseDuration time.Duration
	StoreDuration time.Duration
	SweepDuration time.Duration
	TotalDuration time.Duration
}

// Stage names reported to the progress observer.
const (
	StageParse = "parse"
	StageSweep = "sweep"
)

// ProgressFunc receives periodic progress updates while a run executes.
// done and total are stage-specific units (bytes for parse, records for
// sweep); total is -1 when unknown.
type ProgressFunc func(stage string, done, total int64)
