package reconcile

import (
	"context"
	"time"

	"feed-sync/feature/catalog/models"

	"go.uber.org/zap"
)

// Engine reconciles validated candidates against the catalog in fixed-size
// chunks. Per chunk it issues exactly one bulk lookup, at most one batched
// update and at most one batched insert. Candidates keep feed order within
// a chunk; each chunk's writes commit independently.
type Engine struct {
	repo      Repository
	opts      Options
	logger    *zap.Logger
	stats     *Stats
	renewedAt time.Time
	chunk     []models.Candidate
}

// NewEngine creates an engine writing its counters into stats.
// renewedAt is stamped on every record the run touches.
func NewEngine(repo Repository, opts Options, stats *Stats, renewedAt time.Time, logger *zap.Logger) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Engine{
		repo:      repo,
		opts:      opts,
		logger:    logger,
		stats:     stats,
		renewedAt: renewedAt,
		chunk:     make([]models.Candidate, 0, opts.ChunkSize),
	}
}

// Add queues a candidate and reconciles the chunk once it is full.
func (e *Engine) Add(ctx context.Context, cand models.Candidate) error {
	e.chunk = append(e.chunk, cand)
	if len(e.chunk) >= e.opts.ChunkSize {
		return e.Flush(ctx)
	}
	return nil
}

// Flush reconciles any buffered candidates. It is a no-op on an empty
// buffer, so callers can always invoke it after the feed is exhausted.
func (e *Engine) Flush(ctx context.Context) error {
	if len(e.chunk) == 0 {
		return nil
	}
	err := e.reconcileChunk(ctx, e.chunk)
	e.chunk = e.chunk[:0]
	return err
}

func (e *Engine) reconcileChunk(ctx context.Context, chunk []models.Candidate) error {
	started := time.Now()
	defer func() {
		e.stats.StoreDuration += time.Since(started)
	}()

	ids := make([]string, 0, len(chunk))
	for _, cand := range chunk {
		ids = append(ids, cand.ExternalID)
	}

	found, err := e.repo.FindByExternalIDs(ctx, ids)
	if err != nil {
		return err
	}
	byExternalID := make(map[string]*models.Product, len(found))
	for i := range found {
		byExternalID[found[i].ExternalID] = &found[i]
	}

	var patches []models.ProductPatch
	var inserts []models.Product
	for _, cand := range chunk {
		record, exists := byExternalID[cand.ExternalID]
		if !exists {
			e.stats.Inserted++
			if e.opts.InsertNew {
				inserts = append(inserts, cand.Product(e.renewedAt))
			}
			continue
		}
		patch := e.diff(cand, record)
		if !patch.Empty() {
			patches = append(patches, patch)
		}
	}

	if err := e.repo.BatchUpdate(ctx, patches); err != nil {
		return err
	}
	if err := e.repo.BatchInsert(ctx, inserts); err != nil {
		return err
	}

	e.logger.Debug("chunk reconciled",
		zap.Int("candidates", len(chunk)),
		zap.Int("updates", len(patches)),
		zap.Int("inserts", len(inserts)))
	return nil
}

// diff computes the patch for a candidate with a matching record. The two
// change flags are detected and counted unconditionally; the patch carries
// a field group only when its write policy is enabled.
func (e *Engine) diff(cand models.Candidate, record *models.Product) models.ProductPatch {
	patch := models.ProductPatch{ProductID: record.ID, RenewedAt: e.renewedAt}

	if !eqPtr(cand.Available, record.Available) {
		e.stats.AvailabilityChanged++
		if e.opts.UpdateAvailability {
			patch.Available = models.FromPtr(cand.Available)
		}
	}

	if cand.Price != record.Price ||
		!eqPtr(cand.OldPrice, record.OldPrice) ||
		!eqPtr(cand.Currency, record.Currency) {
		e.stats.PriceChanged++
		if e.opts.UpdatePrice {
			patch.Price = models.Set(cand.Price)
			patch.OldPrice = models.FromPtr(cand.OldPrice)
			patch.Currency = models.FromPtr(cand.Currency)
		}
	}

	return patch
}

// eqPtr compares two nullable values, treating nil as a distinct state.
func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
