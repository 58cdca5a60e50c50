package reconcile

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"feed-sync/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory Repository that applies patches for real, so
// repeated runs observe their own writes.
type fakeRepo struct {
	products map[string]*models.Product // keyed by external id
	nextID   uint

	lookups       int
	updateBatches [][]models.ProductPatch
	insertBatches [][]models.Product
	marks         [][]uint

	failLookup bool
	failUpdate bool
	failInsert bool
	failScan   bool
	failMark   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]*models.Product)}
}

func (f *fakeRepo) seed(p models.Product) *models.Product {
	f.nextID++
	p.ID = f.nextID
	f.products[p.ExternalID] = &p
	return &p
}

func (f *fakeRepo) FindByExternalIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if f.failLookup {
		return nil, fmt.Errorf("lookup failed")
	}
	f.lookups++
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) BatchUpdate(ctx context.Context, patches []models.ProductPatch) error {
	if f.failUpdate {
		return fmt.Errorf("update failed")
	}
	if len(patches) == 0 {
		return nil
	}
	f.updateBatches = append(f.updateBatches, patches)
	for _, patch := range patches {
		for _, p := range f.products {
			if p.ID != patch.ProductID {
				continue
			}
			applyChange(&p.Available, patch.Available)
			if patch.Price.Kind == models.SetValue {
				p.Price = patch.Price.Value
			}
			applyChange(&p.OldPrice, patch.OldPrice)
			applyChange(&p.Currency, patch.Currency)
			renewed := patch.RenewedAt
			p.RenewedAt = &renewed
			p.NeedsRenew = true
		}
	}
	return nil
}

func applyChange[T any](dst **T, c models.FieldChange[T]) {
	switch c.Kind {
	case models.SetValue:
		v := c.Value
		*dst = &v
	case models.ClearValue:
		*dst = nil
	}
}

func (f *fakeRepo) BatchInsert(ctx context.Context, rows []models.Product) error {
	if f.failInsert {
		return fmt.Errorf("insert failed")
	}
	if len(rows) == 0 {
		return nil
	}
	f.insertBatches = append(f.insertBatches, rows)
	for _, row := range rows {
		f.seed(row)
	}
	return nil
}

func (f *fakeRepo) ScanAvailableAfter(ctx context.Context, cursorID uint, pageSize int) ([]models.ProductRef, error) {
	if f.failScan {
		return nil, fmt.Errorf("scan failed")
	}
	var refs []models.ProductRef
	for _, p := range f.products {
		if p.ID > cursorID && p.Available != nil && *p.Available {
			refs = append(refs, models.ProductRef{ID: p.ID, ExternalID: p.ExternalID})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	if len(refs) > pageSize {
		refs = refs[:pageSize]
	}
	return refs, nil
}

func (f *fakeRepo) MarkUnavailable(ctx context.Context, ids []uint) (int64, error) {
	if f.failMark {
		return 0, fmt.Errorf("mark failed")
	}
	f.marks = append(f.marks, ids)
	var n int64
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				no := false
				p.Available = &no
				p.NeedsRenew = true
				n++
			}
		}
	}
	return n, nil
}

func candidate(id string, price float64) models.Candidate {
	yes := true
	return models.Candidate{
		ExternalID: id,
		Available:  &yes,
		CategoryID: 5,
		Name:       "Product " + id,
		Price:      price,
	}
}

func runEngine(t *testing.T, repo Repository, opts Options, cands []models.Candidate) Stats {
	t.Helper()
	stats := Stats{}
	engine := NewEngine(repo, opts, &stats, time.Now(), zap.NewNop())
	for _, cand := range cands {
		require.NoError(t, engine.Add(context.Background(), cand))
	}
	require.NoError(t, engine.Flush(context.Background()))
	return stats
}

func TestEngineChunking(t *testing.T) {
	// chunk_size + 1 candidates must produce exactly two batches,
	// of sizes chunk_size and 1.
	repo := newFakeRepo()
	opts := Options{InsertNew: true, ChunkSize: 3}

	cands := []models.Candidate{
		candidate("A", 1), candidate("B", 2), candidate("C", 3), candidate("D", 4),
	}
	stats := runEngine(t, repo, opts, cands)

	assert.Equal(t, 2, repo.lookups)
	require.Len(t, repo.insertBatches, 2)
	assert.Len(t, repo.insertBatches[0], 3)
	assert.Len(t, repo.insertBatches[1], 1)
	assert.Equal(t, 4, stats.Inserted)
	assert.Len(t, repo.products, 4)
}

func TestEngineCountsWithoutWriteFlags(t *testing.T) {
	// Change detection is flag-independent: a dry run still counts.
	repo := newFakeRepo()
	yes := true
	repo.seed(models.Product{ExternalID: "A", Name: "Product A", CategoryID: 5, Price: 99, Available: &yes})

	stats := runEngine(t, repo, Options{}, []models.Candidate{
		candidate("A", 10), // price differs
		candidate("B", 20), // not in catalog
	})

	assert.Equal(t, 1, stats.PriceChanged)
	assert.Equal(t, 1, stats.Inserted)
	assert.Empty(t, repo.updateBatches)
	assert.Empty(t, repo.insertBatches)
	assert.Equal(t, 99.0, repo.products["A"].Price)
	assert.Len(t, repo.products, 1)
}

func TestEngineGatedFieldGroups(t *testing.T) {
	// Both groups differ, but only the price group is enabled for writes.
	repo := newFakeRepo()
	no := false
	old := 15.0
	repo.seed(models.Product{ExternalID: "A", Name: "Product A", CategoryID: 5,
		Price: 99, OldPrice: &old, Available: &no})

	stats := runEngine(t, repo, Options{UpdatePrice: true}, []models.Candidate{
		candidate("A", 10), // available=true vs false, price 10 vs 99, oldprice nil vs 15
	})

	assert.Equal(t, 1, stats.PriceChanged)
	assert.Equal(t, 1, stats.AvailabilityChanged)

	require.Len(t, repo.updateBatches, 1)
	require.Len(t, repo.updateBatches[0], 1)
	patch := repo.updateBatches[0][0]
	assert.Equal(t, models.Unchanged, patch.Available.Kind)
	assert.Equal(t, models.SetValue, patch.Price.Kind)
	assert.Equal(t, 10.0, patch.Price.Value)
	// Candidate has no oldprice: the column is cleared, not left stale.
	assert.Equal(t, models.ClearValue, patch.OldPrice.Kind)

	updated := repo.products["A"]
	assert.Equal(t, 10.0, updated.Price)
	assert.Nil(t, updated.OldPrice)
	require.NotNil(t, updated.Available)
	assert.False(t, *updated.Available) // availability write was gated off
	assert.True(t, updated.NeedsRenew)
}

func TestEngineUnchangedCandidateWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	yes := true
	repo.seed(models.Product{ExternalID: "A", Name: "Product A", CategoryID: 5,
		Price: 10, Available: &yes})

	opts := Options{InsertNew: true, UpdatePrice: true, UpdateAvailability: true}
	stats := runEngine(t, repo, opts, []models.Candidate{candidate("A", 10)})

	assert.Zero(t, stats.PriceChanged)
	assert.Zero(t, stats.AvailabilityChanged)
	assert.Zero(t, stats.Inserted)
	assert.Empty(t, repo.updateBatches)
	assert.Empty(t, repo.insertBatches)
}

func TestEngineIdempotence(t *testing.T) {
	// With all write flags on, a second run over the same feed and store
	// must detect zero changes.
	repo := newFakeRepo()
	no := false
	repo.seed(models.Product{ExternalID: "B", Name: "Product B", CategoryID: 5,
		Price: 42, Available: &no})

	opts := Options{InsertNew: true, UpdatePrice: true, UpdateAvailability: true}
	cands := []models.Candidate{
		candidate("A", 10), // new
		candidate("B", 20), // price and availability change
	}

	first := runEngine(t, repo, opts, cands)
	assert.Equal(t, 1, first.Inserted)
	assert.Equal(t, 1, first.PriceChanged)
	assert.Equal(t, 1, first.AvailabilityChanged)

	second := runEngine(t, repo, opts, cands)
	assert.Zero(t, second.Inserted)
	assert.Zero(t, second.PriceChanged)
	assert.Zero(t, second.AvailabilityChanged)
}

func TestEngineLookupFailureIsFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.failLookup = true

	stats := Stats{}
	engine := NewEngine(repo, Options{ChunkSize: 1}, &stats, time.Now(), zap.NewNop())
	err := engine.Add(context.Background(), candidate("A", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup failed")
}

func TestEngineUpdateFailureIsFatal(t *testing.T) {
	repo := newFakeRepo()
	yes := true
	repo.seed(models.Product{ExternalID: "A", Name: "Product A", CategoryID: 5,
		Price: 99, Available: &yes})
	repo.failUpdate = true

	stats := Stats{}
	engine := NewEngine(repo, Options{UpdatePrice: true, ChunkSize: 1}, &stats, time.Now(), zap.NewNop())
	err := engine.Add(context.Background(), candidate("A", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update failed")
}
