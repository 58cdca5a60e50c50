package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const twoOfferFeed = `<yml_catalog><shop><offers>
	<offer id="A1" available="true">
		<price>10</price>
		<name>Foo</name>
		<categoryId>5</categoryId>
	</offer>
	<offer id="A2" available="true">
		<price>20</price>
		<categoryId>5</categoryId>
	</offer>
</offers></shop></yml_catalog>`

func TestRunnerCountsAndInserts(t *testing.T) {
	// A1 is complete; A2 has no name and must be ignored.
	repo := newFakeRepo()
	runner := NewRunner(repo, Options{InsertNew: true}, zap.NewNop())

	stats, err := runner.Run(context.Background(), strings.NewReader(twoOfferFeed), -1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalOffers)
	assert.Equal(t, 1, stats.ParsedOffers)
	assert.Equal(t, 1, stats.IgnoredOffers)
	assert.Equal(t, 1, stats.Inserted)

	require.Len(t, repo.products, 1)
	inserted := repo.products["A1"]
	require.NotNil(t, inserted)
	assert.Equal(t, "Foo", inserted.Name)
	assert.Equal(t, 10.0, inserted.Price)
	assert.Equal(t, 5, inserted.CategoryID)
}

func TestRunnerDryRunCounts(t *testing.T) {
	repo := newFakeRepo()
	runner := NewRunner(repo, Options{}, zap.NewNop())

	stats, err := runner.Run(context.Background(), strings.NewReader(twoOfferFeed), -1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Inserted)
	assert.Empty(t, repo.products)
}

func TestRunnerFatalAvailabilityAborts(t *testing.T) {
	doc := `<offers>
		<offer id="A1" available="yes"><price>10</price><name>n</name><categoryId>5</categoryId></offer>
	</offers>`

	repo := newFakeRepo()
	runner := NewRunner(repo, Options{InsertNew: true}, zap.NewNop())

	_, err := runner.Run(context.Background(), strings.NewReader(doc), -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"yes"`)
	assert.Empty(t, repo.products)
}

func TestRunnerSweepAfterIngestion(t *testing.T) {
	repo := newFakeRepo()
	seedAvailability(repo, "A1", true)
	seedAvailability(repo, "GONE", true)

	opts := Options{InsertNew: true, UpdatePrice: true, UpdateAvailability: true, MarkMissing: true}
	runner := NewRunner(repo, opts, zap.NewNop())

	stats, err := runner.Run(context.Background(), strings.NewReader(twoOfferFeed), -1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MarkedUnavailable)
	assert.False(t, *repo.products["GONE"].Available)
	assert.True(t, *repo.products["A1"].Available)
}

func TestRunnerSweepDisabled(t *testing.T) {
	repo := newFakeRepo()
	seedAvailability(repo, "GONE", true)

	runner := NewRunner(repo, Options{InsertNew: true}, zap.NewNop())
	stats, err := runner.Run(context.Background(), strings.NewReader(twoOfferFeed), -1)
	require.NoError(t, err)

	assert.Zero(t, stats.MarkedUnavailable)
	assert.True(t, *repo.products["GONE"].Available)
}

func TestRunnerEmptyFeed(t *testing.T) {
	repo := newFakeRepo()
	runner := NewRunner(repo, Options{InsertNew: true}, zap.NewNop())

	stats, err := runner.Run(context.Background(), strings.NewReader(`<yml_catalog><shop><offers></offers></shop></yml_catalog>`), -1)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOffers)
	assert.Empty(t, repo.products)
}
