package pipeline

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homescout/internal/cache"
	"homescout/internal/database"
	"homescout/internal/distance"
	"homescout/internal/listing"
	"homescout/internal/models"
	"homescout/internal/poi"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const cachedListing = `{
  "listing": {
    "properties": [
      {
        "surfaceValue": "100,0 m²",
        "price": {"price": 200000},
        "location": {"latitude": 45.0, "longitude": 9.0}
      }
    ]
  }
}`

// End to end over a pre-seeded cache: one input listing, one valid
// sub-unit, one single POI.
func TestRunEndToEnd(t *testing.T) {
	base := t.TempDir()
	url := "https://www.immobiliare.it/x"

	cacheDir := filepath.Join(base, "output")
	store, err := cache.NewDir(cacheDir)
	require.NoError(t, err)
	require.NoError(t, store.Put(url, []byte(cachedListing)))

	csvPath := filepath.Join(base, "input.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("url,vote,note\n"+url+",7,nice area\n"), 0644))

	registry := poi.NewRegistry()
	home := models.Coordinate{Latitude: 45.01, Longitude: 9.01}
	require.NoError(t, registry.RegisterPoint("home", home))

	sink, err := database.NewResultStore(filepath.Join(base, "results.db"), registry.AllNames(), testLogger())
	require.NoError(t, err)
	defer sink.Close()

	fetcher := listing.NewFetcher(testLogger(), store, "www.immobiliare.it", 0)
	p := New(testLogger(), fetcher, distance.NewAggregator(registry))
	require.NoError(t, p.Run(csvPath, sink))

	columns, rows, err := sink.Rows(`SELECT * FROM results`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{
		"url", "vote", "index", "price", "price_per_sqm", "surface",
		"latitude", "longitude", "home",
	}, columns)

	row := rows[0]
	assert.EqualValues(t, 7, row[1])
	assert.EqualValues(t, 0, row[2])
	assert.EqualValues(t, 200, row[3])
	assert.EqualValues(t, 2.0, row[4])
	assert.EqualValues(t, 100, row[5])
	assert.EqualValues(t, 45.0, row[6])
	assert.EqualValues(t, 9.0, row[7])

	loc := models.Coordinate{Latitude: 45.0, Longitude: 9.0}
	expected := math.Floor(distance.Meters(home, loc)) / 1000
	assert.EqualValues(t, expected, row[8])
}

func TestRunUnexpectedDomainIsFatal(t *testing.T) {
	base := t.TempDir()
	csvPath := filepath.Join(base, "input.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("url,vote\nhttps://www.example.com/x,7\n"), 0644))

	registry := poi.NewRegistry()
	require.NoError(t, registry.RegisterPoint("home", models.Coordinate{Latitude: 45.0, Longitude: 9.0}))

	sink, err := database.NewResultStore(filepath.Join(base, "results.db"), registry.AllNames(), testLogger())
	require.NoError(t, err)
	defer sink.Close()

	store, err := cache.NewDir(filepath.Join(base, "output"))
	require.NoError(t, err)
	fetcher := listing.NewFetcher(testLogger(), store, "www.immobiliare.it", 0)

	p := New(testLogger(), fetcher, distance.NewAggregator(registry))
	err = p.Run(csvPath, sink)
	require.ErrorIs(t, err, listing.ErrUnexpectedDomain)

	// Nothing committed.
	_, rows, err := sink.Rows(`SELECT * FROM results`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunMissingHeaderColumns(t *testing.T) {
	base := t.TempDir()
	csvPath := filepath.Join(base, "input.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("link,score\nhttps://www.immobiliare.it/x,7\n"), 0644))

	sink, err := database.NewResultStore(filepath.Join(base, "results.db"), nil, testLogger())
	require.NoError(t, err)
	defer sink.Close()

	store, err := cache.NewDir(filepath.Join(base, "output"))
	require.NoError(t, err)
	fetcher := listing.NewFetcher(testLogger(), store, "www.immobiliare.it", 0)

	p := New(testLogger(), fetcher, distance.NewAggregator(poi.NewRegistry()))
	err = p.Run(csvPath, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url/vote")
}
