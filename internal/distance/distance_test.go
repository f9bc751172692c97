package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homescout/internal/models"
)

type stubSource struct {
	points      map[string]models.Coordinate
	collections map[string][]models.Coordinate
}

func (s stubSource) Points() map[string]models.Coordinate        { return s.points }
func (s stubSource) Collections() map[string][]models.Coordinate { return s.collections }

func TestMeters(t *testing.T) {
	milan := models.Coordinate{Latitude: 45.464203, Longitude: 9.189982}
	rome := models.Coordinate{Latitude: 41.902782, Longitude: 12.496366}

	assert.Zero(t, Meters(milan, milan))
	assert.Equal(t, Meters(milan, rome), Meters(rome, milan))

	// Milan-Rome is roughly 480 km as the crow flies.
	assert.InDelta(t, 480000, Meters(milan, rome), 10000)
}

func TestKilometersTruncatesToWholeMeters(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		expected float64
	}{
		{"sub-meter precision discarded", 1234.9, 1.234},
		{"whole meters unchanged", 1234.0, 1.234},
		{"sub-kilometer precision retained", 999.999, 0.999},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Kilometers(tt.meters))
		})
	}
}

func TestAggregatorSinglePoint(t *testing.T) {
	poi := models.Coordinate{Latitude: 45.01, Longitude: 9.01}
	loc := models.Coordinate{Latitude: 45.0, Longitude: 9.0}
	aggregator := NewAggregator(stubSource{
		points: map[string]models.Coordinate{"home": poi},
	})

	distances, err := aggregator.Distances(loc)
	require.NoError(t, err)

	// Exactly floor(meters)/1000, not the unrounded quotient.
	assert.Equal(t, math.Floor(Meters(poi, loc))/1000, distances["home"])
	assert.Len(t, distances, 1)
}

func TestAggregatorCollectionMinimum(t *testing.T) {
	loc := models.Coordinate{Latitude: 45.0, Longitude: 9.0}
	near := models.Coordinate{Latitude: 45.001, Longitude: 9.001}
	far := models.Coordinate{Latitude: 46.0, Longitude: 10.0}
	farther := models.Coordinate{Latitude: 47.0, Longitude: 11.0}

	expected := Kilometers(Meters(loc, near))

	members := []models.Coordinate{far, near, farther}
	aggregator := NewAggregator(stubSource{
		collections: map[string][]models.Coordinate{"stations": members},
	})
	distances, err := aggregator.Distances(loc)
	require.NoError(t, err)
	assert.Equal(t, expected, distances["stations"])

	// The minimum is independent of member ordering.
	reversed := []models.Coordinate{farther, near, far}
	aggregator = NewAggregator(stubSource{
		collections: map[string][]models.Coordinate{"stations": reversed},
	})
	distances, err = aggregator.Distances(loc)
	require.NoError(t, err)
	assert.Equal(t, expected, distances["stations"])
}

func TestAggregatorEmptyCollectionIsFatal(t *testing.T) {
	aggregator := NewAggregator(stubSource{
		collections: map[string][]models.Coordinate{"empty": {}},
	})

	_, err := aggregator.Distances(models.Coordinate{Latitude: 45.0, Longitude: 9.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no members")
}
