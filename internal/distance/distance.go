package distance

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"homescout/internal/models"
)

// Meters returns the geodesic distance between two coordinates in meters.
func Meters(a, b models.Coordinate) float64 {
	return geo.DistanceHaversine(
		orb.Point{a.Longitude, a.Latitude},
		orb.Point{b.Longitude, b.Latitude},
	)
}

// Kilometers applies the rounding rule used for every stored distance:
// truncate to whole meters, then convert to kilometers. Sub-meter
// precision is discarded, sub-kilometer precision is retained.
func Kilometers(meters float64) float64 {
	return math.Floor(meters) / 1000
}

// Source provides the named points and collections distances are
// computed against.
type Source interface {
	Points() map[string]models.Coordinate
	Collections() map[string][]models.Coordinate
}

// Aggregator computes per-name distances from a location to every
// registered point and collection.
type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Distances returns the rounded kilometer distance from loc to every
// single point, and the minimum rounded kilometer distance to every
// collection. The minimum is searched over untruncated meter values;
// rounding is applied once on the result. A collection with no members
// has an unbounded minimum and is a configuration error.
func (a *Aggregator) Distances(loc models.Coordinate) (map[string]float64, error) {
	points := a.source.Points()
	collections := a.source.Collections()

	distances := make(map[string]float64, len(points)+len(collections))
	for name, point := range points {
		distances[name] = Kilometers(Meters(point, loc))
	}
	for name, members := range collections {
		minimum := math.Inf(1)
		for _, member := range members {
			if d := Meters(loc, member); d < minimum {
				minimum = d
			}
		}
		if math.IsInf(minimum, 1) {
			return nil, fmt.Errorf("collection %q has no members", name)
		}
		distances[name] = Kilometers(minimum)
	}
	return distances, nil
}
