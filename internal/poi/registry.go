package poi

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"homescout/internal/distance"
	"homescout/internal/models"
)

// Names become SQL column identifiers, so the accepted charset is
// restricted up front.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry holds the named points of interest and named point
// collections distances are computed against. Points and collections
// share one flat namespace: every name becomes exactly one column of
// the results table. The registry is built once at startup and read
// only afterwards.
type Registry struct {
	points      map[string]models.Coordinate
	collections map[string][]models.Coordinate
}

func NewRegistry() *Registry {
	return &Registry{
		points:      make(map[string]models.Coordinate),
		collections: make(map[string][]models.Coordinate),
	}
}

func (r *Registry) checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid POI name %q: only letters, digits, underscore and hyphen are allowed", name)
	}
	if _, ok := r.points[name]; ok {
		return fmt.Errorf("POI name %q already registered", name)
	}
	if _, ok := r.collections[name]; ok {
		return fmt.Errorf("POI name %q already registered as a collection", name)
	}
	return nil
}

// RegisterPoint adds a named single point of interest.
func (r *Registry) RegisterPoint(name string, c models.Coordinate) error {
	if err := r.checkName(name); err != nil {
		return err
	}
	r.points[name] = c
	return nil
}

// RegisterCollection adds a named ordered set of coordinates,
// aggregated later via minimum distance. An empty collection would
// yield an unbounded minimum and is rejected here.
func (r *Registry) RegisterCollection(name string, members []models.Coordinate) error {
	if err := r.checkName(name); err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("collection %q has no members", name)
	}
	r.collections[name] = members
	return nil
}

// AllNames returns the union of point and collection names, sorted
// lexicographically. The result drives both the results table schema
// and the positional ordering of distance values in each row, so it
// must be computed once and threaded through both.
func (r *Registry) AllNames() []string {
	names := make([]string, 0, len(r.points)+len(r.collections))
	for name := range r.points {
		names = append(names, name)
	}
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Points implements distance.Source.
func (r *Registry) Points() map[string]models.Coordinate {
	return r.points
}

// Collections implements distance.Source.
func (r *Registry) Collections() map[string][]models.Coordinate {
	return r.collections
}

// LogPairwiseDistances logs the geodesic distance between every
// ordered pair of distinct single points. Diagnostic output only,
// nothing consumes it.
func (r *Registry) LogPairwiseDistances(logger *logrus.Logger) {
	names := make([]string, 0, len(r.points))
	for name := range r.points {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, other := range names {
			if name == other {
				continue
			}
			meters := distance.Meters(r.points[name], r.points[other])
			logger.Infof("%s is %f meters away from %s", name, meters, other)
		}
	}
}
