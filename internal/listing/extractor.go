package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"homescout/internal/models"
)

const surfaceSuffix = " m²"

// Extractor walks listing documents and yields the valid priced
// sub-units. Invalid sub-units are logged and skipped; structural
// problems with the document itself are errors.
type Extractor struct {
	logger *logrus.Logger
}

func NewExtractor(logger *logrus.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns every valid sub-unit of doc in document order.
//
// Locations are sparse across sub-units and carry forward: a sub-unit
// without its own location inherits the last one seen. A sub-unit
// missing its surface, price, nested price amount or a resolved
// location is skipped with a warning. A document whose property list
// is missing or empty violates the listing contract and aborts the
// run.
func (e *Extractor) Extract(doc Document, url string) ([]models.Candidate, error) {
	root, ok := objectField(doc, "listing")
	if !ok {
		return nil, fmt.Errorf("document for %s has no listing object", url)
	}
	properties, ok := listField(root, "properties")
	if !ok || len(properties) == 0 {
		return nil, fmt.Errorf("listing %s has no properties", url)
	}

	var candidates []models.Candidate
	var lastLocation *models.Coordinate
	for index, raw := range properties {
		property, ok := raw.(map[string]interface{})
		if !ok {
			e.logger.Warnf("Property %d of %s is not an object", index, url)
			continue
		}

		if location, ok := objectField(property, "location"); ok {
			latitude, latOK := floatField(location, "latitude")
			longitude, lonOK := floatField(location, "longitude")
			if latOK && lonOK {
				lastLocation = &models.Coordinate{Latitude: latitude, Longitude: longitude}
			}
		}

		surfaceValue, ok := stringField(property, "surfaceValue")
		if !ok {
			e.logger.Warnf("No surfaceValue in property %d of %s", index, url)
			continue
		}
		price, ok := objectField(property, "price")
		if !ok {
			e.logger.Warnf("No price in property %d of %s", index, url)
			continue
		}
		amount, ok := floatField(price, "price")
		if !ok {
			e.logger.Warnf("No price amount in property %d of %s", index, url)
			continue
		}
		if lastLocation == nil {
			e.logger.Warnf("No location in property %d of %s", index, url)
			continue
		}

		surface, err := ParseSurface(surfaceValue)
		if err != nil {
			e.logger.Warnf("Bad surfaceValue in property %d of %s: %v", index, url, err)
			continue
		}
		if surface <= 0 {
			e.logger.Warnf("Zero surface in property %d of %s", index, url)
			continue
		}

		candidates = append(candidates, models.Candidate{
			Index:    index,
			Price:    int64(amount),
			Surface:  surface,
			Location: *lastLocation,
		})
	}
	return candidates, nil
}

// ParseSurface converts a locale-formatted surface string such as
// "120,5 m²" to a whole number of square meters, truncating any
// fractional part.
func ParseSurface(value string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(value, surfaceSuffix))
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	surface, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable surface %q: %w", value, err)
	}
	return int(surface), nil
}
