package poi

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"homescout/internal/models"
)

// Column names of the ATM open-data export (EPSG:4326 coordinates).
const (
	atmLatColumn = "LAT_Y_4326"
	atmLonColumn = "LONG_X_4326"
)

// NamedPoint is one explicitly configured point of interest.
type NamedPoint struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ParseSpec parses a command-line point specification of the form
// NAME,LATITUDE,LONGITUDE.
func ParseSpec(spec string) (NamedPoint, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return NamedPoint{}, fmt.Errorf("invalid POI spec %q: want NAME,LATITUDE,LONGITUDE", spec)
	}
	latitude, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return NamedPoint{}, fmt.Errorf("invalid latitude in POI spec %q: %w", spec, err)
	}
	longitude, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return NamedPoint{}, fmt.Errorf("invalid longitude in POI spec %q: %w", spec, err)
	}
	return NamedPoint{Name: parts[0], Latitude: latitude, Longitude: longitude}, nil
}

// LoadFile reads named points of interest from a YAML file containing
// a list of {name, latitude, longitude} entries.
func LoadFile(path string) ([]NamedPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read POI file: %w", err)
	}
	var points []NamedPoint
	if err := yaml.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to parse POI file %s: %w", path, err)
	}
	for _, p := range points {
		if p.Name == "" {
			return nil, fmt.Errorf("POI file %s contains an entry without a name", path)
		}
	}
	return points, nil
}

// LoadBikeMi reads a JSON array of [latitude, longitude] pairs. Extra
// elements per entry are ignored.
func LoadBikeMi(path string) ([]models.Coordinate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bikemi data: %w", err)
	}
	var entries [][]float64
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse bikemi data %s: %w", path, err)
	}
	coordinates := make([]models.Coordinate, 0, len(entries))
	for i, entry := range entries {
		if len(entry) < 2 {
			return nil, fmt.Errorf("bikemi entry %d has %d elements, want at least 2", i, len(entry))
		}
		coordinates = append(coordinates, models.Coordinate{Latitude: entry[0], Longitude: entry[1]})
	}
	return coordinates, nil
}

// LoadATM reads a semicolon-delimited CSV with a header row and named
// latitude/longitude columns.
func LoadATM(path string) ([]models.Coordinate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ATM data: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read ATM header: %w", err)
	}
	latIndex, lonIndex := -1, -1
	for i, column := range header {
		switch column {
		case atmLatColumn:
			latIndex = i
		case atmLonColumn:
			lonIndex = i
		}
	}
	if latIndex < 0 || lonIndex < 0 {
		return nil, fmt.Errorf("ATM data %s is missing %s/%s columns", path, atmLatColumn, atmLonColumn)
	}

	var coordinates []models.Coordinate
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read ATM data: %w", err)
		}
		latitude, err := strconv.ParseFloat(record[latIndex], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude on line %d of %s: %w", line, path, err)
		}
		longitude, err := strconv.ParseFloat(record[lonIndex], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude on line %d of %s: %w", line, path, err)
		}
		coordinates = append(coordinates, models.Coordinate{Latitude: latitude, Longitude: longitude})
	}
	return coordinates, nil
}
