package export

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// DefaultQuery selects every persisted row.
const DefaultQuery = "SELECT * FROM results"

// Querier yields the rows to export. Satisfied by database.ResultStore.
type Querier interface {
	Rows(query string) ([]string, [][]interface{}, error)
}

// Waypoint is one GPX wpt element.
type Waypoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name string  `xml:"name"`
	Desc string  `xml:"desc"`
}

type gpx struct {
	XMLName        xml.Name   `xml:"gpx"`
	Version        string     `xml:"version,attr"`
	Creator        string     `xml:"creator,attr"`
	XSI            string     `xml:"xmlns:xsi,attr"`
	Namespace      string     `xml:"xmlns,attr"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr"`
	TPX            string     `xml:"xmlns:gpxtpx,attr"`
	Waypoints      []Waypoint `xml:"wpt"`
}

func newGPX() gpx {
	return gpx{
		Version:        "1.1",
		Creator:        "Runkeeper - http://www.runkeeper.com",
		XSI:            "http://www.w3.org/2001/XMLSchema-instance",
		Namespace:      "http://www.topografix.com/GPX/1/1",
		SchemaLocation: "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd",
		TPX:            "http://www.garmin.com/xmlschemas/TrackPointExtension/v1",
	}
}

// WriteGPX runs query against q and writes each result row as a GPX
// waypoint to w. The row's ordinal position becomes the waypoint name
// and the full row is serialized into the description, so every column
// is inspectable on a map. An empty result yields a well-formed
// document with zero waypoints.
func WriteGPX(w io.Writer, q Querier, query string) error {
	columns, rows, err := q.Rows(query)
	if err != nil {
		return err
	}

	latIndex, lonIndex := -1, -1
	for i, column := range columns {
		switch column {
		case "latitude":
			latIndex = i
		case "longitude":
			lonIndex = i
		}
	}
	if len(rows) > 0 && (latIndex < 0 || lonIndex < 0) {
		return fmt.Errorf("query result has no latitude/longitude columns")
	}

	document := newGPX()
	for i, row := range rows {
		fields := make(map[string]interface{}, len(columns))
		for j, column := range columns {
			fields[column] = normalize(row[j])
		}
		description, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize row %d: %w", i, err)
		}

		lat, err := toFloat(row[latIndex])
		if err != nil {
			return fmt.Errorf("row %d has a non-numeric latitude: %w", i, err)
		}
		lon, err := toFloat(row[lonIndex])
		if err != nil {
			return fmt.Errorf("row %d has a non-numeric longitude: %w", i, err)
		}

		document.Waypoints = append(document.Waypoints, Waypoint{
			Lat:  lat,
			Lon:  lon,
			Name: strconv.Itoa(i),
			Desc: string(description),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("failed to encode GPX document: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// normalize maps driver-level values to JSON-friendly ones.
func normalize(value interface{}) interface{} {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("unsupported value %v (%T)", value, value)
}
