package models

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Candidate is one priced sub-unit of a listing document. Location is
// the sub-unit's own location or the one inherited from the nearest
// preceding sub-unit that carried one.
type Candidate struct {
	Index    int
	Price    int64
	Surface  int
	Location Coordinate
}

// ResultRow is one row of the results table: the fixed listing fields
// plus one distance value (in kilometers) per registered POI or
// collection name.
type ResultRow struct {
	URL         string
	Vote        float64
	Index       int
	Price       int64   // thousands of currency units
	PricePerSqm float64 // thousands of currency units per m²
	Surface     int
	Latitude    float64
	Longitude   float64
	Distances   map[string]float64
}

// FixedColumns is the stable leading column set of the results table.
// Distance columns follow it in lexicographic name order.
var FixedColumns = []string{
	"url",
	"vote",
	"index",
	"price",
	"price_per_sqm",
	"surface",
	"latitude",
	"longitude",
}

// Values serializes the row positionally in the given column order.
// The column list must be the same one the table schema was created
// from; any column that is not a fixed field is looked up in the
// distance map.
func (r ResultRow) Values(columns []string) []interface{} {
	values := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		switch column {
		case "url":
			values = append(values, r.URL)
		case "vote":
			values = append(values, r.Vote)
		case "index":
			values = append(values, r.Index)
		case "price":
			values = append(values, r.Price)
		case "price_per_sqm":
			values = append(values, r.PricePerSqm)
		case "surface":
			values = append(values, r.Surface)
		case "latitude":
			values = append(values, r.Latitude)
		case "longitude":
			values = append(values, r.Longitude)
		default:
			values = append(values, r.Distances[column])
		}
	}
	return values
}
