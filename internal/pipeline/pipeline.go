package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"homescout/internal/database"
	"homescout/internal/distance"
	"homescout/internal/listing"
	"homescout/internal/models"
)

// DocumentSource resolves a listing URL to its raw document.
type DocumentSource interface {
	GetDocument(url string) (listing.Document, error)
}

// Pipeline drives one collection run: each input listing is resolved
// to a document, its sub-units are extracted, distances are computed
// and the assembled rows are written to the sink in a single batch.
// Listings are processed sequentially, in input order.
type Pipeline struct {
	logger     *logrus.Logger
	source     DocumentSource
	extractor  *listing.Extractor
	aggregator *distance.Aggregator
}

func New(logger *logrus.Logger, source DocumentSource, aggregator *distance.Aggregator) *Pipeline {
	return &Pipeline{
		logger:     logger,
		source:     source,
		extractor:  listing.NewExtractor(logger),
		aggregator: aggregator,
	}
}

// Run reads the input CSV at csvPath and batch-inserts the resulting
// rows into store. The CSV must have a header row with at least url
// and vote columns; extra columns are ignored.
func (p *Pipeline) Run(csvPath string, store *database.ResultStore) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	urlIndex, voteIndex := -1, -1
	for i, column := range header {
		switch column {
		case "url":
			urlIndex = i
		case "vote":
			voteIndex = i
		}
	}
	if urlIndex < 0 || voteIndex < 0 {
		return fmt.Errorf("input CSV %s is missing url/vote columns", csvPath)
	}

	var rows []models.ResultRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input CSV: %w", err)
		}

		url := record[urlIndex]
		vote, err := strconv.ParseFloat(record[voteIndex], 64)
		if err != nil {
			return fmt.Errorf("invalid vote for %s: %w", url, err)
		}

		document, err := p.source.GetDocument(url)
		if err != nil {
			return err
		}
		candidates, err := p.extractor.Extract(document, url)
		if err != nil {
			return err
		}
		for _, candidate := range candidates {
			distances, err := p.aggregator.Distances(candidate.Location)
			if err != nil {
				return err
			}
			rows = append(rows, assemble(url, vote, candidate, distances))
		}
	}

	return store.InsertRows(rows)
}

// assemble builds one result row. Prices are stored in thousands;
// price per square meter is truncated to whole currency units before
// scaling.
func assemble(url string, vote float64, c models.Candidate, distances map[string]float64) models.ResultRow {
	return models.ResultRow{
		URL:         url,
		Vote:        vote,
		Index:       c.Index,
		Price:       c.Price / 1000,
		PricePerSqm: float64(c.Price/int64(c.Surface)) / 1000,
		Surface:     c.Surface,
		Latitude:    c.Location.Latitude,
		Longitude:   c.Location.Longitude,
		Distances:   distances,
	}
}
