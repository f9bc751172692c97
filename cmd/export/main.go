package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"homescout/internal/database"
	"homescout/internal/export"
)

// Renders a query over a collected results database as a GPX waypoint
// document on stdout, for visual inspection on a map.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		logger.Fatal("usage: export DB [SQL]")
	}
	dbPath := flag.Arg(0)
	query := export.DefaultQuery
	if flag.NArg() == 2 {
		query = flag.Arg(1)
	}

	store, err := database.Open(dbPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open results database")
	}
	defer store.Close()

	if err := export.WriteGPX(os.Stdout, store, query); err != nil {
		logger.WithError(err).Fatal("Export failed")
	}
}
