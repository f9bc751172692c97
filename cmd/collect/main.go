package main

import (
	"flag"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"homescout/config"
	"homescout/internal/cache"
	"homescout/internal/database"
	"homescout/internal/distance"
	"homescout/internal/listing"
	"homescout/internal/models"
	"homescout/internal/pipeline"
	"homescout/internal/poi"
)

type poiFlags []string

func (p *poiFlags) String() string {
	return strings.Join(*p, " ")
}

func (p *poiFlags) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	var poiSpecs poiFlags
	flag.Var(&poiSpecs, "poi", "point of interest as NAME,LATITUDE,LONGITUDE (repeatable)")
	poiFile := flag.String("poi-file", "", "YAML file with named points of interest")
	flag.Parse()
	if flag.NArg() != 2 {
		logger.Fatal("usage: collect [--poi NAME,LAT,LON]... [--poi-file FILE] CSV DB")
	}
	csvPath, dbPath := flag.Arg(0), flag.Arg(1)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment as-is")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	registry := poi.NewRegistry()
	register := func(p poi.NamedPoint) {
		coordinate := models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
		if err := registry.RegisterPoint(p.Name, coordinate); err != nil {
			logger.WithError(err).Fatal("Invalid POI configuration")
		}
	}
	for _, spec := range poiSpecs {
		point, err := poi.ParseSpec(spec)
		if err != nil {
			logger.WithError(err).Fatal("Invalid POI specification")
		}
		register(point)
	}
	if *poiFile != "" {
		points, err := poi.LoadFile(*poiFile)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load POI file")
		}
		for _, point := range points {
			register(point)
		}
	}

	bikemi, err := poi.LoadBikeMi(cfg.BikeMiPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load bikemi data")
	}
	if err := registry.RegisterCollection("bikemi", bikemi); err != nil {
		logger.WithError(err).Fatal("Invalid bikemi collection")
	}
	atm, err := poi.LoadATM(cfg.ATMPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load ATM data")
	}
	if err := registry.RegisterCollection("atm", atm); err != nil {
		logger.WithError(err).Fatal("Invalid ATM collection")
	}

	registry.LogPairwiseDistances(logger)

	store, err := database.NewResultStore(dbPath, registry.AllNames(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize results database")
	}
	defer store.Close()

	blobs, err := cache.NewDir(cfg.CacheDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize listing cache")
	}
	fetcher := listing.NewFetcher(logger, blobs, cfg.ListingDomain, cfg.HTTPTimeout())

	p := pipeline.New(logger, fetcher, distance.NewAggregator(registry))
	if err := p.Run(csvPath, store); err != nil {
		logger.WithError(err).Fatal("Pipeline failed")
	}
}
