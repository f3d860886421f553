package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iompar/iompar/config"
	"github.com/iompar/iompar/details"
	"github.com/iompar/iompar/favourites"
	"github.com/iompar/iompar/feeds"
	"github.com/iompar/iompar/pipeline"
	"github.com/iompar/iompar/server"
	"github.com/iompar/iompar/storage"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve|vehicles")
	configPath := flag.String("config", "", "path to config.yml (defaults apply when omitted)")
	query := flag.String("q", "", "free-text filter applied in oneshot mode")
	pretty := flag.Bool("pretty", false, "human-readable console logging")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if *pretty {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAppConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("loading config")
		}
	}

	switch *mode {
	case "oneshot":
		runOneshot(cfg, *query, log)
	case "serve":
		runServe(cfg, log)
	case "vehicles":
		runVehicles(cfg, log)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func assemblePipeline(cfg config.AppConfig, log zerolog.Logger) *pipeline.Pipeline {
	store := storage.NewMemoryStore()
	ttl := time.Duration(cfg.Storage.TTLHours) * time.Hour
	return pipeline.New(pipeline.Options{
		Feeds:      newFeedClient(cfg, log),
		Favourites: favourites.NewStore(store, ttl, log),
		Store:      store,
		Config:     cfg,
		Logger:     log,
	})
}

func newFeedClient(cfg config.AppConfig, log zerolog.Logger) *feeds.Client {
	return feeds.NewClient(feeds.ClientConfig{
		TransientURL:   cfg.Feeds.TransientURL,
		PermanentURL:   cfg.Feeds.PermanentURL,
		VehiclesURL:    cfg.Feeds.VehiclesURL,
		VehiclesAPIKey: cfg.Feeds.VehiclesAPIKey,
		Timeout:        time.Duration(cfg.Feeds.TimeoutMS) * time.Millisecond,
		Logger:         log,
	})
}

// runOneshot performs one fetch cycle and prints the visible markers.
func runOneshot(cfg config.AppConfig, query string, log zerolog.Logger) {
	p := assemblePipeline(cfg, log)
	if err := p.Refresh(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("fetch cycle failed")
	}
	markers := p.Rendered()
	if query != "" {
		markers = p.SearchNow(query)
	}
	buf, err := json.MarshalIndent(markers, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encoding markers")
	}
	fmt.Println(string(buf))
}

func runServe(cfg config.AppConfig, log zerolog.Logger) {
	p := assemblePipeline(cfg, log)

	var d *details.Client
	if cfg.Details.StationURL != "" || cfg.Details.LuasForecastURL != "" {
		d = details.NewClient(
			cfg.Details.StationURL,
			cfg.Details.LuasForecastURL,
			time.Duration(cfg.Details.TimeoutMS)*time.Millisecond,
			log,
		)
	}

	// A failed initial cycle is not fatal; the API can retry via
	// POST /api/refresh.
	if err := p.Refresh(context.Background()); err != nil {
		log.Warn().Err(err).Msg("initial fetch cycle failed")
	}

	srv := server.New(cfg, p, d, log)
	srv.Start()
	srv.HandleGracefulShutdown()
}

// runVehicles fetches the GTFS-RT vehicle feed, joins it with the permanent
// route table and prints the resulting bus records.
func runVehicles(cfg config.AppConfig, log zerolog.Logger) {
	client := newFeedClient(cfg, log)
	ctx := context.Background()

	data, err := client.FetchVehicles(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("fetching vehicle positions")
	}
	routes, err := client.FetchPermanent(ctx, []string{feeds.TypeBusRoute})
	if err != nil {
		log.Fatal().Err(err).Msg("fetching route table")
	}
	records, err := feeds.BusRecordsFromVehicles(data, routes, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("decoding vehicle positions")
	}
	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encoding records")
	}
	fmt.Println(string(buf))
}
