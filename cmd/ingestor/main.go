package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/shared"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Int("workers", cfg.Workers).
		Int("limit", cfg.ReviewLimit).
		Int("listings", len(cfg.ListingIDs)).
		Msg("ingestor starting")

	if len(cfg.ListingIDs) == 0 {
		log.Fatal().Msg("INGEST_LISTING_IDS is empty; nothing to ingest")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
	}
	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cache := redisad.NewWithClient(rdb)
	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.ListingIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(listingID string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := ing.IngestListing(ctx, listingID, cfg.ReviewLimit); err != nil {
				log.Warn().Str("listing", listingID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("listing", listingID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
