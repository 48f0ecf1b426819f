package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_console/internal/adapters/hotelapi"
	"hotel_console/internal/adapters/observability"
	"hotel_console/internal/app"
	"hotel_console/internal/form"
	"hotel_console/internal/shared"
)

// noRedirect drops the post-save navigation; a batch run has nowhere to go.
type noRedirect struct{}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }

func (noRedirect) AfterFunc(_ time.Duration, _ func()) form.Timer { return stoppedTimer{} }

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	log.Info().
		Str("api", cfg.APIBase).
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	records, err := app.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load seed file")
	}

	client, err := hotelapi.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}
	seeder := app.NewSeedService(client, form.WithScheduler(noRedirect{}))

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var created, rejected, failed atomic.Int64

	for i, rec := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(i int, rec map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := seeder.SeedHotel(ctx, rec)
			if err != nil {
				failed.Add(1)
				log.Warn().Int("record", i).Err(err).Msg("seed failed")
				return
			}
			observability.ObserveFormSubmit(false, res.Outcome.String())
			switch res.Outcome {
			case form.OutcomeSucceeded:
				created.Add(1)
				log.Info().Int("record", i).Str("name", res.Name).Msg("hotel seeded")
			case form.OutcomeInvalid, form.OutcomeRejected:
				rejected.Add(1)
				log.Warn().Int("record", i).Str("name", res.Name).Interface("errors", res.Errors).Msg("hotel rejected")
			default:
				failed.Add(1)
				ev := log.Error().Int("record", i).Str("name", res.Name).Str("outcome", res.Outcome.String())
				if res.Alert != nil {
					ev = ev.Str("alert", res.Alert.Message)
				}
				ev.Msg("hotel not saved")
			}
		}(i, rec)
	}

	wg.Wait()
	log.Info().
		Int("records", len(records)).
		Int64("created", created.Load()).
		Int64("rejected", rejected.Load()).
		Int64("failed", failed.Load()).
		Msg("seeding completed")
}
