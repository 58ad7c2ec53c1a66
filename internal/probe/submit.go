package probe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/diabcheck/pkg/logger"
)

// submitSessions posts sessions concurrently using a worker pool and counts
// the outcomes into stats.
func submitSessions(ctx context.Context, cfg *Config, client *httpClient, sessions []Session, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting sessions", logger.Int("sessions", len(sessions)), logger.Int("workers", cfg.Workers))

	var submitted, diabetic, notDiabetic, failed atomic.Int64

	sessionCh := make(chan Session, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range sessionCh {
				if ctx.Err() != nil {
					return
				}
				submitted.Add(1)
				res, err := client.predict(ctx, s)
				switch {
				case err != nil:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "session request failed", logger.Error(err))
					}
				case res.ok == nil:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "session rejected",
							logger.Int("status", res.status),
							logger.String("code", res.err.Code),
							logger.String("message", res.err.Message),
						)
					}
				case res.ok.Diabetic:
					diabetic.Add(1)
				default:
					notDiabetic.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(sessionCh)
		for _, s := range sessions {
			select {
			case <-ctx.Done():
				return
			case sessionCh <- s:
			}
		}
	}()

	wg.Wait()

	stats.SessionsSubmitted = int(submitted.Load())
	stats.Diabetic = int(diabetic.Load())
	stats.NotDiabetic = int(notDiabetic.Load())
	stats.Failed = int(failed.Load())

	log.Info(ctx, "session submission completed",
		logger.Int("diabetic", stats.Diabetic),
		logger.Int("not_diabetic", stats.NotDiabetic),
		logger.Int("failed", stats.Failed),
	)
}
