package checkout

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically deletes checkout intents whose payment never
// completed. Completed intents are removed by the reconciler; this catches
// the abandoned ones.
type Sweeper struct {
	intents  IntentStore
	interval time.Duration
}

func NewSweeper(intents IntentStore, interval time.Duration) *Sweeper {
	return &Sweeper{intents: intents, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Println("checkout: intent sweeper started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.intents.DeleteExpired(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("checkout: intent sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("checkout: removed %d expired checkout intents", n)
			}
		}
	}
}
