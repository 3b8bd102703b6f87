package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"quizku_backend/internals/features/quizzes/attempts/service"
)

// StartAttemptSweepScheduler: finalisasi attempt open yang lewat deadline (mis. setelah restart).
func StartAttemptSweepScheduler(rec *service.Recorder, schedule string) *cron.Cron {
	if schedule == "" {
		schedule = "@every 1m"
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := rec.SweepExpired(ctx)
		if err != nil {
			log.Printf("[ATTEMPT SWEEP] gagal: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[ATTEMPT SWEEP] %d attempt di-finalize (timeout)", n)
		}
	}); err != nil {
		log.Printf("[ATTEMPT SWEEP] cron schedule invalid %q: %v", schedule, err)
		return nil
	}
	c.Start()
	log.Printf("[ATTEMPT SWEEP] scheduler aktif, jadwal=%s", schedule)
	return c
}

// RearmOnStartup: pasang ulang countdown untuk attempt yang masih open.
func RearmOnStartup(rec *service.Recorder) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := rec.RearmOpen(ctx)
	if err != nil {
		log.Printf("[ATTEMPT] re-arm countdown gagal: %v", err)
		return
	}
	log.Printf("[ATTEMPT] %d countdown dipasang ulang", n)
}
