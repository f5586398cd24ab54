package cronjobs

import (
	"context"
	"go-firewatch/db"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Active reports with no moderation for this long are swept to resolved.
const staleAfter = 72 * time.Hour

const sweepTimeout = 5 * time.Minute

func InitCronJobs(store *db.ReportStore) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Stale Report Sweep: run at the top of every hour
	_, err := c.AddFunc("0 * * * *", func() {
		log.Println("\nCronJob: Stale Report Sweep Running")
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		resolved, err := store.ResolveStale(ctx, time.Now().Add(-staleAfter))
		if err != nil {
			log.Println("Error resolving stale reports:", err)
			return
		}
		log.Printf("CronJob: Stale Report Sweep resolved %d reports", resolved)
	})
	if err != nil {
		log.Println("Error scheduling Stale Report Sweep:", err)
	}

	c.Start()
}
