package utils

import (
	"docport/config"
	"docport/contentstore"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializePurgeScheduler sets up the job that hard-deletes documents whose
// soft-delete marker is older than the retention window.
func InitializePurgeScheduler() *cron.Cron {
	log.Println("[PURGE-SCHEDULER] Initializing document purge scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		PurgeExpiredDocuments()
	})

	c.Start()
	log.Println("[PURGE-SCHEDULER] Purge scheduler started - runs daily at 3 AM")
	return c
}

// PurgeExpiredDocuments removes soft-deleted documents past retention
func PurgeExpiredDocuments() {
	store, err := contentstore.Get()
	if err != nil {
		log.Printf("[PURGE-SCHEDULER] Content store unavailable: %v", err)
		return
	}

	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.PurgeRetentionDays)

	purged, err := store.PurgeDeletedBefore(cutoff)
	if err != nil {
		log.Printf("[PURGE-SCHEDULER] Error purging documents: %v", err)
		return
	}

	if purged > 0 {
		log.Printf("[PURGE-SCHEDULER] Purged %d documents deleted before %s", purged, cutoff.Format(time.RFC3339))
	}
}
