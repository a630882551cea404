// file: internals/scheduler/scheduler.go
//
// Nightly batches: risk classification and placement ranking. Placement
// decides for itself whether today is a run date; the cron only provides the
// heartbeat. SkipIfStillRunning keeps at most one instance of each job alive.
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	calService "catalogscolar_backend/internals/features/school/calendar/service"
	placementService "catalogscolar_backend/internals/features/school/placement/service"
	riskService "catalogscolar_backend/internals/features/school/risk/service"
	"catalogscolar_backend/internals/services/notifications"
)

func StartSchoolBatches(db *gorm.DB, calendar calService.CalendarService, gateway notifications.Gateway) *cron.Cron {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	risk := riskService.NewRiskService(db, gateway)
	placement := placementService.NewPlacementService(db)

	// 02:00 — risk classification over all registered school units.
	if _, err := c.AddFunc("0 2 * * *", func() {
		runDate := time.Now()
		snap, err := calendar.Snapshot()
		if err != nil {
			log.Printf("[SCHEDULER] risk run skipped, no calendar: %v", err)
			return
		}
		started := time.Now()
		if err := risk.Run(snap, runDate); err != nil {
			log.Printf("[SCHEDULER] ERROR risk run err=%v", err)
			return
		}
		log.Printf("[SCHEDULER] risk run done in %s", time.Since(started))
	}); err != nil {
		log.Printf("[SCHEDULER] ERROR register risk job err=%v", err)
	}

	// 03:00 — placement ranking; a no-op unless today is a run date.
	if _, err := c.AddFunc("0 3 * * *", func() {
		runDate := time.Now()
		snap, err := calendar.Snapshot()
		if err != nil {
			log.Printf("[SCHEDULER] placement run skipped, no calendar: %v", err)
			return
		}
		started := time.Now()
		if err := placement.Run(snap, runDate); err != nil {
			log.Printf("[SCHEDULER] ERROR placement run err=%v", err)
			return
		}
		log.Printf("[SCHEDULER] placement run done in %s", time.Since(started))
	}); err != nil {
		log.Printf("[SCHEDULER] ERROR register placement job err=%v", err)
	}

	c.Start()
	log.Println("[SCHEDULER] school batches started")
	return c
}
