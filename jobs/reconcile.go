package jobs

import (
	"log"
	"os"
	"strconv"
	"time"

	"fitledger/services"
)

func StartReconcileScheduler() {
	minutes := 15
	if raw := os.Getenv("RECON_INTERVAL_MINUTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			minutes = n
		} else {
			log.Printf("⚠️  Invalid value for RECON_INTERVAL_MINUTES: %s", raw)
		}
	}

	ticker := time.NewTicker(time.Duration(minutes) * time.Minute)
	go func() {
		for {
			<-ticker.C
			if _, err := services.RunPaymentReconciliation(); err != nil {
				log.Printf("❌ error running payment reconciliation: %v", err)
			}
		}
	}()
}
