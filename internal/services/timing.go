package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long a service call took. Use with defer:
//
//	defer TrackTime("Reconcile", time.Now())
func TrackTime(funcName string, start time.Time) {
	log.Debugf("%s completed in %d ms", funcName, time.Since(start).Milliseconds())
}
