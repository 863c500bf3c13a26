package reminder

import (
	"strconv"
	"time"
)

// ReminderType names the dedup key for a threshold, e.g. "1440m".
func ReminderType(thresholdMins int) string {
	return strconv.Itoa(thresholdMins) + "m"
}

// DueThresholds returns the thresholds whose firing window contains
// untilStart: |untilStart - threshold| <= tolerance. The tolerance absorbs
// the scan's own polling granularity; a threshold missed entirely (downtime)
// is skipped, never backfilled.
func DueThresholds(untilStart time.Duration, thresholds []int, toleranceMins int) []int {
	tolerance := time.Duration(toleranceMins) * time.Minute
	var due []int
	for _, t := range thresholds {
		diff := untilStart - time.Duration(t)*time.Minute
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			due = append(due, t)
		}
	}
	return due
}

// Horizon is how far ahead a sweep must look to see every appointment whose
// largest threshold could fire.
func Horizon(thresholds []int, toleranceMins int) time.Duration {
	max := 0
	for _, t := range thresholds {
		if t > max {
			max = t
		}
	}
	return time.Duration(max+toleranceMins) * time.Minute
}
