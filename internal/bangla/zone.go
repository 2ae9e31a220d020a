package bangla

import (
	"sync"
	"time"
)

const DhakaTimezone = "Asia/Dhaka"

var (
	dhakaOnce sync.Once
	dhaka     *time.Location
)

// Dhaka returns the Asia/Dhaka zone, or a fixed UTC+6 zone when the
// zone database is not available.
func Dhaka() *time.Location {
	dhakaOnce.Do(func() {
		loc, err := time.LoadLocation(DhakaTimezone)
		if err != nil {
			loc = time.FixedZone("BST", 6*60*60)
		}
		dhaka = loc
	})
	return dhaka
}
