package memory

import "time"

func (c *DayCache) SetClock(now func() time.Time) {
	c.now = now
}
