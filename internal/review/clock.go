package review

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current time. Operations read it once.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the calendar date of now in now's own location.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}
