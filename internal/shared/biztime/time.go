// Package biztime centralises clock access. All storage and transport use UTC.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used for display when no timezone is configured.
const DefaultTimezone = "UTC"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init loads the display timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// Location returns the display timezone, initialising it with the default when needed.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// AddDaysUTC returns t shifted by days whole days, in UTC.
func AddDaysUTC(t time.Time, days int) time.Time {
	return t.UTC().AddDate(0, 0, days)
}
