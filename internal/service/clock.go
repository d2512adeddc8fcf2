package service

import (
	"time"

	"grocerytracker/internal/model"
)

// Clock supplies "now". Observation dates and report windows derive from it.
type Clock func() time.Time

// SystemClock reads the wall clock in local time.
func SystemClock() time.Time { return time.Now() }

func (c Clock) today() model.Date {
	if c == nil {
		return model.DateOf(time.Now())
	}
	return model.DateOf(c())
}
