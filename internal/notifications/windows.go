package notifications

import (
	"fmt"
	"time"
)

// Notification types
const (
	TypeWeight    = "weight"
	TypeBreakfast = "breakfast"
	TypeLunch     = "lunch"
	TypeMood      = "mood"
	TypeDinner    = "dinner"
	TypeSummary   = "summary"
)

// Window is a named clock interval mapped to a notification type. Bounds
// are inclusive at minute granularity, so back-to-back windows ("08:59",
// "09:00") do not overlap.
type Window struct {
	Key   string
	Start string // HH:MM
	End   string // HH:MM
	Type  string
}

// Windows covers the coached part of the day, in order.
var Windows = []Window{
	{Key: "WAKE_UP", Start: "07:30", End: "08:59", Type: TypeWeight},
	{Key: "BREAKFAST", Start: "09:00", End: "12:59", Type: TypeBreakfast},
	{Key: "LUNCH", Start: "13:00", End: "15:29", Type: TypeLunch},
	{Key: "MIDDAY_CHECK", Start: "15:30", End: "18:29", Type: TypeMood},
	{Key: "DINNER", Start: "18:30", End: "21:29", Type: TypeDinner},
	{Key: "END_OF_DAY", Start: "21:30", End: "23:59", Type: TypeSummary},
}

// Meal windows open at these times; the end-of-day summary only mentions a
// meal once its window has opened.
const (
	breakfastOpens = "09:00"
	lunchOpens     = "13:00"
	dinnerOpens    = "18:30"
)

// ValidWindowKey reports whether key names one of the scheduler windows
func ValidWindowKey(key string) bool {
	for _, w := range Windows {
		if w.Key == key {
			return true
		}
	}
	return false
}

// CurrentWindow returns the window containing now, truncated to the minute
func CurrentWindow(now time.Time) (Window, bool) {
	minutes := now.Hour()*60 + now.Minute()
	for _, w := range Windows {
		if minutes >= timeToMinutes(w.Start) && minutes <= timeToMinutes(w.End) {
			return w, true
		}
	}
	return Window{}, false
}

// TimeRange formats the window bounds for the notification payload
func (w Window) TimeRange() string {
	return fmt.Sprintf("%s - %s", w.Start, w.End)
}

func timeToMinutes(hhmm string) int {
	var h, m int
	fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return h*60 + m
}
