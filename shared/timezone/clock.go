package timezone

import "time"

// Clock tells the services what "today" is in the hotel's timezone.
type Clock interface {
	Today() time.Time
}

type appClock struct{}

func (appClock) Today() time.Time {
	return Date(Now())
}

func NewClock() Clock {
	return appClock{}
}

type fixedClock struct {
	today time.Time
}

func (f fixedClock) Today() time.Time {
	return f.today
}

// FixedClock pins "today" to the calendar date of t.
func FixedClock(t time.Time) Clock {
	return fixedClock{today: Date(t)}
}
