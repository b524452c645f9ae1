package inventory

import "time"

// Clock fuente de tiempo inyectable; el vencimiento de lotes se evalúa contra Clock().
type Clock func() time.Time

// SystemClock reloj real en UTC.
func SystemClock() time.Time { return time.Now().UTC() }

func orSystem(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
