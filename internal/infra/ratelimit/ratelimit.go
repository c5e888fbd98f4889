package ratelimit

import "time"

// Rate is the number of requests allowed per sliding window.
type Rate struct {
	Requests int
	Window   time.Duration
}

type Info struct {
	Limit     int
	Remaining int
	Reset     time.Time
}
