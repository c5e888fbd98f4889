package token

import "time"

const (
	DefaultEarlyLead   = 15 * time.Minute
	DefaultExpiryGrace = 20 * time.Minute
)

type WindowVerdict int

const (
	WindowOpen WindowVerdict = iota
	WindowTooEarly
	WindowExpired
)

// WindowPolicy owns both edges of the scan window.
// The late edge is fixed per token at issue time and then read back from storage.
type WindowPolicy struct {
	EarlyLead   time.Duration
	ExpiryGrace time.Duration
	Location    *time.Location
}

func DefaultWindowPolicy(loc *time.Location) WindowPolicy {
	return WindowPolicy{
		EarlyLead:   DefaultEarlyLead,
		ExpiryGrace: DefaultExpiryGrace,
		Location:    loc,
	}
}

func (p WindowPolicy) ExpiryFor(slotStart time.Time) time.Time {
	return slotStart.Add(p.ExpiryGrace)
}

func (p WindowPolicy) EarliestScan(slotStart time.Time) time.Time {
	return slotStart.Add(-p.EarlyLead)
}

// Check tests expiry before the early edge.
func (p WindowPolicy) Check(now, slotStart, expiry time.Time) WindowVerdict {
	if now.After(expiry) {
		return WindowExpired
	}
	if now.Before(p.EarliestScan(slotStart)) {
		return WindowTooEarly
	}
	return WindowOpen
}
