package booking

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

var (
	ErrInvalidSlotDate     = errors.New("invalid slot date")
	ErrInvalidSlotTime     = errors.New("invalid slot time")
	ErrInvalidFuelQuantity = errors.New("fuel quantity must be greater than 0 and at most 50")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
)

var maxFuelQuantity = decimal.NewFromInt(50)

// Slot is a wall-clock date and time at the pump; it gets a zone only through At.
type Slot struct {
	date string
	time string
}

func NewSlot(date, clock string) (Slot, error) {
	if _, err := time.Parse(SlotDateLayout, date); err != nil {
		return Slot{}, ErrInvalidSlotDate
	}
	if len(clock) > len(SlotTimeLayout) {
		// Postgres TIME renders as HH:MM:SS
		clock = clock[:len(SlotTimeLayout)]
	}
	if _, err := time.Parse(SlotTimeLayout, clock); err != nil {
		return Slot{}, ErrInvalidSlotTime
	}
	return Slot{date: date, time: clock}, nil
}

func (s Slot) Date() string { return s.date }
func (s Slot) Time() string { return s.time }

func (s Slot) At(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(SlotDateLayout+" "+SlotTimeLayout, s.date+" "+s.time, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

type FuelQuantity struct {
	value decimal.Decimal
}

func NewFuelQuantity(v decimal.Decimal) (FuelQuantity, error) {
	if !v.IsPositive() || v.GreaterThan(maxFuelQuantity) {
		return FuelQuantity{}, ErrInvalidFuelQuantity
	}
	return FuelQuantity{value: v}, nil
}

func (f FuelQuantity) Decimal() decimal.Decimal { return f.value }
func (f FuelQuantity) String() string           { return f.value.String() }

type Amount struct {
	value decimal.Decimal
}

func NewAmount(v decimal.Decimal) (Amount, error) {
	if !v.IsPositive() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{value: v}, nil
}

func (a Amount) Decimal() decimal.Decimal { return a.value }
func (a Amount) String() string           { return a.value.StringFixed(2) }
