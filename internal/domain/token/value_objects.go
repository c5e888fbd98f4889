package token

import (
	"errors"
	"regexp"
	"strings"
)

const (
	CodePrefix = "CNG"
	// Visually ambiguous symbols (0/O, 1/I) are left out.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
)

var ErrInvalidCodeFormat = errors.New("invalid token format")

var codeRegex = regexp.MustCompile(`^` + CodePrefix + `-[` + CodeAlphabet + `]{6}$`)

// Code is a validated, upper-case token code such as CNG-AB3XK9.
type Code struct {
	value string
}

// NewCode accepts only the canonical upper-case form.
func NewCode(s string) (Code, error) {
	if !codeRegex.MatchString(s) {
		return Code{}, ErrInvalidCodeFormat
	}
	return Code{value: s}, nil
}

// ParseCode normalizes user input (surrounding whitespace, lower case) before validating.
func ParseCode(s string) (Code, error) {
	return NewCode(strings.ToUpper(strings.TrimSpace(s)))
}

func (c Code) String() string {
	return c.value
}

func (c Code) IsZero() bool {
	return c.value == ""
}
