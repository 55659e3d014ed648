package defconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSymbol reports a line matching neither the set nor the
	// unset symbol form.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrInvalidValue reports a symbol value that is neither y, n, nor a
	// quoted string.
	ErrInvalidValue = errors.New("invalid value")
)

// Value is the value of a defconfig symbol, either boolean or string.
type Value interface {
	isValue()
}

// Bool is a boolean symbol value. Symbols declared "not set" carry
// Bool(false).
type Bool bool

// String is a quoted string symbol value, stored without the quotes.
type String string

func (Bool) isValue()   {}
func (String) isValue() {}

// Symbol is one named configuration entry inside a defconfig.
type Symbol struct {
	Name  string
	Value Value
}

// The two recognized line forms. A symbol is either assigned a value or
// declared unset by an exactly spaced comment.
var (
	symbolSet   = regexp.MustCompile(`(BR2_[a-zA-Z0-9_]+)=(.+)`)
	symbolUnset = regexp.MustCompile(`# (BR2_[a-zA-Z0-9_]+) is not set`)
)

// ParseSymbol parses a single defconfig line into a Symbol.
func ParseSymbol(line string) (Symbol, error) {
	if m := symbolSet.FindStringSubmatch(line); m != nil {
		value, err := parseValue(m[2])
		if err != nil {
			return Symbol{}, err
		}
		return Symbol{Name: m[1], Value: value}, nil
	}
	if m := symbolUnset.FindStringSubmatch(line); m != nil {
		return Symbol{Name: m[1], Value: Bool(false)}, nil
	}
	return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, line)
}

func parseValue(s string) (Value, error) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return String(s[1 : len(s)-1]), nil
	}
	switch s {
	case "y":
		return Bool(true), nil
	case "n":
		return Bool(false), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidValue, s)
}
