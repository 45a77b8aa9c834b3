// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scalar

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("scalar: empty value")

	// ErrInvalidCharacter is returned when the text holds anything outside
	// digits, '-', '/' and '.'.
	ErrInvalidCharacter = errors.New("scalar: invalid character")

	// ErrMalformed is returned for text made of allowed characters that is
	// still not a number ("--1", "1/2/3", "1.2.3", "-").
	ErrMalformed = errors.New("scalar: malformed number")

	// ErrZeroDenominator is returned for "p/0".
	ErrZeroDenominator = errors.New("scalar: zero denominator")
)

// ParseError describes why a cell could not be parsed.
type ParseError struct {
	Text string // original text as typed
	Err  error  // one of the sentinels above
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// =============================================================================
// SCALAR
// =============================================================================

// Scalar is a parsed cell value. It keeps the exact rational it was parsed
// from next to the float64 used for arithmetic.
type Scalar struct {
	exact *big.Rat
	value float64
}

// FromFloat wraps a float64 that has no exact textual origin.
func FromFloat(f float64) Scalar {
	return Scalar{value: f}
}

// Float64 returns the value used in elimination arithmetic.
func (s Scalar) Float64() float64 {
	return s.value
}

// Rat returns a copy of the exact rational, or nil when the scalar was built
// from a float.
func (s Scalar) Rat() *big.Rat {
	if s.exact == nil {
		return nil
	}
	return new(big.Rat).Set(s.exact)
}

// IsExact reports whether the scalar carries an exact rational.
func (s Scalar) IsExact() bool {
	return s.exact != nil
}

// String renders integers as "7", other rationals as "p/q", and float-only
// scalars with the shortest round-tripping representation.
func (s Scalar) String() string {
	if s.exact == nil {
		return strconv.FormatFloat(s.value, 'g', -1, 64)
	}
	if s.exact.IsInt() {
		return s.exact.Num().String()
	}
	return s.exact.String()
}

// Format renders the float value with a fixed number of decimals.
func (s Scalar) Format(decimals int) string {
	return strconv.FormatFloat(s.value, 'f', decimals, 64)
}

// =============================================================================
// PARSING
// =============================================================================

// Allowed reports whether r may be typed into a cell.
func Allowed(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-' || r == '/' || r == '.'
}

// Filter drops every rune that Allowed rejects.
func Filter(s string) string {
	return strings.Map(func(r rune) rune {
		if Allowed(r) {
			return r
		}
		return -1
	}, norm.NFKC.String(s))
}

// Parse converts cell text to a Scalar.
func Parse(text string) (Scalar, error) {
	s := strings.TrimSpace(norm.NFKC.String(text))
	if s == "" {
		return Scalar{}, &ParseError{Text: text, Err: ErrEmpty}
	}
	for _, r := range s {
		if !Allowed(r) {
			return Scalar{}, &ParseError{Text: text, Err: ErrInvalidCharacter}
		}
	}

	var (
		r   *big.Rat
		err error
	)
	if num, den, ok := strings.Cut(s, "/"); ok {
		r, err = parseFraction(num, den)
	} else {
		r, err = parseDecimal(s)
	}
	if err != nil {
		return Scalar{}, &ParseError{Text: text, Err: err}
	}

	f, _ := r.Float64()
	return Scalar{exact: r, value: f}, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(text string) Scalar {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// parseFraction accepts a signed integer numerator and an unsigned non-zero
// integer denominator.
func parseFraction(num, den string) (*big.Rat, error) {
	if strings.Contains(den, "/") {
		return nil, ErrMalformed
	}
	neg, digits := splitSign(num)
	if !isDigits(digits) || !isDigits(den) {
		return nil, ErrMalformed
	}

	p, _ := new(big.Int).SetString(digits, 10)
	q, _ := new(big.Int).SetString(den, 10)
	if q.Sign() == 0 {
		return nil, ErrZeroDenominator
	}
	if neg {
		p.Neg(p)
	}
	return new(big.Rat).SetFrac(p, q), nil
}

// parseDecimal accepts "12", "-12", "1.5", ".5" and "5.".
func parseDecimal(s string) (*big.Rat, error) {
	neg, body := splitSign(s)
	intPart, fracPart, hasDot := strings.Cut(body, ".")
	if hasDot && strings.Contains(fracPart, ".") {
		return nil, ErrMalformed
	}
	if intPart == "" && fracPart == "" {
		return nil, ErrMalformed
	}
	if (intPart != "" && !isDigits(intPart)) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, ErrMalformed
	}

	// digits of int and frac form the numerator over 10^len(frac)
	p, _ := new(big.Int).SetString(intPart+fracPart, 10)
	q := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(fracPart))), nil)
	if neg {
		p.Neg(p)
	}
	return new(big.Rat).SetFrac(p, q), nil
}

func splitSign(s string) (bool, string) {
	if strings.HasPrefix(s, "-") {
		return true, s[1:]
	}
	return false, s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
