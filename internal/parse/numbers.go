package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"curvefit/domain/fit"
)

// Error reports the first token that is not a finite number
type Error struct {
	Token string
	Index int // zero-based token position
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid value %q at position %d", e.Token, e.Index+1)
}

// Is lets errors.Is(err, fit.ErrParse) match
func (e *Error) Is(target error) bool {
	return target == fit.ErrParse
}

// Numbers converts delimited text into an ordered sequence of numbers.
// Commas, semicolons and any whitespace separate tokens, in any combination.
// Parsing stops at the first invalid token; empty input yields an empty slice.
func Numbers(text string) ([]float64, error) {
	tokens := Tokens(text)
	values := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &Error{Token: tok, Index: i}
		}
		values = append(values, v)
	}
	return values, nil
}

// Tokens splits text on the separator set without converting
func Tokens(text string) []string {
	return strings.FieldsFunc(text, isSeparator)
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// Format renders values as canonical comma-separated text that Numbers reads back unchanged
func Format(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
