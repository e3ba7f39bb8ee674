package invoice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
)

// NumberPrefix is the fixed leading part of every invoice number
const NumberPrefix = "INV-1000"

// minSequenceDigits is the zero-padded width of the sequence part
const minSequenceDigits = 4

// FormatNumber renders INV-1000-<YY>-<NNNN> for a calendar year and a
// 1-based sequence. Sequences above 9999 keep all of their digits.
func FormatNumber(year int, sequence int64) string {
	return fmt.Sprintf("%s-%02d-%0*d", NumberPrefix, year%100, minSequenceDigits, sequence)
}

// YearPrefix returns the number prefix shared by every invoice of year,
// e.g. "INV-1000-24-".
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%02d-", NumberPrefix, year%100)
}

// ParsedNumber is the decoded form of an invoice number
type ParsedNumber struct {
	YearSuffix int
	Sequence   int64
}

// ParseNumber decodes an invoice number. Anything that does not follow the
// INV-1000-YY-NNNN layout is reported as corrupt sequence state: callers must
// not fall back to a guessed sequence.
func ParseNumber(number string) (ParsedNumber, error) {
	rest, ok := strings.CutPrefix(number, NumberPrefix+"-")
	if !ok {
		return ParsedNumber{}, corruptNumber(number, "unexpected prefix")
	}
	yy, seq, ok := strings.Cut(rest, "-")
	if !ok || len(yy) != 2 || !isDigits(yy) {
		return ParsedNumber{}, corruptNumber(number, "malformed year segment")
	}
	if len(seq) < minSequenceDigits || !isDigits(seq) {
		return ParsedNumber{}, corruptNumber(number, "non-numeric sequence suffix")
	}

	year, _ := strconv.Atoi(yy)
	sequence, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return ParsedNumber{}, corruptNumber(number, err.Error())
	}
	if sequence < 1 {
		return ParsedNumber{}, corruptNumber(number, "sequence must be positive")
	}
	return ParsedNumber{YearSuffix: year, Sequence: sequence}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func corruptNumber(number, reason string) error {
	return shared.WrapDomainError(shared.CodeCorruptSequenceState,
		fmt.Sprintf("Invoice number %q cannot be parsed", number),
		errors.New(reason))
}
