package order

import (
	"fmt"
	"regexp"
	"strconv"

	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

// SuffixAlphabet is the character set of the random order number suffix.
const SuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const suffixLength = 3

var (
	ErrNumberIsNotConstructed = errs.NewValueIsRequiredError("order number must be created via NewNumber or ParseNumber")

	numberPattern = regexp.MustCompile(`^ORD-(\d{4})-(\d{5,})-([A-Z0-9]{3})$`)
	suffixPattern = regexp.MustCompile(`^[A-Z0-9]{3}$`)
)

// Number is the human readable order number ORD-<year>-<5-digit-seq>-<suffix>.
// Sequences above 99999 widen instead of wrapping.
type Number struct {
	year   int
	seq    int
	suffix string
	guard  guard.ConstructorGuard
}

// NewNumber validates the parts of an order number.
//
// Returns:
//   - the Number
//   - ValueIsOutOfRange for a year outside 1000..9999
//   - ValueIsInvalid for a sequence below 1 or a malformed suffix
func NewNumber(year, seq int, suffix string) (Number, error) {
	if year < 1000 || year > 9999 {
		return Number{}, errs.NewValueIsOutOfRangeError("year", year, 1000, 9999)
	}
	if seq < 1 {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("sequence is invalid",
			fmt.Errorf("%d is not greater than 0", seq))
	}
	if !suffixPattern.MatchString(suffix) {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("suffix is invalid",
			fmt.Errorf("%q must be %d characters from %s", suffix, suffixLength, SuffixAlphabet))
	}
	return Number{year: year, seq: seq, suffix: suffix, guard: guard.NewConstructorGuard()}, nil
}

// ParseNumber reads a number rendered by String.
//
// Example:
//
//	n, err := order.ParseNumber("ORD-2026-00012-K9Z")
//	// n.Sequence() == 12
func ParseNumber(s string) (Number, error) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number is invalid",
			fmt.Errorf("%q does not match ORD-<year>-<seq>-<suffix>", s))
	}
	year, _ := strconv.Atoi(m[1])
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order number is invalid", err)
	}
	return NewNumber(year, seq, m[3])
}

func (n Number) Validate() error {
	return n.guard.Validate(ErrNumberIsNotConstructed)
}

func (n Number) Year() int {
	return n.year
}

// Sequence is the per year counter, starting at 1.
func (n Number) Sequence() int {
	return n.seq
}

func (n Number) Suffix() string {
	return n.suffix
}

func (n Number) String() string {
	return fmt.Sprintf("ORD-%d-%05d-%s", n.year, n.seq, n.suffix)
}
