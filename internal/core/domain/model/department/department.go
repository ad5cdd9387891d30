package department

import (
	"fmt"
	"strings"

	"atelier/internal/pkg/errs"
)

// Department is one stage of the fixed production sequence.
type Department string

const (
	CAD        Department = "CAD"
	Print      Department = "PRINT"
	Casting    Department = "CASTING"
	Filling    Department = "FILLING"
	Meena      Department = "MEENA"
	Polish1    Department = "POLISH_1"
	Setting    Department = "SETTING"
	Polish2    Department = "POLISH_2"
	Additional Department = "ADDITIONAL"
)

var sequence = [...]Department{CAD, Print, Casting, Filling, Meena, Polish1, Setting, Polish2, Additional}

// Count is the length of the production sequence.
const Count = len(sequence)

// Sequence returns the departments in production order. The slice is a copy.
func Sequence() []Department {
	out := make([]Department, Count)
	copy(out, sequence[:])
	return out
}

// First is the department every order starts in.
func First() Department {
	return sequence[0]
}

// Parse accepts the canonical name in any letter case.
func Parse(s string) (Department, error) {
	d := Department(strings.ToUpper(strings.TrimSpace(s)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

func (d Department) Validate() error {
	if d.Index() < 0 {
		return errs.NewValueIsInvalidErrorWithCause("department is invalid",
			fmt.Errorf("%q is not a production department", string(d)))
	}
	return nil
}

// Index is the zero-based position in the sequence, or -1 for unknown names.
func (d Department) Index() int {
	for i, s := range sequence {
		if s == d {
			return i
		}
	}
	return -1
}

// Next returns the following department and false when d is the last one.
func (d Department) Next() (Department, bool) {
	i := d.Index()
	if i < 0 || i+1 >= Count {
		return "", false
	}
	return sequence[i+1], true
}

func (d Department) String() string {
	return string(d)
}
