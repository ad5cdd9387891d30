package kernel

import "atelier/internal/pkg/errs"

const (
	MinKarat Karat = 1
	MaxKarat Karat = 24
)

// Karat is gold purity in parts per 24.
type Karat int

func NewKarat(v int) (Karat, error) {
	k := Karat(v)
	if err := k.Validate(); err != nil {
		return 0, err
	}
	return k, nil
}

func (k Karat) Validate() error {
	if k < MinKarat || k > MaxKarat {
		return errs.NewValueIsOutOfRangeError("purity", int(k), int(MinKarat), int(MaxKarat))
	}
	return nil
}
