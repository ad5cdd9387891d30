package kernel_test

import (
	"testing"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKarat(t *testing.T) {
	for _, v := range []int{1, 14, 18, 22, 24} {
		k, err := kernel.NewKarat(v)
		require.NoError(t, err)
		assert.Equal(t, kernel.Karat(v), k)
	}

	for _, v := range []int{0, 25, -3} {
		_, err := kernel.NewKarat(v)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	}
}
