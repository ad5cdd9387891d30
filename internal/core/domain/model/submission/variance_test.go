package submission_test

import (
	"errors"
	"testing"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateVariance(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		final   string
		want    string
		gain    bool
	}{
		{name: "should report loss above five percent", initial: "25.5", final: "23.0", want: "9.8"},
		{name: "should report small loss", initial: "25.5", final: "24.8", want: "2.75"},
		{name: "should report gain as negative", initial: "10", final: "10.6", want: "-6", gain: true},
		{name: "should report exact match as zero", initial: "10", final: "10", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := submission.CalculateVariance(kernel.MustWeight(tt.initial), kernel.MustWeight(tt.final))

			require.NoError(t, err)
			assert.True(t, v.Rounded().Equal(decimal.RequireFromString(tt.want)), "got %s", v.Rounded())
			assert.Equal(t, tt.gain, v.IsGain())
		})
	}
}

func TestCalculateVariance_RejectsNonPositiveWeights(t *testing.T) {
	_, err := submission.CalculateVariance(kernel.MustWeight("10"), kernel.MustWeight("0"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = submission.CalculateVariance(kernel.MustWeight("0"), kernel.MustWeight("1"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = submission.CalculateVariance(kernel.Weight{}, kernel.MustWeight("1"))
	require.ErrorIs(t, err, kernel.ErrWeightIsNotConstructed)
}

func TestVariancePolicy_Check(t *testing.T) {
	policy := submission.DefaultVariancePolicy()

	t.Run("should fail high variance without acknowledgement", func(t *testing.T) {
		v, err := submission.CalculateVariance(kernel.MustWeight("25.5"), kernel.MustWeight("23.0"))
		require.NoError(t, err)

		err = policy.Check(v, false)

		require.ErrorIs(t, err, submission.ErrHighVarianceUnacknowledged)
		var highErr *submission.HighVarianceError
		require.True(t, errors.As(err, &highErr))
		assert.Equal(t, "9.80", highErr.Variance.StringFixed(2))
		assert.Contains(t, err.Error(), "9.80%")
	})

	t.Run("should pass high variance with acknowledgement", func(t *testing.T) {
		v, err := submission.CalculateVariance(kernel.MustWeight("25.5"), kernel.MustWeight("23.0"))
		require.NoError(t, err)

		require.NoError(t, policy.Check(v, true))
	})

	t.Run("should pass variance under threshold", func(t *testing.T) {
		v, err := submission.CalculateVariance(kernel.MustWeight("25.5"), kernel.MustWeight("24.8"))
		require.NoError(t, err)

		require.NoError(t, policy.Check(v, false))
	})

	t.Run("should compare the absolute value for gains", func(t *testing.T) {
		v, err := submission.CalculateVariance(kernel.MustWeight("10"), kernel.MustWeight("11"))
		require.NoError(t, err)

		require.ErrorIs(t, policy.Check(v, false), submission.ErrHighVarianceUnacknowledged)
	})

	t.Run("should not fail exactly at the threshold", func(t *testing.T) {
		v, err := submission.CalculateVariance(kernel.MustWeight("100"), kernel.MustWeight("95"))
		require.NoError(t, err)

		require.NoError(t, policy.Check(v, false))
	})
}

func TestNewVariancePolicy(t *testing.T) {
	p, err := submission.NewVariancePolicy(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, p.Threshold().Equal(decimal.NewFromInt(2)))

	_, err = submission.NewVariancePolicy(decimal.NewFromInt(-1))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
