package order_test

import (
	"testing"

	"atelier/internal/core/domain/model/order"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	type transition func(order.Status) (order.Status, error)
	release := func(s order.Status) (order.Status, error) { return s.Release() }
	revert := func(s order.Status) (order.Status, error) { return s.Revert() }
	complete := func(s order.Status) (order.Status, error) { return s.Complete() }
	reopen := func(s order.Status) (order.Status, error) { return s.Reopen() }

	tests := []struct {
		name string
		from order.Status
		do   transition
		want order.Status
		ok   bool
	}{
		{"release draft", order.Draft, release, order.InFactory, true},
		{"release in factory", order.InFactory, release, 0, false},
		{"revert in factory", order.InFactory, revert, order.Draft, true},
		{"revert completed", order.Completed, revert, 0, false},
		{"complete in factory", order.InFactory, complete, order.Completed, true},
		{"complete draft", order.Draft, complete, 0, false},
		{"reopen completed", order.Completed, reopen, order.InFactory, true},
		{"reopen draft", order.Draft, reopen, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.do(tt.from)
			if !tt.ok {
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("in_factory")
	require.NoError(t, err)
	assert.Equal(t, order.InFactory, s)

	_, err = order.ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, order.Unknown.Validate())
}
