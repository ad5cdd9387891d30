package services_test

import (
	"testing"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaStub map[department.Department][]string

func (s schemaStub) RequiredFields(d department.Department) []string {
	return s[d]
}

func stagesWith(statuses map[department.Department]tracking.Status) []services.Stage {
	stages := make([]services.Stage, 0, department.Count)
	for _, d := range department.Sequence() {
		st, ok := statuses[d]
		if !ok {
			st = tracking.PendingAssignment
		}
		stages = append(stages, services.Stage{Department: d, Status: st})
	}
	return stages
}

func TestProgressAggregator_CurrentDepartment(t *testing.T) {
	agg := services.NewProgressAggregator(nil)

	tests := []struct {
		name     string
		statuses map[department.Department]tracking.Status
		want     department.Department
		none     bool
	}{
		{
			name: "should return first department when nothing started",
			want: department.CAD,
		},
		{
			name: "should prefer the first in progress department",
			statuses: map[department.Department]tracking.Status{
				department.CAD: tracking.Completed, department.Print: tracking.Completed,
				department.Casting: tracking.OnHold, department.Meena: tracking.InProgress,
			},
			want: department.Meena,
		},
		{
			name: "should return the department after the last completed",
			statuses: map[department.Department]tracking.Status{
				department.CAD: tracking.Completed, department.Print: tracking.Completed,
				department.Casting: tracking.NotStarted,
			},
			want: department.Casting,
		},
		{
			name: "should fall back to first unfinished when the last department finished early",
			statuses: map[department.Department]tracking.Status{
				department.CAD: tracking.Completed, department.Additional: tracking.Completed,
			},
			want: department.Print,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := agg.CurrentDepartment(stagesWith(tt.statuses)).Get()

			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should be none only when every department is completed", func(t *testing.T) {
		all := map[department.Department]tracking.Status{}
		for _, d := range department.Sequence() {
			all[d] = tracking.Completed
		}

		assert.True(t, agg.CurrentDepartment(stagesWith(all)).IsNone())

		all[department.Polish2] = tracking.InProgress
		assert.True(t, agg.CurrentDepartment(stagesWith(all)).IsSome())
	})

	t.Run("should return first department for an empty board", func(t *testing.T) {
		got, ok := agg.CurrentDepartment(nil).Get()

		require.True(t, ok)
		assert.Equal(t, department.CAD, got)
	})
}

func TestProgressAggregator_CompletionPercentage(t *testing.T) {
	agg := services.NewProgressAggregator(nil)
	otherStates := []tracking.Status{
		tracking.PendingAssignment, tracking.NotStarted, tracking.InProgress, tracking.OnHold,
	}

	previous := -1
	for k := 0; k <= department.Count; k++ {
		statuses := map[department.Department]tracking.Status{}
		for i, d := range department.Sequence() {
			if i < k {
				statuses[d] = tracking.Completed
				continue
			}
			statuses[d] = otherStates[i%len(otherStates)]
		}

		got := agg.CompletionPercentage(stagesWith(statuses))

		want := map[int]int{0: 0, 1: 11, 2: 22, 3: 33, 4: 44, 5: 56, 6: 67, 7: 78, 8: 89, 9: 100}[k]
		assert.Equal(t, want, got, "k=%d", k)
		assert.GreaterOrEqual(t, got, previous)
		previous = got
	}
}

func TestProgressAggregator_CompletionPercentageUsesFixedDenominator(t *testing.T) {
	agg := services.NewProgressAggregator(nil)
	stages := []services.Stage{
		{Department: department.CAD, Status: tracking.Completed},
		{Department: department.Print, Status: tracking.Completed},
		{Department: department.Casting, Status: tracking.Completed},
	}

	assert.Equal(t, 33, agg.CompletionPercentage(stages))
}

func TestProgressAggregator_DepartmentProgress(t *testing.T) {
	agg := services.NewProgressAggregator(schemaStub{
		department.CAD: {"designFile", "renderPhoto", "approvedBy", "revision"},
	})

	wd := tracking.WorkData{
		Fields: map[string]any{"designFile": "ring.3dm", "approvedBy": " "},
		Files:  []tracking.FileRef{{URL: "https://files/r.png", Kind: "renderPhoto"}},
	}

	assert.Equal(t, 50, agg.DepartmentProgress(department.CAD, tracking.InProgress, wd))
	assert.Equal(t, 0, agg.DepartmentProgress(department.Print, tracking.InProgress, wd))
	assert.Equal(t, 100, agg.DepartmentProgress(department.Print, tracking.Completed, tracking.EmptyWorkData()))
}

func TestProgressAggregator_Summarize(t *testing.T) {
	o := releasedOrder(t, "20")
	rows := rowsFor(t, o)
	completeRow(t, rows[0])
	completeRow(t, rows[1])

	p := services.NewProgressAggregator(nil).Summarize(services.StagesOf(rows))

	assert.Equal(t, 22, p.CompletionPercentage)
	assert.Equal(t, department.Casting, p.CurrentDepartment.OrElse(""))
}
