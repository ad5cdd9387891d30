package services

import (
	"math"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
)

// Stage is the part of a tracking row the progress rules look at.
type Stage struct {
	Department department.Department
	Status     tracking.Status
}

// StagesOf projects tracking rows onto stages.
func StagesOf(rows []*tracking.Tracking) []Stage {
	stages := make([]Stage, 0, len(rows))
	for _, row := range rows {
		stages = append(stages, Stage{Department: row.Department(), Status: row.Status()})
	}
	return stages
}

// FormSchema lists the work data fields a department must fill in.
type FormSchema interface {
	RequiredFields(d department.Department) []string
}

// Progress is the order level summary of the department board.
type Progress struct {
	CurrentDepartment    kernel.Option[department.Department]
	CompletionPercentage int
}

// ProgressAggregator derives order progress from its tracking rows.
type ProgressAggregator struct {
	schema FormSchema
}

// NewProgressAggregator creates an aggregator. The schema decides which work
// data fields count towards DepartmentProgress; a nil schema treats every
// department as having no required fields.
//
// Example:
//
//	agg := NewProgressAggregator(formschema.MustDefault())
//	p := agg.Summarize(StagesOf(rows))
//	fmt.Println(p.CompletionPercentage) // 33 with three departments completed
func NewProgressAggregator(schema FormSchema) ProgressAggregator {
	return ProgressAggregator{schema: schema}
}

// Summarize computes the order level Progress in one call.
//
// Returns:
//   - CurrentDepartment: see CurrentDepartment, None once all nine are COMPLETED
//   - CompletionPercentage: see CompletionPercentage, 0 to 100
func (a ProgressAggregator) Summarize(stages []Stage) Progress {
	return Progress{
		CurrentDepartment:    a.CurrentDepartment(stages),
		CompletionPercentage: a.CompletionPercentage(stages),
	}
}

// CurrentDepartment resolves, in order:
//   - the first IN_PROGRESS department in sequence order
//   - the department following the last COMPLETED one
//   - the first department of the sequence when nothing has completed
//
// It is None only once every department is COMPLETED. When the last
// department is completed ahead of earlier ones, the first unfinished
// department in sequence order is reported.
func (a ProgressAggregator) CurrentDepartment(stages []Stage) kernel.Option[department.Department] {
	statuses := statusByDepartment(stages)

	for _, d := range department.Sequence() {
		if statuses[d] == tracking.InProgress {
			return kernel.Some(d)
		}
	}

	completed := 0
	lastCompleted := -1
	for i, d := range department.Sequence() {
		if statuses[d] == tracking.Completed {
			completed++
			lastCompleted = i
		}
	}

	if completed == department.Count {
		return kernel.None[department.Department]()
	}
	if lastCompleted < 0 {
		return kernel.Some(department.First())
	}
	if next, ok := department.Sequence()[lastCompleted].Next(); ok {
		return kernel.Some(next)
	}
	for _, d := range department.Sequence() {
		if statuses[d] != tracking.Completed {
			return kernel.Some(d)
		}
	}
	return kernel.None[department.Department]()
}

// CompletionPercentage is round(100 * completed / 9). The denominator is the
// fixed sequence length, so orders with missing rows under-report.
func (a ProgressAggregator) CompletionPercentage(stages []Stage) int {
	completed := 0
	for _, st := range statusByDepartment(stages) {
		if st == tracking.Completed {
			completed++
		}
	}
	return percent(completed, department.Count)
}

// DepartmentProgress is the share of required work data fields that hold a
// value. A department without required fields is 100 once COMPLETED and 0
// before.
func (a ProgressAggregator) DepartmentProgress(d department.Department, status tracking.Status, wd tracking.WorkData) int {
	var required []string
	if a.schema != nil {
		required = a.schema.RequiredFields(d)
	}

	if len(required) == 0 {
		if status == tracking.Completed {
			return 100
		}
		return 0
	}

	filled := 0
	for _, field := range required {
		if wd.HasValue(field) {
			filled++
		}
	}
	return percent(filled, len(required))
}

// statusByDepartment keeps one status per department; unknown departments
// are ignored.
func statusByDepartment(stages []Stage) map[department.Department]tracking.Status {
	out := make(map[department.Department]tracking.Status, department.Count)
	for _, st := range stages {
		if st.Department.Index() < 0 {
			continue
		}
		out[st.Department] = st.Status
	}
	return out
}

// percent rounds half away from zero and is 0 for an empty total.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
