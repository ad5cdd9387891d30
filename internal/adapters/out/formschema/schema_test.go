package formschema_test

import (
	"testing"

	"atelier/internal/adapters/out/formschema"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryDepartment(t *testing.T) {
	schema, err := formschema.Default()
	require.NoError(t, err)

	for _, d := range department.Sequence() {
		if d == department.Additional {
			assert.Empty(t, schema.RequiredFields(d))
			continue
		}
		assert.NotEmpty(t, schema.RequiredFields(d), d.String())
	}
	assert.Equal(t, []string{"designCode", "cadFile", "renderPhoto"}, schema.RequiredFields(department.CAD))
}

func TestParse(t *testing.T) {
	t.Run("should return a copy of the required fields", func(t *testing.T) {
		schema, err := formschema.Parse([]byte("departments:\n  SETTING:\n    required: [stoneCount]\n"))
		require.NoError(t, err)

		fields := schema.RequiredFields(department.Setting)
		fields[0] = "changed"

		assert.Equal(t, []string{"stoneCount"}, schema.RequiredFields(department.Setting))
		assert.Empty(t, schema.RequiredFields(department.CAD))
	})

	t.Run("should reject an unknown department", func(t *testing.T) {
		_, err := formschema.Parse([]byte("departments:\n  ENGRAVING:\n    required: [depth]\n"))
		require.Error(t, err)
	})

	t.Run("should reject repeated fields", func(t *testing.T) {
		_, err := formschema.Parse([]byte("departments:\n  CAD:\n    required: [designCode, designCode]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("should reject an empty document", func(t *testing.T) {
		_, err := formschema.Parse([]byte("  \n"))
		require.Error(t, err)
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		_, err := formschema.Parse([]byte("departments: [CAD"))
		require.Error(t, err)
	})
}

func TestSchema_DrivesDepartmentProgress(t *testing.T) {
	aggregator := services.NewProgressAggregator(formschema.MustDefault())

	wd, err := tracking.EmptyWorkData().Merge(map[string]any{"flaskNumber": "F-7", "alloy": ""}, []tracking.FileRef{
		{Name: "cast.jpg", URL: "https://files.example/cast.jpg", Kind: "castPhoto"},
	})
	require.NoError(t, err)

	assert.Equal(t, 67, aggregator.DepartmentProgress(department.Casting, tracking.InProgress, wd))
	assert.Equal(t, 0, aggregator.DepartmentProgress(department.Additional, tracking.InProgress, wd))
	assert.Equal(t, 100, aggregator.DepartmentProgress(department.Additional, tracking.Completed, wd))
}
