package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/unitcommit/core/model"
)

func TestClassify(t *testing.T) {
	units := []model.Unit{
		{Name: "wind-b", Role: model.RoleWind, RatedPower: 10},
		{Name: "coal", Role: model.RoleThermal, RatedPower: 100},
		{Name: "store", Role: model.RoleBattery, RatedPower: 5},
		{Name: "wind-a", Role: model.RoleWind, RatedPower: 20},
		{Name: "city", Role: model.RoleDemand, RatedPower: 80},
		{Name: "roof", Role: model.RoleSolar, RatedPower: 3},
		{Name: "mystery", Role: model.RoleUnknown, RatedPower: 1},
	}
	f := Classify(units)

	require.Len(t, f.Wind, 2)
	assert.Equal(t, "wind-a", f.Wind[0].Name)
	assert.Equal(t, "wind-b", f.Wind[1].Name)
	assert.Len(t, f.Thermal, 1)
	assert.Len(t, f.Batteries, 1)
	assert.Len(t, f.Demand, 1)
	assert.Len(t, f.Solar, 1)
	require.Len(t, f.Unscheduled, 1)
	assert.Equal(t, "mystery", f.Unscheduled[0].Name)
	assert.Equal(t, 6, f.Size())

	// input order is untouched
	assert.Equal(t, "wind-b", units[0].Name)
}

func TestClassify_Empty(t *testing.T) {
	f := Classify(nil)
	assert.Zero(t, f.Size())
	assert.Empty(t, f.Unscheduled)
}
