package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
)

func buildModel(t *testing.T, p Params, units []model.Unit, profiles model.Profiles) *Model {
	t.Helper()
	f := Classify(units)
	r, err := ResolveProfiles(profiles, f, p.Horizon)
	require.NoError(t, err)
	m, err := Build(f, r, p)
	require.NoError(t, err)
	return m
}

func mixedFleet() []model.Unit {
	return []model.Unit{
		{Name: "gas", Role: model.RoleThermal, RatedPower: 100, VariableCost: 10, RampLimit: 30},
		{Name: "store", Role: model.RoleBattery, RatedPower: 10, VariableCost: 1},
		{Name: "city", Role: model.RoleDemand, RatedPower: 60},
	}
}

func TestBuild_Dimensions(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	p := m.Program

	// 7 thermal and 4+5 battery columns per hour
	assert.Equal(t, 24*(7+9), p.NumVars())
	// thermal on plus one hull binary per battery-hour
	assert.Equal(t, 48, p.NumBinaries())
	// start, start+ and start- are general integers
	assert.Equal(t, 48+72, p.NumIntegers())
	// demand + 7 thermal + 2 ramp (h>1) + 10 battery rows
	assert.Equal(t, 24+24*7+23*2+24*10, p.NumRows())
}

func TestBuild_StaticBounds(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	p := m.Program

	bound := func(name string) milp.Var {
		i, ok := p.Col(name)
		require.True(t, ok, name)
		return p.Vars[i]
	}
	assert.Equal(t, milp.Var{Name: "devp_t0_h1", Lower: 0, Upper: 50, Kind: milp.Continuous}, bound("devp_t0_h1"))
	dn := bound("devn_t0_h5")
	assert.InDelta(t, -10, dn.Lower, 1e-12)
	assert.Zero(t, dn.Upper)
	assert.Equal(t, milp.Var{Name: "load_b0_h3", Lower: 0, Upper: 10}, bound("load_b0_h3"))
	assert.Equal(t, milp.Var{Name: "reload_b0_h3", Lower: -10, Upper: 0}, bound("reload_b0_h3"))
	assert.Equal(t, 50.0, bound("volume_b0_h24").Upper)
	assert.Equal(t, milp.Binary, bound("charging_b0_h7").Kind)
}

func TestBuild_Rows(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	p := m.Program

	demand, ok := p.RowByName("demand_h1")
	require.True(t, ok)
	assert.Equal(t, milp.EQ, demand.Sense)
	assert.Equal(t, 60.0, demand.RHS)
	assert.Len(t, demand.Terms, 3)

	_, ok = p.RowByName("ramp_up_t0_h1")
	assert.False(t, ok, "no ramp in hour 1")
	up, ok := p.RowByName("ramp_up_t0_h2")
	require.True(t, ok)
	assert.Equal(t, 30.0, up.RHS)

	s1, _ := p.RowByName("startup_t0_h1")
	assert.Len(t, s1.Terms, 2, "hour 1 starts from off")
	s2, _ := p.RowByName("startup_t0_h2")
	assert.Len(t, s2.Terms, 3)

	v1, _ := p.RowByName("storage_b0_h1")
	assert.Equal(t, 0.0, v1.RHS)
	for _, name := range []string{"hull_loadc_b0_h4", "hull_reloadc_b0_h4", "hull_loadd_b0_h4", "hull_reloadd_b0_h4", "branch_c_b0_h4", "branch_d_b0_h4", "agg_load_b0_h4", "agg_reload_b0_h4"} {
		_, ok := p.RowByName(name)
		assert.True(t, ok, name)
	}
}

func TestBuild_RowAndColumnNamesDisjoint(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	cols := make(map[string]bool, m.Program.NumVars())
	for _, v := range m.Program.Vars {
		cols[v.Name] = true
	}
	for _, r := range m.Program.Rows {
		assert.False(t, cols[r.Name], "row %s shadows a column", r.Name)
	}
}

func TestBuild_InitialVolume(t *testing.T) {
	p := DefaultParams()
	p.InitialVolumeFraction = 0.4
	m := buildModel(t, p, mixedFleet(), model.Profiles{Demand: flat(1)})
	v1, _ := m.Program.RowByName("storage_b0_h1")
	assert.Equal(t, 20.0, v1.RHS)
}

func TestBuild_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.DeviationCostMultiplier = 1
	_, err := Build(Fleet{}, Resolved{}, p)
	assert.Error(t, err)
}

func TestBuild_NothingToDispatch(t *testing.T) {
	units := []model.Unit{{Name: "city", Role: model.RoleDemand, RatedPower: 10}}
	f := Classify(units)
	r, err := ResolveProfiles(model.Profiles{Demand: flat(1)}, f, model.DayAhead)
	require.NoError(t, err)
	_, err = Build(f, r, DefaultParams())
	assert.ErrorIs(t, err, model.ErrModelInfeasible)
}

func TestDisjunction_HullSelectsOneBranch(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	x := vector(m, dispatch{thermal: [][]float64{flat(60)}, load: [][]float64{flat(0)}, reload: [][]float64{flat(0)}})
	require.Empty(t, m.Check(x, DefaultTolerance))

	// load and reload both active in hour 4 with the charging branch selected
	c := m.batteries[0]
	k := 3
	x[c.load[k]], x[c.chargeLoad[k]] = 5, 5
	x[c.reload[k]], x[c.dischargeReload[k]] = -5, -5
	x[c.net[k]] = 0
	kinds := map[string]bool{}
	for _, v := range m.Check(x, DefaultTolerance) {
		kinds[v.Kind+":"+v.Name] = true
	}
	assert.True(t, kinds["exclusivity:load_b0_h4"])
	assert.True(t, kinds["row:hull_reloadd_b0_h4"])
}

func TestCheck_CatchesPhysicalViolations(t *testing.T) {
	m := buildModel(t, DefaultParams(), mixedFleet(), model.Profiles{Demand: flat(1)})
	thermal := flat(60)
	thermal[5] = 95 // ramp of 35 > 30
	x := vector(m, dispatch{thermal: [][]float64{thermal}, load: [][]float64{flat(0)}, reload: [][]float64{flat(0)}})

	kinds := map[string]bool{}
	for _, v := range m.Check(x, DefaultTolerance) {
		kinds[v.Kind] = true
	}
	assert.True(t, kinds["ramp"])
	assert.True(t, kinds["balance"])
}
