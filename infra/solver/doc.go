// Package solver provides the MILP backends registered with core/solver:
// the cbc and glpsol executables, driven through CPLEX LP files, and a
// remote optimisation service reached over HTTP.
package solver
