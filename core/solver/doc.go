// Package solver submits a built program to an external MILP backend and
// interprets the outcome. A run moves through the states
//
//	Built -> Submitted -> Optimal | Feasible | Infeasible | Timeout | Error
//
// and only Optimal and Feasible runs carry a solution. Backends (executables,
// remote services) are registered by name and created from configuration.
package solver
