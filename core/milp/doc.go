// Package milp holds a solver-independent sparse mixed-integer linear
// program: bounded columns of a given kind, single-sense rows and a linear
// objective to minimise. Programs can be evaluated against a value vector
// and written in CPLEX LP format for external solvers.
package milp
