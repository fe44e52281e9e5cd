package milp

import (
	"fmt"
	"math"
)

// Violation describes a row, bound or integrality condition not met by a
// value vector.
type Violation struct {
	Kind   string
	Name   string
	Amount float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s violated by %g", v.Kind, v.Name, v.Amount)
}

// Violations lists every condition of the program that x breaks by more
// than tol.
func (p *Program) Violations(x []float64, tol float64) []Violation {
	if len(x) != len(p.Vars) {
		return []Violation{{Kind: "dimension", Name: p.Name, Amount: math.Abs(float64(len(x) - len(p.Vars)))}}
	}
	var out []Violation
	for i, v := range p.Vars {
		if d := v.Lower - x[i]; d > tol {
			out = append(out, Violation{Kind: "lower bound", Name: v.Name, Amount: d})
		}
		if d := x[i] - v.Upper; d > tol {
			out = append(out, Violation{Kind: "upper bound", Name: v.Name, Amount: d})
		}
		if v.Kind != Continuous {
			if d := math.Abs(x[i] - math.Round(x[i])); d > tol {
				out = append(out, Violation{Kind: "integrality", Name: v.Name, Amount: d})
			}
		}
	}
	for _, r := range p.Rows {
		if s := r.Slack(x); s < -tol {
			out = append(out, Violation{Kind: "row", Name: r.Name, Amount: -s})
		}
	}
	return out
}
