package milp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kind is the domain of a column.
type Kind int

const (
	Continuous Kind = iota
	Integer
	Binary
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "continuous"
	}
}

// Sense is the comparison of a row activity against its right-hand side.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

func (s Sense) String() string {
	switch s {
	case GE:
		return ">="
	case EQ:
		return "="
	default:
		return "<="
	}
}

// Var is a decision column with static bounds.
type Var struct {
	Name  string
	Lower float64
	Upper float64
	Kind  Kind
}

// Term is a coefficient applied to a column.
type Term struct {
	Col  int
	Coef float64
}

// T is shorthand for a Term literal.
func T(col int, coef float64) Term { return Term{Col: col, Coef: coef} }

// Row is a linear constraint sum(Terms) Sense RHS.
type Row struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Program is a minimisation MILP in sparse form.
type Program struct {
	Name      string
	Vars      []Var
	Rows      []Row
	Objective []float64

	cols map[string]int
	rows map[string]int
}

// New returns an empty program.
func New(name string) *Program {
	return &Program{Name: name, cols: make(map[string]int), rows: make(map[string]int)}
}

// Inf returns positive infinity, used for unbounded sides.
func Inf() float64 { return math.Inf(1) }

// AddVar declares a column and returns its index. Binary columns are bounded
// to [0, 1]. Declaring the same name twice panics.
func (p *Program) AddVar(name string, lower, upper float64, kind Kind) int {
	if _, ok := p.cols[name]; ok {
		panic(fmt.Sprintf("milp: duplicate column %s", name))
	}
	if kind == Binary {
		lower, upper = 0, 1
	}
	p.Vars = append(p.Vars, Var{Name: name, Lower: lower, Upper: upper, Kind: kind})
	p.Objective = append(p.Objective, 0)
	idx := len(p.Vars) - 1
	p.cols[name] = idx
	return idx
}

// AddRow appends a constraint and returns its index. Terms on the same
// column are merged and zero coefficients dropped.
func (p *Program) AddRow(name string, sense Sense, rhs float64, terms ...Term) int {
	if _, ok := p.rows[name]; ok {
		panic(fmt.Sprintf("milp: duplicate row %s", name))
	}
	p.Rows = append(p.Rows, Row{Name: name, Terms: compact(terms), Sense: sense, RHS: rhs})
	idx := len(p.Rows) - 1
	p.rows[name] = idx
	return idx
}

// AddCost adds coef to the objective coefficient of col.
func (p *Program) AddCost(col int, coef float64) {
	p.Objective[col] += coef
}

// Col returns the index of a named column.
func (p *Program) Col(name string) (int, bool) {
	i, ok := p.cols[name]
	return i, ok
}

// RowByName returns a named row.
func (p *Program) RowByName(name string) (Row, bool) {
	i, ok := p.rows[name]
	if !ok {
		return Row{}, false
	}
	return p.Rows[i], true
}

// NumVars returns the number of columns.
func (p *Program) NumVars() int { return len(p.Vars) }

// NumRows returns the number of constraints.
func (p *Program) NumRows() int { return len(p.Rows) }

// NumIntegers returns the number of integer and binary columns.
func (p *Program) NumIntegers() int {
	n := 0
	for _, v := range p.Vars {
		if v.Kind != Continuous {
			n++
		}
	}
	return n
}

// NumBinaries returns the number of binary columns.
func (p *Program) NumBinaries() int {
	n := 0
	for _, v := range p.Vars {
		if v.Kind == Binary {
			n++
		}
	}
	return n
}

// ObjectiveValue evaluates the objective at x.
func (p *Program) ObjectiveValue(x []float64) float64 {
	return floats.Dot(p.Objective, x)
}

// Activity evaluates the left-hand side of a row at x.
func (r Row) Activity(x []float64) float64 {
	var sum float64
	for _, t := range r.Terms {
		sum += t.Coef * x[t.Col]
	}
	return sum
}

// Slack returns how far the row is from violation at x. Negative values
// are violations.
func (r Row) Slack(x []float64) float64 {
	a := r.Activity(x)
	switch r.Sense {
	case LE:
		return r.RHS - a
	case GE:
		return a - r.RHS
	default:
		return -math.Abs(a - r.RHS)
	}
}

func compact(terms []Term) []Term {
	out := make([]Term, 0, len(terms))
	pos := make(map[int]int, len(terms))
	for _, t := range terms {
		if i, ok := pos[t.Col]; ok {
			out[i].Coef += t.Coef
			continue
		}
		pos[t.Col] = len(out)
		out = append(out, t)
	}
	n := 0
	for _, t := range out {
		if t.Coef != 0 {
			out[n] = t
			n++
		}
	}
	return out[:n]
}
