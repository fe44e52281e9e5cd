package milp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

const termsPerLine = 8

// WriteLP writes the program in CPLEX LP format. Every column is listed in
// the objective, with zero coefficients where needed, so that readers which
// number columns by first appearance (glpsol) keep the program order.
func WriteLP(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\\ %s\n", p.Name)
	fmt.Fprintln(bw, "Minimize")
	all := make([]Term, len(p.Vars))
	for i := range p.Vars {
		all[i] = Term{Col: i, Coef: p.Objective[i]}
	}
	writeExpr(bw, " obj:", all, p)
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Subject To")
	for _, r := range p.Rows {
		if len(r.Terms) == 0 {
			return fmt.Errorf("row %s has no terms", r.Name)
		}
		writeExpr(bw, " "+r.Name+":", r.Terms, p)
		fmt.Fprintf(bw, " %s %s\n", r.Sense, num(r.RHS))
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range p.Vars {
		if v.Kind == Binary {
			continue
		}
		switch {
		case v.Lower == v.Upper:
			fmt.Fprintf(bw, " %s = %s\n", v.Name, num(v.Lower))
		case math.IsInf(v.Lower, -1) && math.IsInf(v.Upper, 1):
			fmt.Fprintf(bw, " %s free\n", v.Name)
		case v.Lower == 0 && math.IsInf(v.Upper, 1):
		default:
			fmt.Fprintf(bw, " %s <= %s <= %s\n", num(v.Lower), v.Name, num(v.Upper))
		}
	}

	writeSection(bw, "Generals", p, Integer)
	writeSection(bw, "Binaries", p, Binary)
	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

func writeExpr(w *bufio.Writer, label string, terms []Term, p *Program) {
	w.WriteString(label)
	for i, t := range terms {
		if i > 0 && i%termsPerLine == 0 {
			w.WriteString("\n   ")
		}
		sign := "+"
		coef := t.Coef
		if coef < 0 || (coef == 0 && math.Signbit(coef)) {
			sign = "-"
			coef = -coef
		}
		fmt.Fprintf(w, " %s %s %s", sign, num(coef), p.Vars[t.Col].Name)
	}
}

func writeSection(w *bufio.Writer, title string, p *Program, kind Kind) {
	var names []string
	for _, v := range p.Vars {
		if v.Kind == kind {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for i, n := range names {
		if i%termsPerLine == 0 {
			if i > 0 {
				w.WriteString("\n")
			}
			w.WriteString(" ")
		}
		w.WriteString(" " + n)
	}
	w.WriteString("\n")
}

func num(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
