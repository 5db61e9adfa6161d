package assignment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sense is the relation between a constraint's left-hand side and its bound
type Sense int

const (
	SenseEqual Sense = iota
	SenseLessOrEqual
)

func (s Sense) String() string {
	switch s {
	case SenseEqual:
		return "="
	case SenseLessOrEqual:
		return "<="
	}
	return "?"
}

// Variable is a binary decision x[Student][Project]
type Variable struct {
	Index   int
	Student int
	Project int
	Lower   float64
	Upper   float64
	Integer bool
}

// Name returns the variable's label, e.g. x_0_2
func (v Variable) Name() string {
	return fmt.Sprintf("x_%d_%d", v.Student, v.Project)
}

// Term is coef * variable
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a linear row: Σ terms (Sense) RHS
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is the binary-assignment program for a single Problem.
// A Model is owned by the call that built it and must not be shared between solves.
type Model struct {
	Students    int
	Projects    int
	Variables   []Variable
	Constraints []Constraint

	// Objective holds one coefficient per variable, indexed by Variable.Index
	Objective []float64

	Maximize bool
}

// Sum expresses Σ vars with unit coefficients
func Sum(vars []int) []Term {
	terms := make([]Term, len(vars))
	for k, v := range vars {
		terms[k] = Term{Var: v, Coef: 1}
	}
	return terms
}

// BuildModel translates a validated problem into variables, assignment rows,
// capacity rows and a maximization objective.
func BuildModel(p Problem) *Model {
	m := &Model{
		Students:  p.Students,
		Projects:  p.Projects,
		Variables: make([]Variable, 0, p.Students*p.Projects),
		Objective: make([]float64, 0, p.Students*p.Projects),
		Maximize:  true,
	}

	for i := 0; i < p.Students; i++ {
		for j := 0; j < p.Projects; j++ {
			m.Variables = append(m.Variables, Variable{
				Index:   len(m.Variables),
				Student: i,
				Project: j,
				Lower:   0,
				Upper:   1,
				Integer: true,
			})
			m.Objective = append(m.Objective, float64(p.Preferences[i][j]))
		}
	}

	// Every student takes exactly one project
	for i := 0; i < p.Students; i++ {
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("assign_%d", i),
			Terms: Sum(m.StudentVars(i)),
			Sense: SenseEqual,
			RHS:   1,
		})
	}

	// Every project stays within capacity
	for j := 0; j < p.Projects; j++ {
		m.Constraints = append(m.Constraints, Constraint{
			Name:  fmt.Sprintf("capacity_%d", j),
			Terms: Sum(m.ProjectVars(j)),
			Sense: SenseLessOrEqual,
			RHS:   float64(p.Capacities[j]),
		})
	}

	return m
}

// Var returns the index of x[i][j]
func (m *Model) Var(i, j int) int {
	return i*m.Projects + j
}

// StudentVars returns the indices of x[i][*]
func (m *Model) StudentVars(i int) []int {
	vars := make([]int, m.Projects)
	for j := range vars {
		vars[j] = m.Var(i, j)
	}
	return vars
}

// ProjectVars returns the indices of x[*][j]
func (m *Model) ProjectVars(j int) []int {
	vars := make([]int, m.Students)
	for i := range vars {
		vars[i] = m.Var(i, j)
	}
	return vars
}

// ObjectiveValue evaluates the objective at the given variable values
func (m *Model) ObjectiveValue(values []float64) float64 {
	total := 0.0
	for k, coef := range m.Objective {
		total += coef * values[k]
	}
	return total
}

// StandardForm lowers the model to minimize cᵀx subject to Ax = b, x ≥ 0.
// Columns [0, len(Variables)) are the decision variables; one slack column follows for
// each ≤ row. A maximization is negated, so the optimal value of the standard form is the
// negated objective.
//
// The upper bound of 1 on each variable is implied by its assignment row.
func (m *Model) StandardForm() (c []float64, a *mat.Dense, b []float64) {
	numVars := len(m.Variables)
	numSlack := 0
	for _, con := range m.Constraints {
		if con.Sense == SenseLessOrEqual {
			numSlack++
		}
	}

	cols := numVars + numSlack
	c = make([]float64, cols)
	for k, coef := range m.Objective {
		if m.Maximize {
			coef = -coef
		}
		c[k] = coef
	}

	a = mat.NewDense(len(m.Constraints), cols, nil)
	b = make([]float64, len(m.Constraints))
	slack := numVars
	for r, con := range m.Constraints {
		for _, t := range con.Terms {
			a.Set(r, t.Var, a.At(r, t.Var)+t.Coef)
		}
		if con.Sense == SenseLessOrEqual {
			a.Set(r, slack, 1)
			slack++
		}
		b[r] = con.RHS
	}

	return c, a, b
}
