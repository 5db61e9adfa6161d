package assignment

// Validate checks that prefs and caps describe a well-formed instance with the given
// student and project counts. It does not attempt a solve.
//
// Shape problems are reported before value problems, and value problems before the
// aggregate capacity check.
func Validate(prefs PreferenceMatrix, caps CapacityVector, students, projects int) error {
	if students <= 0 || projects <= 0 {
		return newError(KindShapeMismatch, "need at least one student and one project, got %d students and %d projects", students, projects)
	}

	if len(prefs) != students {
		return newError(KindShapeMismatch, "preference matrix has %d rows, expected %d students", len(prefs), students)
	}
	for i, row := range prefs {
		if len(row) != projects {
			return newError(KindShapeMismatch, "preference row %d has %d columns, expected %d projects", i, len(row), projects)
		}
	}
	if len(caps) != projects {
		return newError(KindShapeMismatch, "capacity vector has %d entries, expected %d projects", len(caps), projects)
	}

	for i, row := range prefs {
		for j, v := range row {
			if v < 0 {
				return newError(KindNegativeValue, "preference[%d][%d] is %d", i, j, v)
			}
		}
	}

	total := 0
	for j, c := range caps {
		if c < 0 {
			return newError(KindNegativeValue, "capacity[%d] is %d", j, c)
		}
		total += c
	}

	if total < students {
		return newError(KindInsufficientCapacity, "total capacity %d is less than %d students", total, students)
	}

	return nil
}

// Validate checks the problem against its own declared counts
func (p Problem) Validate() error {
	return Validate(p.Preferences, p.Capacities, p.Students, p.Projects)
}
