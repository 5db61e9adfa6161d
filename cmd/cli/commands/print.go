package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/jakechorley/project-allocator/pkg/core/assignment"
	"github.com/jakechorley/project-allocator/pkg/core/services"
	"github.com/jakechorley/project-allocator/pkg/csvio"
	"github.com/jakechorley/project-allocator/pkg/db"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitDataError   = 2
	ExitSolverFault = 3
)

// ExitCode maps an error to the process exit code: input problems and solver faults are told apart
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case assignment.IsDataError(err), errors.Is(err, csvio.ErrInvalidFormat), errors.Is(err, csvio.ErrFileNotFound):
		return ExitDataError
	case assignment.IsSolverFault(err):
		return ExitSolverFault
	default:
		return ExitFailure
	}
}

func printSolveResult(w io.Writer, result *services.SolveResult) {
	outcome := result.Outcome

	fmt.Fprintf(w, "Assignments:\n%v\n", mat.Formatted(outcome.Assignment.Dense(), mat.Squeeze()))
	fmt.Fprintf(w, "Objective value: %s\n", csvio.FormatObjective(outcome.Objective))
	fmt.Fprintf(w, "Run ID: %s (%d variables, %d constraints)\n", result.RunID, outcome.VariableCount, outcome.ConstraintCount)

	if result.AssignmentsPath != "" {
		fmt.Fprintf(w, "Saved assignments to %s and objective value to %s\n", result.AssignmentsPath, result.ObjectivePath)
	}
	if result.TabTitle != "" {
		fmt.Fprintf(w, "Published assignment to tab %q\n", result.TabTitle)
	}
	if result.Saved {
		fmt.Fprintln(w, "Run recorded in history")
	}
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSOLVED AT\tSOURCE\tSTUDENTS\tPROJECTS\tOBJECTIVE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.SolvedAt.Format("2006-01-02 15:04:05"), r.Source, r.Students, r.Projects, csvio.FormatObjective(r.Objective))
	}
	tw.Flush()
}

func printRun(w io.Writer, run *db.Run) {
	fmt.Fprintf(w, "Run ID:    %s\n", run.ID)
	fmt.Fprintf(w, "Solved at: %s\n", run.SolvedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Source:    %s\n", run.Source)
	fmt.Fprintf(w, "Objective: %s\n\n", csvio.FormatObjective(run.Objective))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STUDENT\tPROJECT\tPREFERENCE")
	for _, a := range run.Assignments {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", a.Student, a.Project, a.Preference)
	}
	tw.Flush()
}
