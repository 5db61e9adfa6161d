package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentsFrom(t *testing.T) {
	prefs := [][]int{{2, 1, 3}, {1, 3, 2}, {3, 2, 1}}

	assignments := AssignmentsFrom("run-1", []int{2, 1, 0}, prefs)

	assert.Equal(t, []RunAssignment{
		{RunID: "run-1", Student: 0, Project: 2, Preference: 3},
		{RunID: "run-1", Student: 1, Project: 1, Preference: 3},
		{RunID: "run-1", Student: 2, Project: 0, Preference: 3},
	}, assignments)
}

func TestAssignmentsFrom_Empty(t *testing.T) {
	assert.Empty(t, AssignmentsFrom("run-1", nil, nil))
}
