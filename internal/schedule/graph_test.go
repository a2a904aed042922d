package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

func TestGraphAdjacency(t *testing.T) {
	tasks := []model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	deps := []model.Dependency{
		{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart},
		{PredecessorID: "a", SuccessorID: "c", Type: model.StartToStart, LagDays: 2},
		{PredecessorID: "b", SuccessorID: "c", Type: model.FinishToStart},
	}
	g := NewGraph(tasks, deps)

	succ := g.SuccessorsOf("a")
	require.Len(t, succ, 2)
	assert.Equal(t, "b", succ[0].ID)
	assert.Equal(t, "c", succ[1].ID)

	preds := g.PredecessorsOf("c")
	require.Len(t, preds, 2)
	assert.Equal(t, "a", preds[0].PredecessorID)
	assert.Equal(t, "b", preds[1].PredecessorID)

	assert.Empty(t, g.SuccessorsOf("c"))
	assert.Empty(t, g.PredecessorsOf("a"))

	_, ok := g.Task("b")
	assert.True(t, ok)
	_, ok = g.Task("zz")
	assert.False(t, ok)
}

func TestGraphDeduplicatesSuccessors(t *testing.T) {
	tasks := []model.Task{{ID: "a"}, {ID: "b"}}
	deps := []model.Dependency{
		{PredecessorID: "a", SuccessorID: "b", Type: model.StartToStart},
		{PredecessorID: "a", SuccessorID: "b", Type: model.FinishToFinish},
	}
	g := NewGraph(tasks, deps)

	assert.Len(t, g.SuccessorsOf("a"), 1)
	assert.Len(t, g.PredecessorsOf("b"), 2)
}

func TestGraphUnknownSuccessorSkipped(t *testing.T) {
	tasks := []model.Task{{ID: "a"}}
	deps := []model.Dependency{
		{PredecessorID: "a", SuccessorID: "ghost", Type: model.FinishToStart},
	}
	g := NewGraph(tasks, deps)

	assert.Empty(t, g.SuccessorsOf("a"))
}
