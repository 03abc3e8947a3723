package project

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/huddle14/huddle/internal/database"
)

// ProgressRecorder counts recompute cascades for observability.
type ProgressRecorder interface {
	RecordRecompute(level string)
}

// Aggregator recomputes completion percentages bottom-up: sub-task
// completion feeds the task percentage, task percentages feed the
// project mean. It always runs inside the transaction that performed
// the triggering leaf mutation, so the mutation and the recompute
// commit or roll back as one unit.
type Aggregator struct {
	projects ProjectRepository
	tasks    TaskRepository
	subTasks SubTaskRepository
	recorder ProgressRecorder
}

// NewAggregator creates a new Aggregator. The recorder may be nil.
func NewAggregator(projects ProjectRepository, tasks TaskRepository, subTasks SubTaskRepository, recorder ProgressRecorder) *Aggregator {
	return &Aggregator{
		projects: projects,
		tasks:    tasks,
		subTasks: subTasks,
		recorder: recorder,
	}
}

// roundPercentage keeps stored percentages at 4 decimal places so that
// recomputing from identical state always yields the identical value.
func roundPercentage(p float64) float64 {
	return math.Round(p*10000) / 10000
}

// RecomputeTask recalculates a task's percentage as done/total over its
// sub-tasks, persists it and cascades to the containing project. A task
// with no sub-tasks counts as 0% rather than dividing by zero.
func (a *Aggregator) RecomputeTask(ctx context.Context, tx database.Tx, taskID uuid.UUID) error {
	subTasks, err := a.subTasks.WithTx(tx).ListByTask(ctx, taskID)
	if err != nil {
		return err
	}

	percentage := 0.0
	if len(subTasks) > 0 {
		done := 0
		for _, st := range subTasks {
			if st.IsDone {
				done++
			}
		}
		percentage = roundPercentage(float64(done) / float64(len(subTasks)))
	}

	projectID, err := a.tasks.WithTx(tx).SetPercentage(ctx, taskID, percentage)
	if err != nil {
		return err
	}

	if a.recorder != nil {
		a.recorder.RecordRecompute("task")
	}

	return a.RecomputeProject(ctx, tx, projectID)
}

// RecomputeProject recalculates a project's percentage as the mean of
// its task percentages and persists it. The project row is locked first
// so concurrent cascades into the same project serialize instead of
// overwriting each other with stale sibling reads. A project with no
// tasks counts as 0%.
func (a *Aggregator) RecomputeProject(ctx context.Context, tx database.Tx, projectID uuid.UUID) error {
	if err := a.projects.WithTx(tx).Lock(ctx, projectID); err != nil {
		return err
	}

	percentages, err := a.tasks.WithTx(tx).Percentages(ctx, projectID)
	if err != nil {
		return err
	}

	percentage := 0.0
	if len(percentages) > 0 {
		sum := 0.0
		for _, p := range percentages {
			sum += p
		}
		percentage = roundPercentage(sum / float64(len(percentages)))
	}

	if err := a.projects.WithTx(tx).SetPercentage(ctx, projectID, percentage); err != nil {
		return err
	}

	if a.recorder != nil {
		a.recorder.RecordRecompute("project")
	}

	return nil
}
