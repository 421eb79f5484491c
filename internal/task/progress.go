// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Progress is a point-in-time completion summary for a project's task set.
type Progress struct {
	TotalTasks     int64
	CompletedTasks int64
	Percentage     float64
}

// Aggregator computes completion statistics from authoritative counts at
// call time. Nothing is cached; the result is always consistent with
// persisted state at the instant of the read.
type Aggregator struct {
	tasks TaskRepository
	gate  *Gate
}

// NewAggregator creates an Aggregator.
func NewAggregator(tasks TaskRepository, gate *Gate) (*Aggregator, error) {
	if tasks == nil {
		return nil, oops.Errorf("task repository is required")
	}
	if gate == nil {
		return nil, oops.Errorf("ownership gate is required")
	}
	return &Aggregator{tasks: tasks, gate: gate}, nil
}

// Progress resolves project ownership, then counts total and completed
// tasks. A project with no tasks reports exactly 0.0 percent.
func (a *Aggregator) Progress(ctx context.Context, projectID, ownerID ulid.ULID) (*Progress, error) {
	if _, err := a.gate.ResolveProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	total, err := a.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return nil, oops.Code("PROGRESS_COUNT_FAILED").
			With("operation", "count tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	completed, err := a.tasks.CountCompleted(ctx, projectID)
	if err != nil {
		return nil, oops.Code("PROGRESS_COUNT_FAILED").
			With("operation", "count completed tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(completed) / float64(total) * 100
	}

	return &Progress{
		TotalTasks:     total,
		CompletedTasks: completed,
		Percentage:     percentage,
	}, nil
}
