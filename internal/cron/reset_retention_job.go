package cron

import (
	"context"
	"fmt"
	"time"
)

const defaultResetRetention = 7 * 24 * time.Hour

type staleResetPurger interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type ResetRetentionJobParams struct {
	Resets    staleResetPurger
	Retention time.Duration
	Now       func() time.Time
}

// NewResetRetentionJob removes reset rows that expired or were consumed more
// than Retention ago.
func NewResetRetentionJob(params ResetRetentionJobParams) (Job, error) {
	if params.Resets == nil {
		return nil, fmt.Errorf("reset repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultResetRetention
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &resetRetentionJob{resets: params.Resets, retention: retention, now: now}, nil
}

type resetRetentionJob struct {
	resets    staleResetPurger
	retention time.Duration
	now       func() time.Time
}

func (j *resetRetentionJob) Name() string { return "reset-retention" }

func (j *resetRetentionJob) Run(ctx context.Context) (Result, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.resets.DeleteStale(ctx, cutoff)
	if err != nil {
		return Result{}, fmt.Errorf("purge resets before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return Result{Affected: deleted}, nil
}
