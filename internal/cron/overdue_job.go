package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/overdue"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
)

// OverdueJobName identifies the overdue scan in logs, metrics and lock keys.
const OverdueJobName = "overdue-scan"

type overdueScanner interface {
	Scan(ctx context.Context, now time.Time) (*overdue.Report, error)
}

// OverdueJobParams configure the overdue scan job.
type OverdueJobParams struct {
	Scanner overdueScanner
	Logger  *logger.Logger
	Now     func() time.Time
}

// OverdueJob runs the overdue scanner against the wall clock.
type OverdueJob struct {
	scanner overdueScanner
	logg    *logger.Logger
	now     func() time.Time
}

// NewOverdueJob builds the overdue scan job.
func NewOverdueJob(params OverdueJobParams) (*OverdueJob, error) {
	if params.Scanner == nil {
		return nil, fmt.Errorf("overdue scanner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &OverdueJob{scanner: params.Scanner, logg: params.Logger, now: now}, nil
}

func (j *OverdueJob) Name() string { return OverdueJobName }

func (j *OverdueJob) Run(ctx context.Context) error {
	report, err := j.scanner.Scan(ctx, j.now())
	if err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"overdue":   len(report.Entries),
		"messages":  len(report.Messages),
		"delivered": report.Delivered,
	})
	if report.Delivered < len(report.Messages) {
		j.logg.Warn(ctx, "overdue scan delivered only part of its messages")
		return nil
	}
	j.logg.Info(ctx, "overdue scan delivered")
	return nil
}
