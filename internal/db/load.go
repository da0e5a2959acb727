package db

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// LoadSnapshot runs the snapshot queries concurrently and builds the
// validated in-memory snapshot. It is called exactly once, at startup; any
// error is fatal. There are no retries: the sync job guarantees the views
// are consistent, and a failed load means the process should not serve.
func LoadSnapshot(ctx context.Context, dbtx DBTX, schema string, profile *deploy.Profile) (*dataset.Snapshot, error) {
	measurements := NewMeasurementRepository(dbtx, schema)
	baseline := NewBaselineRepository(dbtx, schema)
	calendar := NewCalendarRepository(dbtx, schema)

	var in dataset.Input
	hasWeekly := false
	for _, o := range profile.Orientations {
		if o.Source == deploy.SourceWeekly {
			hasWeekly = true
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Daily, err = measurements.ListDaily(gctx)
		return err
	})
	if hasWeekly {
		g.Go(func() error {
			var err error
			in.Weekly, err = measurements.ListWeekly(gctx)
			return err
		})
	}
	g.Go(func() error {
		var err error
		in.Baseline, err = baseline.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Weeks, err = calendar.ListWeeks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Months, err = calendar.ListMonths(gctx)
		return err
	})
	if profile.SnapToBusinessDays {
		g.Go(func() error {
			var err error
			in.Holidays, err = calendar.ListHolidays(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB,
			fmt.Sprintf("loading snapshot for deployment %s", profile.Name), err)
	}

	return dataset.Build(profile, in)
}
