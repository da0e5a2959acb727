package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ttmon/internal/types"
)

// MeasurementRepository reads the daily and weekly measurement views.
type MeasurementRepository struct {
	db     DBTX
	schema string
}

// NewMeasurementRepository creates a repository reading from the given
// schema's materialized views.
func NewMeasurementRepository(db DBTX, schema string) *MeasurementRepository {
	return &MeasurementRepository{db: db, schema: schema}
}

// ListDaily loads the daily measurement set. The view carries one row per
// street x direction x day x period, joined to the week/month reference
// tables, with the most-recent flag computed per (direction, day_type,
// period) partition.
func (r *MeasurementRepository) ListDaily(ctx context.Context) ([]types.Measurement, error) {
	query := fmt.Sprintf(`
		SELECT street, direction, dt, day_type, period, category, tt,
		       most_recent, week_number, month_number
		FROM %s.monitor_daily
		ORDER BY dt, street, direction`, pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying daily measurements: %w", err)
	}
	defer rows.Close()

	var out []types.Measurement
	for rows.Next() {
		m, err := scanDaily(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning daily measurement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily measurements: %w", err)
	}
	return out, nil
}

// ListWeekly loads the weekly alternate-route measurement set: one row per
// route x direction x week span x period, with the route's main street as a
// separate filter dimension.
func (r *MeasurementRepository) ListWeekly(ctx context.Context) ([]types.Measurement, error) {
	query := fmt.Sprintf(`
		SELECT street, main_street, direction, week_start, week_end,
		       day_type, period, category, tt, week_number, month_number
		FROM %s.monitor_weekly
		ORDER BY week_start, street, direction`, pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying weekly measurements: %w", err)
	}
	defer rows.Close()

	var out []types.Measurement
	for rows.Next() {
		m, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning weekly measurement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly measurements: %w", err)
	}
	return out, nil
}

func scanDaily(row pgx.Row) (types.Measurement, error) {
	var (
		m          types.Measurement
		dt         pgDate
		mostRecent int
		weekNum    *int
		monthNum   *int
	)
	err := row.Scan(&m.Street, &m.Direction, &dt, &m.DayType, &m.Period,
		&m.Category, &m.TravelTimeMin, &mostRecent, &weekNum, &monthNum)
	if err != nil {
		return types.Measurement{}, err
	}
	m.Date = dt.Date()
	m.MostRecent = mostRecent == 1
	if weekNum != nil {
		m.WeekNumber = *weekNum
	}
	if monthNum != nil {
		m.MonthNumber = *monthNum
	}
	return m, nil
}

func scanWeekly(row pgx.Row) (types.Measurement, error) {
	var (
		m        types.Measurement
		start    pgDate
		end      pgDate
		weekNum  *int
		monthNum *int
	)
	err := row.Scan(&m.Street, &m.MainStreet, &m.Direction, &start, &end,
		&m.DayType, &m.Period, &m.Category, &m.TravelTimeMin, &weekNum, &monthNum)
	if err != nil {
		return types.Measurement{}, err
	}
	m.Date = start.Date()
	m.SpanEnd = end.Date()
	if weekNum != nil {
		m.WeekNumber = *weekNum
	}
	if monthNum != nil {
		m.MonthNumber = *monthNum
	}
	return m, nil
}
