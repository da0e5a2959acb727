package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ttmon/internal/types"
)

// pgDate scans a DATE column into a calendar date.
type pgDate struct {
	t time.Time
}

// Scan implements sql.Scanner for DATE values arriving as time.Time or text.
func (d *pgDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.t = v
		return nil
	case string:
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return err
		}
		d.t = parsed
		return nil
	case nil:
		d.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
}

// Date returns the scanned value as a calendar date.
func (d pgDate) Date() types.Date {
	if d.t.IsZero() {
		return types.Date{}
	}
	return types.DateOf(d.t)
}

// CalendarRepository reads the week, month and holiday reference views.
type CalendarRepository struct {
	db     DBTX
	schema string
}

// NewCalendarRepository creates a repository reading from the given schema.
func NewCalendarRepository(db DBTX, schema string) *CalendarRepository {
	return &CalendarRepository{db: db, schema: schema}
}

// ListWeeks loads the selectable week ordinals. Only fully elapsed weeks are
// exposed: a week becomes selectable once its start is at least seven days
// old.
func (r *CalendarRepository) ListWeeks(ctx context.Context) ([]types.Week, error) {
	query := fmt.Sprintf(`
		SELECT week_number, week
		FROM %s.monitor_weeks
		WHERE CURRENT_DATE > (week + INTERVAL '7 days')
		ORDER BY week_number`, pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying weeks: %w", err)
	}
	defer rows.Close()

	var out []types.Week
	for rows.Next() {
		var (
			w     types.Week
			start pgDate
		)
		if err := rows.Scan(&w.Number, &start); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		w.Start = start.Date()
		w.Label = fmt.Sprintf("Week %d: %s", w.Number, w.Start)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weeks: %w", err)
	}
	return out, nil
}

// ListMonths loads the selectable month ordinals.
func (r *CalendarRepository) ListMonths(ctx context.Context) ([]types.Month, error) {
	query := fmt.Sprintf(`
		SELECT month_number, month
		FROM %s.monitor_months
		ORDER BY month_number`, pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying months: %w", err)
	}
	defer rows.Close()

	var out []types.Month
	for rows.Next() {
		var (
			m     types.Month
			start pgDate
		)
		if err := rows.Scan(&m.Number, &start); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}
		m.Start = start.Date()
		m.Label = fmt.Sprintf("Month %d: %s", m.Number, m.Start.Format("Jan '06"))
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating months: %w", err)
	}
	return out, nil
}

// ListHolidays loads the holiday date set used for business-day boundary
// snapping. The view may be absent in deployments that do not snap; the
// caller decides whether to query it.
func (r *CalendarRepository) ListHolidays(ctx context.Context) ([]types.Date, error) {
	query := fmt.Sprintf(`
		SELECT dt FROM %s.monitor_holidays ORDER BY dt`,
		pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying holidays: %w", err)
	}
	defer rows.Close()

	var out []types.Date
	for rows.Next() {
		var d pgDate
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning holiday: %w", err)
		}
		out = append(out, d.Date())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return out, nil
}
