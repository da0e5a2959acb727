package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ttmon/internal/types"
)

// BaselineRepository reads the baseline summary view: one row per segment x
// direction x day type x period, both for the mainline corridor and the
// alternate routes.
type BaselineRepository struct {
	db     DBTX
	schema string
}

// NewBaselineRepository creates a repository reading from the given schema.
func NewBaselineRepository(db DBTX, schema string) *BaselineRepository {
	return &BaselineRepository{db: db, schema: schema}
}

// List loads the full baseline reference set.
func (r *BaselineRepository) List(ctx context.Context) ([]types.BaselineRow, error) {
	query := fmt.Sprintf(`
		SELECT street, main_street, direction, from_intersection,
		       to_intersection, day_type, period, period_range, tt
		FROM %s.monitor_baseline
		ORDER BY street, direction, day_type, period`,
		pgx.Identifier{r.schema}.Sanitize())

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying baseline: %w", err)
	}
	defer rows.Close()

	var out []types.BaselineRow
	for rows.Next() {
		var (
			b           types.BaselineRow
			mainStreet  *string
			fromX, toX  *string
			periodRange *string
		)
		err := rows.Scan(&b.Street, &mainStreet, &b.Direction, &fromX, &toX,
			&b.DayType, &b.Period, &periodRange, &b.TravelTimeMin)
		if err != nil {
			return nil, fmt.Errorf("scanning baseline row: %w", err)
		}
		if mainStreet != nil {
			b.MainStreet = *mainStreet
		}
		if fromX != nil {
			b.FromIntersection = *fromX
		}
		if toX != nil {
			b.ToIntersection = *toX
		}
		if periodRange != nil {
			b.PeriodRange = *periodRange
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline rows: %w", err)
	}
	return out, nil
}
