// Package model holds the aggregate read models behind the reporting endpoints.
// Nothing here is written back; every value is derived from areas, spots and
// bookings.
package model

import (
	"github.com/shopspring/decimal"
)

const EntityName = "report"

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// CountsByStatus folds rows into a map and returns their sum.
func CountsByStatus(rows []StatusCount) (map[string]int, int) {
	counts := make(map[string]int, len(rows))
	total := 0

	for _, row := range rows {
		counts[row.Status] += row.Total
		total += row.Total
	}

	return counts, total
}

type AreaOccupancy struct {
	AreaID    string `db:"area_id"`
	AreaName  string `db:"area_name"`
	Code      string `db:"code"`
	Total     int    `db:"total"`
	Available int    `db:"available"`
	Reserved  int    `db:"reserved"`
	Occupied  int    `db:"occupied"`
}

// Rate is the share of spots that are not available, in percent with two decimals.
func (o AreaOccupancy) Rate() decimal.Decimal {
	if o.Total == 0 {
		return decimal.Zero
	}

	used := decimal.NewFromInt(int64(o.Total - o.Available))

	return used.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(o.Total))).Round(2)
}

type AreaRevenue struct {
	AreaID    string          `db:"area_id"`
	AreaName  string          `db:"area_name"`
	Completed int             `db:"completed"`
	Revenue   decimal.Decimal `db:"revenue"`
}

type UserStats struct {
	UserID     string          `db:"user_id"`
	Email      string          `db:"email"`
	FullName   *string         `db:"full_name"`
	Bookings   int             `db:"bookings"`
	Completed  int             `db:"completed"`
	TotalSpent decimal.Decimal `db:"total_spent"`
}
