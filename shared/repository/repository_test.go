package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"parking/infras/otel/mocks"
	"parking/shared/dto"
	"parking/shared/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type spotRow struct {
	ID       string `db:"id"`
	AreaID   string `db:"area_id"`
	Label    string `db:"label"`
	AreaName string `db:"area_name" table:"parking_areas" column:"name"`
	model.Metadata
}

func (spotRow) GetJoinQuery() string {
	return "JOIN parking_areas ON parking_areas.id = parking_spots.area_id"
}

func newSpotRepo() Repository[spotRow] {
	return NewRepository[spotRow]("spot", "parking_spots", "id", nil, mocks.NewOtel())
}

func TestNewRepository_Columns(t *testing.T) {
	repo := newSpotRepo()

	assert.Equal(t, []string{"id", "area_id", "label", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.Equal(t, "JOIN parking_areas ON parking_areas.id = parking_spots.area_id", repo.join)

	selectQuery := repo.getSelectQuery(context.Background())
	assert.Contains(t, selectQuery, "parking_spots.id")
	assert.Contains(t, selectQuery, "parking_areas.name AS area_name")
	assert.Contains(t, selectQuery, "parking_spots.created_at")

	onlyLabel := repo.getSelectQuery(context.Background(), "label")
	assert.Equal(t, "parking_spots.label", onlyLabel)
}

func TestRepository_LockClause(t *testing.T) {
	repo := newSpotRepo()

	assert.Empty(t, repo.lockClause(false))
	assert.Equal(t, "FOR UPDATE OF parking_spots", repo.lockClause(true))
}

func TestSortable(t *testing.T) {
	tests := []struct {
		name   string
		params dto.QueryParams
		want   bool
	}{
		{name: "plain column", params: dto.QueryParams{SortBy: "sequence", SortDir: "ASC"}, want: true},
		{name: "qualified column", params: dto.QueryParams{SortBy: "parking_spots.sequence", SortDir: "desc"}, want: true},
		{name: "missing direction", params: dto.QueryParams{SortBy: "sequence"}, want: false},
		{name: "bad direction", params: dto.QueryParams{SortBy: "sequence", SortDir: "sideways"}, want: false},
		{name: "injection attempt", params: dto.QueryParams{SortBy: "id; DROP TABLE bookings", SortDir: "ASC"}, want: false},
		{name: "empty", params: dto.QueryParams{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortable(tt.params))
		})
	}
}

func TestRepository_BuildWhereClause(t *testing.T) {
	repo := newSpotRepo()

	where, args := repo.BuildWhereClause(context.Background(), dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(context.Background(), dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "area_id", Value: "a-1", Operator: dto.FilterOperatorEq, Table: "parking_spots"},
			dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq, Table: "parking_spots"},
		},
	})

	assert.Equal(t, " WHERE (parking_spots.area_id = :area_id AND parking_spots.status = :status) ", where)
	assert.Equal(t, map[string]any{"area_id": "a-1", "status": "available"}, args)
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		ok         bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{
			name:       "unique violation",
			err:        &pq.Error{Code: "23505", Constraint: "cars_license_plate_key"},
			constraint: "cars_license_plate_key",
			ok:         true,
		},
		{
			name:       "wrapped unique violation",
			err:        fmt.Errorf("failed to insert data (car): %w", &pq.Error{Code: "23505", Constraint: "cars_license_plate_key"}),
			constraint: "cars_license_plate_key",
			ok:         true,
		},
		{name: "fk violation", err: &pq.Error{Code: "23503", Constraint: "bookings_car_id_fkey"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := UniqueViolation(tt.err)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.constraint, constraint)
		})
	}
}
