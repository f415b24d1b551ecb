package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking/infras/otel"
	"parking/infras/postgres"
	bookingModel "parking/internal/domains/booking/model"
	"parking/internal/domains/report/model"
	spotModel "parking/internal/domains/spot/model"
	"parking/shared/constant"
	"parking/shared/logger"

	"github.com/shopspring/decimal"
)

const (
	queryCountAreas = `SELECT COUNT(*) FROM parking_areas`

	querySpotStatus = `SELECT status, COUNT(*) AS total FROM parking_spots GROUP BY status`

	queryBookingStatus = `SELECT status, COUNT(*) AS total FROM bookings GROUP BY status`

	queryRevenue = `SELECT COALESCE(SUM(cost), 0) FROM bookings WHERE status = ?`

	queryOccupancy = `SELECT parking_areas.id AS area_id, parking_areas.name AS area_name, parking_areas.code AS code,
		COUNT(parking_spots.id) AS total,
		COUNT(parking_spots.id) FILTER (WHERE parking_spots.status = ?) AS available,
		COUNT(parking_spots.id) FILTER (WHERE parking_spots.status = ?) AS reserved,
		COUNT(parking_spots.id) FILTER (WHERE parking_spots.status = ?) AS occupied
		FROM parking_areas
		LEFT JOIN parking_spots ON parking_spots.area_id = parking_areas.id
		GROUP BY parking_areas.id, parking_areas.name, parking_areas.code
		ORDER BY parking_areas.name`

	queryRevenueByArea = `SELECT parking_areas.id AS area_id, parking_areas.name AS area_name,
		COUNT(bookings.id) AS completed,
		COALESCE(SUM(bookings.cost), 0) AS revenue
		FROM parking_areas
		LEFT JOIN parking_spots ON parking_spots.area_id = parking_areas.id
		LEFT JOIN bookings ON bookings.spot_id = parking_spots.id AND bookings.status = ?
		GROUP BY parking_areas.id, parking_areas.name
		ORDER BY revenue DESC, parking_areas.name`

	queryUserStats = `SELECT users.id AS user_id, users.email AS email, users.full_name AS full_name,
		COUNT(bookings.id) AS bookings,
		COUNT(bookings.id) FILTER (WHERE bookings.status = ?) AS completed,
		COALESCE(SUM(bookings.cost) FILTER (WHERE bookings.status = ?), 0) AS total_spent
		FROM users
		LEFT JOIN bookings ON bookings.user_id = users.id
		WHERE users.id = ?
		GROUP BY users.id, users.email, users.full_name`
)

type Report interface {
	CountAreas(ctx context.Context) (int, error)
	SpotStatusCounts(ctx context.Context) ([]model.StatusCount, error)
	BookingStatusCounts(ctx context.Context) ([]model.StatusCount, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	Occupancy(ctx context.Context) ([]model.AreaOccupancy, error)
	RevenueByArea(ctx context.Context) ([]model.AreaRevenue, error)
	UserStats(ctx context.Context, userID string) (model.UserStats, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) get(ctx context.Context, name string, dest any, query string, args ...any) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, model.EntityName, name))
	defer scope.End()

	query = r.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := r.db.Read.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to run %s query: %w", name, err)
	}

	return nil
}

func (r *repositoryImpl) selectAll(ctx context.Context, name string, dest any, query string, args ...any) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, model.EntityName, name))
	defer scope.End()

	query = r.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := r.db.Read.SelectContext(ctx, dest, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to run %s query: %w", name, err)
	}

	return nil
}

func (r *repositoryImpl) CountAreas(ctx context.Context) (int, error) {
	var total int

	err := r.get(ctx, "CountAreas", &total, queryCountAreas)

	return total, err
}

func (r *repositoryImpl) SpotStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	var rows []model.StatusCount

	err := r.selectAll(ctx, "SpotStatusCounts", &rows, querySpotStatus)

	return rows, err
}

func (r *repositoryImpl) BookingStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	var rows []model.StatusCount

	err := r.selectAll(ctx, "BookingStatusCounts", &rows, queryBookingStatus)

	return rows, err
}

// Revenue sums the cost of completed bookings.
func (r *repositoryImpl) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := r.get(ctx, "Revenue", &total, queryRevenue, bookingModel.StatusCompleted)

	return total, err
}

func (r *repositoryImpl) Occupancy(ctx context.Context) ([]model.AreaOccupancy, error) {
	var rows []model.AreaOccupancy

	err := r.selectAll(ctx, "Occupancy", &rows, queryOccupancy,
		spotModel.StatusAvailable, spotModel.StatusReserved, spotModel.StatusOccupied)

	return rows, err
}

func (r *repositoryImpl) RevenueByArea(ctx context.Context) ([]model.AreaRevenue, error) {
	var rows []model.AreaRevenue

	err := r.selectAll(ctx, "RevenueByArea", &rows, queryRevenueByArea, bookingModel.StatusCompleted)

	return rows, err
}

// UserStats returns the zero value when the user does not exist.
func (r *repositoryImpl) UserStats(ctx context.Context, userID string) (model.UserStats, error) {
	var stats model.UserStats

	err := r.get(ctx, "UserStats", &stats, queryUserStats,
		bookingModel.StatusCompleted, bookingModel.StatusCompleted, userID)

	return stats, err
}
