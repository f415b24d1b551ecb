package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/spot/model"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/logger"
	gRepo "parking/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Spot interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Spot) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Spot, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, lock bool, columns ...string) ([]model.Spot, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock bool, columns ...string) (model.Spot, error)
	FirstTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, lock bool, columns ...string) (model.Spot, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.SpotDetail, error)
	CountAvailable(ctx context.Context, areaIDs []string) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Spot]
	detail gRepo.Repository[model.SpotDetail]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Spot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Spot](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.SpotDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.SpotDetail, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".spot.GetDetail")
	defer scope.End()

	return r.detail.Get(ctx, filter)
}

// CountAvailable returns the number of available spots keyed by area id.
func (r *repositoryImpl) CountAvailable(ctx context.Context, areaIDs []string) (map[string]int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".spot.CountAvailable")
	defer scope.End()

	res := make(map[string]int, len(areaIDs))
	if len(areaIDs) == 0 {
		return res, nil
	}

	query, args, err := sqlx.In(
		"SELECT area_id, COUNT(*) AS total FROM parking_spots WHERE status = ? AND area_id IN (?) GROUP BY area_id",
		model.StatusAvailable, areaIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build available spot query: %w", err)
	}

	query = r.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		AreaID string `db:"area_id"`
		Total  int    `db:"total"`
	}{}

	if err = r.db.Read.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count available spots: %w", err)
	}

	for _, row := range rows {
		res[row.AreaID] = row.Total
	}

	return res, nil
}
