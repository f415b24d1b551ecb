package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/car/model"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	gRepo "parking/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Car interface {
	Insert(ctx context.Context, model model.Car) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Car) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Car, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock bool, columns ...string) (model.Car, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.CarDetail, error)
	CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Car]
	detail gRepo.Repository[model.CarDetail]
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Car {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Car](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.CarDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.CarDetail, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".car.GetDetails")
	defer scope.End()

	return r.detail.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".car.CountDetails")
	defer scope.End()

	return r.detail.Count(ctx, filter)
}
