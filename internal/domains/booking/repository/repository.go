package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/booking/model"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	gRepo "parking/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock bool, columns ...string) (model.Booking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, lock bool, columns ...string) ([]model.Booking, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	detail gRepo.Repository[model.BookingDetail]
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.BookingDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetDetail")
	defer scope.End()

	return r.detail.Get(ctx, filter)
}

func (r *repositoryImpl) GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetDetails")
	defer scope.End()

	return r.detail.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountDetails")
	defer scope.End()

	return r.detail.Count(ctx, filter)
}
