package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/area/model"
	gDto "parking/shared/dto"
	gRepo "parking/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Area interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Area) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Area, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock bool, columns ...string) (model.Area, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Area, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Area]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Area {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Area](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}
