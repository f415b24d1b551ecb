package service

import (
	"context"
	"errors"
	"fmt"

	"parking/infras/otel"
	"parking/infras/postgres"
	bookingModel "parking/internal/domains/booking/model"
	bookingRepo "parking/internal/domains/booking/repository"
	"parking/internal/domains/car/model"
	"parking/internal/domains/car/model/dto"
	"parking/internal/domains/car/repository"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/identity"
	gModel "parking/shared/model"
	gRepo "parking/shared/repository"
	"parking/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Car interface {
	Register(ctx context.Context, req dto.CreateCarRequest) (dto.CarResponse, error)
	Mine(ctx context.Context, params gDto.QueryParams) (dto.GetCarsResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCarsResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Car
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	otel        otel.Otel
	clock       timezone.Clock
}

func New(repo repository.Car, bookingRepo bookingRepo.Booking, transactor postgres.Transactor, otel otel.Otel, clock timezone.Clock) Car {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		otel:        otel,
		clock:       clock,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.CreateCarRequest) (res dto.CarResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".car.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	car := req.ToModel(actor.ID, gModel.NewMetadata(s.clock(), actor.ID))

	exists, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldLicensePlate, Operator: gDto.FilterOperatorEq, Value: car.LicensePlate, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check license plate")

		return res, fmt.Errorf("failed to check license plate: %w", err)
	}

	if exists {
		return res, model.ErrPlateTaken
	}

	if err = s.repo.Insert(ctx, car); err != nil {
		if _, ok := gRepo.UniqueViolation(err); ok {
			return res, model.ErrPlateTaken
		}

		log.Error().Err(err).Msg("failed to register car")

		return res, fmt.Errorf("failed to register car: %w", err)
	}

	res.FromModel(car)

	return res, nil
}

func (s *serviceImpl) Mine(ctx context.Context, params gDto.QueryParams) (res dto.GetCarsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".car.Mine")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.GetAll(ctx, params, shared.FilterByID(actor.ID, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCarsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".car.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.CountDetails(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count cars")

		return res, fmt.Errorf("failed to count cars: %w", err)
	}

	cars, err := s.repo.GetDetails(ctx, params.Qualified(model.TableName), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get cars")

		return res, fmt.Errorf("failed to get cars: %w", err)
	}

	res.FromModels(cars, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".car.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		car, err := s.repo.GetTx(ctx, tx, filter, true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if car.ID == constant.Empty {
			return failure.NotFound("car not found") // nolint:wrapcheck
		}

		if !actor.Owns(car.UserID) {
			return model.ErrNotCarOwner
		}

		open, err := s.bookingRepo.ExistTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: bookingModel.FieldCarID, Operator: gDto.FilterOperatorEq, Value: car.ID, Table: bookingModel.TableName},
				gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: bookingModel.OpenStatuses, Table: bookingModel.TableName},
			},
			Operator: gDto.FilterGroupOperatorAnd,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := model.ValidateDeletion(open); err != nil {
			return err
		}

		return s.repo.DeleteTx(ctx, tx, filter) //nolint:wrapcheck
	})
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return err
		}

		log.Error().Err(err).Msg("failed to delete car")

		return fmt.Errorf("failed to delete car: %w", err)
	}

	return nil
}
