package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parking/config"
	"parking/infras/otel"
	"parking/infras/postgres"
	areaModel "parking/internal/domains/area/model"
	areaRepo "parking/internal/domains/area/repository"
	"parking/internal/domains/booking/event"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/policy"
	"parking/internal/domains/booking/repository"
	carModel "parking/internal/domains/car/model"
	carRepo "parking/internal/domains/car/repository"
	spotModel "parking/internal/domains/spot/model"
	spotRepo "parking/internal/domains/spot/repository"
	userModel "parking/internal/domains/user/model"
	userRepo "parking/internal/domains/user/repository"
	"parking/shared"
	"parking/shared/cache"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/identity"
	gModel "parking/shared/model"
	gRepo "parking/shared/repository"
	"parking/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	constraintOpenPerCar  = "bookings_open_car_idx"
	constraintOpenPerSpot = "bookings_open_spot_idx"

	systemActor = "system"

	argScopeUserID = "scope_user_id"
)

// Booking is the booking lifecycle engine. Every mutating operation runs in a
// single transaction and re-checks the caller's role and ownership.
type Booking interface {
	Request(ctx context.Context, actor identity.Actor, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Approve(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	Reject(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	Release(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	CreateWalkIn(ctx context.Context, actor identity.Actor, req dto.WalkInRequest) (dto.BookingResponse, error)
	ExpirePending(ctx context.Context, before time.Time) (int, error)
	Get(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	spotRepo   spotRepo.Spot
	areaRepo   areaRepo.Area
	carRepo    carRepo.Car
	userRepo   userRepo.User
	transactor postgres.Transactor
	events     event.Publisher
	cache      cache.RedisCache
	cfg        *config.Config
	otel       otel.Otel
	clock      timezone.Clock
}

func New(
	repo repository.Booking,
	spotRepo spotRepo.Spot,
	areaRepo areaRepo.Area,
	carRepo carRepo.Car,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	events event.Publisher,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:       repo,
		spotRepo:   spotRepo,
		areaRepo:   areaRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		transactor: transactor,
		events:     events,
		cache:      cache,
		cfg:        cfg,
		otel:       otel,
		clock:      clock,
	}
}

// allocation is everything a new booking touches.
type allocation struct {
	booking model.Booking
	car     carModel.Car
	spot    spotModel.Spot
	area    areaModel.Area
}

func (a allocation) response() dto.BookingResponse {
	var res dto.BookingResponse

	res.FromModel(a.booking)
	res.LicensePlate = a.car.LicensePlate
	res.SpotLabel = a.spot.Label
	res.AreaID = a.area.ID
	res.AreaName = a.area.Name

	return res
}

func (s *serviceImpl) Request(ctx context.Context, actor identity.Actor, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Request")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = policy.RequireUser(actor); err != nil {
		return res, err //nolint:wrapcheck
	}

	var alloc allocation

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		car, err := s.carRepo.GetTx(ctx, tx, shared.FilterByID(req.CarID, carModel.FieldID, carModel.TableName), true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if car.ID == constant.Empty {
			return failure.NotFound("car not found") // nolint:wrapcheck
		}

		if err := policy.AuthorizeOwner(actor, car.UserID); err != nil {
			return err //nolint:wrapcheck
		}

		alloc, err = s.allocate(ctx, tx, car, req.AreaID, model.StatusPending, actor.ID)

		return err
	})
	if err != nil {
		return res, s.mapError(err, "failed to request booking")
	}

	log.Info().Str("booking_id", alloc.booking.ID).Str("spot", alloc.spot.Label).Msg("booking requested")
	s.afterCommit(ctx, event.NewBookingEvent(event.TypeRequested, alloc.booking, alloc.booking.RequestedAt))

	return alloc.response(), nil
}

func (s *serviceImpl) CreateWalkIn(ctx context.Context, actor identity.Actor, req dto.WalkInRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateWalkIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = policy.RequireAdmin(actor); err != nil {
		return res, err //nolint:wrapcheck
	}

	plate := carModel.NormalizePlate(req.LicensePlate)
	if plate == constant.Empty {
		return res, failure.BadRequestFromString("license plate is required") // nolint:wrapcheck
	}

	var alloc allocation

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		car, err := s.carRepo.GetTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: carModel.FieldLicensePlate, Operator: gDto.FilterOperatorEq, Value: plate, Table: carModel.TableName},
			},
		}, true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if car.ID == constant.Empty {
			car, err = s.offlineCar(ctx, tx, plate, actor.ID)
			if err != nil {
				return err
			}
		}

		alloc, err = s.allocate(ctx, tx, car, req.AreaID, model.StatusActive, actor.ID)

		return err
	})
	if err != nil {
		return res, s.mapError(err, "failed to create walk-in booking")
	}

	log.Info().Str("booking_id", alloc.booking.ID).Str("plate", plate).Str("spot", alloc.spot.Label).Msg("walk-in booking created")
	s.afterCommit(ctx, event.NewBookingEvent(event.TypeWalkIn, alloc.booking, alloc.booking.RequestedAt))

	return alloc.response(), nil
}

// offlineCar registers an unknown plate under the reserved offline account.
func (s *serviceImpl) offlineCar(ctx context.Context, tx *sqlx.Tx, plate, createdBy string) (carModel.Car, error) {
	offline, err := s.userRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: userModel.FieldEmail, Operator: gDto.FilterOperatorEq, Value: s.cfg.Booking.OfflineUserEmail, Table: userModel.TableName},
		},
	})
	if err != nil {
		return carModel.Car{}, fmt.Errorf("failed to get offline user: %w", err)
	}

	if offline.ID == constant.Empty {
		return carModel.Car{}, fmt.Errorf("offline user %q is not provisioned", s.cfg.Booking.OfflineUserEmail)
	}

	car := carModel.Car{
		ID:           uuid.NewString(),
		LicensePlate: plate,
		UserID:       offline.ID,
		Metadata:     gModel.NewMetadata(s.clock(), createdBy),
	}

	if err := s.carRepo.InsertTx(ctx, tx, car); err != nil {
		return carModel.Car{}, err //nolint:wrapcheck
	}

	return car, nil
}

// allocate checks the car has no open booking, locks the area, takes its
// first available spot and stores a booking in status for it.
func (s *serviceImpl) allocate(ctx context.Context, tx *sqlx.Tx, car carModel.Car, areaID, status, actorID string) (allocation, error) {
	if !policy.CanCreateWith(status) {
		return allocation{}, model.ErrInvalidStateTransition
	}

	open, err := s.repo.ExistTx(ctx, tx, openFilter(model.FieldCarID, car.ID))
	if err != nil {
		return allocation{}, err //nolint:wrapcheck
	}

	if open {
		return allocation{}, model.ErrDuplicateActiveBooking
	}

	area, err := s.areaRepo.GetTx(ctx, tx, shared.FilterByID(areaID, areaModel.FieldID, areaModel.TableName), true)
	if err != nil {
		return allocation{}, err //nolint:wrapcheck
	}

	if area.ID == constant.Empty {
		return allocation{}, failure.NotFound("parking area not found") // nolint:wrapcheck
	}

	spot, err := s.spotRepo.FirstTx(ctx, tx, gDto.QueryParams{
		SortBy:  spotModel.TableName + "." + spotModel.FieldSequence,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: spotModel.FieldAreaID, Operator: gDto.FilterOperatorEq, Value: area.ID, Table: spotModel.TableName},
			gDto.Filter{Field: spotModel.FieldStatus, Operator: gDto.FilterOperatorEq, Value: spotModel.StatusAvailable, Table: spotModel.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}, true)
	if err != nil {
		return allocation{}, err //nolint:wrapcheck
	}

	if spot.ID == constant.Empty {
		return allocation{}, model.ErrNoAvailableSpot
	}

	now := s.clock()
	booking := model.Booking{
		ID:          uuid.NewString(),
		UserID:      car.UserID,
		CarID:       car.ID,
		SpotID:      spot.ID,
		Status:      status,
		RequestedAt: now,
		Metadata:    gModel.NewMetadata(now, actorID),
	}

	if status == model.StatusActive {
		booking.ApprovedAt = &now
	}

	if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
		return allocation{}, err //nolint:wrapcheck
	}

	spot.Status = policy.SpotStatusFor(status)
	if err := s.setSpotStatus(ctx, tx, spot.ID, spot.Status, now, actorID); err != nil {
		return allocation{}, err
	}

	return allocation{booking: booking, car: car, spot: spot, area: area}, nil
}

func (s *serviceImpl) Approve(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, actor, id, model.StatusActive, event.TypeApproved, requireAdmin)
}

func (s *serviceImpl) Reject(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, actor, id, model.StatusRejected, event.TypeRejected, requireAdmin)
}

func (s *serviceImpl) Cancel(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, actor, id, model.StatusRejected, event.TypeCancelled, authorizeOwner)
}

func (s *serviceImpl) Release(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.transition(ctx, actor, id, model.StatusCompleted, event.TypeReleased, authorizeOwner)
}

type authorizer func(actor identity.Actor, booking model.Booking) error

func requireAdmin(actor identity.Actor, _ model.Booking) error {
	return policy.RequireAdmin(actor)
}

func authorizeOwner(actor identity.Actor, booking model.Booking) error {
	return policy.AuthorizeOwner(actor, booking.UserID)
}

// transition moves one booking to status "to" and its spot along with it.
func (s *serviceImpl) transition(ctx context.Context, actor identity.Actor, id, to, eventType string, authorize authorizer) (res dto.BookingResponse, err error) {
	var (
		booking model.Booking
		spot    spotModel.Spot
		area    areaModel.Area
	)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName), true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if err := authorize(actor, booking); err != nil {
			return err
		}

		if err := policy.Transition(booking.Status, to); err != nil {
			return err //nolint:wrapcheck
		}

		spot, err = s.spotRepo.GetTx(ctx, tx, shared.FilterByID(booking.SpotID, spotModel.FieldID, spotModel.TableName), true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		area, err = s.areaRepo.GetTx(ctx, tx, shared.FilterByID(spot.AreaID, areaModel.FieldID, areaModel.TableName), false)
		if err != nil {
			return err //nolint:wrapcheck
		}

		now := s.clock()
		fields := map[string]any{
			model.FieldStatus:        to,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor.ID,
		}

		switch to {
		case model.StatusActive:
			booking.ApprovedAt = &now
			fields[model.FieldApprovedAt] = now
		case model.StatusCompleted:
			cost := policy.CalculateCost(booking.StartedAt(), now, area.PricePerHour)
			booking.ReleasedAt = &now
			booking.Cost = decimal.NewNullDecimal(cost)
			fields[model.FieldReleasedAt] = now
			fields[model.FieldCost] = cost
		}

		booking.Status = to
		booking.ModifiedAt = now
		booking.ModifiedBy = actor.ID

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		spot.Status = policy.SpotStatusFor(to)

		return s.setSpotStatus(ctx, tx, spot.ID, spot.Status, now, actor.ID)
	})
	if err != nil {
		return res, s.mapError(err, "failed to update booking")
	}

	log.Info().Str("booking_id", booking.ID).Str("status", to).Str("actor", actor.ID).Msg("booking status changed")
	s.afterCommit(ctx, event.NewBookingEvent(eventType, booking, booking.ModifiedAt))

	res.FromModel(booking)
	res.SpotLabel = spot.Label
	res.AreaID = area.ID
	res.AreaName = area.Name

	return res, nil
}

// ExpirePending rejects every pending request made before the cutoff and frees its spot.
func (s *serviceImpl) ExpirePending(ctx context.Context, before time.Time) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpirePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	var bookings []model.Booking

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		bookings, err = s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusPending, Table: model.TableName},
				gDto.Filter{Field: model.FieldRequestedAt, Operator: gDto.FilterOperatorLessEq, Value: before.UTC(), Table: model.TableName},
			},
			Operator: gDto.FilterGroupOperatorAnd,
		}, true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		now := s.clock()

		for i := range bookings {
			if err := policy.Transition(bookings[i].Status, model.StatusRejected); err != nil {
				return err //nolint:wrapcheck
			}

			fields := map[string]any{
				model.FieldStatus:        model.StatusRejected,
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: systemActor,
			}

			if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(bookings[i].ID, model.FieldID, model.TableName)); err != nil {
				return err //nolint:wrapcheck
			}

			if err := s.setSpotStatus(ctx, tx, bookings[i].SpotID, policy.SpotStatusFor(model.StatusRejected), now, systemActor); err != nil {
				return err
			}

			bookings[i].Status = model.StatusRejected
			bookings[i].ModifiedAt = now
			bookings[i].ModifiedBy = systemActor
		}

		return nil
	})
	if err != nil {
		return 0, s.mapError(err, "failed to expire pending bookings")
	}

	if len(bookings) == 0 {
		return 0, nil
	}

	events := make([]event.BookingEvent, len(bookings))
	for i, booking := range bookings {
		events[i] = event.NewBookingEvent(event.TypeExpired, booking, booking.ModifiedAt)
	}

	log.Info().Int("count", len(bookings)).Time("before", before).Msg("expired pending bookings")
	s.afterCommit(ctx, events...)

	return len(bookings), nil
}

func (s *serviceImpl) Get(ctx context.Context, actor identity.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err = policy.AuthorizeOwner(actor, detail.UserID); err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromDetail(detail)

	return res, nil
}

// GetAll lists bookings; non-admin callers only ever see their own.
func (s *serviceImpl) GetAll(ctx context.Context, actor identity.Actor, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !actor.IsAdmin() {
		// bound under its own name: caller filters on user_id must not replace it
		filters := []any{gDto.Filter{
			ArgName:  argScopeUserID,
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    actor.ID,
			Table:    model.TableName,
		}}
		if len(filter.Filters) > 0 {
			filters = append(filters, filter)
		}

		filter = gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
	}

	total, err := s.repo.CountDetails(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	details, err := s.repo.GetDetails(ctx, params.Qualified(model.TableName), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromDetails(details, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) setSpotStatus(ctx context.Context, tx *sqlx.Tx, spotID, status string, now time.Time, actorID string) error {
	fields := map[string]any{
		spotModel.FieldStatus:    status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actorID,
	}

	return s.spotRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(spotID, spotModel.FieldID, spotModel.TableName)) //nolint:wrapcheck
}

// afterCommit publishes events and drops the caches derived from spot and
// booking state. Neither can fail the committed operation.
func (s *serviceImpl) afterCommit(ctx context.Context, events ...event.BookingEvent) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CachePrefixArea)
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixReport)

		s.events.Publish(c, events...)
	}()
}

// mapError passes user-facing failures through and translates the partial
// unique indexes on open bookings.
func (s *serviceImpl) mapError(err error, msg string) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	if constraint, ok := gRepo.UniqueViolation(err); ok {
		switch constraint {
		case constraintOpenPerCar:
			return model.ErrDuplicateActiveBooking
		case constraintOpenPerSpot:
			return model.ErrNoAvailableSpot
		case carModel.ConstraintLicensePlate:
			return carModel.ErrPlateTaken
		}
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func openFilter(field, value string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: model.OpenStatuses, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
