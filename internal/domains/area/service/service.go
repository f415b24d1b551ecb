package service

import (
	"context"
	"errors"
	"fmt"

	"parking/config"
	"parking/infras/otel"
	"parking/infras/postgres"
	"parking/internal/domains/area/model"
	"parking/internal/domains/area/model/dto"
	"parking/internal/domains/area/repository"
	bookingModel "parking/internal/domains/booking/model"
	bookingRepo "parking/internal/domains/booking/repository"
	spotModel "parking/internal/domains/spot/model"
	spotDto "parking/internal/domains/spot/model/dto"
	spotRepo "parking/internal/domains/spot/repository"
	"parking/shared"
	"parking/shared/cache"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	gModel "parking/shared/model"
	gRepo "parking/shared/repository"
	"parking/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetArea    = constant.CachePrefixArea + ":get"
	cacheGetAllArea = constant.CachePrefixArea + ":gets"
	cacheCountArea  = constant.CachePrefixArea + ":count"
	cacheAreaSpots  = constant.CachePrefixArea + ":spots"

	constraintAreaName = "parking_areas_name_key"
	constraintAreaCode = "parking_areas_code_key"
)

type Area interface {
	Create(ctx context.Context, req dto.CreateAreaRequest) (dto.AreaResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAreasResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.AreaResponse, error)
	Update(ctx context.Context, req dto.UpdateAreaRequest, id string) error
	Delete(ctx context.Context, id string) error
	Spots(ctx context.Context, id string) (dto.AreaSpotsResponse, error)
	SearchSpot(ctx context.Context, label string) (dto.SpotSearchResponse, error)
}

type serviceImpl struct {
	repo        repository.Area
	spotRepo    spotRepo.Spot
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	clock       timezone.Clock
}

func New(
	repo repository.Area,
	spotRepo spotRepo.Spot,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock timezone.Clock,
) Area {
	return &serviceImpl{
		repo:        repo,
		spotRepo:    spotRepo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		clock:       clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAreaRequest) (res dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	meta := gModel.NewMetadata(s.clock(), user)

	area := req.ToModel(meta)
	if err = area.Validate(s.cfg.Booking.MaxSpotsPerArea); err != nil {
		return res, err
	}

	exists, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorEq, Value: area.Name, Table: model.TableName},
			gDto.Filter{Field: model.FieldCode, Operator: gDto.FilterOperatorEq, Value: area.Code, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorOr,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check area uniqueness")

		return res, fmt.Errorf("failed to check area uniqueness: %w", err)
	}

	if exists {
		return res, failure.Conflict("area name or code already in use") // nolint:wrapcheck
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, area); err != nil {
			return err //nolint:wrapcheck
		}

		return s.spotRepo.InsertBulkTx(ctx, tx, area.BuildSpots(meta)) //nolint:wrapcheck
	})
	if err != nil {
		if constraint, ok := gRepo.UniqueViolation(err); ok {
			return res, uniqueError(constraint)
		}

		log.Error().Err(err).Msg("failed to create area")

		return res, fmt.Errorf("failed to create area: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllArea)
		shared.InvalidateCaches(c, s.cache, cacheCountArea)
	}()

	res.FromModel(area)
	res.AvailableSpots = area.SpotCount

	return res, nil
}

func uniqueError(constraint string) error {
	switch constraint {
	case constraintAreaName:
		return model.ErrNameTaken
	case constraintAreaCode:
		return model.ErrCodeTaken
	default:
		return failure.Conflict("parking area already exists") // nolint:wrapcheck
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAreasResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllArea, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for areas")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get areas")

		return res, fmt.Errorf("failed to get areas: %w", err)
	}

	ids := make([]string, len(models))
	for i, area := range models {
		ids[i] = area.ID
	}

	available, err := s.spotRepo.CountAvailable(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to count available spots")

		return res, fmt.Errorf("failed to count available spots: %w", err)
	}

	res.FromModels(models, available, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save areas to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountArea, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count areas")

		return res, fmt.Errorf("failed to count areas: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AreaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetArea, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area")

		return res, nil
	}

	area, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get area")

		return res, fmt.Errorf("failed to get area: %w", err)
	}

	if area.ID == constant.Empty {
		return res, failure.NotFound("parking area not found") // nolint:wrapcheck
	}

	available, err := s.spotRepo.CountAvailable(ctx, []string{area.ID})
	if err != nil {
		log.Error().Err(err).Msg("failed to count available spots")

		return res, fmt.Errorf("failed to count available spots: %w", err)
	}

	res.FromModel(area)
	res.AvailableSpots = available[area.ID]

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAreaRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check area existence")

		return fmt.Errorf("failed to get area: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("parking area not found") // nolint:wrapcheck
	}

	if req.PricePerHour != nil && !req.PricePerHour.IsPositive() {
		return model.ErrInvalidPrice
	}

	if req.Name != constant.Empty && req.Name != current.Name {
		taken, err := s.repo.Exist(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorEq, Value: req.Name, Table: model.TableName},
				gDto.Filter{ArgName: "current_id", Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: id, Table: model.TableName},
			},
			Operator: gDto.FilterGroupOperatorAnd,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to check area name")

			return fmt.Errorf("failed to check area name: %w", err)
		}

		if taken {
			return model.ErrNameTaken
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		if constraint, ok := gRepo.UniqueViolation(err); ok {
			return uniqueError(constraint)
		}

		log.Error().Err(err).Msg("failed to update area")

		return fmt.Errorf("failed to update area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		area, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName), true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if area.ID == constant.Empty {
			return failure.NotFound("parking area not found") // nolint:wrapcheck
		}

		spotFilter := shared.FilterByID(id, spotModel.FieldAreaID, spotModel.TableName)

		spots, err := s.spotRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, spotFilter, true)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := model.ValidateDeletion(spots); err != nil {
			return err
		}

		if err := s.spotRepo.DeleteTx(ctx, tx, spotFilter); err != nil {
			return err //nolint:wrapcheck
		}

		return s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return err
		}

		log.Error().Err(err).Msg("failed to delete area")

		return fmt.Errorf("failed to delete area: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Spots(ctx context.Context, id string) (res dto.AreaSpotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.Spots")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheAreaSpots, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for area spots")

		return res, nil
	}

	area, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get area")

		return res, fmt.Errorf("failed to get area: %w", err)
	}

	if area.ID == constant.Empty {
		return res, failure.NotFound("parking area not found") // nolint:wrapcheck
	}

	spots, err := s.spotRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(id, spotModel.FieldAreaID, spotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get spots")

		return res, fmt.Errorf("failed to get spots: %w", err)
	}

	spotModel.SortBySequence(spots)
	occ := model.CountOccupancy(spots)

	res.Area.FromModel(area)
	res.Area.AvailableSpots = occ.Available
	res.Spots = spotDto.FromModels(spots)
	res.Available = occ.Available
	res.Reserved = occ.Reserved
	res.Occupied = occ.Occupied

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save area spots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) SearchSpot(ctx context.Context, label string) (res dto.SpotSearchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".area.SearchSpot")
	defer scope.End()
	defer scope.TraceIfError(err)

	code, sequence, ok := spotModel.ParseLabel(model.NormalizeCode(label))
	if !ok {
		return res, failure.BadRequestFromString("invalid spot label") // nolint:wrapcheck
	}

	spot, err := s.spotRepo.GetDetail(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: spotModel.FieldLabel, Operator: gDto.FilterOperatorEq, Value: spotModel.Label(code, sequence), Table: spotModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get spot")

		return res, fmt.Errorf("failed to get spot: %w", err)
	}

	if spot.ID == constant.Empty {
		return res, failure.NotFound("parking spot not found") // nolint:wrapcheck
	}

	res.SpotResponse.FromModel(spot.Spot)
	res.AreaName = spot.AreaName
	res.AreaCode = spot.AreaCode

	if spot.IsAvailable() {
		return res, nil
	}

	booking, err := s.bookingRepo.GetDetail(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldSpotID, Operator: gDto.FilterOperatorEq, Value: spot.ID, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: bookingModel.OpenStatuses, Table: bookingModel.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get open booking of spot")

		return res, fmt.Errorf("failed to get open booking of spot: %w", err)
	}

	if booking.ID != constant.Empty {
		res.Booking = &dto.OpenBooking{
			ID:           booking.ID,
			Status:       booking.Status,
			LicensePlate: booking.LicensePlate,
			UserEmail:    booking.UserEmail,
			RequestedAt:  timezone.Format(booking.RequestedAt, constant.DateFormat),
		}
	}

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetArea, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete area cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheAreaSpots, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete area spots cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllArea)
		shared.InvalidateCaches(c, s.cache, cacheCountArea)
	}()
}
