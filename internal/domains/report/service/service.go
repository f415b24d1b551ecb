package service

import (
	"context"
	"fmt"
	"strings"

	"parking/config"
	"parking/infras/otel"
	"parking/infras/s3"
	bookingModel "parking/internal/domains/booking/model"
	bookingRepo "parking/internal/domains/booking/repository"
	"parking/internal/domains/report/model"
	"parking/internal/domains/report/model/dto"
	"parking/internal/domains/report/repository"
	"parking/shared"
	"parking/shared/cache"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/identity"
	"parking/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	recentLimit = 5
	spendLimit  = 10
	statsLimit  = 10

	exportContentType = "text/csv"
	exportTimeLayout  = "20060102T150405Z"
)

var (
	cacheSummary   = shared.BuildCacheKey(constant.CachePrefixReport, "summary")
	cacheOccupancy = shared.BuildCacheKey(constant.CachePrefixReport, "occupancy")
	cacheRevenue   = shared.BuildCacheKey(constant.CachePrefixReport, "revenue")
	cacheUser      = shared.BuildCacheKey(constant.CachePrefixReport, "user")
	cacheSpend     = shared.BuildCacheKey(constant.CachePrefixReport, "spend")
)

type Report interface {
	Summary(ctx context.Context) (dto.SummaryResponse, error)
	Occupancy(ctx context.Context) (dto.OccupancyResponse, error)
	Revenue(ctx context.Context) (dto.RevenueResponse, error)
	UserSummary(ctx context.Context, userID string) (dto.UserSummaryResponse, error)
	MySummary(ctx context.Context, actor identity.Actor) (dto.UserSummaryResponse, error)
	MySpend(ctx context.Context, actor identity.Actor) (dto.SpendResponse, error)
	ExportHistory(ctx context.Context) (dto.ExportResponse, error)
	DeleteExport(ctx context.Context, req dto.DeleteExportRequest) error
}

type serviceImpl struct {
	repo        repository.Report
	bookingRepo bookingRepo.Booking
	storage     s3.S3
	cache       cache.RedisCache
	cfg         *config.Config
	otel        otel.Otel
	clock       timezone.Clock
}

func New(
	repo repository.Report,
	bookingRepo bookingRepo.Booking,
	storage s3.S3,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
	clock timezone.Clock,
) Report {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		storage:     storage,
		cache:       cache,
		cfg:         cfg,
		otel:        otel,
		clock:       clock,
	}
}

// cached serves key from redis or computes it with load and stores the result
// in the background.
func cached[T any](ctx context.Context, s *serviceImpl, key string, load func() (T, error)) (T, error) {
	var res T

	if err := s.cache.Get(ctx, key, &res); err == nil {
		log.Info().Str("cacheKey", key).Msg("cache hit for report")

		return res, nil
	}

	res, err := load()
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save report to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	return cached(ctx, s, cacheSummary, func() (dto.SummaryResponse, error) {
		var res dto.SummaryResponse

		areas, err := s.repo.CountAreas(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to count areas")

			return res, fmt.Errorf("failed to count areas: %w", err)
		}

		spots, err := s.repo.SpotStatusCounts(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to count spots")

			return res, fmt.Errorf("failed to count spots: %w", err)
		}

		bookings, err := s.repo.BookingStatusCounts(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to count bookings")

			return res, fmt.Errorf("failed to count bookings: %w", err)
		}

		revenue, err := s.repo.Revenue(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to sum revenue")

			return res, fmt.Errorf("failed to sum revenue: %w", err)
		}

		res.FromCounts(areas, spots, bookings, revenue)

		return res, nil
	})
}

func (s *serviceImpl) Occupancy(ctx context.Context) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Occupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	return cached(ctx, s, cacheOccupancy, func() (dto.OccupancyResponse, error) {
		var res dto.OccupancyResponse

		rows, err := s.repo.Occupancy(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to get occupancy")

			return res, fmt.Errorf("failed to get occupancy: %w", err)
		}

		res.FromModels(rows)

		return res, nil
	})
}

func (s *serviceImpl) Revenue(ctx context.Context) (res dto.RevenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Revenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	return cached(ctx, s, cacheRevenue, func() (dto.RevenueResponse, error) {
		var res dto.RevenueResponse

		rows, err := s.repo.RevenueByArea(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to get revenue by area")

			return res, fmt.Errorf("failed to get revenue by area: %w", err)
		}

		res.FromModels(rows)

		return res, nil
	})
}

func (s *serviceImpl) UserSummary(ctx context.Context, userID string) (res dto.UserSummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.UserSummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.userSummary(ctx, userID, statsLimit)
}

func (s *serviceImpl) MySummary(ctx context.Context, actor identity.Actor) (res dto.UserSummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.MySummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.userSummary(ctx, actor.ID, recentLimit)
}

func (s *serviceImpl) userSummary(ctx context.Context, userID string, limit int) (dto.UserSummaryResponse, error) {
	key := shared.BuildCacheKey(cacheUser, userID, fmt.Sprint(limit))

	return cached(ctx, s, key, func() (dto.UserSummaryResponse, error) {
		var res dto.UserSummaryResponse

		stats, err := s.stats(ctx, userID)
		if err != nil {
			return res, err
		}

		recent, err := s.bookingRepo.GetDetails(ctx, recentParams(limit, bookingModel.FieldRequestedAt), userBookings(userID))
		if err != nil {
			log.Error().Err(err).Msg("failed to get recent bookings")

			return res, fmt.Errorf("failed to get recent bookings: %w", err)
		}

		res.FromModel(stats, recent)

		return res, nil
	})
}

func (s *serviceImpl) MySpend(ctx context.Context, actor identity.Actor) (res dto.SpendResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.MySpend")
	defer scope.End()
	defer scope.TraceIfError(err)

	key := shared.BuildCacheKey(cacheSpend, actor.ID)

	return cached(ctx, s, key, func() (dto.SpendResponse, error) {
		var res dto.SpendResponse

		stats, err := s.stats(ctx, actor.ID)
		if err != nil {
			return res, err
		}

		filter := userBookings(actor.ID)
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    bookingModel.StatusCompleted,
			Table:    bookingModel.TableName,
		})

		completed, err := s.bookingRepo.GetDetails(ctx, recentParams(spendLimit, bookingModel.FieldReleasedAt), filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get completed bookings")

			return res, fmt.Errorf("failed to get completed bookings: %w", err)
		}

		res.FromModel(stats, completed)

		return res, nil
	})
}

func (s *serviceImpl) stats(ctx context.Context, userID string) (model.UserStats, error) {
	stats, err := s.repo.UserStats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user stats")

		return stats, fmt.Errorf("failed to get user stats: %w", err)
	}

	if stats.UserID == constant.Empty {
		return stats, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return stats, nil
}

// ExportHistory writes every booking to a CSV object and returns its URL.
func (s *serviceImpl) ExportHistory(ctx context.Context) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.ExportHistory")
	defer scope.End()
	defer scope.TraceIfError(err)

	details, err := s.bookingRepo.GetDetails(ctx, recentParams(0, bookingModel.FieldRequestedAt), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking history")

		return res, fmt.Errorf("failed to get booking history: %w", err)
	}

	data, err := model.HistoryCSV(details)
	if err != nil {
		log.Error().Err(err).Msg("failed to render booking history")

		return res, fmt.Errorf("failed to render booking history: %w", err)
	}

	fileName := fmt.Sprintf("booking-history-%s.csv", s.clock().Format(exportTimeLayout))

	url, err := s.storage.UploadFileBytes(ctx, constant.Empty, s.cfg.Booking.ExportDirectory, fileName, exportContentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload booking history")

		return res, fmt.Errorf("failed to upload booking history: %w", err)
	}

	log.Info().Str("url", url).Int("rows", len(details)).Msg("booking history exported")

	return dto.ExportResponse{URL: url, Rows: len(details)}, nil
}

// DeleteExport removes an earlier export. Only objects under the export
// directory can be removed this way.
func (s *serviceImpl) DeleteExport(ctx context.Context, req dto.DeleteExportRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.DeleteExport")
	defer scope.End()
	defer scope.TraceIfError(err)

	objectName := s.storage.GetObjectNameFromURL(constant.Empty, req.URL)
	if objectName == constant.Empty || !strings.HasPrefix(objectName, s.cfg.Booking.ExportDirectory+"/") {
		return failure.BadRequestFromString("url does not point to a history export") // nolint:wrapcheck
	}

	if err = s.storage.DeleteFile(ctx, constant.Empty, constant.Empty, objectName); err != nil {
		log.Error().Err(err).Msg("failed to delete booking history export")

		return fmt.Errorf("failed to delete booking history export: %w", err)
	}

	return nil
}

func recentParams(limit int, sortField string) gDto.QueryParams {
	return gDto.QueryParams{
		Limit:   limit,
		SortBy:  bookingModel.TableName + "." + sortField,
		SortDir: gDto.SortDirDesc,
	}
}

func userBookings(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: bookingModel.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
