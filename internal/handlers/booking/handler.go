package booking

import (
	"context"
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/service"
	spotModel "parking/internal/domains/spot/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/identity"
	"parking/shared/validator"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	requestParamAreaID = "area_id"
	requestParamCarID  = "car_id"
)

type transitionFunc func(ctx context.Context, actor identity.Actor, id string) (dto.BookingResponse, error)

// Expirer rejects pending bookings that outlived the configured expiry.
type Expirer interface {
	ExpirePending(ctx context.Context) (int, error)
}

type Handler struct {
	service service.Booking
	expirer Expirer
	otel    otel.Otel
}

func New(service service.Booking, expirer Expirer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		expirer: expirer,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RequestBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Post("/walk-in", handler.CreateWalkIn)
		routerGroup.Post("/expire", handler.ExpirePending)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/approve", handler.ApproveBooking)
		routerGroup.Post("/{id}/reject", handler.RejectBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/release", handler.ReleaseBooking)
	})
}

// RequestBooking requests a spot in an area for one of the user's cars.
// @Summary Request a parking spot
// @Description Reserves the first available spot of the area and creates a pending booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking requested"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) RequestBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestBooking")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Request(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to request booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking requested successfully")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// CreateWalkIn registers an offline customer directly into an occupied spot.
// @Summary Create a walk-in booking
// @Description Unknown plates are registered under the offline account.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.WalkInRequest true "Walk-in Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Walk-in booking created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/walk-in [post]
// @Security BearerAuth
func (handler *Handler) CreateWalkIn(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWalkIn")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	req := dto.WalkInRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.CreateWalkIn(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create walk-in booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Walk-in booking created successfully")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// ExpirePending rejects pending bookings older than the configured expiry.
// @Summary Expire stale pending bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[dto.ExpireResponse] "Number of expired bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/expire [post]
// @Security BearerAuth
func (handler *Handler) ExpirePending(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExpirePending")
	defer scope.End()

	expired, err := handler.expirer.ExpirePending(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to expire pending bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.ExpireResponse{Expired: expired})
}

// GetBookings lists every booking.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, active, completed, rejected)"
// @Param area_id query string false "Filter by parking area"
// @Param car_id query string false "Filter by car"
// @Param user_id query string false "Filter by user"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := filtersFromQuery(r)

	if userID := r.URL.Query().Get(model.FieldUserID); userID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, actor, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the bookings of the current user.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, active, completed, rejected)"
// @Param area_id query string false "Filter by parking area"
// @Param car_id query string false "Filter by car"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of user's bookings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Msg("failed to get user ID from context")

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := filtersFromQuery(r)
	filterGroup.Filters = append(filterGroup.Filters, shared.FilterByID(actor.ID, model.FieldUserID, model.TableName))

	bookings, err := handler.service.GetAll(ctx, actor, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User bookings retrieved successfully for user " + actor.ID)

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Users can only read their own bookings.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ApproveBooking moves a pending booking to active and occupies its spot.
// @Summary Approve a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Approved booking"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ApproveBooking", handler.service.Approve)
}

// RejectBooking rejects a pending booking and frees its spot.
// @Summary Reject a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Rejected booking"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "RejectBooking", handler.service.Reject)
}

// CancelBooking withdraws a pending request and frees its spot.
// @Summary Cancel a booking request
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Cancelled booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CancelBooking", handler.service.Cancel)
}

// ReleaseBooking ends an active session, bills it and frees the spot.
// @Summary Release a spot
// @Description Cost is the number of started hours times the area's hourly price, at least one hour.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Completed booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/release [post]
// @Security BearerAuth
func (handler *Handler) ReleaseBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ReleaseBooking", handler.service.Release)
}

func (handler *Handler) transition(w http.ResponseWriter, r *http.Request, name string, fn transitionFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booking, err := fn(ctx, actor, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msgf("failed to %s", name)

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking moved to " + booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

func filtersFromQuery(r *http.Request) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if areaID := r.URL.Query().Get(requestParamAreaID); areaID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    spotModel.FieldAreaID,
			Operator: gDto.FilterOperatorEq,
			Value:    areaID,
			Table:    spotModel.TableName,
		})
	}

	if carID := r.URL.Query().Get(requestParamCarID); carID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCarID,
			Operator: gDto.FilterOperatorEq,
			Value:    carID,
			Table:    model.TableName,
		})
	}

	return filterGroup
}
