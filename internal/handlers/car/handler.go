package car

import (
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/car/model"
	"parking/internal/domains/car/model/dto"
	"parking/internal/domains/car/service"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/validator"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Car
	otel    otel.Otel
}

func New(service service.Car, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cars", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RegisterCar)
		routerGroup.Get("/", handler.GetCars)
		routerGroup.Get("/mycars", handler.GetMyCars)
		routerGroup.Delete("/{id}", handler.DeleteCar)
	})
}

// RegisterCar registers a car for the current user.
// @Summary Register a car
// @Description License plates are normalized and must be unique.
// @Tags Car
// @Accept json
// @Produce json
// @Param request body dto.CreateCarRequest true "Create Car Request"
// @Success 201 {object} response.Data[dto.CarResponse] "Car registered"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cars [post]
// @Security BearerAuth
func (handler *Handler) RegisterCar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterCar")
	defer scope.End()

	req := dto.CreateCarRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	car, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register car")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Car registered successfully")

	response.WithJSON(writer, http.StatusCreated, car)
}

// GetCars lists every registered car.
// @Summary Get all cars
// @Tags Car
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param license_plate query string false "Filter by license plate"
// @Param user_id query string false "Filter by owner"
// @Success 200 {object} response.Data[dto.GetCarsResponse] "List of cars"
// @Failure 500 {object} response.Error
// @Router /v1/cars [get]
// @Security BearerAuth
func (handler *Handler) GetCars(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCars")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if plate := r.URL.Query().Get(model.FieldLicensePlate); plate != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldLicensePlate,
			Operator: gDto.FilterOperatorLike,
			Value:    plate,
			Table:    model.TableName,
		})
	}

	if userID := r.URL.Query().Get(model.FieldUserID); userID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		})
	}

	cars, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get cars")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, cars)
}

// GetMyCars lists the cars of the current user.
// @Summary Get my cars
// @Tags Car
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetCarsResponse] "List of the user's cars"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cars/mycars [get]
// @Security BearerAuth
func (handler *Handler) GetMyCars(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyCars")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	cars, err := handler.service.Mine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user cars")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, cars)
}

// DeleteCar removes one of the current user's cars.
// @Summary Delete a car
// @Description Fails while the car has a pending or active booking.
// @Tags Car
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} response.Message "Car deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cars/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCar")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete car")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Car deleted successfully")

	response.WithMessage(w, http.StatusOK, "Car deleted successfully")
}
