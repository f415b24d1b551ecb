package area

import (
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/area/model"
	"parking/internal/domains/area/model/dto"
	"parking/internal/domains/area/service"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/validator"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const requestParamLabel = "label"

type Handler struct {
	service service.Area
	otel    otel.Otel
}

func New(service service.Area, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/areas", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateArea)
		routerGroup.Get("/", handler.GetAreas)
		routerGroup.Get("/spots/{label}", handler.SearchSpot)
		routerGroup.Get("/{id}", handler.GetAreaByID)
		routerGroup.Patch("/{id}", handler.UpdateArea)
		routerGroup.Delete("/{id}", handler.DeleteArea)
		routerGroup.Get("/{id}/spots", handler.GetAreaSpots)
	})
}

// CreateArea handles the creation of a parking area and its spots.
// @Summary Create a parking area
// @Description Create a parking area together with its numbered spots.
// @Tags Area
// @Accept json
// @Produce json
// @Param request body dto.CreateAreaRequest true "Create Area Request"
// @Success 201 {object} response.Data[dto.AreaResponse] "Area created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas [post]
// @Security BearerAuth
func (handler *Handler) CreateArea(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateArea")
	defer scope.End()

	req := dto.CreateAreaRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	area, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create area")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Area created successfully")

	response.WithJSON(writer, http.StatusCreated, area)
}

// GetAreas lists parking areas with their available spot counts.
// @Summary Get all parking areas
// @Tags Area
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param code query string false "Filter by code"
// @Success 200 {object} response.Data[dto.GetAreasResponse] "List of areas"
// @Failure 500 {object} response.Error
// @Router /v1/areas [get]
// @Security BearerAuth
func (handler *Handler) GetAreas(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreas")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if code := r.URL.Query().Get(model.FieldCode); code != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCode,
			Operator: gDto.FilterOperatorEq,
			Value:    model.NormalizeCode(code),
			Table:    model.TableName,
		})
	}

	areas, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get areas")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, areas)
}

// GetAreaByID retrieves a parking area.
// @Summary Get a parking area by ID
// @Tags Area
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Data[dto.AreaResponse] "Area details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAreaByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreaByID")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	area, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get area by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, area)
}

// UpdateArea updates the mutable fields of a parking area.
// @Summary Update a parking area
// @Description Only name, location description and price can change.
// @Tags Area
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Param request body dto.UpdateAreaRequest true "Update Area Request"
// @Success 200 {object} response.Message "Area updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateArea")
	defer scope.End()

	req := dto.UpdateAreaRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area updated successfully")

	response.WithMessage(w, http.StatusOK, "Area updated successfully")
}

// DeleteArea removes a parking area once all of its spots are free.
// @Summary Delete a parking area
// @Tags Area
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Message "Area deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteArea")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete area")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Area deleted successfully")

	response.WithMessage(w, http.StatusOK, "Area deleted successfully")
}

// GetAreaSpots lists the spots of an area ordered by sequence.
// @Summary Get the spots of a parking area
// @Tags Area
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} response.Data[dto.AreaSpotsResponse] "Spots of the area"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/{id}/spots [get]
// @Security BearerAuth
func (handler *Handler) GetAreaSpots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAreaSpots")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), model.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	spots, err := handler.service.Spots(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get area spots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, spots)
}

// SearchSpot finds a spot by its label along with any open booking on it.
// @Summary Search a spot by label
// @Tags Area
// @Produce json
// @Param label path string true "Spot label, e.g. CEN-12"
// @Success 200 {object} response.Data[dto.SpotSearchResponse] "Spot details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/areas/spots/{label} [get]
// @Security BearerAuth
func (handler *Handler) SearchSpot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchSpot")
	defer scope.End()

	spot, err := handler.service.SearchSpot(ctx, chi.URLParam(r, requestParamLabel))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search spot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, spot)
}
