package report

import (
	"net/http"
	"parking/infras/otel"
	"parking/internal/domains/report/model/dto"
	"parking/internal/domains/report/service"
	userModel "parking/internal/domains/user/model"
	"parking/shared"
	"parking/shared/constant"
	"parking/shared/identity"
	"parking/shared/validator"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Get("/occupancy", handler.GetOccupancy)
		routerGroup.Get("/revenue", handler.GetRevenue)
		routerGroup.Get("/users/{id}", handler.GetUserSummary)
		routerGroup.Post("/history/export", handler.ExportHistory)
		routerGroup.Delete("/history/export", handler.DeleteExport)
		routerGroup.Get("/me", handler.GetMySummary)
		routerGroup.Get("/me/spend", handler.GetMySpend)
	})
}

// GetSummary returns the system-wide dashboard.
// @Summary Get the admin summary
// @Description Area count, spots and bookings by status, and total revenue.
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.SummaryResponse] "Summary"
// @Failure 500 {object} response.Error
// @Router /v1/reports/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, summary)
}

// GetOccupancy returns the occupancy of every area.
// @Summary Get occupancy per area
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.OccupancyResponse] "Occupancy"
// @Failure 500 {object} response.Error
// @Router /v1/reports/occupancy [get]
// @Security BearerAuth
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	occupancy, err := handler.service.Occupancy(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, occupancy)
}

// GetRevenue returns the revenue of completed bookings per area.
// @Summary Get revenue per area
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.RevenueResponse] "Revenue"
// @Failure 500 {object} response.Error
// @Router /v1/reports/revenue [get]
// @Security BearerAuth
func (handler *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRevenue")
	defer scope.End()

	revenue, err := handler.service.Revenue(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get revenue")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, revenue)
}

// GetUserSummary returns the spending and history of one user.
// @Summary Get a user's parking statistics
// @Tags Report
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserSummaryResponse] "User statistics"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserSummary")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID), userModel.EntityName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	summary, err := handler.service.UserSummary(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, summary)
}

// ExportHistory writes the booking history as CSV to object storage.
// @Summary Export the parking history
// @Tags Report
// @Produce json
// @Success 201 {object} response.Data[dto.ExportResponse] "Export location"
// @Failure 500 {object} response.Error
// @Router /v1/reports/history/export [post]
// @Security BearerAuth
func (handler *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportHistory")
	defer scope.End()

	export, err := handler.service.ExportHistory(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export history")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("History exported successfully")

	response.WithJSON(w, http.StatusCreated, export)
}

// DeleteExport removes a previously exported history file.
// @Summary Delete a history export
// @Tags Report
// @Accept json
// @Produce json
// @Param request body dto.DeleteExportRequest true "Export URL"
// @Success 200 {object} response.Message "Export deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/history/export [delete]
// @Security BearerAuth
func (handler *Handler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteExport")
	defer scope.End()

	req := dto.DeleteExportRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteExport(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete export")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Export deleted successfully")
}

// GetMySummary returns the current user's spending and last sessions.
// @Summary Get my parking summary
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.UserSummaryResponse] "Own summary"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/me [get]
// @Security BearerAuth
func (handler *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySummary")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	summary, err := handler.service.MySummary(ctx, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, summary)
}

// GetMySpend returns the current user's last completed sessions.
// @Summary Get my recent spending
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.SpendResponse] "Own spending"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/me/spend [get]
// @Security BearerAuth
func (handler *Handler) GetMySpend(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySpend")
	defer scope.End()

	actor, err := identity.FromContext(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	spend, err := handler.service.MySpend(ctx, actor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own spending")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, spend)
}
