package handler

import (
	"errors"
	"net/http"

	"servicelink/internal/middleware"
	"servicelink/internal/model"
	"servicelink/internal/service"
	"servicelink/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleRequestHandler struct {
	vehicleService service.VehicleRequestService
}

func NewVehicleRequestHandler(vehicleService service.VehicleRequestService) *VehicleRequestHandler {
	return &VehicleRequestHandler{vehicleService: vehicleService}
}

func (h *VehicleRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	vehicles := router.Group("/api/vehicle_request")
	vehicles.Use(middleware.RequireAuth())
	{
		vehicles.GET("", h.List)
		vehicles.GET("/:reference", h.GetByReference)
		vehicles.POST("", h.Create)
		vehicles.PUT("/:reference", h.Update)
		vehicles.PUT("/:reference/status", h.UpdateStatus)
		vehicles.PUT("/:reference/approvers", middleware.RequireRole(model.RoleAdmin, model.RoleApprover), h.ApproverDecision)
		vehicles.DELETE("/:reference", middleware.RequireRole(model.RoleAdmin), h.Archive)
	}
}

// Create submits a new vehicle trip request
// @Summary      Create vehicle request
// @Description  Books a vehicle for a trip; time range and passenger count are validated
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVehicleRequestDTO  true  "Vehicle Request Payload"
// @Success      201      {object}  response.Response{data=model.VehicleRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicle_request [post]
func (h *VehicleRequestHandler) Create(c *gin.Context) {
	var req service.CreateVehicleRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, warning, err := h.vehicleService.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if warning != "" {
		c.JSON(http.StatusCreated, response.SuccessWithWarning(http.StatusCreated, request, warning))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List returns vehicle requests visible to the caller
// @Summary      List vehicle requests
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status            query     string  false  "Filter by status"
// @Param        include_archived  query     bool    false  "Include archived requests"
// @Param        page              query     int     false  "Page number (default 1)"
// @Param        limit             query     int     false  "Items per page (default 20)"
// @Success      200               {object}  response.Response{data=[]model.VehicleRequest}
// @Failure      500               {object}  response.Response
// @Router       /api/vehicle_request [get]
func (h *VehicleRequestHandler) List(c *gin.Context) {
	filter := requestFilter(c)

	requests, total, err := h.vehicleService.List(c.Request.Context(), filter, middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, filter.Page, filter.Limit, total))
}

// GetByReference returns one vehicle request by reference number
// @Summary      Get vehicle request
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response{data=model.VehicleRequest}
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/vehicle_request/{reference} [get]
func (h *VehicleRequestHandler) GetByReference(c *gin.Context) {
	request, err := h.vehicleService.GetByReference(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
			return
		}
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Update edits an unarchived vehicle request
// @Summary      Update vehicle request
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                           true  "Reference number"
// @Param        payload    body      service.UpdateVehicleRequestDTO  true  "Update Payload"
// @Success      200        {object}  response.Response{data=model.VehicleRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/vehicle_request/{reference} [put]
func (h *VehicleRequestHandler) Update(c *gin.Context) {
	var req service.UpdateVehicleRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, warning, err := h.vehicleService.Update(c.Request.Context(), c.Param("reference"), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if warning != "" {
		c.JSON(http.StatusOK, response.SuccessWithWarning(http.StatusOK, request, warning))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// UpdateStatus moves a vehicle request along its lifecycle
// @Summary      Update vehicle request status
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                   true  "Reference number"
// @Param        payload    body      handler.StatusUpdateDTO  true  "New status"
// @Success      200        {object}  response.Response{data=model.VehicleRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/vehicle_request/{reference}/status [put]
func (h *VehicleRequestHandler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.vehicleService.UpdateStatus(c.Request.Context(), c.Param("reference"), req.Status, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproverDecision records the caller's approve/reject decision
// @Summary      Record approver decision
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference number"
// @Param        payload    body      service.ApproverDecisionDTO  true  "Decision"
// @Success      200        {object}  response.Response{data=model.VehicleRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/vehicle_request/{reference}/approvers [put]
func (h *VehicleRequestHandler) ApproverDecision(c *gin.Context) {
	var req service.ApproverDecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.vehicleService.ApproverDecision(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Archive soft-archives a vehicle request
// @Summary      Archive vehicle request
// @Tags         vehicle-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /api/vehicle_request/{reference} [delete]
func (h *VehicleRequestHandler) Archive(c *gin.Context) {
	if err := h.vehicleService.Archive(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request archived"))
}
