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

type VenueRequestHandler struct {
	venueService service.VenueRequestService
}

func NewVenueRequestHandler(venueService service.VenueRequestService) *VenueRequestHandler {
	return &VenueRequestHandler{venueService: venueService}
}

func (h *VenueRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	venues := router.Group("/api/venue_request")
	venues.Use(middleware.RequireAuth())
	{
		venues.GET("", h.List)
		venues.GET("/:reference", h.GetByReference)
		venues.POST("", h.Create)
		venues.PUT("/:reference", h.Update)
		venues.PUT("/:reference/status", h.UpdateStatus)
		venues.PUT("/:reference/approvers", middleware.RequireRole(model.RoleAdmin, model.RoleApprover), h.ApproverDecision)
		venues.DELETE("/:reference", middleware.RequireRole(model.RoleAdmin), h.Archive)
	}
}

// writeVenueError maps venue failures: hard booking conflicts become 409
// with the conflict payload as body data.
func writeVenueError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		body := response.Error(http.StatusConflict, conflict.Result.Message)
		body.Data = conflict.Result
		c.JSON(http.StatusConflict, body)
		return
	}
	writeServiceError(c, err)
}

// Create submits a new venue booking request
// @Summary      Create venue request
// @Description  Books a venue; time range and pax are validated, schedule conflicts with approved bookings return 409
// @Tags         venue-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVenueRequestDTO  true  "Venue Request Payload"
// @Success      201      {object}  response.Response{data=model.VenueRequest}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/venue_request [post]
func (h *VenueRequestHandler) Create(c *gin.Context) {
	var req service.CreateVenueRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, warning, err := h.venueService.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		writeVenueError(c, err)
		return
	}

	if warning != "" {
		c.JSON(http.StatusCreated, response.SuccessWithWarning(http.StatusCreated, request, warning))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List returns venue requests visible to the caller
// @Summary      List venue requests
// @Tags         venue-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status            query     string  false  "Filter by status"
// @Param        include_archived  query     bool    false  "Include archived requests"
// @Param        page              query     int     false  "Page number (default 1)"
// @Param        limit             query     int     false  "Items per page (default 20)"
// @Success      200               {object}  response.Response{data=[]model.VenueRequest}
// @Failure      500               {object}  response.Response
// @Router       /api/venue_request [get]
func (h *VenueRequestHandler) List(c *gin.Context) {
	filter := requestFilter(c)

	requests, total, err := h.venueService.List(c.Request.Context(), filter, middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, filter.Page, filter.Limit, total))
}

// GetByReference returns one venue request by reference number
// @Summary      Get venue request
// @Tags         venue-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response{data=model.VenueRequest}
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/venue_request/{reference} [get]
func (h *VenueRequestHandler) GetByReference(c *gin.Context) {
	request, err := h.venueService.GetByReference(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
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

// Update edits an unarchived venue request; schedule changes re-run the conflict check
// @Summary      Update venue request
// @Tags         venue-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                         true  "Reference number"
// @Param        payload    body      service.UpdateVenueRequestDTO  true  "Update Payload"
// @Success      200        {object}  response.Response{data=model.VenueRequest}
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Router       /api/venue_request/{reference} [put]
func (h *VenueRequestHandler) Update(c *gin.Context) {
	var req service.UpdateVenueRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, warning, err := h.venueService.Update(c.Request.Context(), c.Param("reference"), req, middleware.CurrentUserID(c))
	if err != nil {
		writeVenueError(c, err)
		return
	}

	if warning != "" {
		c.JSON(http.StatusOK, response.SuccessWithWarning(http.StatusOK, request, warning))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// UpdateStatus moves a venue request along its lifecycle
// @Summary      Update venue request status
// @Tags         venue-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                   true  "Reference number"
// @Param        payload    body      handler.StatusUpdateDTO  true  "New status"
// @Success      200        {object}  response.Response{data=model.VenueRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/venue_request/{reference}/status [put]
func (h *VenueRequestHandler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.venueService.UpdateStatus(c.Request.Context(), c.Param("reference"), req.Status, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproverDecision records the caller's approve/reject decision
// @Summary      Record approver decision
// @Tags         venue-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference number"
// @Param        payload    body      service.ApproverDecisionDTO  true  "Decision"
// @Success      200        {object}  response.Response{data=model.VenueRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/venue_request/{reference}/approvers [put]
func (h *VenueRequestHandler) ApproverDecision(c *gin.Context) {
	var req service.ApproverDecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.venueService.ApproverDecision(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Archive soft-archives a venue request
// @Summary      Archive venue request
// @Tags         venue-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /api/venue_request/{reference} [delete]
func (h *VenueRequestHandler) Archive(c *gin.Context) {
	if err := h.venueService.Archive(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request archived"))
}
