package handler

import (
	"errors"
	"net/http"

	"servicelink/internal/middleware"
	"servicelink/internal/model"
	"servicelink/internal/service"
	"servicelink/pkg/pagination"
	"servicelink/pkg/response"

	"github.com/gin-gonic/gin"
)

type JobRequestHandler struct {
	jobService service.JobRequestService
}

func NewJobRequestHandler(jobService service.JobRequestService) *JobRequestHandler {
	return &JobRequestHandler{jobService: jobService}
}

func (h *JobRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/api/job_request")
	jobs.Use(middleware.RequireAuth())
	{
		jobs.GET("", h.List)
		jobs.GET("/:reference", h.GetByReference)
		jobs.POST("", h.Create)
		jobs.PUT("/:reference", h.Update)
		jobs.PUT("/:reference/status", h.UpdateStatus)
		jobs.PUT("/:reference/approvers", middleware.RequireRole(model.RoleAdmin, model.RoleApprover), h.ApproverDecision)
		jobs.DELETE("/:reference", middleware.RequireRole(model.RoleAdmin), h.Archive)
	}
}

// requestFilter pulls the common listing query params.
func requestFilter(c *gin.Context) service.RequestFilter {
	query := pagination.ParseListQuery(c)
	return service.RequestFilter{
		Status:          query.Status,
		IncludeArchived: query.IncludeArchived,
		Page:            query.Page,
		Limit:           query.Limit,
	}
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrForbidden) {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
}

// Create submits a new job request
// @Summary      Create job request
// @Description  Submits a job request; the job category and approver chain are assigned server-side
// @Tags         job-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateJobRequestDTO  true  "Job Request Payload"
// @Success      201      {object}  response.Response{data=model.JobRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/job_request [post]
func (h *JobRequestHandler) Create(c *gin.Context) {
	var req service.CreateJobRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.jobService.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List returns job requests visible to the caller
// @Summary      List job requests
// @Description  Paginated job requests; archived excluded unless include_archived=true
// @Tags         job-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status            query     string  false  "Filter by status"
// @Param        include_archived  query     bool    false  "Include archived requests"
// @Param        page              query     int     false  "Page number (default 1)"
// @Param        limit             query     int     false  "Items per page (default 20)"
// @Success      200               {object}  response.Response{data=[]model.JobRequest}
// @Failure      500               {object}  response.Response
// @Router       /api/job_request [get]
func (h *JobRequestHandler) List(c *gin.Context) {
	filter := requestFilter(c)

	requests, total, err := h.jobService.List(c.Request.Context(), filter, middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, filter.Page, filter.Limit, total))
}

// GetByReference returns one job request by reference number
// @Summary      Get job request
// @Tags         job-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response{data=model.JobRequest}
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/job_request/{reference} [get]
func (h *JobRequestHandler) GetByReference(c *gin.Context) {
	request, err := h.jobService.GetByReference(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
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

// Update edits an unarchived job request; free text changes re-run the classifier
// @Summary      Update job request
// @Tags         job-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference number"
// @Param        payload    body      service.UpdateJobRequestDTO  true  "Update Payload"
// @Success      200        {object}  response.Response{data=model.JobRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/job_request/{reference} [put]
func (h *JobRequestHandler) Update(c *gin.Context) {
	var req service.UpdateJobRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.jobService.Update(c.Request.Context(), c.Param("reference"), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// UpdateStatus moves a job request along its lifecycle
// @Summary      Update job request status
// @Tags         job-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                   true  "Reference number"
// @Param        payload    body      handler.StatusUpdateDTO  true  "New status"
// @Success      200        {object}  response.Response{data=model.JobRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/job_request/{reference}/status [put]
func (h *JobRequestHandler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.jobService.UpdateStatus(c.Request.Context(), c.Param("reference"), req.Status, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproverDecision records the caller's approve/reject decision
// @Summary      Record approver decision
// @Tags         job-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference number"
// @Param        payload    body      service.ApproverDecisionDTO  true  "Decision"
// @Success      200        {object}  response.Response{data=model.JobRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/job_request/{reference}/approvers [put]
func (h *JobRequestHandler) ApproverDecision(c *gin.Context) {
	var req service.ApproverDecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.jobService.ApproverDecision(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Archive soft-archives a job request
// @Summary      Archive job request
// @Tags         job-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /api/job_request/{reference} [delete]
func (h *JobRequestHandler) Archive(c *gin.Context) {
	if err := h.jobService.Archive(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request archived"))
}

// StatusUpdateDTO is the body of the status-change endpoints.
type StatusUpdateDTO struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected completed closed"`
}
