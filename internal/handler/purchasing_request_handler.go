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

type PurchasingRequestHandler struct {
	purchasingService service.PurchasingRequestService
}

func NewPurchasingRequestHandler(purchasingService service.PurchasingRequestService) *PurchasingRequestHandler {
	return &PurchasingRequestHandler{purchasingService: purchasingService}
}

func (h *PurchasingRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchasing := router.Group("/api/purchasing_request")
	purchasing.Use(middleware.RequireAuth())
	{
		purchasing.GET("", h.List)
		purchasing.GET("/:reference", h.GetByReference)
		purchasing.POST("", h.Create)
		purchasing.PUT("/:reference", h.Update)
		purchasing.PUT("/:reference/status", h.UpdateStatus)
		purchasing.PUT("/:reference/approvers", middleware.RequireRole(model.RoleAdmin, model.RoleApprover), h.ApproverDecision)
		purchasing.DELETE("/:reference", middleware.RequireRole(model.RoleAdmin), h.Archive)
	}
}

// Create submits a new purchasing request
// @Summary      Create purchasing request
// @Description  Submits a purchasing request; the estimated total is computed from particulars
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchasingRequestDTO  true  "Purchasing Request Payload"
// @Success      201      {object}  response.Response{data=model.PurchasingRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/purchasing_request [post]
func (h *PurchasingRequestHandler) Create(c *gin.Context) {
	var req service.CreatePurchasingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.purchasingService.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List returns purchasing requests visible to the caller
// @Summary      List purchasing requests
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status            query     string  false  "Filter by status"
// @Param        include_archived  query     bool    false  "Include archived requests"
// @Param        page              query     int     false  "Page number (default 1)"
// @Param        limit             query     int     false  "Items per page (default 20)"
// @Success      200               {object}  response.Response{data=[]model.PurchasingRequest}
// @Failure      500               {object}  response.Response
// @Router       /api/purchasing_request [get]
func (h *PurchasingRequestHandler) List(c *gin.Context) {
	filter := requestFilter(c)

	requests, total, err := h.purchasingService.List(c.Request.Context(), filter, middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, requests, filter.Page, filter.Limit, total))
}

// GetByReference returns one purchasing request by reference number
// @Summary      Get purchasing request
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response{data=model.PurchasingRequest}
// @Failure      403        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/purchasing_request/{reference} [get]
func (h *PurchasingRequestHandler) GetByReference(c *gin.Context) {
	request, err := h.purchasingService.GetByReference(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), middleware.CurrentUserRole(c))
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

// Update edits an unarchived purchasing request; particulars changes retrigger totaling
// @Summary      Update purchasing request
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                              true  "Reference number"
// @Param        payload    body      service.UpdatePurchasingRequestDTO  true  "Update Payload"
// @Success      200        {object}  response.Response{data=model.PurchasingRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/purchasing_request/{reference} [put]
func (h *PurchasingRequestHandler) Update(c *gin.Context) {
	var req service.UpdatePurchasingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.purchasingService.Update(c.Request.Context(), c.Param("reference"), req, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// UpdateStatus moves a purchasing request along its lifecycle
// @Summary      Update purchasing request status
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                   true  "Reference number"
// @Param        payload    body      handler.StatusUpdateDTO  true  "New status"
// @Success      200        {object}  response.Response{data=model.PurchasingRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/purchasing_request/{reference}/status [put]
func (h *PurchasingRequestHandler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.purchasingService.UpdateStatus(c.Request.Context(), c.Param("reference"), req.Status, middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproverDecision records the caller's approve/reject decision
// @Summary      Record approver decision
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reference  path      string                       true  "Reference number"
// @Param        payload    body      service.ApproverDecisionDTO  true  "Decision"
// @Success      200        {object}  response.Response{data=model.PurchasingRequest}
// @Failure      400        {object}  response.Response
// @Router       /api/purchasing_request/{reference}/approvers [put]
func (h *PurchasingRequestHandler) ApproverDecision(c *gin.Context) {
	var req service.ApproverDecisionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.purchasingService.ApproverDecision(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Archive soft-archives a purchasing request
// @Summary      Archive purchasing request
// @Tags         purchasing-requests
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true  "Reference number"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Router       /api/purchasing_request/{reference} [delete]
func (h *PurchasingRequestHandler) Archive(c *gin.Context) {
	if err := h.purchasingService.Archive(c.Request.Context(), c.Param("reference"), middleware.CurrentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Request archived"))
}
