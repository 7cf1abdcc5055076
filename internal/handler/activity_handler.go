package handler

import (
	"net/http"

	"servicelink/internal/middleware"
	"servicelink/internal/service"
	"servicelink/pkg/pagination"
	"servicelink/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activity := router.Group("/api/request_activity")
	activity.Use(middleware.RequireAuth())
	{
		activity.GET("/:reference", h.ListByReference)
		activity.POST("", h.CreateComment)
	}
}

// ListByReference returns a request's activity feed
// @Summary      List request activity
// @Description  Paginated activity feed for a request, oldest first. Internal entries are hidden from requesters.
// @Tags         activity
// @Security     BearerAuth
// @Produce      json
// @Param        reference  path      string  true   "Reference number"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=[]service.ActivityResponse}
// @Failure      500        {object}  response.Response
// @Router       /api/request_activity/{reference} [get]
func (h *ActivityHandler) ListByReference(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.activityService.ListByReference(c.Request.Context(), c.Param("reference"), middleware.CurrentUserRole(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, params.Page, params.Limit, total))
}

// CreateComment posts a comment on a request's activity feed
// @Summary      Post activity comment
// @Tags         activity
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateActivityDTO  true  "Comment Payload"
// @Success      201      {object}  response.Response{data=service.ActivityResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/request_activity [post]
func (h *ActivityHandler) CreateComment(c *gin.Context) {
	var req service.CreateActivityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.activityService.CreateComment(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}
