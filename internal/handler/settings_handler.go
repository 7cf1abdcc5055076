package handler

import (
	"net/http"

	"servicelink/internal/middleware"
	"servicelink/internal/model"
	"servicelink/internal/service"
	"servicelink/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings")
	settings.Use(middleware.RequireAuth())

	admin := middleware.RequireRole(model.RoleAdmin)

	departments := settings.Group("/departments")
	{
		departments.GET("", h.ListDepartments)
		departments.POST("", admin, h.CreateDepartment)
		departments.PUT("/:id", admin, h.UpdateDepartment)
		departments.DELETE("/:id", admin, h.DeleteDepartment)
	}

	designations := settings.Group("/designations")
	{
		designations.GET("", h.ListDesignations)
		designations.POST("", admin, h.CreateDesignation)
		designations.PUT("/:id", admin, h.UpdateDesignation)
		designations.DELETE("/:id", admin, h.DeleteDesignation)
	}

	positions := settings.Group("/positions")
	{
		positions.GET("", h.ListPositions)
		positions.POST("", admin, h.CreatePosition)
		positions.PUT("/:id", admin, h.UpdatePosition)
		positions.DELETE("/:id", admin, h.DeletePosition)
	}

	venues := settings.Group("/venues")
	{
		venues.GET("", h.ListVenues)
		venues.POST("", admin, h.CreateVenue)
		venues.PUT("/:id", admin, h.UpdateVenue)
		venues.DELETE("/:id", admin, h.DeleteVenue)
	}

	vehicles := settings.Group("/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.POST("", admin, h.CreateVehicle)
		vehicles.PUT("/:id", admin, h.UpdateVehicle)
		vehicles.DELETE("/:id", admin, h.DeleteVehicle)
	}
}

// --- Departments ---

// ListDepartments returns all departments
// @Summary      List departments
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Department}
// @Router       /api/settings/departments [get]
func (h *SettingsHandler) ListDepartments(c *gin.Context) {
	items, err := h.settingsService.ListDepartments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateDepartment creates a department
// @Summary      Create department
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.NamedSettingDTO  true  "Department Payload"
// @Success      201      {object}  response.Response{data=model.Department}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/departments [post]
func (h *SettingsHandler) CreateDepartment(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.CreateDepartment(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateDepartment updates a department
// @Summary      Update department
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Department ID"
// @Param        payload  body      service.NamedSettingDTO  true  "Department Payload"
// @Success      200      {object}  response.Response{data=model.Department}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/departments/{id} [put]
func (h *SettingsHandler) UpdateDepartment(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.UpdateDepartment(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteDepartment removes an unused department
// @Summary      Delete department
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/departments/{id} [delete]
func (h *SettingsHandler) DeleteDepartment(c *gin.Context) {
	if err := h.settingsService.DeleteDepartment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Department deleted"))
}

// --- Designations ---

// ListDesignations returns all designations
// @Summary      List designations
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Designation}
// @Router       /api/settings/designations [get]
func (h *SettingsHandler) ListDesignations(c *gin.Context) {
	items, err := h.settingsService.ListDesignations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateDesignation creates a designation
// @Summary      Create designation
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.NamedSettingDTO  true  "Designation Payload"
// @Success      201      {object}  response.Response{data=model.Designation}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/designations [post]
func (h *SettingsHandler) CreateDesignation(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.CreateDesignation(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateDesignation updates a designation
// @Summary      Update designation
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Designation ID"
// @Param        payload  body      service.NamedSettingDTO  true  "Designation Payload"
// @Success      200      {object}  response.Response{data=model.Designation}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/designations/{id} [put]
func (h *SettingsHandler) UpdateDesignation(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.UpdateDesignation(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteDesignation removes a designation
// @Summary      Delete designation
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Designation ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/designations/{id} [delete]
func (h *SettingsHandler) DeleteDesignation(c *gin.Context) {
	if err := h.settingsService.DeleteDesignation(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Designation deleted"))
}

// --- Positions ---

// ListPositions returns all approver positions
// @Summary      List positions
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Position}
// @Router       /api/settings/positions [get]
func (h *SettingsHandler) ListPositions(c *gin.Context) {
	items, err := h.settingsService.ListPositions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreatePosition creates a position
// @Summary      Create position
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.NamedSettingDTO  true  "Position Payload"
// @Success      201      {object}  response.Response{data=model.Position}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/positions [post]
func (h *SettingsHandler) CreatePosition(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.CreatePosition(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdatePosition updates a position
// @Summary      Update position
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Position ID"
// @Param        payload  body      service.NamedSettingDTO  true  "Position Payload"
// @Success      200      {object}  response.Response{data=model.Position}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/positions/{id} [put]
func (h *SettingsHandler) UpdatePosition(c *gin.Context) {
	var req service.NamedSettingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.UpdatePosition(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeletePosition removes a position not referenced by any approval rule
// @Summary      Delete position
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Position ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/positions/{id} [delete]
func (h *SettingsHandler) DeletePosition(c *gin.Context) {
	if err := h.settingsService.DeletePosition(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Position deleted"))
}

// --- Venues ---

// ListVenues returns all bookable venues
// @Summary      List venues
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Venue}
// @Router       /api/settings/venues [get]
func (h *SettingsHandler) ListVenues(c *gin.Context) {
	items, err := h.settingsService.ListVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateVenue creates a venue
// @Summary      Create venue
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VenueDTO  true  "Venue Payload"
// @Success      201      {object}  response.Response{data=model.Venue}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/venues [post]
func (h *SettingsHandler) CreateVenue(c *gin.Context) {
	var req service.VenueDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.CreateVenue(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateVenue updates a venue
// @Summary      Update venue
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Venue ID"
// @Param        payload  body      service.VenueDTO  true  "Venue Payload"
// @Success      200      {object}  response.Response{data=model.Venue}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/venues/{id} [put]
func (h *SettingsHandler) UpdateVenue(c *gin.Context) {
	var req service.VenueDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.UpdateVenue(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteVenue removes a venue
// @Summary      Delete venue
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Venue ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/venues/{id} [delete]
func (h *SettingsHandler) DeleteVenue(c *gin.Context) {
	if err := h.settingsService.DeleteVenue(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Venue deleted"))
}

// --- Vehicles ---

// ListVehicles returns all institutional vehicles
// @Summary      List vehicles
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Vehicle}
// @Router       /api/settings/vehicles [get]
func (h *SettingsHandler) ListVehicles(c *gin.Context) {
	items, err := h.settingsService.ListVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateVehicle creates a vehicle
// @Summary      Create vehicle
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VehicleDTO  true  "Vehicle Payload"
// @Success      201      {object}  response.Response{data=model.Vehicle}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/vehicles [post]
func (h *SettingsHandler) CreateVehicle(c *gin.Context) {
	var req service.VehicleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.CreateVehicle(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateVehicle updates a vehicle
// @Summary      Update vehicle
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Vehicle ID"
// @Param        payload  body      service.VehicleDTO  true  "Vehicle Payload"
// @Success      200      {object}  response.Response{data=model.Vehicle}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/vehicles/{id} [put]
func (h *SettingsHandler) UpdateVehicle(c *gin.Context) {
	var req service.VehicleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	item, err := h.settingsService.UpdateVehicle(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteVehicle removes a vehicle
// @Summary      Delete vehicle
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/vehicles/{id} [delete]
func (h *SettingsHandler) DeleteVehicle(c *gin.Context) {
	if err := h.settingsService.DeleteVehicle(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vehicle deleted"))
}
