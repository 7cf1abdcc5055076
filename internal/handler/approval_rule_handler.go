package handler

import (
	"net/http"

	"servicelink/internal/middleware"
	"servicelink/internal/model"
	"servicelink/internal/service"
	"servicelink/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalRuleHandler struct {
	ruleService service.ApprovalRuleService
}

func NewApprovalRuleHandler(ruleService service.ApprovalRuleService) *ApprovalRuleHandler {
	return &ApprovalRuleHandler{ruleService: ruleService}
}

func (h *ApprovalRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/api/settings/approval_rules")
	rules.Use(middleware.RequireRole(model.RoleAdmin))
	{
		rules.GET("/department", h.ListDepartmentRules)
		rules.POST("/department", h.CreateDepartmentRule)
		rules.DELETE("/department/:id", h.DeleteDepartmentRule)

		rules.GET("/designation", h.ListDesignationRules)
		rules.POST("/designation", h.CreateDesignationRule)
		rules.DELETE("/designation/:id", h.DeleteDesignationRule)

		rules.GET("/request_type", h.ListRequestTypeRules)
		rules.POST("/request_type", h.CreateRequestTypeRule)
		rules.DELETE("/request_type/:id", h.DeleteRequestTypeRule)
	}
}

// ListDepartmentRules returns all department-scoped rules
// @Summary      List department approval rules
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ApprovalRuleByDepartment}
// @Failure      500  {object}  response.Response
// @Router       /api/settings/approval_rules/department [get]
func (h *ApprovalRuleHandler) ListDepartmentRules(c *gin.Context) {
	rules, err := h.ruleService.ListDepartmentRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// CreateDepartmentRule adds a department-scoped rule
// @Summary      Create department approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DepartmentRuleDTO  true  "Rule Payload"
// @Success      201      {object}  response.Response{data=model.ApprovalRuleByDepartment}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/approval_rules/department [post]
func (h *ApprovalRuleHandler) CreateDepartmentRule(c *gin.Context) {
	var req service.DepartmentRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	rule, err := h.ruleService.CreateDepartmentRule(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// DeleteDepartmentRule removes a department-scoped rule
// @Summary      Delete department approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/approval_rules/department/{id} [delete]
func (h *ApprovalRuleHandler) DeleteDepartmentRule(c *gin.Context) {
	if err := h.ruleService.DeleteDepartmentRule(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Rule deleted"))
}

// ListDesignationRules returns all designation-scoped rules
// @Summary      List designation approval rules
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ApprovalRuleByDesignation}
// @Failure      500  {object}  response.Response
// @Router       /api/settings/approval_rules/designation [get]
func (h *ApprovalRuleHandler) ListDesignationRules(c *gin.Context) {
	rules, err := h.ruleService.ListDesignationRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// CreateDesignationRule adds a designation-scoped rule
// @Summary      Create designation approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DesignationRuleDTO  true  "Rule Payload"
// @Success      201      {object}  response.Response{data=model.ApprovalRuleByDesignation}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/approval_rules/designation [post]
func (h *ApprovalRuleHandler) CreateDesignationRule(c *gin.Context) {
	var req service.DesignationRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	rule, err := h.ruleService.CreateDesignationRule(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// DeleteDesignationRule removes a designation-scoped rule
// @Summary      Delete designation approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/approval_rules/designation/{id} [delete]
func (h *ApprovalRuleHandler) DeleteDesignationRule(c *gin.Context) {
	if err := h.ruleService.DeleteDesignationRule(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Rule deleted"))
}

// ListRequestTypeRules returns all request-type-scoped rules
// @Summary      List request type approval rules
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ApprovalRuleByRequestType}
// @Failure      500  {object}  response.Response
// @Router       /api/settings/approval_rules/request_type [get]
func (h *ApprovalRuleHandler) ListRequestTypeRules(c *gin.Context) {
	rules, err := h.ruleService.ListRequestTypeRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// CreateRequestTypeRule adds a request-type-scoped rule
// @Summary      Create request type approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RequestTypeRuleDTO  true  "Rule Payload"
// @Success      201      {object}  response.Response{data=model.ApprovalRuleByRequestType}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/approval_rules/request_type [post]
func (h *ApprovalRuleHandler) CreateRequestTypeRule(c *gin.Context) {
	var req service.RequestTypeRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	rule, err := h.ruleService.CreateRequestTypeRule(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// DeleteRequestTypeRule removes a request-type-scoped rule
// @Summary      Delete request type approval rule
// @Tags         approval-rules
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Rule ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/settings/approval_rules/request_type/{id} [delete]
func (h *ApprovalRuleHandler) DeleteRequestTypeRule(c *gin.Context) {
	if err := h.ruleService.DeleteRequestTypeRule(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Rule deleted"))
}
