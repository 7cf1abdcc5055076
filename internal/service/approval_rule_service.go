package service

import (
	"context"
	"fmt"

	"servicelink/internal/model"
	"servicelink/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type DepartmentRuleDTO struct {
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	PositionID   string `json:"position_id" binding:"required,uuid"`
	Required     *bool  `json:"required" binding:"required"`
}

type DesignationRuleDTO struct {
	DesignationID string `json:"designation_id" binding:"required,uuid"`
	PositionID    string `json:"position_id" binding:"required,uuid"`
	Required      *bool  `json:"required" binding:"required"`
}

type RequestTypeRuleDTO struct {
	RequestType string `json:"request_type" binding:"required,oneof=job_request purchasing_request venue_request vehicle_request"`
	PositionID  string `json:"position_id" binding:"required,uuid"`
	Required    *bool  `json:"required" binding:"required"`
}

// --- Interface ---

type ApprovalRuleService interface {
	ListDepartmentRules(ctx context.Context) ([]model.ApprovalRuleByDepartment, error)
	CreateDepartmentRule(ctx context.Context, req DepartmentRuleDTO, userID string) (*model.ApprovalRuleByDepartment, error)
	DeleteDepartmentRule(ctx context.Context, id string, userID string) error

	ListDesignationRules(ctx context.Context) ([]model.ApprovalRuleByDesignation, error)
	CreateDesignationRule(ctx context.Context, req DesignationRuleDTO, userID string) (*model.ApprovalRuleByDesignation, error)
	DeleteDesignationRule(ctx context.Context, id string, userID string) error

	ListRequestTypeRules(ctx context.Context) ([]model.ApprovalRuleByRequestType, error)
	CreateRequestTypeRule(ctx context.Context, req RequestTypeRuleDTO, userID string) (*model.ApprovalRuleByRequestType, error)
	DeleteRequestTypeRule(ctx context.Context, id string, userID string) error
}

type approvalRuleService struct {
	db    *gorm.DB
	rules repository.ApprovalRuleRepository
}

func NewApprovalRuleService(db *gorm.DB, rules repository.ApprovalRuleRepository) ApprovalRuleService {
	return &approvalRuleService{db: db, rules: rules}
}

// --- Department rules ---

func (s *approvalRuleService) ListDepartmentRules(ctx context.Context) ([]model.ApprovalRuleByDepartment, error) {
	return s.rules.ListDepartmentRules(ctx)
}

func (s *approvalRuleService) CreateDepartmentRule(ctx context.Context, req DepartmentRuleDTO, userID string) (*model.ApprovalRuleByDepartment, error) {
	departmentID, positionID, err := s.resolveScope(ctx, req.DepartmentID, req.PositionID, &model.Department{}, "department")
	if err != nil {
		return nil, err
	}

	rule := model.ApprovalRuleByDepartment{
		DepartmentID: departmentID,
		PositionID:   positionID,
		Required:     *req.Required,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if createErr := s.rules.CreateDepartmentRule(txCtx, &rule); createErr != nil {
			return fmt.Errorf("failed to create department rule: %w", createErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionCreateApprovalRule, rule.ID.String(), "department", req)
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *approvalRuleService) DeleteDepartmentRule(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if delErr := s.rules.DeleteDepartmentRule(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete department rule: %w", delErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionDeleteApprovalRule, id, "department", map[string]string{"deleted_id": id})
	})
}

// --- Designation rules ---

func (s *approvalRuleService) ListDesignationRules(ctx context.Context) ([]model.ApprovalRuleByDesignation, error) {
	return s.rules.ListDesignationRules(ctx)
}

func (s *approvalRuleService) CreateDesignationRule(ctx context.Context, req DesignationRuleDTO, userID string) (*model.ApprovalRuleByDesignation, error) {
	designationID, positionID, err := s.resolveScope(ctx, req.DesignationID, req.PositionID, &model.Designation{}, "designation")
	if err != nil {
		return nil, err
	}

	rule := model.ApprovalRuleByDesignation{
		DesignationID: designationID,
		PositionID:    positionID,
		Required:      *req.Required,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if createErr := s.rules.CreateDesignationRule(txCtx, &rule); createErr != nil {
			return fmt.Errorf("failed to create designation rule: %w", createErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionCreateApprovalRule, rule.ID.String(), "designation", req)
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *approvalRuleService) DeleteDesignationRule(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if delErr := s.rules.DeleteDesignationRule(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete designation rule: %w", delErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionDeleteApprovalRule, id, "designation", map[string]string{"deleted_id": id})
	})
}

// --- Request-type rules ---

func (s *approvalRuleService) ListRequestTypeRules(ctx context.Context) ([]model.ApprovalRuleByRequestType, error) {
	return s.rules.ListRequestTypeRules(ctx)
}

func (s *approvalRuleService) CreateRequestTypeRule(ctx context.Context, req RequestTypeRuleDTO, userID string) (*model.ApprovalRuleByRequestType, error) {
	positionID, err := s.resolvePosition(ctx, req.PositionID)
	if err != nil {
		return nil, err
	}

	rule := model.ApprovalRuleByRequestType{
		RequestType: req.RequestType,
		PositionID:  positionID,
		Required:    *req.Required,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if createErr := s.rules.CreateRequestTypeRule(txCtx, &rule); createErr != nil {
			return fmt.Errorf("failed to create request type rule: %w", createErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionCreateApprovalRule, rule.ID.String(), "request_type", req)
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *approvalRuleService) DeleteRequestTypeRule(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if delErr := s.rules.DeleteRequestTypeRule(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete request type rule: %w", delErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionDeleteApprovalRule, id, "request_type", map[string]string{"deleted_id": id})
	})
}

// --- Helpers ---

// resolveScope parses and verifies the scope entity (department or
// designation) and the position a rule points at.
func (s *approvalRuleService) resolveScope(ctx context.Context, scopeID, positionID string, scopeModel interface{}, kind string) (uuid.UUID, uuid.UUID, error) {
	scope, err := uuid.Parse(scopeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid %s id: %w", kind, err)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(scopeModel).Where("id = ?", scope).Count(&count).Error; err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to verify %s: %w", kind, err)
	}
	if count == 0 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%s not found", kind)
	}

	position, err := s.resolvePosition(ctx, positionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return scope, position, nil
}

func (s *approvalRuleService) resolvePosition(ctx context.Context, positionID string) (uuid.UUID, error) {
	position, err := uuid.Parse(positionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid position id: %w", err)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Position{}).Where("id = ?", position).Count(&count).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to verify position: %w", err)
	}
	if count == 0 {
		return uuid.Nil, fmt.Errorf("position not found")
	}
	return position, nil
}
