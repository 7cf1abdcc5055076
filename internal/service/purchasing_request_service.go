package service

import (
	"context"
	"fmt"

	"servicelink/internal/approval"
	"servicelink/internal/model"
	"servicelink/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePurchasingRequestDTO struct {
	Title       string             `json:"title" binding:"required"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars" binding:"required,min=1"`
	Supplier    string             `json:"supplier"`
}

type UpdatePurchasingRequestDTO struct {
	Title       string             `json:"title"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars"`
	Supplier    string             `json:"supplier"`
}

// --- Interface ---

type PurchasingRequestService interface {
	Create(ctx context.Context, req CreatePurchasingRequestDTO, requesterID string) (*model.PurchasingRequest, error)
	List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.PurchasingRequest, int64, error)
	GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.PurchasingRequest, error)
	Update(ctx context.Context, reference string, req UpdatePurchasingRequestDTO, userID string) (*model.PurchasingRequest, error)
	UpdateStatus(ctx context.Context, reference, status, userID string) (*model.PurchasingRequest, error)
	ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.PurchasingRequest, error)
	Archive(ctx context.Context, reference, userID string) error
}

type purchasingRequestService struct {
	db    *gorm.DB
	users repository.UserRepository
	rules repository.ApprovalRuleRepository
	hub   Broadcaster
}

func NewPurchasingRequestService(db *gorm.DB, users repository.UserRepository, rules repository.ApprovalRuleRepository, hub Broadcaster) PurchasingRequestService {
	return &purchasingRequestService{db: db, users: users, rules: rules, hub: hub}
}

// totalEstimatedCost sums quantity × unit cost across the particulars.
func totalEstimatedCost(particulars []model.Particular) decimal.Decimal {
	total := decimal.Zero
	for _, p := range particulars {
		line := p.EstimatedCost.Mul(decimal.NewFromInt(int64(p.Quantity)))
		total = total.Add(line)
	}
	return total
}

// --- Implementation ---

func (s *purchasingRequestService) Create(ctx context.Context, req CreatePurchasingRequestDTO, requesterID string) (*model.PurchasingRequest, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("requester not found: %w", err)
	}

	for _, p := range req.Particulars {
		if p.Quantity <= 0 {
			return nil, fmt.Errorf("particular %q must have a positive quantity", p.Particulars)
		}
		if p.EstimatedCost.IsNegative() {
			return nil, fmt.Errorf("particular %q must not have a negative cost", p.Particulars)
		}
	}

	pool, err := s.users.ListApprovers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approver pool: %w", err)
	}
	tables, err := s.rules.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval rules: %w", err)
	}

	approvers := approval.Assign(approval.Input{
		RequestType:      model.RequestTypePurchasing,
		DepartmentID:     requester.DepartmentID,
		DesignationID:    requester.DesignationID,
		Pool:             pool,
		RequestTypeRules: tables.ByRequestType,
		DesignationRules: tables.ByDesignation,
		DepartmentRules:  tables.ByDepartment,
	})

	request := model.PurchasingRequest{
		RequestCommon: model.RequestCommon{
			RequesterID:      requester.ID,
			DepartmentID:     requester.DepartmentID,
			Title:            req.Title,
			Purpose:          req.Purpose,
			Remarks:          req.Remarks,
			Description:      req.Description,
			Particulars:      req.Particulars,
			Approvers:        approvers,
			Status:           model.StatusPending,
			AuthorizedAccess: authorizedAccessFor(requester.ID, approvers),
		},
		Supplier:           req.Supplier,
		TotalEstimatedCost: totalEstimatedCost(req.Particulars),
	}
	if len(approvers) == 0 {
		request.Status = model.StatusSubmitted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, refErr := generateReferenceNumber(tx, model.RequestTypePurchasing, &model.PurchasingRequest{})
		if refErr != nil {
			return fmt.Errorf("failed to generate reference number: %w", refErr)
		}
		request.ReferenceNumber = reference

		if createErr := tx.Create(&request).Error; createErr != nil {
			return fmt.Errorf("failed to create purchasing request: %w", createErr)
		}

		content := fmt.Sprintf("Request %s submitted by %s (estimated total %s)",
			reference, requester.FullName(), request.TotalEstimatedCost.StringFixed(2))
		if actErr := writeActivity(tx, reference, &requester.ID, model.ActivityStatusChange, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, &requester.ID, model.ActionCreateRequest, reference, req.Title, map[string]interface{}{
			"request_type":         model.RequestTypePurchasing,
			"supplier":             req.Supplier,
			"total_estimated_cost": request.TotalEstimatedCost.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventRequestCreated, request)
	return s.reload(ctx, request.ReferenceNumber)
}

func (s *purchasingRequestService) List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.PurchasingRequest, int64, error) {
	query := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.PurchasingRequest{}), filter, viewerID, viewerRole)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchasing requests: %w", err)
	}

	var requests []model.PurchasingRequest
	fetch := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.PurchasingRequest{}), filter, viewerID, viewerRole)
	if err := fetch.
		Preload("Requester").Preload("Department").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchasing requests: %w", err)
	}

	return requests, total, nil
}

func (s *purchasingRequestService) GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.PurchasingRequest, error) {
	request, err := s.reload(ctx, reference)
	if err != nil {
		return nil, err
	}

	viewer := parseUserID(viewerID)
	if viewer == nil || !canViewRequest(*viewer, viewerRole, request.RequestCommon) {
		return nil, ErrForbidden
	}
	return request, nil
}

// Update recomputes the estimated total whenever the particulars change.
func (s *purchasingRequestService) Update(ctx context.Context, reference string, req UpdatePurchasingRequestDTO, userID string) (*model.PurchasingRequest, error) {
	var request model.PurchasingRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("purchasing request not found: %w", findErr)
		}
		if request.Archived {
			return fmt.Errorf("purchasing request %s is archived", reference)
		}

		if req.Title != "" {
			request.Title = req.Title
		}
		if req.Purpose != "" {
			request.Purpose = req.Purpose
		}
		if req.Remarks != "" {
			request.Remarks = req.Remarks
		}
		if req.Description != "" {
			request.Description = req.Description
		}
		if req.Supplier != "" {
			request.Supplier = req.Supplier
		}
		if req.Particulars != nil {
			request.Particulars = req.Particulars
			request.TotalEstimatedCost = totalEstimatedCost(req.Particulars)
		}

		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update purchasing request: %w", saveErr)
		}

		return writeAudit(tx, parseUserID(userID), model.ActionUpdateRequest, reference, request.Title, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventRequestUpdated, request)
	return s.reload(ctx, reference)
}

func (s *purchasingRequestService) UpdateStatus(ctx context.Context, reference, status, userID string) (*model.PurchasingRequest, error) {
	var request model.PurchasingRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("purchasing request not found: %w", findErr)
		}
		if !validStatusTransition(request.Status, status) {
			return fmt.Errorf("cannot change status from %s to %s", request.Status, status)
		}

		previous := request.Status
		request.Status = status
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update purchasing request status: %w", saveErr)
		}

		content := fmt.Sprintf("Status changed from %s to %s", previous, status)
		if actErr := writeActivity(tx, reference, parseUserID(userID), model.ActivityStatusChange, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, parseUserID(userID), model.ActionStatusChange, reference, request.Title, map[string]string{
			"from": previous,
			"to":   status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventStatusChanged, request)
	return s.reload(ctx, reference)
}

func (s *purchasingRequestService) ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.PurchasingRequest, error) {
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	var request model.PurchasingRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("purchasing request not found: %w", findErr)
		}

		updated, found := applyApproverDecision(request.Approvers, decider, req.Decision)
		if !found {
			return fmt.Errorf("user is not an approver of request %s", reference)
		}

		request.Approvers = updated
		request.Status = recomputeStatus(request.Status, updated)

		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to record approver decision: %w", saveErr)
		}

		content := fmt.Sprintf("Request %s by approver", req.Decision)
		if req.Comment != "" {
			content += ": " + req.Comment
		}
		if actErr := writeActivity(tx, reference, &decider, model.ActivityApproval, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, &decider, model.ActionApproverDecision, reference, request.Title, map[string]string{
			"decision":   req.Decision,
			"new_status": request.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventStatusChanged, request)
	return s.reload(ctx, reference)
}

func (s *purchasingRequestService) Archive(ctx context.Context, reference, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PurchasingRequest{}).
			Where("reference_number = ? AND archived = false", reference).
			Update("archived", true)
		if result.Error != nil {
			return fmt.Errorf("failed to archive purchasing request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("purchasing request %s not found or already archived", reference)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionArchiveRequest, reference, "", nil)
	})
}

func (s *purchasingRequestService) reload(ctx context.Context, reference string) (*model.PurchasingRequest, error) {
	var request model.PurchasingRequest
	if err := s.db.WithContext(ctx).
		Preload("Requester").Preload("Department").
		First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, fmt.Errorf("failed to reload purchasing request: %w", err)
	}
	return &request, nil
}
