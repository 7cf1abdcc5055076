package service

import (
	"context"
	"fmt"
	"time"

	"servicelink/internal/approval"
	"servicelink/internal/classifier"
	"servicelink/internal/model"
	"servicelink/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateJobRequestDTO struct {
	Title       string             `json:"title" binding:"required"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars"`
	DateNeeded  *time.Time         `json:"date_needed"`
}

type UpdateJobRequestDTO struct {
	Title       string             `json:"title"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars"`
	DateNeeded  *time.Time         `json:"date_needed"`
}

// RequestFilter narrows request listings. Archived requests are excluded
// unless explicitly asked for.
type RequestFilter struct {
	Status          string
	IncludeArchived bool
	Page            int
	Limit           int
}

type ApproverDecisionDTO struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comment  string `json:"comment"`
}

// --- Interface ---

type JobRequestService interface {
	Create(ctx context.Context, req CreateJobRequestDTO, requesterID string) (*model.JobRequest, error)
	List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.JobRequest, int64, error)
	GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.JobRequest, error)
	Update(ctx context.Context, reference string, req UpdateJobRequestDTO, userID string) (*model.JobRequest, error)
	UpdateStatus(ctx context.Context, reference, status, userID string) (*model.JobRequest, error)
	ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.JobRequest, error)
	Archive(ctx context.Context, reference, userID string) error
}

type jobRequestService struct {
	db    *gorm.DB
	users repository.UserRepository
	rules repository.ApprovalRuleRepository
	hub   Broadcaster
}

func NewJobRequestService(db *gorm.DB, users repository.UserRepository, rules repository.ApprovalRuleRepository, hub Broadcaster) JobRequestService {
	return &jobRequestService{db: db, users: users, rules: rules, hub: hub}
}

// --- Implementation ---

// Create classifies the job, resolves the approver chain, assigns a
// reference number and persists the request with its first activity
// entry in one transaction.
func (s *jobRequestService) Create(ctx context.Context, req CreateJobRequestDTO, requesterID string) (*model.JobRequest, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("requester not found: %w", err)
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
		RequestType:      model.RequestTypeJob,
		DepartmentID:     requester.DepartmentID,
		DesignationID:    requester.DesignationID,
		Pool:             pool,
		RequestTypeRules: tables.ByRequestType,
		DesignationRules: tables.ByDesignation,
		DepartmentRules:  tables.ByDepartment,
	})

	request := model.JobRequest{
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
		JobCategory: classifier.Classify(req.Title, req.Description, req.Remarks, req.Purpose),
		DateNeeded:  req.DateNeeded,
	}
	if len(approvers) == 0 {
		request.Status = model.StatusSubmitted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, refErr := generateReferenceNumber(tx, model.RequestTypeJob, &model.JobRequest{})
		if refErr != nil {
			return fmt.Errorf("failed to generate reference number: %w", refErr)
		}
		request.ReferenceNumber = reference

		if createErr := tx.Create(&request).Error; createErr != nil {
			return fmt.Errorf("failed to create job request: %w", createErr)
		}

		content := fmt.Sprintf("Request %s submitted by %s", reference, requester.FullName())
		if actErr := writeActivity(tx, reference, &requester.ID, model.ActivityStatusChange, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, &requester.ID, model.ActionCreateRequest, reference, req.Title, map[string]interface{}{
			"request_type": model.RequestTypeJob,
			"job_category": request.JobCategory,
			"approvers":    len(approvers),
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventRequestCreated, request)
	return s.reload(ctx, request.ReferenceNumber)
}

func (s *jobRequestService) List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.JobRequest, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.JobRequest{})
	query = scopeRequestQuery(query, filter, viewerID, viewerRole)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count job requests: %w", err)
	}

	var requests []model.JobRequest
	fetch := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.JobRequest{}), filter, viewerID, viewerRole)
	if err := fetch.
		Preload("Requester").Preload("Department").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch job requests: %w", err)
	}

	return requests, total, nil
}

func (s *jobRequestService) GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.JobRequest, error) {
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

func (s *jobRequestService) Update(ctx context.Context, reference string, req UpdateJobRequestDTO, userID string) (*model.JobRequest, error) {
	var request model.JobRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("job request not found: %w", findErr)
		}
		if request.Archived {
			return fmt.Errorf("job request %s is archived", reference)
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
		if req.Particulars != nil {
			request.Particulars = req.Particulars
		}
		if req.DateNeeded != nil {
			request.DateNeeded = req.DateNeeded
		}

		// Free text changed: re-classify.
		request.JobCategory = classifier.Classify(request.Title, request.Description, request.Remarks, request.Purpose)

		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update job request: %w", saveErr)
		}

		return writeAudit(tx, parseUserID(userID), model.ActionUpdateRequest, reference, request.Title, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventRequestUpdated, request)
	return s.reload(ctx, reference)
}

func (s *jobRequestService) UpdateStatus(ctx context.Context, reference, status, userID string) (*model.JobRequest, error) {
	var request model.JobRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("job request not found: %w", findErr)
		}
		if !validStatusTransition(request.Status, status) {
			return fmt.Errorf("cannot change status from %s to %s", request.Status, status)
		}

		previous := request.Status
		request.Status = status
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update job request status: %w", saveErr)
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

func (s *jobRequestService) ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.JobRequest, error) {
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	var request model.JobRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("job request not found: %w", findErr)
		}

		updated, found := applyApproverDecision(request.Approvers, decider, req.Decision)
		if !found {
			return fmt.Errorf("user is not an approver of request %s", reference)
		}

		previous := request.Status
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
			"decision":        req.Decision,
			"previous_status": previous,
			"new_status":      request.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventStatusChanged, request)
	return s.reload(ctx, reference)
}

func (s *jobRequestService) Archive(ctx context.Context, reference, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.JobRequest{}).
			Where("reference_number = ? AND archived = false", reference).
			Update("archived", true)
		if result.Error != nil {
			return fmt.Errorf("failed to archive job request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("job request %s not found or already archived", reference)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionArchiveRequest, reference, "", nil)
	})
}

func (s *jobRequestService) reload(ctx context.Context, reference string) (*model.JobRequest, error) {
	var request model.JobRequest
	if err := s.db.WithContext(ctx).
		Preload("Requester").Preload("Department").
		First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, fmt.Errorf("failed to reload job request: %w", err)
	}
	return &request, nil
}
