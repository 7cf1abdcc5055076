package service

import (
	"context"
	"fmt"

	"servicelink/internal/approval"
	"servicelink/internal/model"
	"servicelink/internal/repository"
	"servicelink/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateVenueRequestDTO struct {
	Title       string             `json:"title" binding:"required"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars"`
	VenueID     string             `json:"venue_id" binding:"required"`
	EventDate   string             `json:"event_date" binding:"required"` // YYYY-MM-DD
	StartTime   string             `json:"start_time" binding:"required"` // HH:MM
	EndTime     string             `json:"end_time" binding:"required"`   // HH:MM
	Pax         int                `json:"pax"`
}

type UpdateVenueRequestDTO struct {
	Title       string             `json:"title"`
	Purpose     string             `json:"purpose"`
	Remarks     string             `json:"remarks"`
	Description string             `json:"description"`
	Particulars []model.Particular `json:"particulars"`
	EventDate   string             `json:"event_date"`
	StartTime   string             `json:"start_time"`
	EndTime     string             `json:"end_time"`
	Pax         *int               `json:"pax"`
}

// ConflictError carries the conflict payload so handlers can return it
// as a structured 409 body.
type ConflictError struct {
	Result validation.ConflictResult
}

func (e *ConflictError) Error() string { return e.Result.Message }

// --- Interface ---

type VenueRequestService interface {
	Create(ctx context.Context, req CreateVenueRequestDTO, requesterID string) (*model.VenueRequest, string, error)
	List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.VenueRequest, int64, error)
	GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.VenueRequest, error)
	Update(ctx context.Context, reference string, req UpdateVenueRequestDTO, userID string) (*model.VenueRequest, string, error)
	UpdateStatus(ctx context.Context, reference, status, userID string) (*model.VenueRequest, error)
	ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.VenueRequest, error)
	Archive(ctx context.Context, reference, userID string) error
}

type venueRequestService struct {
	db    *gorm.DB
	users repository.UserRepository
	rules repository.ApprovalRuleRepository
	hub   Broadcaster
}

func NewVenueRequestService(db *gorm.DB, users repository.UserRepository, rules repository.ApprovalRuleRepository, hub Broadcaster) VenueRequestService {
	return &venueRequestService{db: db, users: users, rules: rules, hub: hub}
}

// --- Implementation ---

// Create validates the booking (time range, venue capacity, schedule
// conflicts) before persisting. Hard conflicts abort with a
// ConflictError; soft conflicts and capacity warnings come back as a
// warning string and never block.
func (s *venueRequestService) Create(ctx context.Context, req CreateVenueRequestDTO, requesterID string) (*model.VenueRequest, string, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, "", fmt.Errorf("requester not found: %w", err)
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid venue id: %w", err)
	}
	var venue model.Venue
	if err := s.db.WithContext(ctx).First(&venue, "id = ?", venueID).Error; err != nil {
		return nil, "", fmt.Errorf("venue not found: %w", err)
	}

	if res := validation.ValidateTimeRange(req.StartTime, req.EndTime); res.Error != "" {
		return nil, "", fmt.Errorf("%s", res.Error)
	}

	warning := ""
	capRes := validation.ValidatePax(venue.Capacity, req.Pax)
	if capRes.Error != "" {
		return nil, "", fmt.Errorf("%s", capRes.Error)
	}
	warning = capRes.Warning

	candidate := validation.BookingWindow{
		VenueID:   &venueID,
		Date:      req.EventDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	conflict, err := s.checkConflict(ctx, candidate)
	if err != nil {
		return nil, "", err
	}
	if conflict.Conflict {
		if conflict.Type == validation.ConflictHard {
			return nil, "", &ConflictError{Result: conflict}
		}
		if warning != "" {
			warning += "; "
		}
		warning += conflict.Message
	}

	pool, err := s.users.ListApprovers(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load approver pool: %w", err)
	}
	tables, err := s.rules.LoadAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load approval rules: %w", err)
	}

	approvers := approval.Assign(approval.Input{
		RequestType:      model.RequestTypeVenue,
		DepartmentID:     requester.DepartmentID,
		DesignationID:    requester.DesignationID,
		Pool:             pool,
		RequestTypeRules: tables.ByRequestType,
		DesignationRules: tables.ByDesignation,
		DepartmentRules:  tables.ByDepartment,
	})

	request := model.VenueRequest{
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
		VenueID:   &venueID,
		EventDate: req.EventDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Pax:       req.Pax,
	}
	if len(approvers) == 0 {
		request.Status = model.StatusSubmitted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, refErr := generateReferenceNumber(tx, model.RequestTypeVenue, &model.VenueRequest{})
		if refErr != nil {
			return fmt.Errorf("failed to generate reference number: %w", refErr)
		}
		request.ReferenceNumber = reference

		if createErr := tx.Create(&request).Error; createErr != nil {
			return fmt.Errorf("failed to create venue request: %w", createErr)
		}

		content := fmt.Sprintf("Request %s submitted by %s for %s on %s",
			reference, requester.FullName(), venue.Name, req.EventDate)
		if actErr := writeActivity(tx, reference, &requester.ID, model.ActivityStatusChange, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, &requester.ID, model.ActionCreateRequest, reference, req.Title, map[string]interface{}{
			"request_type": model.RequestTypeVenue,
			"venue":        venue.Name,
			"event_date":   req.EventDate,
		})
	})
	if err != nil {
		return nil, "", err
	}

	s.hub.BroadcastEvent(EventRequestCreated, request)
	created, err := s.reload(ctx, request.ReferenceNumber)
	return created, warning, err
}

// checkConflict projects the venue's other requests into booking windows
// and runs the conflict checker.
func (s *venueRequestService) checkConflict(ctx context.Context, candidate validation.BookingWindow) (validation.ConflictResult, error) {
	var others []model.VenueRequest
	if err := s.db.WithContext(ctx).
		Where("venue_id = ? AND event_date = ?", candidate.VenueID, candidate.Date).
		Find(&others).Error; err != nil {
		return validation.ConflictResult{}, fmt.Errorf("failed to load venue bookings: %w", err)
	}

	existing := make([]validation.BookingWindow, 0, len(others))
	for _, o := range others {
		existing = append(existing, validation.BookingWindow{
			ReferenceNumber: o.ReferenceNumber,
			VenueID:         o.VenueID,
			Date:            o.EventDate,
			StartTime:       o.StartTime,
			EndTime:         o.EndTime,
			Status:          o.Status,
			Archived:        o.Archived,
		})
	}

	return validation.CheckVenueConflict(existing, candidate), nil
}

func (s *venueRequestService) List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.VenueRequest, int64, error) {
	query := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.VenueRequest{}), filter, viewerID, viewerRole)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count venue requests: %w", err)
	}

	var requests []model.VenueRequest
	fetch := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.VenueRequest{}), filter, viewerID, viewerRole)
	if err := fetch.
		Preload("Requester").Preload("Department").Preload("Venue").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch venue requests: %w", err)
	}

	return requests, total, nil
}

func (s *venueRequestService) GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.VenueRequest, error) {
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

// Update re-validates the booking window whenever date, times or pax
// change.
func (s *venueRequestService) Update(ctx context.Context, reference string, req UpdateVenueRequestDTO, userID string) (*model.VenueRequest, string, error) {
	var request model.VenueRequest
	if err := s.db.WithContext(ctx).First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, "", fmt.Errorf("venue request not found: %w", err)
	}
	if request.Archived {
		return nil, "", fmt.Errorf("venue request %s is archived", reference)
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
	if req.EventDate != "" {
		request.EventDate = req.EventDate
	}
	if req.StartTime != "" {
		request.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		request.EndTime = req.EndTime
	}
	if req.Pax != nil {
		request.Pax = *req.Pax
	}

	if res := validation.ValidateTimeRange(request.StartTime, request.EndTime); res.Error != "" {
		return nil, "", fmt.Errorf("%s", res.Error)
	}

	warning := ""
	if request.VenueID != nil {
		var venue model.Venue
		if err := s.db.WithContext(ctx).First(&venue, "id = ?", request.VenueID).Error; err == nil {
			capRes := validation.ValidatePax(venue.Capacity, request.Pax)
			if capRes.Error != "" {
				return nil, "", fmt.Errorf("%s", capRes.Error)
			}
			warning = capRes.Warning
		}

		conflict, err := s.checkConflict(ctx, validation.BookingWindow{
			ReferenceNumber: reference,
			VenueID:         request.VenueID,
			Date:            request.EventDate,
			StartTime:       request.StartTime,
			EndTime:         request.EndTime,
		})
		if err != nil {
			return nil, "", err
		}
		if conflict.Conflict {
			if conflict.Type == validation.ConflictHard {
				return nil, "", &ConflictError{Result: conflict}
			}
			if warning != "" {
				warning += "; "
			}
			warning += conflict.Message
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update venue request: %w", saveErr)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionUpdateRequest, reference, request.Title, req)
	})
	if err != nil {
		return nil, "", err
	}

	s.hub.BroadcastEvent(EventRequestUpdated, request)
	updated, err := s.reload(ctx, reference)
	return updated, warning, err
}

func (s *venueRequestService) UpdateStatus(ctx context.Context, reference, status, userID string) (*model.VenueRequest, error) {
	var request model.VenueRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("venue request not found: %w", findErr)
		}
		if !validStatusTransition(request.Status, status) {
			return fmt.Errorf("cannot change status from %s to %s", request.Status, status)
		}

		previous := request.Status
		request.Status = status
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update venue request status: %w", saveErr)
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

func (s *venueRequestService) ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.VenueRequest, error) {
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	var request model.VenueRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("venue request not found: %w", findErr)
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

func (s *venueRequestService) Archive(ctx context.Context, reference, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.VenueRequest{}).
			Where("reference_number = ? AND archived = false", reference).
			Update("archived", true)
		if result.Error != nil {
			return fmt.Errorf("failed to archive venue request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("venue request %s not found or already archived", reference)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionArchiveRequest, reference, "", nil)
	})
}

func (s *venueRequestService) reload(ctx context.Context, reference string) (*model.VenueRequest, error) {
	var request model.VenueRequest
	if err := s.db.WithContext(ctx).
		Preload("Requester").Preload("Department").Preload("Venue").
		First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, fmt.Errorf("failed to reload venue request: %w", err)
	}
	return &request, nil
}
