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

type CreateVehicleRequestDTO struct {
	Title           string             `json:"title" binding:"required"`
	Purpose         string             `json:"purpose"`
	Remarks         string             `json:"remarks"`
	Description     string             `json:"description"`
	Particulars     []model.Particular `json:"particulars"`
	VehicleID       string             `json:"vehicle_id" binding:"required"`
	TripDate        string             `json:"trip_date" binding:"required"` // YYYY-MM-DD
	TimeOfDeparture string             `json:"time_of_departure"`            // HH:MM
	TimeOfArrival   string             `json:"time_of_arrival"`              // HH:MM
	Destination     string             `json:"destination" binding:"required"`
	Passengers      int                `json:"passengers"`
}

type UpdateVehicleRequestDTO struct {
	Title           string             `json:"title"`
	Purpose         string             `json:"purpose"`
	Remarks         string             `json:"remarks"`
	Description     string             `json:"description"`
	Particulars     []model.Particular `json:"particulars"`
	TripDate        string             `json:"trip_date"`
	TimeOfDeparture string             `json:"time_of_departure"`
	TimeOfArrival   string             `json:"time_of_arrival"`
	Destination     string             `json:"destination"`
	Passengers      *int               `json:"passengers"`
}

// --- Interface ---

type VehicleRequestService interface {
	Create(ctx context.Context, req CreateVehicleRequestDTO, requesterID string) (*model.VehicleRequest, string, error)
	List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.VehicleRequest, int64, error)
	GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.VehicleRequest, error)
	Update(ctx context.Context, reference string, req UpdateVehicleRequestDTO, userID string) (*model.VehicleRequest, string, error)
	UpdateStatus(ctx context.Context, reference, status, userID string) (*model.VehicleRequest, error)
	ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.VehicleRequest, error)
	Archive(ctx context.Context, reference, userID string) error
}

type vehicleRequestService struct {
	db    *gorm.DB
	users repository.UserRepository
	rules repository.ApprovalRuleRepository
	hub   Broadcaster
}

func NewVehicleRequestService(db *gorm.DB, users repository.UserRepository, rules repository.ApprovalRuleRepository, hub Broadcaster) VehicleRequestService {
	return &vehicleRequestService{db: db, users: users, rules: rules, hub: hub}
}

// --- Implementation ---

// Create validates the trip (time range, passenger capacity) and
// persists the request with its approver chain. Capacity warnings come
// back as a warning string and never block.
func (s *vehicleRequestService) Create(ctx context.Context, req CreateVehicleRequestDTO, requesterID string) (*model.VehicleRequest, string, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, "", fmt.Errorf("requester not found: %w", err)
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid vehicle id: %w", err)
	}
	var vehicle model.Vehicle
	if err := s.db.WithContext(ctx).First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, "", fmt.Errorf("vehicle not found: %w", err)
	}

	if res := validation.ValidateTimeRange(req.TimeOfDeparture, req.TimeOfArrival); res.Error != "" {
		return nil, "", fmt.Errorf("%s", res.Error)
	}

	capRes := validation.ValidatePassengers(vehicle.Capacity, req.Passengers)
	if capRes.Error != "" {
		return nil, "", fmt.Errorf("%s", capRes.Error)
	}
	warning := capRes.Warning

	pool, err := s.users.ListApprovers(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load approver pool: %w", err)
	}
	tables, err := s.rules.LoadAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load approval rules: %w", err)
	}

	approvers := approval.Assign(approval.Input{
		RequestType:      model.RequestTypeVehicle,
		DepartmentID:     requester.DepartmentID,
		DesignationID:    requester.DesignationID,
		Pool:             pool,
		RequestTypeRules: tables.ByRequestType,
		DesignationRules: tables.ByDesignation,
		DepartmentRules:  tables.ByDepartment,
	})

	request := model.VehicleRequest{
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
		VehicleID:       &vehicleID,
		TripDate:        req.TripDate,
		TimeOfDeparture: req.TimeOfDeparture,
		TimeOfArrival:   req.TimeOfArrival,
		Destination:     req.Destination,
		Passengers:      req.Passengers,
	}
	if len(approvers) == 0 {
		request.Status = model.StatusSubmitted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, refErr := generateReferenceNumber(tx, model.RequestTypeVehicle, &model.VehicleRequest{})
		if refErr != nil {
			return fmt.Errorf("failed to generate reference number: %w", refErr)
		}
		request.ReferenceNumber = reference

		if createErr := tx.Create(&request).Error; createErr != nil {
			return fmt.Errorf("failed to create vehicle request: %w", createErr)
		}

		content := fmt.Sprintf("Request %s submitted by %s for a trip to %s on %s",
			reference, requester.FullName(), req.Destination, req.TripDate)
		if actErr := writeActivity(tx, reference, &requester.ID, model.ActivityStatusChange, content); actErr != nil {
			return actErr
		}

		return writeAudit(tx, &requester.ID, model.ActionCreateRequest, reference, req.Title, map[string]interface{}{
			"request_type": model.RequestTypeVehicle,
			"vehicle":      vehicle.Name,
			"trip_date":    req.TripDate,
			"destination":  req.Destination,
		})
	})
	if err != nil {
		return nil, "", err
	}

	s.hub.BroadcastEvent(EventRequestCreated, request)
	created, err := s.reload(ctx, request.ReferenceNumber)
	return created, warning, err
}

func (s *vehicleRequestService) List(ctx context.Context, filter RequestFilter, viewerID, viewerRole string) ([]model.VehicleRequest, int64, error) {
	query := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.VehicleRequest{}), filter, viewerID, viewerRole)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicle requests: %w", err)
	}

	var requests []model.VehicleRequest
	fetch := scopeRequestQuery(s.db.WithContext(ctx).Model(&model.VehicleRequest{}), filter, viewerID, viewerRole)
	if err := fetch.
		Preload("Requester").Preload("Department").Preload("Vehicle").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicle requests: %w", err)
	}

	return requests, total, nil
}

func (s *vehicleRequestService) GetByReference(ctx context.Context, reference, viewerID, viewerRole string) (*model.VehicleRequest, error) {
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

func (s *vehicleRequestService) Update(ctx context.Context, reference string, req UpdateVehicleRequestDTO, userID string) (*model.VehicleRequest, string, error) {
	var request model.VehicleRequest
	if err := s.db.WithContext(ctx).First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, "", fmt.Errorf("vehicle request not found: %w", err)
	}
	if request.Archived {
		return nil, "", fmt.Errorf("vehicle request %s is archived", reference)
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
	if req.TripDate != "" {
		request.TripDate = req.TripDate
	}
	if req.TimeOfDeparture != "" {
		request.TimeOfDeparture = req.TimeOfDeparture
	}
	if req.TimeOfArrival != "" {
		request.TimeOfArrival = req.TimeOfArrival
	}
	if req.Destination != "" {
		request.Destination = req.Destination
	}
	if req.Passengers != nil {
		request.Passengers = *req.Passengers
	}

	if res := validation.ValidateTimeRange(request.TimeOfDeparture, request.TimeOfArrival); res.Error != "" {
		return nil, "", fmt.Errorf("%s", res.Error)
	}

	warning := ""
	if request.VehicleID != nil {
		var vehicle model.Vehicle
		if err := s.db.WithContext(ctx).First(&vehicle, "id = ?", request.VehicleID).Error; err == nil {
			capRes := validation.ValidatePassengers(vehicle.Capacity, request.Passengers)
			if capRes.Error != "" {
				return nil, "", fmt.Errorf("%s", capRes.Error)
			}
			warning = capRes.Warning
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update vehicle request: %w", saveErr)
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

func (s *vehicleRequestService) UpdateStatus(ctx context.Context, reference, status, userID string) (*model.VehicleRequest, error) {
	var request model.VehicleRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("vehicle request not found: %w", findErr)
		}
		if !validStatusTransition(request.Status, status) {
			return fmt.Errorf("cannot change status from %s to %s", request.Status, status)
		}

		previous := request.Status
		request.Status = status
		if saveErr := tx.Save(&request).Error; saveErr != nil {
			return fmt.Errorf("failed to update vehicle request status: %w", saveErr)
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

func (s *vehicleRequestService) ApproverDecision(ctx context.Context, reference string, approverID string, req ApproverDecisionDTO) (*model.VehicleRequest, error) {
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	var request model.VehicleRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if findErr := tx.First(&request, "reference_number = ?", reference).Error; findErr != nil {
			return fmt.Errorf("vehicle request not found: %w", findErr)
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

func (s *vehicleRequestService) Archive(ctx context.Context, reference, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.VehicleRequest{}).
			Where("reference_number = ? AND archived = false", reference).
			Update("archived", true)
		if result.Error != nil {
			return fmt.Errorf("failed to archive vehicle request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("vehicle request %s not found or already archived", reference)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionArchiveRequest, reference, "", nil)
	})
}

func (s *vehicleRequestService) reload(ctx context.Context, reference string) (*model.VehicleRequest, error) {
	var request model.VehicleRequest
	if err := s.db.WithContext(ctx).
		Preload("Requester").Preload("Department").Preload("Vehicle").
		First(&request, "reference_number = ?", reference).Error; err != nil {
		return nil, fmt.Errorf("failed to reload vehicle request: %w", err)
	}
	return &request, nil
}
