package service

import (
	"context"
	"errors"
	"fmt"

	"servicelink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type NamedSettingDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type VenueDTO struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Capacity *int   `json:"capacity"`
}

type VehicleDTO struct {
	Name        string `json:"name" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`
	Capacity    *int   `json:"capacity"`
}

// --- Interface ---

type SettingsService interface {
	ListDepartments(ctx context.Context) ([]model.Department, error)
	CreateDepartment(ctx context.Context, req NamedSettingDTO, userID string) (*model.Department, error)
	UpdateDepartment(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Department, error)
	DeleteDepartment(ctx context.Context, id string, userID string) error

	ListDesignations(ctx context.Context) ([]model.Designation, error)
	CreateDesignation(ctx context.Context, req NamedSettingDTO, userID string) (*model.Designation, error)
	UpdateDesignation(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Designation, error)
	DeleteDesignation(ctx context.Context, id string, userID string) error

	ListPositions(ctx context.Context) ([]model.Position, error)
	CreatePosition(ctx context.Context, req NamedSettingDTO, userID string) (*model.Position, error)
	UpdatePosition(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Position, error)
	DeletePosition(ctx context.Context, id string, userID string) error

	ListVenues(ctx context.Context) ([]model.Venue, error)
	CreateVenue(ctx context.Context, req VenueDTO, userID string) (*model.Venue, error)
	UpdateVenue(ctx context.Context, id string, req VenueDTO, userID string) (*model.Venue, error)
	DeleteVenue(ctx context.Context, id string, userID string) error

	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	CreateVehicle(ctx context.Context, req VehicleDTO, userID string) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, req VehicleDTO, userID string) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string, userID string) error
}

type settingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) SettingsService {
	return &settingsService{db: db}
}

// --- Departments ---

func (s *settingsService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	var items []model.Department
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}
	return items, nil
}

func (s *settingsService) CreateDepartment(ctx context.Context, req NamedSettingDTO, userID string) (*model.Department, error) {
	item := model.Department{Name: req.Name, Description: req.Description}
	if err := s.createSetting(ctx, &item, userID, "department", req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) UpdateDepartment(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Department, error) {
	var item model.Department
	if err := s.fetchSetting(ctx, id, &item, "department"); err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.Description = req.Description
	if err := s.updateSetting(ctx, &item, userID, "department", item.ID.String(), req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) DeleteDepartment(ctx context.Context, id string, userID string) error {
	var item model.Department
	if err := s.fetchSetting(ctx, id, &item, "department"); err != nil {
		return err
	}

	var inUse int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("department_id = ?", item.ID).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check department usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("department '%s' is still assigned to %d user(s)", item.Name, inUse)
	}

	return s.deleteSetting(ctx, &item, userID, "department", item.ID.String(), item.Name)
}

// --- Designations ---

func (s *settingsService) ListDesignations(ctx context.Context) ([]model.Designation, error) {
	var items []model.Designation
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch designations: %w", err)
	}
	return items, nil
}

func (s *settingsService) CreateDesignation(ctx context.Context, req NamedSettingDTO, userID string) (*model.Designation, error) {
	item := model.Designation{Name: req.Name, Description: req.Description}
	if err := s.createSetting(ctx, &item, userID, "designation", req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) UpdateDesignation(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Designation, error) {
	var item model.Designation
	if err := s.fetchSetting(ctx, id, &item, "designation"); err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.Description = req.Description
	if err := s.updateSetting(ctx, &item, userID, "designation", item.ID.String(), req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) DeleteDesignation(ctx context.Context, id string, userID string) error {
	var item model.Designation
	if err := s.fetchSetting(ctx, id, &item, "designation"); err != nil {
		return err
	}
	return s.deleteSetting(ctx, &item, userID, "designation", item.ID.String(), item.Name)
}

// --- Positions ---

func (s *settingsService) ListPositions(ctx context.Context) ([]model.Position, error) {
	var items []model.Position
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	return items, nil
}

func (s *settingsService) CreatePosition(ctx context.Context, req NamedSettingDTO, userID string) (*model.Position, error) {
	item := model.Position{Name: req.Name, Description: req.Description}
	if err := s.createSetting(ctx, &item, userID, "position", req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) UpdatePosition(ctx context.Context, id string, req NamedSettingDTO, userID string) (*model.Position, error) {
	var item model.Position
	if err := s.fetchSetting(ctx, id, &item, "position"); err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.Description = req.Description
	if err := s.updateSetting(ctx, &item, userID, "position", item.ID.String(), req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) DeletePosition(ctx context.Context, id string, userID string) error {
	var item model.Position
	if err := s.fetchSetting(ctx, id, &item, "position"); err != nil {
		return err
	}

	// Positions are referenced by approval rules; refuse to delete one
	// that still drives assignments.
	var ruleCount int64
	for _, m := range []interface{}{
		&model.ApprovalRuleByDepartment{},
		&model.ApprovalRuleByDesignation{},
		&model.ApprovalRuleByRequestType{},
	} {
		var count int64
		if err := s.db.WithContext(ctx).Model(m).
			Where("position_id = ?", item.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check position usage: %w", err)
		}
		ruleCount += count
	}
	if ruleCount > 0 {
		return fmt.Errorf("position '%s' is still referenced by %d approval rule(s)", item.Name, ruleCount)
	}

	return s.deleteSetting(ctx, &item, userID, "position", item.ID.String(), item.Name)
}

// --- Venues ---

func (s *settingsService) ListVenues(ctx context.Context) ([]model.Venue, error) {
	var items []model.Venue
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch venues: %w", err)
	}
	return items, nil
}

func (s *settingsService) CreateVenue(ctx context.Context, req VenueDTO, userID string) (*model.Venue, error) {
	if req.Capacity != nil && *req.Capacity < 0 {
		return nil, fmt.Errorf("capacity must be non-negative")
	}
	item := model.Venue{Name: req.Name, Location: req.Location, Capacity: req.Capacity}
	if err := s.createSetting(ctx, &item, userID, "venue", req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) UpdateVenue(ctx context.Context, id string, req VenueDTO, userID string) (*model.Venue, error) {
	if req.Capacity != nil && *req.Capacity < 0 {
		return nil, fmt.Errorf("capacity must be non-negative")
	}
	var item model.Venue
	if err := s.fetchSetting(ctx, id, &item, "venue"); err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.Location = req.Location
	item.Capacity = req.Capacity
	if err := s.updateSetting(ctx, &item, userID, "venue", item.ID.String(), req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) DeleteVenue(ctx context.Context, id string, userID string) error {
	var item model.Venue
	if err := s.fetchSetting(ctx, id, &item, "venue"); err != nil {
		return err
	}
	return s.deleteSetting(ctx, &item, userID, "venue", item.ID.String(), item.Name)
}

// --- Vehicles ---

func (s *settingsService) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var items []model.Vehicle
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return items, nil
}

func (s *settingsService) CreateVehicle(ctx context.Context, req VehicleDTO, userID string) (*model.Vehicle, error) {
	if req.Capacity != nil && *req.Capacity < 0 {
		return nil, fmt.Errorf("capacity must be non-negative")
	}
	item := model.Vehicle{Name: req.Name, PlateNumber: req.PlateNumber, Capacity: req.Capacity}
	if err := s.createSetting(ctx, &item, userID, "vehicle", req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) UpdateVehicle(ctx context.Context, id string, req VehicleDTO, userID string) (*model.Vehicle, error) {
	if req.Capacity != nil && *req.Capacity < 0 {
		return nil, fmt.Errorf("capacity must be non-negative")
	}
	var item model.Vehicle
	if err := s.fetchSetting(ctx, id, &item, "vehicle"); err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.PlateNumber = req.PlateNumber
	item.Capacity = req.Capacity
	if err := s.updateSetting(ctx, &item, userID, "vehicle", item.ID.String(), req.Name, req); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *settingsService) DeleteVehicle(ctx context.Context, id string, userID string) error {
	var item model.Vehicle
	if err := s.fetchSetting(ctx, id, &item, "vehicle"); err != nil {
		return err
	}
	return s.deleteSetting(ctx, &item, userID, "vehicle", item.ID.String(), item.Name)
}

// --- Helpers ---

func (s *settingsService) fetchSetting(ctx context.Context, id string, dest interface{}, kind string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid %s id: %w", kind, err)
	}
	if err := s.db.WithContext(ctx).First(dest, "id = ?", parsed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s not found", kind)
		}
		return fmt.Errorf("failed to fetch %s: %w", kind, err)
	}
	return nil
}

func (s *settingsService) createSetting(ctx context.Context, item interface{}, userID, kind, name string, details interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", kind, err)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionCreateSetting, kind, name, details)
	})
}

func (s *settingsService) updateSetting(ctx context.Context, item interface{}, userID, kind, id, name string, details interface{}) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return fmt.Errorf("failed to update %s: %w", kind, err)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionUpdateSetting, id, name, details)
	})
}

func (s *settingsService) deleteSetting(ctx context.Context, item interface{}, userID, kind, id, name string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, err)
		}
		return writeAudit(tx, parseUserID(userID), model.ActionDeleteSetting, id, name, map[string]string{"deleted": kind})
	})
}
