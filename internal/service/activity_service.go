package service

import (
	"context"
	"fmt"

	"servicelink/internal/model"

	"gorm.io/gorm"
)

// --- DTOs ---

type CreateActivityDTO struct {
	ReferenceNumber string `json:"reference_number" binding:"required"`
	Content         string `json:"content" binding:"required"`
	Visibility      string `json:"visibility" binding:"omitempty,oneof=public internal"`
}

type ActivityResponse struct {
	ID              string `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	UserID          string `json:"user_id,omitempty"`
	Author          string `json:"author"`
	Type            string `json:"type"`
	Visibility      string `json:"visibility"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
}

// --- Interface ---

type ActivityService interface {
	ListByReference(ctx context.Context, reference, viewerRole string, page, limit int) ([]ActivityResponse, int64, error)
	CreateComment(ctx context.Context, req CreateActivityDTO, authorID string) (*ActivityResponse, error)
}

type activityService struct {
	db  *gorm.DB
	hub Broadcaster
}

func NewActivityService(db *gorm.DB, hub Broadcaster) ActivityService {
	return &activityService{db: db, hub: hub}
}

// --- Implementation ---

// ListByReference returns a request's activity feed, oldest first.
// Internal entries are hidden from requesters.
func (s *activityService) ListByReference(ctx context.Context, reference, viewerRole string, page, limit int) ([]ActivityResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	base := s.db.WithContext(ctx).Model(&model.RequestActivity{}).
		Where("reference_number = ?", reference)
	if viewerRole == model.RoleRequester {
		base = base.Where("visibility = ?", model.VisibilityPublic)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity entries: %w", err)
	}

	var entries []model.RequestActivity
	fetch := s.db.WithContext(ctx).Preload("User").
		Where("reference_number = ?", reference)
	if viewerRole == model.RoleRequester {
		fetch = fetch.Where("visibility = ?", model.VisibilityPublic)
	}
	if err := fetch.
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch activity entries: %w", err)
	}

	result := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toActivityResponse(e))
	}
	return result, total, nil
}

func (s *activityService) CreateComment(ctx context.Context, req CreateActivityDTO, authorID string) (*ActivityResponse, error) {
	author := parseUserID(authorID)
	if author == nil {
		return nil, fmt.Errorf("invalid author id")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	activity := model.RequestActivity{
		ReferenceNumber: req.ReferenceNumber,
		UserID:          author,
		Type:            model.ActivityComment,
		Visibility:      visibility,
		Content:         req.Content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if createErr := tx.Create(&activity).Error; createErr != nil {
			return fmt.Errorf("failed to create activity: %w", createErr)
		}
		return writeAudit(tx, author, model.ActionCreateActivity, req.ReferenceNumber, "", map[string]string{
			"type": model.ActivityComment,
		})
	})
	if err != nil {
		return nil, err
	}

	if loadErr := s.db.WithContext(ctx).Preload("User").First(&activity, "id = ?", activity.ID).Error; loadErr != nil {
		return nil, fmt.Errorf("failed to reload activity: %w", loadErr)
	}

	s.hub.BroadcastEvent(EventActivityCreated, activity)
	resp := toActivityResponse(activity)
	return &resp, nil
}

func toActivityResponse(a model.RequestActivity) ActivityResponse {
	resp := ActivityResponse{
		ID:              a.ID.String(),
		ReferenceNumber: a.ReferenceNumber,
		Author:          "System",
		Type:            a.Type,
		Visibility:      a.Visibility,
		Content:         a.Content,
		CreatedAt:       a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.UserID != nil {
		resp.UserID = a.UserID.String()
	}
	if a.User != nil {
		resp.Author = a.User.FullName()
	}
	return resp
}
