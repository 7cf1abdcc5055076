package service

import (
	"context"
	"time"

	"servicelink/internal/model"

	"gorm.io/gorm"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryCount struct {
	JobCategory string `json:"job_category"`
	Count       int64  `json:"count"`
}

type RequestTypeStats struct {
	RequestType string        `json:"request_type"`
	Total       int64         `json:"total"`
	ByStatus    []StatusCount `json:"by_status"`
}

type StatisticsResponse struct {
	TimeRangeStartDate time.Time          `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time          `json:"time_range_end_date"`
	TotalRequests      int64              `json:"total_requests"`
	PendingApprovals   int64              `json:"pending_approvals"`
	ByRequestType      []RequestTypeStats `json:"by_request_type"`
	TopJobCategories   []CategoryCount    `json:"top_job_categories"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates request counts per type and status inside a
// time bracket, plus the most frequent job categories.
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (StatisticsResponse, error) {
	var response StatisticsResponse
	response.TimeRangeStartDate = startDate
	response.TimeRangeEndDate = endDate

	tables := []struct {
		requestType string
		model       interface{}
	}{
		{model.RequestTypeJob, &model.JobRequest{}},
		{model.RequestTypePurchasing, &model.PurchasingRequest{}},
		{model.RequestTypeVenue, &model.VenueRequest{}},
		{model.RequestTypeVehicle, &model.VehicleRequest{}},
	}

	for _, t := range tables {
		stats := RequestTypeStats{RequestType: t.requestType}

		var counts []StatusCount
		if err := s.db.WithContext(ctx).Model(t.model).
			Select("status, COUNT(*) as count").
			Where("archived = false AND created_at >= ? AND created_at <= ?", startDate, endDate).
			Group("status").
			Order("status ASC").
			Scan(&counts).Error; err != nil {
			return StatisticsResponse{}, err
		}

		for _, c := range counts {
			stats.Total += c.Count
			if c.Status == model.StatusPending || c.Status == model.StatusSubmitted {
				response.PendingApprovals += c.Count
			}
		}
		stats.ByStatus = counts
		response.TotalRequests += stats.Total
		response.ByRequestType = append(response.ByRequestType, stats)
	}

	// Most frequent job categories in the bracket
	var topCategories []CategoryCount
	if err := s.db.WithContext(ctx).Model(&model.JobRequest{}).
		Select("job_category, COUNT(*) as count").
		Where("archived = false AND created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("job_category").
		Order("count DESC").
		Limit(5).
		Scan(&topCategories).Error; err != nil {
		return StatisticsResponse{}, err
	}
	response.TopJobCategories = topCategories

	return response, nil
}
