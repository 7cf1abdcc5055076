package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request type discriminators, also the scope keys of request-type
// approval rules and the prefixes of reference numbers.
const (
	RequestTypeJob        = "job_request"
	RequestTypePurchasing = "purchasing_request"
	RequestTypeVenue      = "venue_request"
	RequestTypeVehicle    = "vehicle_request"
)

// Request lifecycle statuses: submitted → pending → approved/rejected →
// completed/closed. Requests are archived, never hard-deleted.
const (
	StatusSubmitted = "submitted"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
	StatusClosed    = "closed"
)

// Per-approver decision states
const (
	ApproverPending  = "pending"
	ApproverApproved = "approved"
	ApproverRejected = "rejected"
)

// ReferenceNumberPrefix maps a request type to the prefix of its
// institution-assigned reference number (e.g. JR-2024-00001).
func ReferenceNumberPrefix(requestType string) string {
	switch requestType {
	case RequestTypeJob:
		return "JR"
	case RequestTypePurchasing:
		return "PR"
	case RequestTypeVenue:
		return "VR"
	case RequestTypeVehicle:
		return "SV"
	default:
		return "GR"
	}
}

// Particular is a single line item within a request
type Particular struct {
	Quantity      int             `json:"quantity"`
	Particulars   string          `json:"particulars"`
	Description   string          `json:"description"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// Approver is a required approver attached to a request. The rule engine
// proposes entries; the request owns the final list and its statuses.
type Approver struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	PositionID uuid.UUID `json:"position_id"`
	Status     string    `json:"status"`
}

// ParticularList, ApproverList and UUIDList are stored as jsonb columns.

type ParticularList []Particular

func (l ParticularList) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *ParticularList) Scan(src interface{}) error  { return jsonbScan(src, l) }

type ApproverList []Approver

func (l ApproverList) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *ApproverList) Scan(src interface{}) error  { return jsonbScan(src, l) }

type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *UUIDList) Scan(src interface{}) error  { return jsonbScan(src, l) }

// Contains reports whether id is in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// RequestCommon holds the column set shared by every request kind.
type RequestCommon struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReferenceNumber  string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"reference_number"`
	RequesterID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester        *User          `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	DepartmentID     *uuid.UUID     `gorm:"type:uuid;index" json:"department_id"`
	Department       *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Purpose          string         `gorm:"type:text" json:"purpose"`
	Remarks          string         `gorm:"type:text" json:"remarks"`
	Description      string         `gorm:"type:text" json:"description"`
	Particulars      ParticularList `gorm:"type:jsonb" json:"particulars"`
	Approvers        ApproverList   `gorm:"type:jsonb" json:"approvers"`
	Status           string         `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	AuthorizedAccess UUIDList       `gorm:"type:jsonb" json:"authorized_access"`
	Archived         bool           `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// JobRequest is a repair/maintenance job order. JobCategory is assigned
// server-side by the classifier on creation.
type JobRequest struct {
	RequestCommon `gorm:"embedded"`
	JobCategory   string     `gorm:"type:varchar(50);index" json:"job_category"`
	DateNeeded    *time.Time `json:"date_needed"`
}

// PurchasingRequest is a supply/equipment purchase request. The total is
// recomputed from particulars on every write.
type PurchasingRequest struct {
	RequestCommon      `gorm:"embedded"`
	Supplier           string          `gorm:"type:varchar(255)" json:"supplier"`
	TotalEstimatedCost decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_estimated_cost"`
}

// VenueRequest books a venue for an event on a given date and time range.
// Dates are YYYY-MM-DD and times HH:MM, matching the validators.
type VenueRequest struct {
	RequestCommon `gorm:"embedded"`
	VenueID       *uuid.UUID `gorm:"type:uuid;index" json:"venue_id"`
	Venue         *Venue     `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	EventDate     string     `gorm:"type:varchar(10);index" json:"event_date"`
	StartTime     string     `gorm:"type:varchar(5)" json:"start_time"`
	EndTime       string     `gorm:"type:varchar(5)" json:"end_time"`
	Pax           int        `json:"pax"`
}

// VehicleRequest books an institutional vehicle for a trip.
type VehicleRequest struct {
	RequestCommon   `gorm:"embedded"`
	VehicleID       *uuid.UUID `gorm:"type:uuid;index" json:"vehicle_id"`
	Vehicle         *Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	TripDate        string     `gorm:"type:varchar(10);index" json:"trip_date"`
	TimeOfDeparture string     `gorm:"type:varchar(5)" json:"time_of_departure"`
	TimeOfArrival   string     `gorm:"type:varchar(5)" json:"time_of_arrival"`
	Destination     string     `gorm:"type:varchar(255)" json:"destination"`
	Passengers      int        `json:"passengers"`
}
