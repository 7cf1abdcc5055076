package model

import (
	"time"

	"github.com/google/uuid"
)

// Approval rules decide which positions must approve a request. Each rule
// either adds (Required=true) or removes (Required=false) a position; the
// rule engine in internal/approval evaluates the three tables in a fixed
// order (request type, designation, department).

// ApprovalRuleByDepartment scopes a rule to the requester's department
type ApprovalRuleByDepartment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"department_id"`
	PositionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`
	Position     *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Required     bool      `gorm:"not null;default:true" json:"required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ApprovalRuleByDesignation scopes a rule to the requester's designation
type ApprovalRuleByDesignation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DesignationID uuid.UUID `gorm:"type:uuid;not null;index" json:"designation_id"`
	PositionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`
	Position      *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Required      bool      `gorm:"not null;default:true" json:"required"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ApprovalRuleByRequestType scopes a rule to the kind of request
type ApprovalRuleByRequestType struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestType string    `gorm:"type:varchar(30);not null;index" json:"request_type"`
	PositionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`
	Position    *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Required    bool      `gorm:"not null;default:true" json:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
