package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity entry types
const (
	ActivityComment      = "comment"
	ActivityStatusChange = "status_change"
	ActivityApproval     = "approval"
)

// Activity visibility
const (
	VisibilityPublic   = "public"   // visible to everyone with access to the request
	VisibilityInternal = "internal" // visible to approvers and admins only
)

// RequestActivity is one entry in a request's activity feed. Entries are
// posted by users (comments) or written by the system alongside status
// and approver changes.
type RequestActivity struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReferenceNumber string     `gorm:"type:varchar(20);not null;index" json:"reference_number"`
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for system entries
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type            string     `gorm:"type:varchar(20);not null;index" json:"type"`
	Visibility      string     `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
