package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"servicelink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Websocket event names pushed by the request services
const (
	EventRequestCreated  = "request_created"
	EventRequestUpdated  = "request_updated"
	EventStatusChanged   = "status_changed"
	EventActivityCreated = "activity_created"
)

// Broadcaster is the slice of the websocket hub the services need.
type Broadcaster interface {
	BroadcastEvent(event string, payload interface{})
}

// ErrForbidden is returned when a viewer is not in a request's
// authorized-access set.
var ErrForbidden = errors.New("access denied")

// authorizedAccessFor builds the initial authorized-access set of a new
// request: the requester plus every assigned approver.
func authorizedAccessFor(requesterID uuid.UUID, approvers model.ApproverList) model.UUIDList {
	access := model.UUIDList{requesterID}
	for _, a := range approvers {
		if !access.Contains(a.UserID) {
			access = append(access, a.UserID)
		}
	}
	return access
}

// scopeRequestQuery applies the listing filter plus the viewer's access
// scope. Requesters only see their own requests and those whose
// authorized_access jsonb array contains their id.
func scopeRequestQuery(query *gorm.DB, filter RequestFilter, viewerID, viewerRole string) *gorm.DB {
	if !filter.IncludeArchived {
		query = query.Where("archived = false")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if viewerRole == model.RoleRequester {
		if viewer := parseUserID(viewerID); viewer != nil {
			query = query.Where(
				"requester_id = ? OR authorized_access @> ?",
				*viewer, fmt.Sprintf(`["%s"]`, viewer.String()),
			)
		}
	}
	return query
}

// referenceNumberStem is the part every reference number of a request
// type shares within a year, e.g. "JR-2024-".
func referenceNumberStem(requestType string, year int) string {
	return fmt.Sprintf("%s-%d-", model.ReferenceNumberPrefix(requestType), year)
}

// formatReferenceNumber appends the zero-padded sequence to a stem.
func formatReferenceNumber(stem string, seq int64) string {
	return fmt.Sprintf("%s%05d", stem, seq)
}

// generateReferenceNumber produces the next institution-assigned
// reference number for a request type, e.g. JR-2024-00001. The count is
// guarded by a Postgres advisory lock so concurrent submissions cannot
// draw the same sequence number.
func generateReferenceNumber(tx *gorm.DB, requestType string, requestModel interface{}) (string, error) {
	stem := referenceNumberStem(requestType, time.Now().Year())

	tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", stem)

	var count int64
	if err := tx.Model(requestModel).
		Unscoped().
		Where("reference_number LIKE ?", stem+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return formatReferenceNumber(stem, count+1), nil
}

// recomputeStatus derives a request's status from its approver
// decisions: any rejection rejects the request, a full set of approvals
// approves it, anything else stays pending. Terminal statuses
// (completed/closed) are never regressed.
func recomputeStatus(current string, approvers model.ApproverList) string {
	if current == model.StatusCompleted || current == model.StatusClosed {
		return current
	}
	if len(approvers) == 0 {
		return current
	}

	allApproved := true
	for _, a := range approvers {
		switch a.Status {
		case model.ApproverRejected:
			return model.StatusRejected
		case model.ApproverApproved:
		default:
			allApproved = false
		}
	}
	if allApproved {
		return model.StatusApproved
	}
	return model.StatusPending
}

// applyApproverDecision flips one approver's status. Returns false when
// the user is not among the request's approvers.
func applyApproverDecision(approvers model.ApproverList, userID uuid.UUID, decision string) (model.ApproverList, bool) {
	for i, a := range approvers {
		if a.UserID == userID {
			approvers[i].Status = decision
			return approvers, true
		}
	}
	return approvers, false
}

// canViewRequest enforces the authorized-access rule: admins and
// approvers see everything, requesters only their own requests and those
// they were explicitly granted access to.
func canViewRequest(viewerID uuid.UUID, viewerRole string, common model.RequestCommon) bool {
	if viewerRole == model.RoleAdmin || viewerRole == model.RoleApprover {
		return true
	}
	if common.RequesterID == viewerID {
		return true
	}
	return common.AuthorizedAccess.Contains(viewerID)
}

// validStatusTransition checks the request lifecycle:
// submitted → pending → approved/rejected → completed/closed.
func validStatusTransition(from, to string) bool {
	switch from {
	case model.StatusSubmitted:
		return to == model.StatusPending || to == model.StatusRejected
	case model.StatusPending:
		return to == model.StatusApproved || to == model.StatusRejected
	case model.StatusApproved:
		return to == model.StatusCompleted || to == model.StatusClosed
	case model.StatusRejected:
		return to == model.StatusClosed
	default:
		return false
	}
}

// writeAudit records an audit entry inside the caller's transaction.
func writeAudit(tx *gorm.DB, userID *uuid.UUID, action, entityID, entityName string, details interface{}) error {
	payload, _ := json.Marshal(details)
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := tx.Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// writeActivity appends a system entry to a request's activity feed
// inside the caller's transaction.
func writeActivity(tx *gorm.DB, reference string, userID *uuid.UUID, activityType, content string) error {
	activity := model.RequestActivity{
		ReferenceNumber: reference,
		UserID:          userID,
		Type:            activityType,
		Visibility:      model.VisibilityPublic,
		Content:         content,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return fmt.Errorf("failed to write request activity: %w", err)
	}
	return nil
}

// parseUserID converts the middleware's string user id, tolerating the
// empty string for system actions.
func parseUserID(id string) *uuid.UUID {
	if id == "" {
		return nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return &parsed
}

// auditAsync writes an audit entry outside any transaction for
// non-critical paths; failures are logged, not returned.
func auditAsync(ctx context.Context, db *gorm.DB, userID *uuid.UUID, action, entityID, entityName string, details interface{}) {
	if err := writeAudit(db.WithContext(ctx), userID, action, entityID, entityName, details); err != nil {
		log.Println("WARNING:", err)
	}
}
