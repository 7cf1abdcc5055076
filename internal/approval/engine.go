// Package approval computes the required approvers for a request from
// the three approval-rule tables. It is a pure computation over
// caller-supplied slices: callers fetch the pool and rule tables first,
// then run Assign inside the request-creation transaction.
package approval

import (
	"servicelink/internal/model"

	"github.com/google/uuid"
)

// Input carries everything Assign needs. Pool is the set of users who
// can approve (typically all users holding a position); the rule tables
// are passed unfiltered and scoped here.
type Input struct {
	RequestType      string
	DepartmentID     *uuid.UUID
	DesignationID    *uuid.UUID
	Pool             []model.User
	RequestTypeRules []model.ApprovalRuleByRequestType
	DesignationRules []model.ApprovalRuleByDesignation
	DepartmentRules  []model.ApprovalRuleByDepartment
}

// rule is a scoped add/remove instruction; passes are built as ordered
// slices of these.
type rule struct {
	PositionID uuid.UUID
	Required   bool
}

// Assign returns the ordered approver list for a request. Rule passes
// apply in a fixed order: request type, then designation, then
// department. A later pass's remove rule undoes an earlier pass's add
// for the same position, so the order is part of the contract. When no
// pass matches any rule at all, the result is instead every pool member
// in the requester's department.
func Assign(in Input) []model.Approver {
	passes := [][]rule{
		requestTypePass(in),
		designationPass(in),
		departmentPass(in),
	}

	var approvers []model.Approver
	anyApplied := false
	for _, pass := range passes {
		if len(pass) == 0 {
			continue
		}
		anyApplied = true
		for _, r := range pass {
			if r.Required {
				approvers = addByPosition(approvers, in.Pool, r.PositionID)
			} else {
				approvers = removeByPosition(approvers, r.PositionID)
			}
		}
	}

	if !anyApplied {
		return departmentFallback(in.Pool, in.DepartmentID)
	}
	return approvers
}

func requestTypePass(in Input) []rule {
	var rules []rule
	for _, r := range in.RequestTypeRules {
		if r.RequestType == in.RequestType {
			rules = append(rules, rule{PositionID: r.PositionID, Required: r.Required})
		}
	}
	return rules
}

func designationPass(in Input) []rule {
	if in.DesignationID == nil {
		return nil
	}
	var rules []rule
	for _, r := range in.DesignationRules {
		if r.DesignationID == *in.DesignationID {
			rules = append(rules, rule{PositionID: r.PositionID, Required: r.Required})
		}
	}
	return rules
}

func departmentPass(in Input) []rule {
	if in.DepartmentID == nil {
		return nil
	}
	var rules []rule
	for _, r := range in.DepartmentRules {
		if r.DepartmentID == *in.DepartmentID {
			rules = append(rules, rule{PositionID: r.PositionID, Required: r.Required})
		}
	}
	return rules
}

// addByPosition appends every pool member holding the position, skipping
// users already present (dedup by user id).
func addByPosition(approvers []model.Approver, pool []model.User, positionID uuid.UUID) []model.Approver {
	for _, u := range pool {
		if u.PositionID == nil || *u.PositionID != positionID {
			continue
		}
		if containsUser(approvers, u.ID) {
			continue
		}
		approvers = append(approvers, model.Approver{
			UserID:     u.ID,
			Name:       u.FullName(),
			PositionID: positionID,
			Status:     model.ApproverPending,
		})
	}
	return approvers
}

func removeByPosition(approvers []model.Approver, positionID uuid.UUID) []model.Approver {
	kept := approvers[:0]
	for _, a := range approvers {
		if a.PositionID != positionID {
			kept = append(kept, a)
		}
	}
	return kept
}

// departmentFallback replaces the (empty) rule result with every pool
// member in the requester's department.
func departmentFallback(pool []model.User, departmentID *uuid.UUID) []model.Approver {
	if departmentID == nil {
		return nil
	}
	var approvers []model.Approver
	for _, u := range pool {
		if u.DepartmentID == nil || *u.DepartmentID != *departmentID {
			continue
		}
		if containsUser(approvers, u.ID) {
			continue
		}
		positionID := uuid.Nil
		if u.PositionID != nil {
			positionID = *u.PositionID
		}
		approvers = append(approvers, model.Approver{
			UserID:     u.ID,
			Name:       u.FullName(),
			PositionID: positionID,
			Status:     model.ApproverPending,
		})
	}
	return approvers
}

func containsUser(approvers []model.Approver, id uuid.UUID) bool {
	for _, a := range approvers {
		if a.UserID == id {
			return true
		}
	}
	return false
}
