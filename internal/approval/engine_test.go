package approval

import (
	"testing"

	"servicelink/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func user(name string, position, department uuid.UUID) model.User {
	return model.User{
		ID:           uuid.New(),
		Username:     name,
		FirstName:    name,
		PositionID:   ptr(position),
		DepartmentID: ptr(department),
	}
}

func TestAssignRequestTypeRuleAdds(t *testing.T) {
	posHead := uuid.New()
	dept := uuid.New()
	head := user("head", posHead, dept)

	got := Assign(Input{
		RequestType:  model.RequestTypeJob,
		DepartmentID: ptr(dept),
		Pool:         []model.User{head, user("other", uuid.New(), dept)},
		RequestTypeRules: []model.ApprovalRuleByRequestType{
			{RequestType: model.RequestTypeJob, PositionID: posHead, Required: true},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, head.ID, got[0].UserID)
	assert.Equal(t, posHead, got[0].PositionID)
	assert.Equal(t, model.ApproverPending, got[0].Status)
}

func TestAssignLaterPassRemovalWins(t *testing.T) {
	// A request-type rule adds position P; a department rule removes it.
	// The department pass runs last, so P must not survive.
	posP := uuid.New()
	dept := uuid.New()
	holder := user("holder", posP, dept)

	got := Assign(Input{
		RequestType:  model.RequestTypeVenue,
		DepartmentID: ptr(dept),
		Pool:         []model.User{holder},
		RequestTypeRules: []model.ApprovalRuleByRequestType{
			{RequestType: model.RequestTypeVenue, PositionID: posP, Required: true},
		},
		DepartmentRules: []model.ApprovalRuleByDepartment{
			{DepartmentID: dept, PositionID: posP, Required: false},
		},
	})

	assert.Empty(t, got)
}

func TestAssignRemoveThenAddKeepsPosition(t *testing.T) {
	// The mirror case: remove in an early pass, add in a later one.
	posP := uuid.New()
	dept := uuid.New()
	holder := user("holder", posP, dept)

	got := Assign(Input{
		RequestType:  model.RequestTypeVenue,
		DepartmentID: ptr(dept),
		Pool:         []model.User{holder},
		RequestTypeRules: []model.ApprovalRuleByRequestType{
			{RequestType: model.RequestTypeVenue, PositionID: posP, Required: false},
		},
		DepartmentRules: []model.ApprovalRuleByDepartment{
			{DepartmentID: dept, PositionID: posP, Required: true},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, holder.ID, got[0].UserID)
}

func TestAssignDedupByUserID(t *testing.T) {
	// Same user added via a designation rule and a department rule:
	// exactly one entry.
	posP := uuid.New()
	dept := uuid.New()
	desig := uuid.New()
	holder := user("holder", posP, dept)

	got := Assign(Input{
		RequestType:   model.RequestTypeJob,
		DepartmentID:  ptr(dept),
		DesignationID: ptr(desig),
		Pool:          []model.User{holder},
		DesignationRules: []model.ApprovalRuleByDesignation{
			{DesignationID: desig, PositionID: posP, Required: true},
		},
		DepartmentRules: []model.ApprovalRuleByDepartment{
			{DepartmentID: dept, PositionID: posP, Required: true},
		},
	})

	assert.Len(t, got, 1)
}

func TestAssignFallbackFiltersPoolByDepartment(t *testing.T) {
	dept := uuid.New()
	otherDept := uuid.New()
	inDept1 := user("a", uuid.New(), dept)
	inDept2 := user("b", uuid.New(), dept)
	outside := user("c", uuid.New(), otherDept)

	got := Assign(Input{
		RequestType:  model.RequestTypePurchasing,
		DepartmentID: ptr(dept),
		Pool:         []model.User{inDept1, outside, inDept2},
	})

	require.Len(t, got, 2)
	assert.Equal(t, inDept1.ID, got[0].UserID)
	assert.Equal(t, inDept2.ID, got[1].UserID)
}

func TestAssignFallbackReplacesNotMerges(t *testing.T) {
	// Non-matching rules leave every pass unapplied; the fallback must be
	// exactly the department filter, not a merge.
	dept := uuid.New()
	member := user("member", uuid.New(), dept)

	got := Assign(Input{
		RequestType:  model.RequestTypeJob,
		DepartmentID: ptr(dept),
		Pool:         []model.User{member},
		RequestTypeRules: []model.ApprovalRuleByRequestType{
			{RequestType: model.RequestTypeVenue, PositionID: uuid.New(), Required: true},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, member.ID, got[0].UserID)
}

func TestAssignScopedRulesOnly(t *testing.T) {
	// Rules for other departments/designations must not fire.
	posP := uuid.New()
	dept := uuid.New()
	desig := uuid.New()
	holder := user("holder", posP, dept)

	got := Assign(Input{
		RequestType:   model.RequestTypeJob,
		DepartmentID:  ptr(dept),
		DesignationID: ptr(desig),
		Pool:          []model.User{holder},
		DesignationRules: []model.ApprovalRuleByDesignation{
			{DesignationID: uuid.New(), PositionID: posP, Required: true},
		},
		DepartmentRules: []model.ApprovalRuleByDepartment{
			{DepartmentID: dept, PositionID: posP, Required: true},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, posP, got[0].PositionID)
}

func TestAssignRemoveOnlyTargetsPosition(t *testing.T) {
	posKeep := uuid.New()
	posDrop := uuid.New()
	dept := uuid.New()
	keeper := user("keeper", posKeep, dept)
	dropper := user("dropper", posDrop, dept)

	got := Assign(Input{
		RequestType:  model.RequestTypeVehicle,
		DepartmentID: ptr(dept),
		Pool:         []model.User{keeper, dropper},
		RequestTypeRules: []model.ApprovalRuleByRequestType{
			{RequestType: model.RequestTypeVehicle, PositionID: posKeep, Required: true},
			{RequestType: model.RequestTypeVehicle, PositionID: posDrop, Required: true},
		},
		DepartmentRules: []model.ApprovalRuleByDepartment{
			{DepartmentID: dept, PositionID: posDrop, Required: false},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, keeper.ID, got[0].UserID)
}

func TestAssignPureInputsUntouched(t *testing.T) {
	posP := uuid.New()
	dept := uuid.New()
	pool := []model.User{user("holder", posP, dept)}
	rules := []model.ApprovalRuleByRequestType{
		{RequestType: model.RequestTypeJob, PositionID: posP, Required: true},
	}

	_ = Assign(Input{
		RequestType:      model.RequestTypeJob,
		DepartmentID:     ptr(dept),
		Pool:             pool,
		RequestTypeRules: rules,
	})

	assert.Len(t, pool, 1)
	assert.True(t, rules[0].Required)
}
