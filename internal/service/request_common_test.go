package service

import (
	"testing"

	"servicelink/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceNumberFormat(t *testing.T) {
	tests := []struct {
		name        string
		requestType string
		year        int
		seq         int64
		want        string
	}{
		{"job request", model.RequestTypeJob, 2024, 1, "JR-2024-00001"},
		{"purchasing request", model.RequestTypePurchasing, 2025, 42, "PR-2025-00042"},
		{"venue request", model.RequestTypeVenue, 2026, 7, "VR-2026-00007"},
		{"vehicle request", model.RequestTypeVehicle, 2026, 310, "SV-2026-00310"},
		{"unknown type falls back", "field_trip", 2026, 1, "GR-2026-00001"},
		{"sequence beyond padding width", model.RequestTypeJob, 2026, 123456, "JR-2026-123456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stem := referenceNumberStem(tc.requestType, tc.year)
			assert.Equal(t, tc.want, formatReferenceNumber(stem, tc.seq))
		})
	}
}

func TestRecomputeStatus(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	tests := []struct {
		name      string
		current   string
		approvers model.ApproverList
		want      string
	}{
		{
			name:    "no approvers keeps current",
			current: model.StatusSubmitted,
			want:    model.StatusSubmitted,
		},
		{
			name:    "all approved approves",
			current: model.StatusPending,
			approvers: model.ApproverList{
				{UserID: a, Status: model.ApproverApproved},
				{UserID: b, Status: model.ApproverApproved},
			},
			want: model.StatusApproved,
		},
		{
			name:    "any rejection rejects",
			current: model.StatusPending,
			approvers: model.ApproverList{
				{UserID: a, Status: model.ApproverApproved},
				{UserID: b, Status: model.ApproverRejected},
			},
			want: model.StatusRejected,
		},
		{
			name:    "partial approvals stay pending",
			current: model.StatusPending,
			approvers: model.ApproverList{
				{UserID: a, Status: model.ApproverApproved},
				{UserID: b, Status: model.ApproverPending},
			},
			want: model.StatusPending,
		},
		{
			name:    "completed is terminal",
			current: model.StatusCompleted,
			approvers: model.ApproverList{
				{UserID: a, Status: model.ApproverRejected},
			},
			want: model.StatusCompleted,
		},
		{
			name:    "closed is terminal",
			current: model.StatusClosed,
			approvers: model.ApproverList{
				{UserID: a, Status: model.ApproverApproved},
			},
			want: model.StatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recomputeStatus(tt.current, tt.approvers))
		})
	}
}

func TestApplyApproverDecision(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	approvers := model.ApproverList{
		{UserID: a, Status: model.ApproverPending},
		{UserID: b, Status: model.ApproverPending},
	}

	updated, found := applyApproverDecision(approvers, b, model.ApproverApproved)
	require.True(t, found)
	assert.Equal(t, model.ApproverPending, updated[0].Status)
	assert.Equal(t, model.ApproverApproved, updated[1].Status)

	_, found = applyApproverDecision(approvers, uuid.New(), model.ApproverApproved)
	assert.False(t, found, "unknown user must not match any approver")
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		ok   bool
	}{
		{model.StatusSubmitted, model.StatusPending, true},
		{model.StatusSubmitted, model.StatusRejected, true},
		{model.StatusSubmitted, model.StatusApproved, false},
		{model.StatusPending, model.StatusApproved, true},
		{model.StatusPending, model.StatusRejected, true},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusApproved, model.StatusCompleted, true},
		{model.StatusApproved, model.StatusClosed, true},
		{model.StatusApproved, model.StatusPending, false},
		{model.StatusRejected, model.StatusClosed, true},
		{model.StatusRejected, model.StatusApproved, false},
		{model.StatusCompleted, model.StatusClosed, false},
		{model.StatusClosed, model.StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, validStatusTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAuthorizedAccessFor(t *testing.T) {
	requester := uuid.New()
	first := uuid.New()
	second := uuid.New()

	access := authorizedAccessFor(requester, model.ApproverList{
		{UserID: first},
		{UserID: second},
		{UserID: first}, // duplicate approver entry
	})

	require.Len(t, access, 3)
	assert.Equal(t, requester, access[0], "requester always comes first")
	assert.True(t, access.Contains(first))
	assert.True(t, access.Contains(second))
}

func TestCanViewRequest(t *testing.T) {
	owner := uuid.New()
	granted := uuid.New()
	outsider := uuid.New()

	common := model.RequestCommon{
		RequesterID:      owner,
		AuthorizedAccess: model.UUIDList{owner, granted},
	}

	assert.True(t, canViewRequest(owner, model.RoleRequester, common))
	assert.True(t, canViewRequest(granted, model.RoleRequester, common))
	assert.False(t, canViewRequest(outsider, model.RoleRequester, common))
	assert.True(t, canViewRequest(outsider, model.RoleApprover, common))
	assert.True(t, canViewRequest(outsider, model.RoleAdmin, common))
}

func TestTotalEstimatedCost(t *testing.T) {
	particulars := []model.Particular{
		{Quantity: 3, EstimatedCost: decimal.RequireFromString("12.50")},
		{Quantity: 2, EstimatedCost: decimal.RequireFromString("0.75")},
	}

	total := totalEstimatedCost(particulars)
	assert.True(t, total.Equal(decimal.RequireFromString("39.00")), "got %s", total)

	assert.True(t, totalEstimatedCost(nil).IsZero())
}

func TestParseUserID(t *testing.T) {
	id := uuid.New()
	parsed := parseUserID(id.String())
	require.NotNil(t, parsed)
	assert.Equal(t, id, *parsed)

	assert.Nil(t, parseUserID(""))
	assert.Nil(t, parseUserID("not-a-uuid"))
}
