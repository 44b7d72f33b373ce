package lifecycle

import (
	"strings"
	"testing"

	"processpilot/internal/app/role"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Email: "ops@processpilot.co.uk", Role: role.Admin}
}

func customerActor() Actor {
	return Actor{UserID: uuid.New(), Email: "client@example.com", Role: role.Customer}
}

func TestAllowedEdges(t *testing.T) {
	all := []Status{StatusInReview, StatusApproved, StatusInProgress, StatusCompleted, StatusDenied}
	legal := map[[2]Status]bool{
		{StatusInReview, StatusApproved}:    true,
		{StatusInReview, StatusDenied}:      true,
		{StatusApproved, StatusInProgress}:  true,
		{StatusInProgress, StatusCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			got := Allowed(from, to)
			want := legal[[2]Status{from, to}]
			assert.Equal(t, want, got, "edge %s -> %s", from, to)
		}
	}
}

func TestPlanTransitionRejectsNonAdmin(t *testing.T) {
	plan, err := PlanTransition(customerActor(), StatusInReview, StatusApproved, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, plan)
}

func TestPlanTransitionRejectsIllegalEdge(t *testing.T) {
	cases := []struct {
		from, to Status
	}{
		{StatusInReview, StatusCompleted},
		{StatusInReview, StatusInProgress},
		{StatusApproved, StatusDenied},
		{StatusApproved, StatusCompleted},
		{StatusCompleted, StatusInReview},
		{StatusDenied, StatusApproved},
		// same-status transitions are rejected, not treated as no-ops
		{StatusInReview, StatusInReview},
		{StatusCompleted, StatusCompleted},
	}

	for _, tc := range cases {
		_, err := PlanTransition(adminActor(), tc.from, tc.to, true)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}
}

func TestPlanTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := PlanTransition(adminActor(), StatusInReview, Status("archived"), false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlanTransitionSchedulesNotification(t *testing.T) {
	plan, err := PlanTransition(adminActor(), StatusInReview, StatusDenied, false)
	require.NoError(t, err)
	assert.Equal(t, StatusInReview, plan.From)
	assert.Equal(t, StatusDenied, plan.To)
	assert.Equal(t, []Effect{EffectNotifyOwner}, plan.Effects)
}

func TestPlanTransitionSchedulesInvoiceOnPricedCompletion(t *testing.T) {
	plan, err := PlanTransition(adminActor(), StatusInProgress, StatusCompleted, true)
	require.NoError(t, err)
	assert.Equal(t, []Effect{EffectNotifyOwner, EffectCreateInvoice}, plan.Effects)
}

func TestPlanTransitionSkipsInvoiceWithoutCost(t *testing.T) {
	plan, err := PlanTransition(adminActor(), StatusInProgress, StatusCompleted, false)
	require.NoError(t, err)
	assert.Equal(t, []Effect{EffectNotifyOwner}, plan.Effects)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusDenied.Terminal())
	assert.False(t, StatusInReview.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, Status("archived").Terminal())
}

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, ValidateSubmission("Invoice OCR bot", "Read PDFs, post to Xero"))
	assert.ErrorIs(t, ValidateSubmission("", "desc"), ErrValidation)
	assert.ErrorIs(t, ValidateSubmission("title", ""), ErrValidation)
	assert.ErrorIs(t, ValidateSubmission(strings.Repeat("t", MaxTitleLen+1), "desc"), ErrValidation)
	assert.ErrorIs(t, ValidateSubmission("title", strings.Repeat("d", MaxDescriptionLen+1)), ErrValidation)
	// limits are inclusive
	assert.NoError(t, ValidateSubmission(strings.Repeat("t", MaxTitleLen), strings.Repeat("d", MaxDescriptionLen)))
}

func TestValidateEstimatedCost(t *testing.T) {
	admin := adminActor()

	cost := 1500.0
	assert.NoError(t, ValidateEstimatedCost(admin, &cost))
	assert.NoError(t, ValidateEstimatedCost(admin, nil)) // clearing the estimate is allowed

	zero := 0.0
	assert.NoError(t, ValidateEstimatedCost(admin, &zero))

	neg := -1.0
	assert.ErrorIs(t, ValidateEstimatedCost(admin, &neg), ErrValidation)

	assert.ErrorIs(t, ValidateEstimatedCost(customerActor(), &cost), ErrUnauthorized)
}

func TestCanSubmitCredentials(t *testing.T) {
	assert.True(t, CanSubmitCredentials(StatusApproved))
	assert.True(t, CanSubmitCredentials(StatusInProgress))
	assert.False(t, CanSubmitCredentials(StatusInReview))
	assert.False(t, CanSubmitCredentials(StatusCompleted))
	assert.False(t, CanSubmitCredentials(StatusDenied))
}

func TestCanPay(t *testing.T) {
	assert.True(t, CanPay(StatusApproved, false))
	assert.False(t, CanPay(StatusApproved, true))
	assert.False(t, CanPay(StatusInReview, false))
	assert.False(t, CanPay(StatusInProgress, false))
	assert.False(t, CanPay(StatusCompleted, false))
}
