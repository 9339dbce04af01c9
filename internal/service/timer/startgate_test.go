package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/leave"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
)

func TestCanStart_AllowedOnPlainWorkday(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Nil(t, decision.Reason)
}

func TestCanStart_WeekendDeniedWhenDisabled(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.settings.WorkOnWeekends = false
	ctx := authedContext(t, testUserID, testCompanyID)

	// Saturday
	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-03-08"})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.Reason)
	assert.Equal(t, workday.ReasonWeekend, *decision.Reason)
	require.NotNil(t, decision.Message)
	assert.NotEmpty(t, *decision.Message)
}

func TestCanStart_WeekendAllowedWhenEnabled(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.settings.WorkOnWeekends = true
	ctx := authedContext(t, testUserID, testCompanyID)

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-03-08"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanStart_HolidayDenied(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.holidays["2025-05-01"] = true
	ctx := authedContext(t, testUserID, testCompanyID)

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-05-01"})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.Reason)
	assert.Equal(t, workday.ReasonHoliday, *decision.Reason)
}

func TestCanStart_LeaveOverlapDenied(t *testing.T) {
	fx := newTimerFixture(t)
	fx.leaves.ranges = []leave.Range{{
		StartDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	}}
	ctx := authedContext(t, testUserID, testCompanyID)

	for _, date := range []string{"2025-03-03", "2025-03-05", "2025-03-07"} {
		decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: date})
		require.NoError(t, err)
		assert.False(t, decision.Allowed, date)
		require.NotNil(t, decision.Reason)
		assert.Equal(t, workday.ReasonLeaveOverlap, *decision.Reason)
	}

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-03-10"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanStart_ManualEntryWinsOverWeekend(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.settings.WorkOnWeekends = false
	ctx := authedContext(t, testUserID, testCompanyID)

	// Saturday with manual hours already entered
	_, err := fx.svc.UpsertManualEntry(ctx, workday.ManualEntryRequest{
		Date:        "2025-03-08",
		HoursWorked: 4,
	})
	require.NoError(t, err)

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-03-08"})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.Reason)
	assert.Equal(t, workday.ReasonManualEntryConflict, *decision.Reason)
}

func TestCanStart_ManualEntryWithZeroHoursDoesNotBlock(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.UpsertManualEntry(ctx, workday.ManualEntryRequest{
		Date: "2025-03-04",
	})
	require.NoError(t, err)

	decision, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-03-04"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanStart_DeniedTwiceIdentically(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.holidays["2025-05-01"] = true
	ctx := authedContext(t, testUserID, testCompanyID)

	first, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-05-01"})
	require.NoError(t, err)
	second, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "2025-05-01"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanStart_RejectsMalformedDate(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.CanStart(ctx, workday.CanStartRequest{Date: "03/08/2025"})
	assert.Error(t, err)
}

func TestStart_HolidayDeniedPersistsNothing(t *testing.T) {
	fx := newTimerFixture(t)
	fx.settings.holidays["2025-03-04"] = true
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Start(ctx, workday.StartTimerRequest{})
	var policyErr *workday.PolicyDeniedError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, workday.ReasonHoliday, policyErr.Reason)

	assert.Empty(t, fx.workdays.days)
	timer, err := fx.timers.GetByUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Nil(t, timer)
}
