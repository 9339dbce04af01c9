package qrscan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/company"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/leave"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/qrcode"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/pkg/userlock"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/service/timer"
)

const (
	testUserID    = "8a9f8f00-4a32-7b11-9c3d-111111111111"
	testCompanyID = "8a9f8f00-4a32-7b11-9c3d-222222222222"
	testQRCodeID  = "8a9f8f00-4a32-7b11-9c3d-444444444444"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeQRRepo struct {
	codes map[string]qrcode.QRCode
}

func (f *fakeQRRepo) GetByCode(_ context.Context, code string, companyID string) (qrcode.QRCode, error) {
	qr, ok := f.codes[code]
	if !ok || qr.CompanyID != companyID {
		return qrcode.QRCode{}, qrcode.ErrQRCodeNotFound
	}
	return qr, nil
}

type fakeScanEventRepo struct {
	seq    int
	events []*qrcode.ScanEvent
}

func (f *fakeScanEventRepo) Create(_ context.Context, event qrcode.ScanEvent) (qrcode.ScanEvent, error) {
	f.seq++
	event.ID = fmt.Sprintf("se-%d", f.seq)
	stored := event
	f.events = append(f.events, &stored)
	return event, nil
}

func (f *fakeScanEventRepo) GetOpenForUser(_ context.Context, userID string, companyID string) (*qrcode.ScanEvent, error) {
	for i := len(f.events) - 1; i >= 0; i-- {
		e := f.events[i]
		if e.UserID == userID && e.CompanyID == companyID && e.ExitAt == nil {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeScanEventRepo) CloseExit(_ context.Context, id string, exitAt time.Time) error {
	for _, e := range f.events {
		if e.ID == id && e.ExitAt == nil {
			at := exitAt
			e.ExitAt = &at
			return nil
		}
	}
	return qrcode.ErrScanEventNotFound
}

type fakeWorkdayRepo struct {
	seq  int
	days []*workday.Workday
}

func (f *fakeWorkdayRepo) Create(_ context.Context, day workday.Workday) (workday.Workday, error) {
	f.seq++
	day.ID = fmt.Sprintf("wd-%d", f.seq)
	stored := day
	f.days = append(f.days, &stored)
	return day, nil
}

func (f *fakeWorkdayRepo) GetByID(_ context.Context, id string, companyID string) (workday.Workday, error) {
	for _, d := range f.days {
		if d.ID == id && d.CompanyID == companyID {
			return *d, nil
		}
	}
	return workday.Workday{}, workday.ErrWorkdayNotFound
}

func (f *fakeWorkdayRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time, companyID string) (*workday.Workday, error) {
	for _, d := range f.days {
		if d.UserID == userID && d.Date.Equal(date) && d.CompanyID == companyID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkdayRepo) AddToTotals(_ context.Context, id string, hoursDelta float64, additionalDelta float64) error {
	for _, d := range f.days {
		if d.ID == id {
			d.HoursWorked += hoursDelta
			d.AdditionalWorked += additionalDelta
			return nil
		}
	}
	return workday.ErrWorkdayNotFound
}

func (f *fakeWorkdayRepo) UpsertManualEntry(_ context.Context, day workday.Workday) (workday.Workday, error) {
	day.ManualEntry = true
	return f.Create(context.Background(), day)
}

func (f *fakeWorkdayRepo) ListForRange(_ context.Context, userID string, from time.Time, to time.Time, companyID string) ([]workday.Workday, error) {
	var out []workday.Workday
	for _, d := range f.days {
		if d.UserID == userID && d.CompanyID == companyID && !d.Date.Before(from) && d.Date.Before(to) {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	seq      int
	sessions []*workday.WorkSession
}

func (f *fakeSessionRepo) Append(_ context.Context, session workday.WorkSession) (workday.WorkSession, error) {
	f.seq++
	session.ID = fmt.Sprintf("ws-%d", f.seq)
	stored := session
	f.sessions = append(f.sessions, &stored)
	return session, nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string, _ string, _ string) (workday.WorkSession, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return *s, nil
		}
	}
	return workday.WorkSession{}, workday.ErrSessionNotFound
}

func (f *fakeSessionRepo) ListByWorkday(_ context.Context, workdayID string) ([]workday.WorkSession, error) {
	var out []workday.WorkSession
	for _, s := range f.sessions {
		if s.WorkdayID == workdayID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string, _ string, _ string) error {
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return workday.ErrSessionNotFound
}

type fakeActiveTimerRepo struct {
	seq    int
	timers map[string]*workday.ActiveTimer
}

func (f *fakeActiveTimerRepo) GetByUser(_ context.Context, userID string) (*workday.ActiveTimer, error) {
	t, ok := f.timers[userID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeActiveTimerRepo) Create(_ context.Context, t workday.ActiveTimer) (workday.ActiveTimer, error) {
	if _, ok := f.timers[t.UserID]; ok {
		return workday.ActiveTimer{}, workday.ErrTimerAlreadyRunning
	}
	f.seq++
	t.ID = fmt.Sprintf("at-%d", f.seq)
	stored := t
	f.timers[t.UserID] = &stored
	return t, nil
}

func (f *fakeActiveTimerRepo) Update(_ context.Context, t workday.ActiveTimer) error {
	for _, existing := range f.timers {
		if existing.ID == t.ID {
			*existing = t
			return nil
		}
	}
	return workday.ErrNoActiveTimer
}

func (f *fakeActiveTimerRepo) Delete(_ context.Context, id string) error {
	for userID, t := range f.timers {
		if t.ID == id {
			delete(f.timers, userID)
			return nil
		}
	}
	return workday.ErrNoActiveTimer
}

type fakeSettingsRepo struct {
	workOnWeekends bool
	holidays       map[string]bool
}

func (f *fakeSettingsRepo) GetSettings(_ context.Context, companyID string) (company.Settings, error) {
	return company.Settings{CompanyID: companyID, WorkOnWeekends: f.workOnWeekends}, nil
}

func (f *fakeSettingsRepo) IsHoliday(_ context.Context, _ string, date time.Time) (bool, error) {
	return f.holidays[date.Format("2006-01-02")], nil
}

type fakeLeaveRepo struct{}

func (fakeLeaveRepo) GetApprovedRanges(_ context.Context, _ string, _ string) ([]leave.Range, error) {
	return nil, nil
}

type scanFixture struct {
	svc      *ScanServiceImpl
	qrCodes  *fakeQRRepo
	scans    *fakeScanEventRepo
	workdays *fakeWorkdayRepo
	sessions *fakeSessionRepo
	timers   *fakeActiveTimerRepo
	settings *fakeSettingsRepo
	now      time.Time
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	qrCodes := &fakeQRRepo{codes: map[string]qrcode.QRCode{
		"GATE-A": {
			ID:        testQRCodeID,
			CompanyID: testCompanyID,
			Code:      "GATE-A",
			Label:     "Main entrance",
			Active:    true,
		},
	}}
	scans := &fakeScanEventRepo{}
	workdays := &fakeWorkdayRepo{}
	sessions := &fakeSessionRepo{}
	timers := &fakeActiveTimerRepo{timers: make(map[string]*workday.ActiveTimer)}
	settings := &fakeSettingsRepo{workOnWeekends: true, holidays: map[string]bool{}}

	gate := timer.NewStartGate(workdays, settings, fakeLeaveRepo{})
	svc := NewScanService(fakeTxRunner{}, qrCodes, scans, workdays, sessions, timers, gate, userlock.New(), loc).(*ScanServiceImpl)

	fx := &scanFixture{
		svc:      svc,
		qrCodes:  qrCodes,
		scans:    scans,
		workdays: workdays,
		sessions: sessions,
		timers:   timers,
		settings: settings,
		// Tuesday, 09:00 in Warsaw
		now: time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC),
	}
	svc.clock = func() time.Time { return fx.now }
	return fx
}

func (fx *scanFixture) advance(d time.Duration) {
	fx.now = fx.now.Add(d)
}

func authedContext(t *testing.T, userID, companyID string) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestScan_EntryOpensTimerBoundToCode(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.Equal(t, qrcode.ScanTypeEntry, resp.Type)
	require.NotNil(t, resp.Timer)
	require.NotNil(t, resp.Timer.QRCodeID)
	assert.Equal(t, testQRCodeID, *resp.Timer.QRCodeID)
	assert.Equal(t, "Main entrance", resp.Timer.WorkDescription)

	require.Len(t, fx.scans.events, 1)
	assert.Nil(t, fx.scans.events[0].ExitAt)
	require.Len(t, fx.workdays.days, 1)
}

func TestScan_UnknownCode(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-Z"})
	assert.ErrorIs(t, err, qrcode.ErrQRCodeNotFound)
}

func TestScan_OtherCompanyCode(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, "8a9f8f00-4a32-7b11-9c3d-999999999999")

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	assert.ErrorIs(t, err, qrcode.ErrQRCodeNotFound)
}

func TestScan_InactiveCode(t *testing.T) {
	fx := newScanFixture(t)
	qr := fx.qrCodes.codes["GATE-A"]
	qr.Active = false
	fx.qrCodes.codes["GATE-A"] = qr
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	assert.ErrorIs(t, err, qrcode.ErrQRCodeInactive)
}

func TestScan_EntryWhileTimerRunningPersistsNothing(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.timers.Create(ctx, workday.ActiveTimer{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		WorkdayID: "wd-manual",
		StartTime: fx.now,
	})
	require.NoError(t, err)

	_, err = fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	assert.ErrorIs(t, err, workday.ErrTimerAlreadyRunning)
	assert.Empty(t, fx.scans.events)
}

func TestScan_EntryDeniedByGatePersistsNothing(t *testing.T) {
	fx := newScanFixture(t)
	fx.settings.holidays["2025-03-04"] = true
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	var policyErr *workday.PolicyDeniedError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, workday.ReasonHoliday, policyErr.Reason)

	assert.Empty(t, fx.scans.events)
	assert.Empty(t, fx.workdays.days)
}

func TestScan_ExitFinalizesBoundTimer(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	fx.advance(8 * time.Hour)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.Equal(t, qrcode.ScanTypeExit, resp.Type)
	assert.False(t, resp.LegacyFallback)
	require.NotNil(t, resp.Session)
	assert.InDelta(t, 8.0, resp.Session.WorkedHours, 1e-9)

	require.Len(t, fx.scans.events, 1)
	assert.NotNil(t, fx.scans.events[0].ExitAt)

	timer, err := fx.timers.GetByUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Nil(t, timer)

	require.Len(t, fx.workdays.days, 1)
	assert.InDelta(t, 8.0, fx.workdays.days[0].HoursWorked, 1e-9)
}

func TestScan_ExitAfterMidnightClosesEntryDayShift(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	// 23:50 in Warsaw on March 4th
	fx.now = time.Date(2025, 3, 4, 22, 50, 0, 0, time.UTC)
	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	// 00:10 on March 5th, local time
	fx.advance(20 * time.Minute)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.Equal(t, qrcode.ScanTypeExit, resp.Type)
	assert.False(t, resp.LegacyFallback)
	require.NotNil(t, resp.Session)

	require.Len(t, fx.scans.events, 1)
	assert.NotNil(t, fx.scans.events[0].ExitAt)

	timer, err := fx.timers.GetByUser(ctx, testUserID)
	require.NoError(t, err)
	assert.Nil(t, timer)

	// The whole shift lands on the day the timer started
	require.Len(t, fx.workdays.days, 1)
	assert.Equal(t, "2025-03-04", fx.workdays.days[0].Date.Format("2006-01-02"))
	assert.InDelta(t, 20.0/60.0, fx.workdays.days[0].HoursWorked, 1e-9)
}

func TestScan_ExitKeepsBreakAccounting(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	// Break toggled through the timer while badge session is open
	fx.advance(2 * time.Hour)
	timer, err := fx.timers.GetByUser(ctx, testUserID)
	require.NoError(t, err)
	timer.IsBreak = true
	breakStart := fx.now
	timer.BreakStartTime = &breakStart
	require.NoError(t, fx.timers.Update(ctx, *timer))

	fx.advance(30 * time.Minute)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.Equal(t, int64(1800), resp.Session.BreakSeconds)
	assert.InDelta(t, 2.0, resp.Session.WorkedHours, 1e-9)
}

func TestScan_ExitWithManualTimerFallsBackToRawPair(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	// Raw entry exists but the running timer was started manually
	date := workday.DayOf(fx.now, fx.svc.loc)
	_, err := fx.scans.Create(ctx, qrcode.ScanEvent{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		QRCodeID:  testQRCodeID,
		ScanDate:  date,
		EntryAt:   fx.now,
	})
	require.NoError(t, err)

	day, err := fx.workdays.Create(ctx, workday.Workday{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		Date:      date,
	})
	require.NoError(t, err)
	_, err = fx.timers.Create(ctx, workday.ActiveTimer{
		UserID:          testUserID,
		CompanyID:       testCompanyID,
		WorkdayID:       day.ID,
		StartTime:       fx.now,
		WorkDescription: "manual work",
	})
	require.NoError(t, err)

	fx.advance(3 * time.Hour)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.Equal(t, qrcode.ScanTypeExit, resp.Type)
	assert.True(t, resp.LegacyFallback)
	require.NotNil(t, resp.Session)
	assert.InDelta(t, 3.0, resp.Session.WorkedHours, 1e-9)
	assert.Equal(t, int64(0), resp.Session.BreakSeconds)

	// The manual timer keeps running
	timer, err := fx.timers.GetByUser(ctx, testUserID)
	require.NoError(t, err)
	assert.NotNil(t, timer)
}

func TestScan_ExitWithNoTimerFallsBackToRawPair(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	date := workday.DayOf(fx.now, fx.svc.loc)
	_, err := fx.scans.Create(ctx, qrcode.ScanEvent{
		CompanyID: testCompanyID,
		UserID:    testUserID,
		QRCodeID:  testQRCodeID,
		ScanDate:  date,
		EntryAt:   fx.now,
	})
	require.NoError(t, err)

	fx.advance(90 * time.Minute)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	assert.True(t, resp.LegacyFallback)
	assert.InDelta(t, 1.5, resp.Session.WorkedHours, 1e-9)

	// Workday was created on demand for the entry day
	require.Len(t, fx.workdays.days, 1)
	assert.InDelta(t, 1.5, fx.workdays.days[0].HoursWorked, 1e-9)
}

func TestScan_SecondPairSameDay(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)
	fx.advance(4 * time.Hour)
	_, err = fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)

	fx.advance(time.Hour)
	resp, err := fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)
	assert.Equal(t, qrcode.ScanTypeEntry, resp.Type)

	fx.advance(3 * time.Hour)
	resp, err = fx.svc.Scan(ctx, qrcode.ScanRequest{Code: "GATE-A"})
	require.NoError(t, err)
	assert.Equal(t, qrcode.ScanTypeExit, resp.Type)

	require.Len(t, fx.workdays.days, 1)
	assert.InDelta(t, 7.0, fx.workdays.days[0].HoursWorked, 1e-9)
}

func TestScan_ValidatesCode(t *testing.T) {
	fx := newScanFixture(t)
	ctx := authedContext(t, testUserID, testCompanyID)

	_, err := fx.svc.Scan(ctx, qrcode.ScanRequest{})
	assert.Error(t, err)
}
