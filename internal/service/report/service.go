package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/report"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/task"
	"github.com/majkus1/time-and-leave-management-app-sub000/internal/domain/workday"
)

// ReportServiceImpl aggregates the session ledger into monthly per-task
// reports. Read-only; it never takes the per-user lock.
type ReportServiceImpl struct {
	workday.WorkdayRepository
	task.TaskRepository
	loc *time.Location
}

func NewReportService(
	workdayRepo workday.WorkdayRepository,
	taskRepo task.TaskRepository,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		WorkdayRepository: workdayRepo,
		TaskRepository:    taskRepo,
		loc:               loc,
	}
}

// SessionsForRange implements report.ReportService.
func (s *ReportServiceImpl) SessionsForRange(ctx context.Context, req report.SessionsForRangeRequest) (report.SessionsForRangeResponse, error) {
	if err := req.Validate(); err != nil {
		return report.SessionsForRangeResponse{}, err
	}

	userID, companyID, err := callerFromContext(ctx)
	if err != nil {
		return report.SessionsForRangeResponse{}, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	days, err := s.WorkdayRepository.ListForRange(ctx, userID, from, to, companyID)
	if err != nil {
		return report.SessionsForRangeResponse{}, fmt.Errorf("failed to list workdays: %w", err)
	}

	groups := make(map[string]*report.SessionGroup)
	var order []string
	var totalMinutes int64
	dateSet := make(map[string]struct{})

	for _, day := range days {
		for _, session := range day.Sessions {
			// Breaks are excluded from the groups but the day still counts
			// as one with activity
			dateSet[day.Date.Format("2006-01-02")] = struct{}{}

			if session.IsBreak {
				continue
			}

			minutes :=(session.ElapsedSeconds() - session.BreakSeconds) / 60
			if minutes < 0 {
				minutes = 0
			}

			key, label, taskID := s.groupKey(ctx, session, companyID)
			group, ok := groups[key]
			if !ok {
				group = &report.SessionGroup{Key: key, Label: label, TaskID: taskID}
				groups[key] = group
				order = append(order, key)
			}
			group.TotalMinutes += minutes
			group.SessionCount++
			totalMinutes += minutes
		}
	}

	result := make([]report.SessionGroup, 0, len(order))
	for _, key := range order {
		group := *groups[key]
		if totalMinutes > 0 {
			group.Percentage = float64(group.TotalMinutes) / float64(totalMinutes) * 100
		}
		result = append(result, group)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalMinutes > result[j].TotalMinutes
	})

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	return report.SessionsForRangeResponse{
		PeriodMonth:    req.Month,
		PeriodYear:     req.Year,
		PeriodStart:    from.Format("2006-01-02"),
		PeriodEnd:      to.AddDate(0, 0, -1).Format("2006-01-02"),
		Groups:         result,
		TotalMinutes:   totalMinutes,
		TotalHours:     float64(totalMinutes) / 60.0,
		AvailableDates: dates,
	}, nil
}

// groupKey buckets a session by its task when linked, otherwise by normalized
// description. A task whose row has since been removed degrades to its ID as
// the label rather than failing the whole report.
func (s *ReportServiceImpl) groupKey(ctx context.Context, session workday.WorkSession, companyID string) (key, label string, taskID *string) {
	if session.TaskID != nil {
		id := *session.TaskID
		label := id
		if t, err := s.TaskRepository.GetByID(ctx, id, companyID); err == nil {
			label = t.Title
		}
		return id, label, &id
	}

	normalized := strings.ToLower(strings.TrimSpace(session.WorkDescription))
	if normalized == "" {
		normalized = "(no description)"
	}
	label = strings.TrimSpace(session.WorkDescription)
	if label == "" {
		label = "(no description)"
	}
	return normalized, label, nil
}

func callerFromContext(ctx context.Context) (string, string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return userID, companyID, nil
}
