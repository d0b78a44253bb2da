package service

import (
	"context"
	stderrors "errors"
	"testing"

	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/pkg/errors"
)

func TestPersonal_BuildsAndCaches(t *testing.T) {
	f := newFixture(t)
	f.seedCheckIn(t, "user001", 20, 2, 2, model.WorkloadHeavy)
	f.seedCheckIn(t, "user001", 3, 3, 3, model.WorkloadAdequate)
	f.seedCheckIn(t, "user001", 1, 5, 4, model.WorkloadLight)

	svc := NewDashboardService(f.deps)
	ctx := context.Background()

	resp, err := svc.Personal(ctx, employee, "user001")
	if err != nil {
		t.Fatalf("Personal: %v", err)
	}
	if !resp.Success {
		t.Fatal("success should be true")
	}
	if resp.WeekSummary.CheckinsCompleted != 2 || resp.WeekSummary.AvgMood != 4.0 {
		t.Fatalf("week=%+v", resp.WeekSummary)
	}
	if resp.WeekSummary.Trend != model.TrendImproving {
		t.Fatalf("week trend=%s, want improving", resp.WeekSummary.Trend)
	}
	if resp.MonthSummary.CheckinsCompleted != 3 {
		t.Fatalf("month=%+v", resp.MonthSummary)
	}
	if len(resp.ChartData) != 3 || resp.ChartData[0].Date != "2026-09-24" {
		t.Fatalf("chart=%+v", resp.ChartData)
	}
	if len(resp.Insights) == 0 {
		t.Fatal("expected at least the improving insight")
	}

	// 命中缓存时不再读取存储
	f.seedCheckIn(t, "user001", 0, 1, 1, model.WorkloadHeavy)
	again, err := svc.Personal(ctx, employee, "user001")
	if err != nil {
		t.Fatalf("Personal again: %v", err)
	}
	if again.WeekSummary.CheckinsCompleted != 2 {
		t.Fatalf("expected cached response, got %+v", again.WeekSummary)
	}
}

func TestPersonal_CacheErrorFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	f.cache.err = stderrors.New("redis down")
	f.seedCheckIn(t, "user001", 1, 4, 4, model.WorkloadLight)

	resp, err := NewDashboardService(f.deps).Personal(context.Background(), employee, "user001")
	if err != nil {
		t.Fatalf("Personal: %v", err)
	}
	if resp.WeekSummary.CheckinsCompleted != 1 {
		t.Fatalf("week=%+v", resp.WeekSummary)
	}
}

func TestPersonal_NoCheckIns(t *testing.T) {
	f := newFixture(t)
	resp, err := NewDashboardService(f.deps).Personal(context.Background(), employee, "user001")
	if err != nil {
		t.Fatalf("Personal: %v", err)
	}
	if resp.WeekSummary.Trend != model.TrendInsufficientData || len(resp.ChartData) != 0 {
		t.Fatalf("unexpected %+v", resp)
	}
}

func TestPersonal_Forbidden(t *testing.T) {
	f := newFixture(t)
	_, err := NewDashboardService(f.deps).Personal(context.Background(), employee, "user002")
	if !stderrors.Is(err, errors.Forbidden) {
		t.Fatalf("got %v, want FORBIDDEN", err)
	}
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := NewDashboardService(f.deps).Admin(context.Background(), employee, dto.AdminDashboardQuery{})
	if !stderrors.Is(err, errors.Forbidden) {
		t.Fatalf("got %v, want FORBIDDEN", err)
	}
}

func TestAdmin_DepartmentScope(t *testing.T) {
	f := newFixture(t)
	f.seedCheckIn(t, "user002", 2, 2, 3, model.WorkloadHeavy)
	f.seedCheckIn(t, "user002", 1, 1, 2, model.WorkloadAdequate)
	f.seedCheckIn(t, "user001", 1, 5, 5, model.WorkloadLight)

	resp, err := NewDashboardService(f.deps).Admin(context.Background(), admin, dto.AdminDashboardQuery{Department: "Engineering"})
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}

	if resp.OverallWellbeing != 1.5 || resp.Trends.CheckinsCompleted != 2 {
		t.Fatalf("overall=%v trends=%+v", resp.OverallWellbeing, resp.Trends)
	}
	// Engineering 有两名员工，只有一人打卡
	if resp.ParticipationRate != 50 {
		t.Fatalf("participation=%v, want 50", resp.ParticipationRate)
	}
	if resp.WorkloadDistribution.Heavy != 50 || resp.WorkloadDistribution.Adequate != 50 {
		t.Fatalf("distribution=%+v", resp.WorkloadDistribution)
	}

	if len(resp.Alerts) != 2 {
		t.Fatalf("alerts=%+v, want low mood and declining", resp.Alerts)
	}
	if resp.Alerts[0].Severity != model.SeverityHigh || resp.Alerts[0].Reason != "Well-being below ideal (average 1.5)" {
		t.Fatalf("first alert=%+v", resp.Alerts[0])
	}
	if resp.Alerts[1].Kind != "declining" {
		t.Fatalf("second alert=%+v", resp.Alerts[1])
	}
}

func TestAdmin_AllDepartments(t *testing.T) {
	f := newFixture(t)
	f.seedCheckIn(t, "user001", 1, 4, 4, model.WorkloadLight)
	f.seedCheckIn(t, "user004", 1, 4, 4, model.WorkloadLight)
	f.seedCheckIn(t, "user004", 40, 1, 1, model.WorkloadHeavy)

	svc := NewDashboardService(f.deps)

	for _, dept := range []string{"", "all"} {
		resp, err := svc.Admin(context.Background(), admin, dto.AdminDashboardQuery{Department: dept})
		if err != nil {
			t.Fatalf("Admin(%q): %v", dept, err)
		}
		// 5 个用户中 2 人本周打卡
		if resp.ParticipationRate != 40 {
			t.Fatalf("participation=%v, want 40", resp.ParticipationRate)
		}
		if resp.Trends.CheckinsCompleted != 2 || len(resp.Alerts) != 0 {
			t.Fatalf("trends=%+v alerts=%+v", resp.Trends, resp.Alerts)
		}
	}

	// 无法识别的 period 按年统计
	resp, err := svc.Admin(context.Background(), admin, dto.AdminDashboardQuery{Period: "forever"})
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	if resp.Trends.CheckinsCompleted != 3 {
		t.Fatalf("year trends=%+v", resp.Trends)
	}
}
