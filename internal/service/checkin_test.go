package service

import (
	"context"
	stderrors "errors"
	"testing"

	"MindBalance/internal/model"
	"MindBalance/internal/model/dto"
	"MindBalance/pkg/errors"
)

func TestCreate_AttachesSuggestionAndPublishes(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckInService(f.deps)
	ctx := context.Background()

	got, err := svc.Create(ctx, employee, dto.CreateCheckInRequest{
		Mood: 2, Energy: 2, Workload: model.WorkloadHeavy, Comment: "long week",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.ID != "ck001" || got.UserID != "user001" {
		t.Fatalf("id=%q user=%q", got.ID, got.UserID)
	}
	if got.Date != "2026-10-14" || got.Time != "10:30:00" {
		t.Fatalf("date=%q time=%q", got.Date, got.Time)
	}
	if got.AISuggestion == "" || len(got.SuggestedActions) == 0 {
		t.Fatalf("suggestion not attached: %+v", got)
	}

	stored, err := f.store.CheckIns().ListByUser(ctx, "user001")
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored=%d err=%v", len(stored), err)
	}
	if stored[0].AISuggestion != got.AISuggestion {
		t.Fatalf("stored suggestion %q != returned %q", stored[0].AISuggestion, got.AISuggestion)
	}

	if len(f.publisher.created) != 1 {
		t.Fatalf("published %d events, want 1", len(f.publisher.created))
	}
	msg := f.publisher.created[0]
	if msg.CheckInID != "ck001" || msg.RuleID != "low-mood-low-energy" || msg.Priority != model.PriorityHigh {
		t.Fatalf("unexpected event %+v", msg)
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != "user001" {
		t.Fatalf("invalidated=%v", f.cache.invalidated)
	}
}

func TestCreate_UsesPriorHistoryForStreaks(t *testing.T) {
	f := newFixture(t)
	for d := 3; d >= 1; d-- {
		f.seedCheckIn(t, "user001", d, 3, 3, model.WorkloadHeavy)
	}

	if _, err := NewCheckInService(f.deps).Create(context.Background(), employee, dto.CreateCheckInRequest{
		Mood: 3, Energy: 3, Workload: model.WorkloadHeavy,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := f.publisher.created[0].RuleID; got != "heavy-streak" {
		t.Fatalf("rule=%q, want heavy-streak", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckInService(f.deps)

	cases := []struct {
		name string
		req  dto.CreateCheckInRequest
	}{
		{"mood too low", dto.CreateCheckInRequest{Mood: 0, Energy: 3, Workload: model.WorkloadLight}},
		{"mood too high", dto.CreateCheckInRequest{Mood: 6, Energy: 3, Workload: model.WorkloadLight}},
		{"energy out of range", dto.CreateCheckInRequest{Mood: 3, Energy: 9, Workload: model.WorkloadLight}},
		{"unknown workload", dto.CreateCheckInRequest{Mood: 3, Energy: 3, Workload: "insane"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), employee, tc.req)
			if !stderrors.Is(err, errors.InvalidCheckIn) {
				t.Fatalf("got %v, want INVALID_CHECKIN", err)
			}
		})
	}
	if len(f.publisher.created) != 0 {
		t.Fatalf("invalid check-ins must not publish")
	}
}

func TestCreate_ForOtherUser(t *testing.T) {
	f := newFixture(t)
	svc := NewCheckInService(f.deps)
	req := dto.CreateCheckInRequest{UserID: "user002", Mood: 4, Energy: 4, Workload: model.WorkloadLight}

	if _, err := svc.Create(context.Background(), employee, req); !stderrors.Is(err, errors.Forbidden) {
		t.Fatalf("employee for other user: got %v, want FORBIDDEN", err)
	}

	got, err := svc.Create(context.Background(), admin, req)
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if got.UserID != "user002" {
		t.Fatalf("user=%q, want user002", got.UserID)
	}
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = stderrors.New("broker down")
	f.cache.err = stderrors.New("redis down")

	if _, err := NewCheckInService(f.deps).Create(context.Background(), employee, dto.CreateCheckInRequest{
		Mood: 4, Energy: 4, Workload: model.WorkloadAdequate,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestHistory_WindowAndOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCheckIn(t, "user001", 20, 3, 3, model.WorkloadLight)
	f.seedCheckIn(t, "user001", 2, 4, 4, model.WorkloadLight)
	f.seedCheckIn(t, "user001", 5, 2, 2, model.WorkloadHeavy)
	f.seedCheckIn(t, "user002", 1, 5, 5, model.WorkloadLight)

	svc := NewCheckInService(f.deps)

	week, err := svc.History(context.Background(), employee, "user001", "week")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(week) != 2 || week[0].Date != "2026-10-12" || week[1].Date != "2026-10-09" {
		t.Fatalf("unexpected week history %+v", week)
	}

	// 无法识别的 period 按周处理
	fallback, _ := svc.History(context.Background(), employee, "user001", "decade")
	if len(fallback) != 2 {
		t.Fatalf("fallback len=%d, want 2", len(fallback))
	}

	month, _ := svc.History(context.Background(), employee, "user001", "month")
	if len(month) != 3 {
		t.Fatalf("month len=%d, want 3", len(month))
	}

	if _, err := svc.History(context.Background(), employee, "user002", "week"); !stderrors.Is(err, errors.Forbidden) {
		t.Fatalf("got %v, want FORBIDDEN", err)
	}
}
