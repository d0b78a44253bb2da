package wellbeing

import (
	"testing"
	"time"

	"MindBalance/internal/model"
)

var evalTime = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return evalTime.AddDate(0, 0, -n).Format(model.DateLayout)
}

func TestAggregate_EmptyInput(t *testing.T) {
	for _, w := range []Window{WindowWeek, WindowMonth, WindowYear} {
		got := Aggregate(nil, w, evalTime)
		want := model.WellbeingStats{Trend: model.TrendInsufficientData}
		if got != want {
			t.Fatalf("%s: got %+v, want %+v", w, got, want)
		}
	}
}

func TestAggregate_AllOutsideWindow(t *testing.T) {
	checkins := []model.CheckIn{
		checkIn(daysAgo(8), 4, 4, model.WorkloadLight),
		checkIn(daysAgo(20), 2, 2, model.WorkloadHeavy),
	}

	got := Aggregate(checkins, WindowWeek, evalTime)
	want := model.WellbeingStats{Trend: model.TrendNoData}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregate_CutoffBoundaryIsInclusive(t *testing.T) {
	checkins := []model.CheckIn{
		checkIn(daysAgo(7), 3, 3, model.WorkloadLight),
		checkIn(daysAgo(8), 5, 5, model.WorkloadLight),
	}

	got := Aggregate(checkins, WindowWeek, evalTime)
	if got.CheckinsCompleted != 1 || got.AvgMood != 3 {
		t.Fatalf("expected only the boundary entry, got %+v", got)
	}
}

func TestAggregate_Improving(t *testing.T) {
	moods := []int{1, 1, 1, 1, 5, 5, 5, 5}
	var checkins []model.CheckIn
	for i, m := range moods {
		checkins = append(checkins, checkIn(daysAgo(len(moods)-1-i), m, 3, model.WorkloadAdequate))
	}

	got := Aggregate(checkins, WindowMonth, evalTime)
	if got.Trend != model.TrendImproving {
		t.Fatalf("trend = %q, want improving", got.Trend)
	}
	if got.AvgMood != 3 || got.AvgEnergy != 3 || got.CheckinsCompleted != 8 {
		t.Fatalf("unexpected stats %+v", got)
	}
}

func TestAggregate_Trend(t *testing.T) {
	tests := []struct {
		name  string
		moods []int
		want  model.Trend
	}{
		{"single entry is stable", []int{1}, model.TrendStable},
		{"declining", []int{5, 5, 2, 2}, model.TrendDeclining},
		{"small change is stable", []int{3, 3, 3, 4}, model.TrendStable},
		{"odd count splits at n/2", []int{1, 3, 3}, model.TrendImproving},
		{"exactly 0.5 is stable", []int{3, 3, 4, 3}, model.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkins []model.CheckIn
			for _, m := range tt.moods {
				checkins = append(checkins, checkIn(daysAgo(1), m, 3, model.WorkloadAdequate))
			}
			if got := Aggregate(checkins, WindowWeek, evalTime).Trend; got != tt.want {
				t.Fatalf("trend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregate_SplitUsesInputOrder(t *testing.T) {
	// 输入按新到旧排列，切分不重新排序
	checkins := []model.CheckIn{
		checkIn(daysAgo(0), 5, 3, model.WorkloadAdequate),
		checkIn(daysAgo(1), 5, 3, model.WorkloadAdequate),
		checkIn(daysAgo(2), 1, 3, model.WorkloadAdequate),
		checkIn(daysAgo(3), 1, 3, model.WorkloadAdequate),
	}

	if got := Aggregate(checkins, WindowWeek, evalTime).Trend; got != model.TrendDeclining {
		t.Fatalf("trend = %q, want declining", got)
	}
}

func TestAggregate_RoundsAverages(t *testing.T) {
	checkins := []model.CheckIn{
		checkIn(daysAgo(1), 1, 4, model.WorkloadAdequate),
		checkIn(daysAgo(1), 2, 4, model.WorkloadAdequate),
		checkIn(daysAgo(1), 2, 5, model.WorkloadAdequate),
	}

	got := Aggregate(checkins, WindowWeek, evalTime)
	if got.AvgMood != 1.7 || got.AvgEnergy != 4.3 {
		t.Fatalf("unexpected averages %+v", got)
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.449999, 3.4},
		{2.0, 2.0},
		{4.96, 5.0},
		// 恰好在中点时远离零进位
		{2.25, 2.3},
		{9.0 / 4, 2.3},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseWindow(t *testing.T) {
	if got := ParseWindow("month", WindowWeek); got != WindowMonth {
		t.Fatalf("got %q", got)
	}
	if got := ParseWindow("decade", WindowWeek); got != WindowWeek {
		t.Fatalf("got %q", got)
	}
	if got := Window("decade").Days(); got != 365 {
		t.Fatalf("unknown window days = %d, want 365", got)
	}
}

func TestFilterWindow_SkipsUnparsableDates(t *testing.T) {
	checkins := []model.CheckIn{
		{Date: "14/10/2026", Mood: 3},
		checkIn(daysAgo(1), 3, 3, model.WorkloadLight),
	}
	if got := FilterWindow(checkins, WindowWeek, evalTime); len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
}
