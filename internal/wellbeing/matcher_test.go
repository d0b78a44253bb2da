package wellbeing

import (
	"fmt"
	"reflect"
	"testing"

	"MindBalance/internal/model"
)

func intPtr(v int) *int { return &v }

func checkIn(date string, mood, energy int, workload model.Workload) model.CheckIn {
	return model.CheckIn{Date: date, Mood: mood, Energy: energy, Workload: workload}
}

func mustTable(t *testing.T, rules ...model.SuggestionRule) *RuleTable {
	t.Helper()
	table, err := NewRuleTable(rules)
	if err != nil {
		t.Fatalf("NewRuleTable: %v", err)
	}
	return table
}

func TestStreaks_EmptyHistory(t *testing.T) {
	got := Streaks(nil)
	if got.Heavy != 0 || got.LowMood != 0 {
		t.Fatalf("expected zero streaks, got %+v", got)
	}
}

func TestStreaks_StopsAtFirstBreak(t *testing.T) {
	history := []model.CheckIn{
		checkIn("2026-10-05", 1, 3, model.WorkloadHeavy),
		checkIn("2026-10-06", 4, 3, model.WorkloadAdequate),
		checkIn("2026-10-07", 2, 3, model.WorkloadHeavy),
		checkIn("2026-10-08", 2, 3, model.WorkloadHeavy),
	}

	got := Streaks(history)
	if got.Heavy != 2 {
		t.Fatalf("consecutiveHeavy = %d, want 2", got.Heavy)
	}
	if got.LowMood != 2 {
		t.Fatalf("consecutiveLowMood = %d, want 2", got.LowMood)
	}
}

func TestStreaks_OnlyLooksAtSevenMostRecent(t *testing.T) {
	var history []model.CheckIn
	for d := 1; d <= 10; d++ {
		history = append(history, checkIn(fmt.Sprintf("2026-10-%02d", d), 1, 1, model.WorkloadHeavy))
	}

	got := Streaks(history)
	if got.Heavy != 7 || got.LowMood != 7 {
		t.Fatalf("expected streaks capped at 7, got %+v", got)
	}
}

func TestStreaks_UnsortedInput(t *testing.T) {
	history := []model.CheckIn{
		checkIn("2026-10-08", 2, 3, model.WorkloadHeavy),
		checkIn("2026-10-01", 2, 3, model.WorkloadLight),
		checkIn("2026-10-07", 2, 3, model.WorkloadHeavy),
	}

	if got := Streaks(history).Heavy; got != 2 {
		t.Fatalf("consecutiveHeavy = %d, want 2", got)
	}
}

func TestMatch_EmptyTriggerAlwaysMatches(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{ID: "any", Message: "hello", Priority: model.PriorityNormal})

	got := NewMatcher(table).Match(checkIn("2026-10-14", 5, 5, model.WorkloadLight), nil)
	if got.RuleID != "any" {
		t.Fatalf("expected empty trigger to match, got %+v", got)
	}
}

func TestMatch_NoRuleMatchesReturnsDefault(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{
		ID:      "low",
		Trigger: model.Trigger{Mood: "<=1"},
	})

	got := NewMatcher(table).Match(checkIn("2026-10-14", 4, 4, model.WorkloadAdequate), nil)
	if !reflect.DeepEqual(got, DefaultSuggestion()) {
		t.Fatalf("expected default suggestion, got %+v", got)
	}
}

func TestMatch_FirstNormalMatchIsFallback(t *testing.T) {
	table := mustTable(t,
		model.SuggestionRule{ID: "first", Trigger: model.Trigger{Energy: "<=3"}},
		model.SuggestionRule{ID: "second", Trigger: model.Trigger{Mood: ">=1"}},
	)

	got := NewMatcher(table).Match(checkIn("2026-10-14", 3, 2, model.WorkloadAdequate), nil)
	if got.RuleID != "first" {
		t.Fatalf("expected first matching rule, got %q", got.RuleID)
	}
}

func TestMatch_LaterHighPriorityOverridesEarlierNormal(t *testing.T) {
	table := mustTable(t,
		model.SuggestionRule{ID: "normal", Trigger: model.Trigger{Energy: "<=3"}},
		model.SuggestionRule{ID: "unrelated", Trigger: model.Trigger{Workload: model.WorkloadLight}, Priority: model.PriorityHigh},
		model.SuggestionRule{ID: "urgent", Trigger: model.Trigger{Mood: "<=2"}, Priority: model.PriorityHigh},
	)

	got := NewMatcher(table).Match(checkIn("2026-10-14", 2, 2, model.WorkloadAdequate), nil)
	if got.RuleID != "urgent" || got.Priority != model.PriorityHigh {
		t.Fatalf("expected high priority override, got %+v", got)
	}
}

func TestMatch_HighPriorityShortCircuits(t *testing.T) {
	table := mustTable(t,
		model.SuggestionRule{ID: "a", Trigger: model.Trigger{Mood: ">=5"}},
		model.SuggestionRule{ID: "b", Trigger: model.Trigger{Energy: ">=5"}},
		model.SuggestionRule{ID: "third", Priority: model.PriorityHigh},
		model.SuggestionRule{ID: "later-high", Priority: model.PriorityHigh},
	)

	got := NewMatcher(table).Match(checkIn("2026-10-14", 3, 3, model.WorkloadAdequate), nil)
	if got.RuleID != "third" {
		t.Fatalf("expected scan to stop at position 3, got %q", got.RuleID)
	}
}

func TestMatch_ThresholdOperators(t *testing.T) {
	tests := []struct {
		name    string
		trigger model.Trigger
		mood    int
		energy  int
		want    bool
	}{
		{"mood at most boundary", model.Trigger{Mood: "<=2"}, 2, 3, true},
		{"mood at most above", model.Trigger{Mood: "<=2"}, 3, 3, false},
		{"mood at least boundary", model.Trigger{Mood: ">=4"}, 4, 3, true},
		{"mood at least below", model.Trigger{Mood: ">=4"}, 3, 3, false},
		{"energy at most", model.Trigger{Energy: "<= 2"}, 5, 1, true},
		{"energy at least below", model.Trigger{Energy: ">=3"}, 5, 2, false},
		{"conjunction fails on one field", model.Trigger{Mood: ">=4", Energy: ">=4"}, 5, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, model.SuggestionRule{ID: "r", Trigger: tt.trigger})
			got := NewMatcher(table).Match(checkIn("2026-10-14", tt.mood, tt.energy, model.WorkloadAdequate), nil)
			if matched := got.RuleID == "r"; matched != tt.want {
				t.Fatalf("matched = %v, want %v", matched, tt.want)
			}
		})
	}
}

func TestMatch_WorkloadExact(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{ID: "heavy", Trigger: model.Trigger{Workload: model.WorkloadHeavy}})
	m := NewMatcher(table)

	if got := m.Match(checkIn("2026-10-14", 3, 3, model.WorkloadHeavy), nil); got.RuleID != "heavy" {
		t.Fatalf("expected heavy rule, got %+v", got)
	}
	if got := m.Match(checkIn("2026-10-14", 3, 3, model.WorkloadAdequate), nil); got.RuleID != "" {
		t.Fatalf("expected default for adequate workload, got %+v", got)
	}
}

func heavyStreakRule() model.SuggestionRule {
	return model.SuggestionRule{
		ID:       "heavy-streak",
		Trigger:  model.Trigger{Workload: model.WorkloadHeavy, ConsecutiveDays: intPtr(3)},
		Priority: model.PriorityHigh,
		Message:  "slow down",
	}
}

func TestMatch_HeavyStreakSelected(t *testing.T) {
	table := mustTable(t, heavyStreakRule())
	// 当前心情 <= 2 时还要求连续低落天数，历史记录同样低落
	history := []model.CheckIn{
		checkIn("2026-10-11", 2, 2, model.WorkloadHeavy),
		checkIn("2026-10-12", 2, 2, model.WorkloadHeavy),
		checkIn("2026-10-13", 2, 2, model.WorkloadHeavy),
	}

	got := NewMatcher(table).Match(checkIn("2026-10-14", 2, 2, model.WorkloadHeavy), history)
	if got.RuleID != "heavy-streak" {
		t.Fatalf("expected heavy-streak, got %+v", got)
	}
}

func TestMatch_HeavyStreakTooShort(t *testing.T) {
	table := mustTable(t,
		heavyStreakRule(),
		model.SuggestionRule{ID: "next", Trigger: model.Trigger{Energy: "<=2"}},
	)
	history := []model.CheckIn{
		checkIn("2026-10-10", 2, 2, model.WorkloadLight),
		checkIn("2026-10-12", 2, 2, model.WorkloadHeavy),
		checkIn("2026-10-13", 2, 2, model.WorkloadHeavy),
	}

	got := NewMatcher(table).Match(checkIn("2026-10-14", 2, 2, model.WorkloadHeavy), history)
	if got.RuleID != "next" {
		t.Fatalf("expected scan to continue to next rule, got %+v", got)
	}
}

func TestMatch_ConsecutiveDaysRejectsOnLowMoodStreak(t *testing.T) {
	table := mustTable(t, heavyStreakRule())
	// 繁重连续 3 天满足，但当前心情低落且历史心情不低，低落子条件否决规则
	history := []model.CheckIn{
		checkIn("2026-10-11", 4, 3, model.WorkloadHeavy),
		checkIn("2026-10-12", 4, 3, model.WorkloadHeavy),
		checkIn("2026-10-13", 4, 3, model.WorkloadHeavy),
	}

	got := NewMatcher(table).Match(checkIn("2026-10-14", 2, 2, model.WorkloadHeavy), history)
	if got.RuleID != "" {
		t.Fatalf("expected default suggestion, got %+v", got)
	}
}

func TestMatch_ConsecutiveDaysIgnoredWhenNeitherApplies(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{ID: "days", Trigger: model.Trigger{ConsecutiveDays: intPtr(5)}})

	got := NewMatcher(table).Match(checkIn("2026-10-14", 4, 4, model.WorkloadLight), nil)
	if got.RuleID != "days" {
		t.Fatalf("expected rule to match when neither streak applies, got %+v", got)
	}
}

func TestMatch_ReturnsCopies(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{ID: "r", Actions: []string{"breathe"}, ResourcesRecommended: []int{1}})
	m := NewMatcher(table)

	first := m.Match(checkIn("2026-10-14", 3, 3, model.WorkloadLight), nil)
	first.Actions[0] = "mutated"
	first.ResourcesRecommended[0] = 99

	second := m.Match(checkIn("2026-10-14", 3, 3, model.WorkloadLight), nil)
	if second.Actions[0] != "breathe" || second.ResourcesRecommended[0] != 1 {
		t.Fatalf("rule table was mutated through a suggestion: %+v", second)
	}
}

func TestDefaultRuleTable_LowMoodLowEnergy(t *testing.T) {
	got := NewMatcher(DefaultRuleTable()).Match(checkIn("2026-10-14", 1, 1, model.WorkloadAdequate), nil)
	if got.Priority != model.PriorityHigh {
		t.Fatalf("expected a high priority suggestion, got %+v", got)
	}
}
