package wellbeing

import (
	"os"
	"path/filepath"
	"testing"

	"MindBalance/internal/model"
)

func TestNewRuleTable_RejectsMalformedThresholds(t *testing.T) {
	tests := []struct {
		name    string
		trigger model.Trigger
	}{
		{"strict less than", model.Trigger{Mood: "<2"}},
		{"equality", model.Trigger{Energy: "==3"}},
		{"bare number", model.Trigger{Mood: "3"}},
		{"non integer", model.Trigger{Energy: ">=high"}},
		{"unknown workload", model.Trigger{Workload: "pesada"}},
		{"negative days", model.Trigger{ConsecutiveDays: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRuleTable([]model.SuggestionRule{{ID: "bad", Trigger: tt.trigger}}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestNewRuleTable_RejectsUnknownPriority(t *testing.T) {
	if _, err := NewRuleTable([]model.SuggestionRule{{ID: "bad", Priority: "urgent"}}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestNewRuleTable_DefaultsPriorityToNormal(t *testing.T) {
	table := mustTable(t, model.SuggestionRule{ID: "r"})
	if got := table.Rules()[0].Priority; got != model.PriorityNormal {
		t.Fatalf("priority = %q, want normal", got)
	}
}

func TestLoadRuleTable_KeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	data := `{"suggestions":[
		{"id":"b","trigger":{"mood":"<=2"},"priority":"high","message":"b"},
		{"id":"a","trigger":{},"priority":"normal","message":"a"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadRuleTable(path)
	if err != nil {
		t.Fatalf("LoadRuleTable: %v", err)
	}

	rules := table.Rules()
	if len(rules) != 2 || rules[0].ID != "b" || rules[1].ID != "a" {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestLoadRuleTable_MissingFile(t *testing.T) {
	if _, err := LoadRuleTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDefaultRuleTable_Valid(t *testing.T) {
	if DefaultRuleTable().Len() == 0 {
		t.Fatal("embedded rule table is empty")
	}
}
