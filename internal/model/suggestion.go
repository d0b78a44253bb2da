package model

// Priority 建议规则优先级
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Trigger 规则触发条件，出现的字段之间是逻辑与；空 Trigger 总是匹配。
// Mood / Energy 形如 "<=2"、">=4"。
type Trigger struct {
	ConsecutiveDays *int     `json:"consecutiveDays,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Energy          string   `json:"energy,omitempty"`
	Workload        Workload `json:"workload,omitempty"`
}

// SuggestionRule 规则表中的一条教练建议，规则表顺序有意义
type SuggestionRule struct {
	ID                   string   `json:"id"`
	Priority             Priority `json:"priority"`
	Message              string   `json:"message"`
	Trigger              Trigger  `json:"trigger"`
	ResourcesRecommended []int    `json:"resourcesRecommended"`
	Actions              []string `json:"actions"`
}

// SuggestionFile 是 suggestions.json 的文件结构
type SuggestionFile struct {
	Suggestions []SuggestionRule `json:"suggestions"`
}

// Suggestion 匹配结果；默认建议的 RuleID 与 Priority 为空
type Suggestion struct {
	RuleID               string   `json:"ruleId,omitempty"`
	Priority             Priority `json:"priority,omitempty"`
	Message              string   `json:"message"`
	ResourcesRecommended []int    `json:"resourcesRecommended"`
	Actions              []string `json:"actions"`
}
