package wellbeing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"MindBalance/internal/model"
)

//go:embed default_suggestions.json
var defaultSuggestions []byte

// comparator 阈值比较方式，规则表里只有 <= 与 >= 两种
type comparator int

const (
	atMost  comparator = iota // <=
	atLeast                   // >=
)

type threshold struct {
	op    comparator
	value int
}

func (t threshold) allows(v int) bool {
	if t.op == atMost {
		return v <= t.value
	}
	return v >= t.value
}

// compiledRule 加载时预先解析好的规则，扫描阶段不再处理字符串
type compiledRule struct {
	rule            model.SuggestionRule
	mood            *threshold
	energy          *threshold
	workload        model.Workload
	consecutiveDays int
	hasDays         bool
}

// RuleTable 不可变的有序规则表，进程启动时加载一次
type RuleTable struct {
	rules []compiledRule
}

// NewRuleTable 校验并编译规则，顺序保持不变
func NewRuleTable(rules []model.SuggestionRule) (*RuleTable, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.ID, err)
		}
		compiled = append(compiled, cr)
	}
	return &RuleTable{rules: compiled}, nil
}

// LoadRuleTable 从 suggestions.json 读取规则表
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return ParseRuleTable(data)
}

// ParseRuleTable 解析 {"suggestions": [...]} 格式的规则表
func ParseRuleTable(data []byte) (*RuleTable, error) {
	var file model.SuggestionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode rule table: %w", err)
	}
	return NewRuleTable(file.Suggestions)
}

// DefaultRuleTable 返回内置规则表
func DefaultRuleTable() *RuleTable {
	table, err := ParseRuleTable(defaultSuggestions)
	if err != nil {
		panic("invalid embedded rule table: " + err.Error())
	}
	return table
}

// Len 规则数量
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// Rules 返回规则副本，调用方修改不会影响规则表
func (t *RuleTable) Rules() []model.SuggestionRule {
	out := make([]model.SuggestionRule, len(t.rules))
	for i, cr := range t.rules {
		out[i] = cr.rule
	}
	return out
}

func compileRule(r model.SuggestionRule) (compiledRule, error) {
	cr := compiledRule{rule: r}

	if r.Trigger.Mood != "" {
		th, err := parseThreshold(r.Trigger.Mood)
		if err != nil {
			return cr, fmt.Errorf("mood: %w", err)
		}
		cr.mood = &th
	}

	if r.Trigger.Energy != "" {
		th, err := parseThreshold(r.Trigger.Energy)
		if err != nil {
			return cr, fmt.Errorf("energy: %w", err)
		}
		cr.energy = &th
	}

	if r.Trigger.Workload != "" {
		if !r.Trigger.Workload.Valid() {
			return cr, fmt.Errorf("unknown workload %q", r.Trigger.Workload)
		}
		cr.workload = r.Trigger.Workload
	}

	if r.Trigger.ConsecutiveDays != nil {
		if *r.Trigger.ConsecutiveDays < 0 {
			return cr, fmt.Errorf("consecutiveDays must not be negative")
		}
		cr.consecutiveDays = *r.Trigger.ConsecutiveDays
		cr.hasDays = true
	}

	switch r.Priority {
	case model.PriorityHigh, model.PriorityNormal:
	case "":
		cr.rule.Priority = model.PriorityNormal
	default:
		return cr, fmt.Errorf("unknown priority %q", r.Priority)
	}

	return cr, nil
}

// parseThreshold 解析 "<=N" / ">=N"，其他写法视为配置错误
func parseThreshold(cond string) (threshold, error) {
	cond = strings.TrimSpace(cond)

	var th threshold
	switch {
	case strings.HasPrefix(cond, "<="):
		th.op = atMost
	case strings.HasPrefix(cond, ">="):
		th.op = atLeast
	default:
		return th, fmt.Errorf("unsupported condition %q, expected <=N or >=N", cond)
	}

	v, err := strconv.Atoi(strings.TrimSpace(cond[2:]))
	if err != nil {
		return th, fmt.Errorf("invalid threshold in %q: %w", cond, err)
	}
	th.value = v
	return th, nil
}
