package wellbeing

import (
	"sort"

	"MindBalance/internal/model"
)

// streakLookback 连续天数只看最近 7 条历史
const streakLookback = 7

// lowMoodCeiling 心情 <= 2 视为低落
const lowMoodCeiling = 2

const defaultMessage = "Thanks for checking in! Keep taking care of your well-being."

// DefaultSuggestion 没有规则命中时的固定建议
func DefaultSuggestion() model.Suggestion {
	return model.Suggestion{
		Message:              defaultMessage,
		ResourcesRecommended: []int{},
		Actions:              []string{},
	}
}

// Streak 从最近一条往前数、遇到第一条不满足即停止的连续计数
type Streak struct {
	Heavy   int `json:"consecutiveHeavy"`
	LowMood int `json:"consecutiveLowMood"`
}

// Streaks 计算历史记录的连续繁重、连续低落天数。
// history 不要求有序，按日期倒序后只取最近 streakLookback 条。
func Streaks(history []model.CheckIn) Streak {
	recent := mostRecent(history, streakLookback)

	var s Streak
	for _, c := range recent {
		if c.Workload != model.WorkloadHeavy {
			break
		}
		s.Heavy++
	}
	for _, c := range recent {
		if c.Mood > lowMoodCeiling {
			break
		}
		s.LowMood++
	}
	return s
}

// mostRecent 按日期倒序稳定排序，同一天保持输入顺序
func mostRecent(history []model.CheckIn, limit int) []model.CheckIn {
	sorted := make([]model.CheckIn, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Matcher 在规则表上为一次打卡挑选教练建议，无状态，可并发使用
type Matcher struct {
	table *RuleTable
}

func NewMatcher(table *RuleTable) *Matcher {
	return &Matcher{table: table}
}

// Match 顺序扫描规则表：第一条命中的规则作为兜底，第一条命中的高优先级规则直接胜出。
// 结果为 override ?? bestSoFar ?? 默认建议。
func (m *Matcher) Match(current model.CheckIn, history []model.CheckIn) model.Suggestion {
	streak := Streaks(history)

	var bestSoFar, override *compiledRule
	for i := range m.table.rules {
		cr := &m.table.rules[i]
		if !cr.matches(current, streak) {
			continue
		}
		if bestSoFar == nil {
			bestSoFar = cr
		}
		if cr.rule.Priority == model.PriorityHigh {
			override = cr
			break
		}
	}

	switch {
	case override != nil:
		return toSuggestion(override.rule)
	case bestSoFar != nil:
		return toSuggestion(bestSoFar.rule)
	default:
		return DefaultSuggestion()
	}
}

// matches 判断触发条件（逻辑与）是否全部满足
func (cr *compiledRule) matches(c model.CheckIn, streak Streak) bool {
	if cr.mood != nil && !cr.mood.allows(c.Mood) {
		return false
	}
	if cr.energy != nil && !cr.energy.allows(c.Energy) {
		return false
	}
	if cr.workload != "" && cr.workload != c.Workload {
		return false
	}
	if cr.hasDays {
		// 两个子条件相互独立，任何一个适用且不满足都会否决规则
		if c.Workload == model.WorkloadHeavy && streak.Heavy < cr.consecutiveDays {
			return false
		}
		if c.Mood <= lowMoodCeiling && streak.LowMood < cr.consecutiveDays {
			return false
		}
	}
	return true
}

func toSuggestion(r model.SuggestionRule) model.Suggestion {
	s := model.Suggestion{
		RuleID:               r.ID,
		Priority:             r.Priority,
		Message:              r.Message,
		ResourcesRecommended: append([]int{}, r.ResourcesRecommended...),
		Actions:              append([]string{}, r.Actions...),
	}
	return s
}
