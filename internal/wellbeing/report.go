package wellbeing

import (
	"fmt"
	"sort"
	"strconv"

	"MindBalance/internal/model"
)

// ChartPoints 个人仪表盘折线图默认展示的点数
const ChartPoints = 14

// 告警与洞察阈值
const (
	lowMoodAlert      = 2.5
	criticalMoodAlert = 2.0
	consistentWeek    = 5
	lowEnergyInsight  = 3.0
)

// 告警类型，用于 worker 端去重
const (
	AlertKindLowMood   = "low_mood"
	AlertKindDeclining = "declining"
)

// ChartSeries 按 (date, time) 升序排列后取最后 n 条
func ChartSeries(checkins []model.CheckIn, n int) []model.ChartPoint {
	sorted := make([]model.CheckIn, len(checkins))
	copy(sorted, checkins)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time < sorted[j].Time
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}

	points := make([]model.ChartPoint, 0, len(sorted))
	for _, c := range sorted {
		points = append(points, model.ChartPoint{Date: c.Date, Mood: c.Mood, Energy: c.Energy})
	}
	return points
}

// WorkloadDistribution 各负荷档位占比，空集合时全部为 0
func WorkloadDistribution(checkins []model.CheckIn) model.WorkloadDistribution {
	var light, adequate, heavy int
	for _, c := range checkins {
		switch c.Workload {
		case model.WorkloadLight:
			light++
		case model.WorkloadAdequate:
			adequate++
		case model.WorkloadHeavy:
			heavy++
		}
	}

	total := light + adequate + heavy
	if total == 0 {
		return model.WorkloadDistribution{}
	}

	pct := func(v int) float64 { return Round1(float64(v) / float64(total) * 100) }
	return model.WorkloadDistribution{
		Light:    pct(light),
		Adequate: pct(adequate),
		Heavy:    pct(heavy),
	}
}

// ParticipationRate 有打卡的去重用户数 / 范围内用户总数，百分比保留一位小数
func ParticipationRate(checkins []model.CheckIn, totalUsers int) float64 {
	if totalUsers <= 0 {
		return 0
	}

	submitted := make(map[string]struct{})
	for _, c := range checkins {
		submitted[c.UserID] = struct{}{}
	}
	return Round1(float64(len(submitted)) / float64(totalUsers) * 100)
}

// Insights 根据周统计生成个人仪表盘的文字提示
func Insights(week model.WellbeingStats) []string {
	insights := []string{}

	switch week.Trend {
	case model.TrendImproving:
		insights = append(insights, fmt.Sprintf("Your well-being is %.0f%% better than last week! 🎉", week.AvgMood/5*100))
	case model.TrendDeclining:
		insights = append(insights, "We noticed a drop in your well-being. How about some extra self-care this week?")
	}

	if week.CheckinsCompleted >= consistentWeek {
		insights = append(insights, "You have been consistent with your check-ins. Well done! ⭐")
	}

	if week.AvgEnergy < lowEnergyInsight {
		insights = append(insights, "Your energy is below ideal. Consider reviewing sleep, meals and breaks.")
	}

	return insights
}

// TeamAlerts 根据部门周统计生成匿名告警
func TeamAlerts(team string, week model.WellbeingStats) []model.TeamAlert {
	alerts := []model.TeamAlert{}

	if week.AvgMood < lowMoodAlert {
		severity := model.SeverityMedium
		if week.AvgMood < criticalMoodAlert {
			severity = model.SeverityHigh
		}
		alerts = append(alerts, model.TeamAlert{
			Team:     team,
			Kind:     AlertKindLowMood,
			Reason:   "Well-being below ideal (average " + strconv.FormatFloat(week.AvgMood, 'f', -1, 64) + ")",
			Severity: severity,
		})
	}

	if week.Trend == model.TrendDeclining {
		alerts = append(alerts, model.TeamAlert{
			Team:     team,
			Kind:     AlertKindDeclining,
			Reason:   "Declining well-being trend",
			Severity: model.SeverityMedium,
		})
	}

	return alerts
}
