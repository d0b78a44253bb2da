package model

// Trend 心情走势分类
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
	TrendNoData           Trend = "no_data"
)

// WellbeingStats 统计窗口内的身心状态汇总，按请求实时计算，不落库
type WellbeingStats struct {
	Trend             Trend   `json:"trend"`
	AvgMood           float64 `json:"avgMood"`
	AvgEnergy         float64 `json:"avgEnergy"`
	CheckinsCompleted int     `json:"checkinsCompleted"`
}

// ChartPoint 个人仪表盘折线图的一个点
type ChartPoint struct {
	Date   string `json:"date"`
	Mood   int    `json:"mood"`
	Energy int    `json:"energy"`
}

// WorkloadDistribution 各负荷档位占比（百分比，保留一位小数）
type WorkloadDistribution struct {
	Light    float64 `json:"light"`
	Adequate float64 `json:"adequate"`
	Heavy    float64 `json:"heavy"`
}

// Severity 团队告警等级
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// TeamAlert 管理端的团队风险告警，只包含部门维度的匿名信息
type TeamAlert struct {
	Team     string   `json:"team"`
	Reason   string   `json:"reason"`
	Severity Severity `json:"severity"`
	Kind     string   `json:"kind"`
}
