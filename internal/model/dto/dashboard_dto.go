package dto

import "MindBalance/internal/model"

// PersonalDashboardResponse 个人仪表盘
type PersonalDashboardResponse struct {
	ChartData    []model.ChartPoint   `json:"chartData"`
	Insights     []string             `json:"insights"`
	WeekSummary  model.WellbeingStats `json:"weekSummary"`
	MonthSummary model.WellbeingStats `json:"monthSummary"`
	Success      bool                 `json:"success"`
}

// AdminDashboardQuery 管理端查询参数，department 为空或 all 表示全公司
type AdminDashboardQuery struct {
	Department string `query:"department"`
	Period     string `query:"period"`
}

// AdminDashboardResponse 管理端匿名汇总
type AdminDashboardResponse struct {
	Alerts               []model.TeamAlert          `json:"alerts"`
	Trends               model.WellbeingStats       `json:"trends"`
	WorkloadDistribution model.WorkloadDistribution `json:"workloadDistribution"`
	OverallWellbeing     float64                    `json:"overallWellbeing"`
	ParticipationRate    float64                    `json:"participationRate"`
	Success              bool                       `json:"success"`
}
