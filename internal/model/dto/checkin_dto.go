package dto

import "MindBalance/internal/model"

// CreateCheckInRequest 提交打卡；UserID 为空时使用 token 中的用户
type CreateCheckInRequest struct {
	UserID   string         `json:"userId"`
	Workload model.Workload `json:"workload"`
	Comment  string         `json:"comment"`
	Mood     int            `json:"mood"`
	Energy   int            `json:"energy"`
}

type CreateCheckInResponse struct {
	CheckIn model.CheckIn `json:"checkin"`
	Success bool          `json:"success"`
}

// HistoryQuery 打卡历史查询参数
type HistoryQuery struct {
	Period string `query:"period"`
}

type HistoryResponse struct {
	History []model.CheckIn `json:"history"`
	Total   int             `json:"total"`
	Success bool            `json:"success"`
}
