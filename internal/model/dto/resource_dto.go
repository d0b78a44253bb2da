package dto

import "MindBalance/internal/model"

// ResourceQuery 资源库过滤参数
type ResourceQuery struct {
	Category   string `query:"category"`
	Difficulty string `query:"difficulty"`
}

type ResourceListResponse struct {
	Resources  []model.Resource `json:"resources"`
	Categories []string         `json:"categories"`
	Success    bool             `json:"success"`
}

type ResourceResponse struct {
	Resource model.Resource `json:"resource"`
	Success  bool           `json:"success"`
}

// HealthResponse 健康检查
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
