package model

import "time"

// Workload 工作负荷枚举
type Workload string

const (
	WorkloadLight    Workload = "light"    // 轻松
	WorkloadAdequate Workload = "adequate" // 适中
	WorkloadHeavy    Workload = "heavy"    // 繁重
)

// Valid 判断是否为合法的负荷取值
func (w Workload) Valid() bool {
	switch w {
	case WorkloadLight, WorkloadAdequate, WorkloadHeavy:
		return true
	}
	return false
}

// 心情、精力的取值范围
const (
	MinScore = 1
	MaxScore = 5
)

// 日期与时间的存储格式
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// CheckIn 每日状态打卡记录，创建后只追加不修改
type CheckIn struct {
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"-"`
	ID                   string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	UserID               string    `gorm:"type:varchar(64);not null;index:idx_check_ins_user_date" json:"userId"`
	Date                 string    `gorm:"type:varchar(10);not null;index:idx_check_ins_user_date" json:"date"`
	Time                 string    `gorm:"type:varchar(8);not null" json:"time"`
	Workload             Workload  `gorm:"type:varchar(16);not null" json:"workload"`
	Comment              string    `gorm:"type:text" json:"comment"`
	AISuggestion         string    `gorm:"type:text" json:"aiSuggestion"`
	RecommendedResources []int     `gorm:"serializer:json" json:"recommendedResources"`
	SuggestedActions     []string  `gorm:"serializer:json" json:"suggestedActions"`
	Mood                 int       `gorm:"not null" json:"mood"`
	Energy               int       `gorm:"not null" json:"energy"`
}

// TableName 指定表名
func (CheckIn) TableName() string {
	return "check_ins"
}

// ApplySuggestion 在创建时把匹配到的建议合并进打卡记录
func (c *CheckIn) ApplySuggestion(s Suggestion) {
	c.AISuggestion = s.Message
	c.RecommendedResources = append([]int{}, s.ResourcesRecommended...)
	c.SuggestedActions = append([]string{}, s.Actions...)
}
