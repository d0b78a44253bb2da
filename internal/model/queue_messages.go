package model

// CheckInCreatedMessage 打卡创建事件，由 server 投递，worker 消费后复算团队风险
type CheckInCreatedMessage struct {
	MessageID  string   `json:"message_id"`
	CheckInID  string   `json:"check_in_id"`
	UserID     string   `json:"user_id"`
	Date       string   `json:"date"`
	Workload   Workload `json:"workload"`
	RuleID     string   `json:"rule_id,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	OccurredAt int64    `json:"occurred_at"`
	Mood       int      `json:"mood"`
	Energy     int      `json:"energy"`
}

// TeamScanMessage 定时团队风险扫描任务，由 scheduler 投递
type TeamScanMessage struct {
	MessageID   string   `json:"message_id"`
	Date        string   `json:"date"`
	Departments []string `json:"departments,omitempty"` // 为空表示全部部门
	ScheduledAt int64    `json:"scheduled_at"`
}
