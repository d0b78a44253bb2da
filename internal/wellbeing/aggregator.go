package wellbeing

import (
	"math"
	"time"

	"MindBalance/internal/model"
)

// Window 统计窗口
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// trendThreshold 前后两半平均心情差值超过 0.5 才算有走势
const trendThreshold = 0.5

// Days 窗口天数；未知窗口按一年计算
func (w Window) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 365
	}
}

// ParseWindow 解析查询参数，无法识别时返回 fallback
func ParseWindow(s string, fallback Window) Window {
	switch Window(s) {
	case WindowWeek, WindowMonth, WindowYear:
		return Window(s)
	}
	return fallback
}

// Cutoff 窗口起点：now 往前推 Days 天，日期不早于该时刻的记录保留
func (w Window) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -w.Days())
}

// FilterWindow 保留窗口内的记录，保持输入顺序。日期无法解析的记录视为窗口外。
func FilterWindow(checkins []model.CheckIn, window Window, now time.Time) []model.CheckIn {
	cutoff := window.Cutoff(now)

	out := make([]model.CheckIn, 0, len(checkins))
	for _, c := range checkins {
		day, err := time.ParseInLocation(model.DateLayout, c.Date, now.Location())
		if err != nil {
			continue
		}
		if !day.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// Aggregate 计算窗口内的平均心情、平均精力、打卡次数与走势
func Aggregate(checkins []model.CheckIn, window Window, now time.Time) model.WellbeingStats {
	if len(checkins) == 0 {
		return model.WellbeingStats{Trend: model.TrendInsufficientData}
	}

	recent := FilterWindow(checkins, window, now)
	if len(recent) == 0 {
		return model.WellbeingStats{Trend: model.TrendNoData}
	}

	var moodSum, energySum int
	for _, c := range recent {
		moodSum += c.Mood
		energySum += c.Energy
	}
	n := float64(len(recent))

	return model.WellbeingStats{
		AvgMood:           Round1(float64(moodSum) / n),
		AvgEnergy:         Round1(float64(energySum) / n),
		CheckinsCompleted: len(recent),
		Trend:             trendOf(recent),
	}
}

// trendOf 按下标在 n/2 处切分（不重新排序），比较前后两半的平均心情
func trendOf(recent []model.CheckIn) model.Trend {
	if len(recent) < 2 {
		return model.TrendStable
	}

	mid := len(recent) / 2
	diff := meanMood(recent[mid:]) - meanMood(recent[:mid])

	switch {
	case diff > trendThreshold:
		return model.TrendImproving
	case diff < -trendThreshold:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func meanMood(cs []model.CheckIn) float64 {
	var sum int
	for _, c := range cs {
		sum += c.Mood
	}
	return float64(sum) / float64(len(cs))
}

// Round1 保留一位小数，四舍五入
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
