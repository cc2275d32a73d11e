package mysticday

import "time"

// 神秘日：一天从早上 7 点开始，而不是午夜。
// 7 点前抽到的卡仍然属于前一个日历日，保证用户深夜和清晨看到同一张卡。
//
// 所有函数都是输入时间的纯函数，不读取系统时钟，方便独立测试。

const (
	// ResetHour 神秘日重置时刻（本地时间小时数）
	ResetHour = 7

	// DateLayout 逻辑日期的字符串格式
	DateLayout = "2006-01-02"
)

// Date 返回 t 所属神秘日的日期字符串（YYYY-MM-DD）。
// t 的小时数小于 7 时归属前一个日历日。
func Date(t time.Time) string {
	return dayOf(t).Format(DateLayout)
}

// DayStart 返回 t 所属神秘日的起点：逻辑日当天 07:00:00。
func DayStart(t time.Time) time.Time {
	d := dayOf(t)
	return time.Date(d.Year(), d.Month(), d.Day(), ResetHour, 0, 0, 0, t.Location())
}

// NextDayStart 返回下一个神秘日的起点：逻辑日次日 07:00:00。
func NextDayStart(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}

// UntilReset 返回距离下一次神秘日重置的时长，恒为非负且小于 24 小时。
func UntilReset(t time.Time) time.Duration {
	return NextDayStart(t).Sub(t)
}

// dayOf 返回神秘日对应的日历日（时间部分无意义）
func dayOf(t time.Time) time.Time {
	if t.Hour() < ResetHour {
		return t.AddDate(0, 0, -1)
	}
	return t
}
