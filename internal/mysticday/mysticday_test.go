package mysticday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateBeforeReset(t *testing.T) {
	// 凌晨 2 点仍然属于前一天
	moment := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", Date(moment))
}

func TestDateAfterReset(t *testing.T) {
	moment := time.Date(2024, 1, 2, 7, 1, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", Date(moment))
}

func TestDateAtExactReset(t *testing.T) {
	// 07:00:00 整属于当天
	moment := time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", Date(moment))
}

func TestDateCrossesMonthBoundary(t *testing.T) {
	moment := time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", Date(moment)) // 闰年
}

func TestDateCrossesYearBoundary(t *testing.T) {
	moment := time.Date(2025, 1, 1, 0, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", Date(moment))
}

func TestEarlyHoursMatchPreviousDay(t *testing.T) {
	// 小时在 [0,6] 的任意时刻，与前一天同一时刻同属一个神秘日，
	// 且都不等于自己的日历日
	for hour := 0; hour <= 6; hour++ {
		moment := time.Date(2024, 6, 15, hour, 17, 3, 0, time.UTC)
		prev := moment.AddDate(0, 0, -1)

		assert.Equal(t, prev.Format(DateLayout), Date(moment), "hour=%d", hour)
		assert.NotEqual(t, moment.Format(DateLayout), Date(moment), "hour=%d", hour)
	}
}

func TestLateHoursMatchOwnDay(t *testing.T) {
	for hour := 7; hour <= 23; hour++ {
		moment := time.Date(2024, 6, 15, hour, 17, 3, 0, time.UTC)
		assert.Equal(t, "2024-06-15", Date(moment), "hour=%d", hour)
	}
}

func TestDayStart(t *testing.T) {
	moment := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, want, DayStart(moment))

	moment = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	want = time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, want, DayStart(moment))
}

func TestNextDayStart(t *testing.T) {
	moment := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, want, NextDayStart(moment))
}

func TestUntilResetBounds(t *testing.T) {
	// 一整天内每小时采样，重置倒计时恒在 [0, 24h)
	for hour := 0; hour <= 23; hour++ {
		for _, minute := range []int{0, 29, 59} {
			moment := time.Date(2024, 1, 2, hour, minute, 0, 0, time.UTC)
			d := UntilReset(moment)

			require.GreaterOrEqual(t, d, time.Duration(0), "hour=%d minute=%d", hour, minute)
			require.Less(t, d, 24*time.Hour, "hour=%d minute=%d", hour, minute)
		}
	}
}

func TestUntilResetJustBeforeReset(t *testing.T) {
	moment := time.Date(2024, 1, 2, 6, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, UntilReset(moment))
}
