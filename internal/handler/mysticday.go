package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"MysticTarot/internal/model/dto"
	"MysticTarot/internal/mysticday"
	"MysticTarot/pkg/response"
)

// GetMysticDay 返回当前神秘日信息，07:00 翻转
// GET /v1/mystic-day
func GetMysticDay(ctx context.Context, c *app.RequestContext) {
	now := time.Now()

	response.Success(ctx, c, dto.MysticDayResponse{
		Date:           mysticday.Date(now),
		DayStart:       mysticday.DayStart(now),
		NextReset:      mysticday.NextDayStart(now),
		SecondsToReset: int64(mysticday.UntilReset(now).Seconds()),
	})
}
