package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"MysticTarot/config"
	"MysticTarot/internal/middleware"
	"MysticTarot/internal/model/dto"
	"MysticTarot/internal/service"
	pkgerrors "MysticTarot/pkg/errors"
	"MysticTarot/pkg/response"
)

// GetDailyCard 查询当前神秘日的卡牌状态，未抽卡时不会触发生成
// GET /v1/daily-card
func GetDailyCard(ctx context.Context, c *app.RequestContext) {
	profileID, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	result, err := service.DailyCard().GetStatus(ctx, profileID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// DrawDailyCard 抽取当日卡牌
// POST /v1/daily-card/draw
func DrawDailyCard(ctx context.Context, c *app.RequestContext) {
	profileID, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	// 请求体可以为空，问题和角色都是可选的
	var req dto.DrawRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindAndValidate(&req); err != nil {
			response.BindError(ctx, c, err)
			return
		}
	}

	result, err := service.DailyCard().Draw(ctx, profileID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// MarkRevealSeen 标记翻牌动画已播放
// POST /v1/daily-card/seen
func MarkRevealSeen(ctx context.Context, c *app.RequestContext) {
	profileID, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	if err := service.DailyCard().MarkRevealSeen(ctx, profileID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ForceRefreshDailyCard 丢弃当日卡牌并重抽，仅开发环境可用
// DELETE /v1/daily-card
func ForceRefreshDailyCard(ctx context.Context, c *app.RequestContext) {
	if !config.Cfg.IsDevelopment() {
		response.Error(ctx, c, pkgerrors.RefreshDisabled)
		return
	}

	profileID, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	var req dto.DrawRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindAndValidate(&req); err != nil {
			response.BindError(ctx, c, err)
			return
		}
	}

	result, err := service.DailyCard().ForceRefresh(ctx, profileID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetDailyCardHistory 查询最近的卡牌历史
// GET /v1/daily-card/history
func GetDailyCardHistory(ctx context.Context, c *app.RequestContext) {
	profileID, ok := middleware.GetProfileID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	limit := 30
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	items, err := service.DailyCard().GetHistory(ctx, profileID, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"count": len(items),
	})
}
